package mapping

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"request-to-standard/internal/models"
)

func datasetWith(columns []string, rows ...models.Row) *models.Dataset {
	return &models.Dataset{Columns: columns, Rows: rows}
}

func TestMapRAG1Keywords(t *testing.T) {
	dataset := datasetWith(
		[]string{"doc_ref", "header", "body_content", "tags", "section"},
		models.Row{"doc_ref": "A-1", "header": "Intro", "body_content": "text", "tags": "a;b", "section": "1"},
	)

	mapping := Map(dataset, models.SchemaRAG1)

	expected := map[string]string{
		"doc_ref":      "articulo_id",
		"header":       "titulo",
		"body_content": "texto",
		"tags":         "keywords",
		"section":      "numero",
	}
	require.Equal(t, len(expected), mapping.Len())
	for col, field := range expected {
		got, ok := mapping.TargetOf(col)
		require.True(t, ok, "column %s should be mapped", col)
		assert.Equal(t, field, got, "column %s", col)
	}
}

func TestMapRAG2CategoryGoesToCategoria(t *testing.T) {
	dataset := datasetWith(
		[]string{"category", "type", "ticket_text", "service", "source"},
		models.Row{"category": "HW", "type": "incident", "ticket_text": "broken", "service": "mail", "source": "web"},
	)

	mapping := Map(dataset, models.SchemaRAG2)

	got, ok := mapping.TargetOf("category")
	require.True(t, ok)
	assert.Equal(t, "categoria", got)

	got, ok = mapping.TargetOf("type")
	require.True(t, ok)
	assert.Equal(t, "tipo", got)

	got, ok = mapping.TargetOf("ticket_text")
	require.True(t, ok)
	assert.Equal(t, "descripcion", got)

	got, ok = mapping.TargetOf("service")
	require.True(t, ok)
	assert.Equal(t, "servicio", got)

	got, ok = mapping.TargetOf("source")
	require.True(t, ok)
	assert.Equal(t, "fuente", got)
}

func TestMapFirstRuleWins(t *testing.T) {
	// "articulo_descripcion" matches both the identifier and the body-text
	// keywords; the identifier rule comes first.
	dataset := datasetWith(
		[]string{"articulo_descripcion"},
		models.Row{"articulo_descripcion": "x"},
	)

	mapping := Map(dataset, models.SchemaRAG1)

	got, ok := mapping.TargetOf("articulo_descripcion")
	require.True(t, ok)
	assert.Equal(t, "articulo_id", got)
}

func TestMapLongTextHeuristic(t *testing.T) {
	long := strings.Repeat("palabra ", 10) // well above the threshold
	dataset := datasetWith(
		[]string{"notes"},
		models.Row{"notes": long},
		models.Row{"notes": long},
		models.Row{"notes": long},
	)

	mapping := Map(dataset, models.SchemaRAG1)

	got, ok := mapping.TargetOf("notes")
	require.True(t, ok)
	assert.Equal(t, "texto", got)
}

func TestMapLongTextSkippedWhenFieldTaken(t *testing.T) {
	long := strings.Repeat("palabra ", 10)
	dataset := datasetWith(
		[]string{"body_content", "notes"},
		models.Row{"body_content": "short", "notes": long},
	)

	mapping := Map(dataset, models.SchemaRAG1)

	_, ok := mapping.TargetOf("notes")
	assert.False(t, ok, "notes must stay unmapped when texto already has a source")
}

func TestMapShortValuesNotAutoMapped(t *testing.T) {
	dataset := datasetWith(
		[]string{"notes"},
		models.Row{"notes": "short"},
		models.Row{"notes": "values"},
	)

	mapping := Map(dataset, models.SchemaRAG1)

	assert.Equal(t, 0, mapping.Len())
}

func TestMapIsCaseInsensitive(t *testing.T) {
	dataset := datasetWith(
		[]string{"TITLE", "Body_Content"},
		models.Row{"TITLE": "x", "Body_Content": "y"},
	)

	mapping := Map(dataset, models.SchemaRAG1)

	got, ok := mapping.TargetOf("TITLE")
	require.True(t, ok)
	assert.Equal(t, "titulo", got)

	got, ok = mapping.TargetOf("Body_Content")
	require.True(t, ok)
	assert.Equal(t, "texto", got)
}

func TestMeanSampleLengthSkipsMissing(t *testing.T) {
	dataset := datasetWith(
		[]string{"col"},
		models.Row{"col": nil},
		models.Row{"col": "nan"},
		models.Row{"col": "abcd"},
	)

	assert.InDelta(t, 4.0, meanSampleLength(dataset, "col"), 1e-9)
	assert.Zero(t, meanSampleLength(dataset, "missing"))
}
