package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"request-to-standard/internal/models"
)

func validRAG1(id string) *models.RAG1Record {
	return &models.RAG1Record{
		ID:         id,
		ArticuloID: "ART-" + id,
		Tipo:       "General",
		Numero:     1,
		Titulo:     "Título",
		Texto:      strings.Repeat("texto largo del artículo ", 3),
	}
}

func validRAG2(id string) *models.RAG2Record {
	return &models.RAG2Record{
		ID:           id,
		Descripcion:  strings.Repeat("descripción detallada ", 3),
		Tipo:         "Incidente",
		Servicio:     "Correo",
		Categoria:    "Software",
		Subcategoria: "General",
		Fuente:       "csv",
	}
}

func TestScoreConfidenceAtThreshold(t *testing.T) {
	records := make([]models.Record, 0, 10)
	for i := 0; i < 8; i++ {
		records = append(records, validRAG1("ok"))
	}
	for i := 0; i < 2; i++ {
		bad := validRAG1("bad")
		bad.Numero = -1
		records = append(records, bad)
	}

	result := Score(records, models.SchemaRAG1)

	assert.True(t, result.IsValid, "exactly 80 percent valid records must pass")
	assert.InDelta(t, 0.8, result.ConfidenceScore, 1e-9)
	assert.Equal(t, 10, result.TotalRecords)
	assert.Equal(t, 8, result.ValidRecords)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "numero")
}

func TestScoreBelowThreshold(t *testing.T) {
	records := make([]models.Record, 0, 10)
	for i := 0; i < 7; i++ {
		records = append(records, validRAG1("ok"))
	}
	for i := 0; i < 3; i++ {
		bad := validRAG1("bad")
		bad.Numero = 40000
		records = append(records, bad)
	}

	result := Score(records, models.SchemaRAG1)

	assert.False(t, result.IsValid)
	assert.InDelta(t, 0.7, result.ConfidenceScore, 1e-9)
}

func TestScoreEmptyBatch(t *testing.T) {
	result := Score(nil, models.SchemaRAG1)

	assert.False(t, result.IsValid)
	assert.Zero(t, result.ConfidenceScore)
	assert.Equal(t, []string{"no records to validate"}, result.Errors)
	assert.Equal(t, models.IntegrityEmpty, result.Integrity.Status)
}

func TestIntegrityGood(t *testing.T) {
	records := []models.Record{validRAG2("1"), validRAG2("2")}

	result := Score(records, models.SchemaRAG2)

	assert.Equal(t, models.IntegrityGood, result.Integrity.Status)
	assert.InDelta(t, 1.0, result.Integrity.CompletenessRate, 1e-9)
	assert.Equal(t, 2, result.Integrity.CompleteRecords)
	assert.Empty(t, result.Integrity.MissingFields)
	assert.Empty(t, result.Integrity.DescriptionWarnings)
}

func TestIntegrityShortDescriptionWarns(t *testing.T) {
	short := validRAG2("1")
	short.Descripcion = "muy corta"

	result := Score([]models.Record{short, validRAG2("2")}, models.SchemaRAG2)

	// Short descriptions keep the record complete but degrade the status.
	assert.Equal(t, models.IntegrityNeedsReview, result.Integrity.Status)
	assert.InDelta(t, 1.0, result.Integrity.CompletenessRate, 1e-9)
	require.Len(t, result.Integrity.DescriptionWarnings, 1)
	assert.Contains(t, result.Integrity.DescriptionWarnings[0], "very short")
}

func TestIntegrityMissingFieldsCounted(t *testing.T) {
	incomplete := validRAG1("1")
	incomplete.Titulo = ""
	incomplete.Texto = ""

	result := Score([]models.Record{incomplete, validRAG1("2")}, models.SchemaRAG1)

	assert.Equal(t, models.IntegrityNeedsReview, result.Integrity.Status)
	assert.InDelta(t, 0.5, result.Integrity.CompletenessRate, 1e-9)
	assert.Equal(t, 1, result.Integrity.MissingFields["titulo"])
	assert.Equal(t, 1, result.Integrity.MissingFields["texto"])
	require.Len(t, result.Integrity.DescriptionWarnings, 1)
	assert.Contains(t, result.Integrity.DescriptionWarnings[0], "empty")
}

func TestIntegrityZeroNumeroCountsPresent(t *testing.T) {
	rec := validRAG1("1")
	rec.Numero = 0

	result := Score([]models.Record{rec}, models.SchemaRAG1)

	assert.Equal(t, 1, result.Integrity.CompleteRecords)
	assert.NotContains(t, result.Integrity.MissingFields, "numero")
}

func TestQualityScore(t *testing.T) {
	result := models.ValidationResult{
		ConfidenceScore: 1.0,
		Integrity:       models.IntegrityReport{CompletenessRate: 0.5},
	}
	assert.InDelta(t, 0.8, QualityScore(result), 1e-9)

	result = models.ValidationResult{
		ConfidenceScore: 0.857,
		Integrity:       models.IntegrityReport{CompletenessRate: 0.333},
	}
	// 0.6*0.857 + 0.4*0.333 = 0.6474, rounded to 3 decimals.
	assert.InDelta(t, 0.647, QualityScore(result), 1e-9)
}
