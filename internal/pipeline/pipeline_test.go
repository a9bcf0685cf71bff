package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"request-to-standard/internal/models"
)

const sampleCSV = `doc_ref,header,body_content,tags,section
A-1,Primero,"Texto completo del primer artículo, con suficiente longitud.",go;json,1
A-2,Segundo,"Texto completo del segundo artículo, también largo.",llm;rag,2
`

type fixedCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fixedCompleter) Complete(_ context.Context, _, _ string, _ float64) (string, error) {
	f.calls++
	return f.reply, f.err
}

func csvRequest(schema models.Schema) Request {
	content := []byte(sampleCSV)
	return Request{
		Content:      content,
		Filename:     "articles.csv",
		SizeBytes:    int64(len(content)),
		TargetSchema: schema,
	}
}

func TestProcessDirectMapping(t *testing.T) {
	p := New(nil, nil, nil)

	resp, err := p.Process(context.Background(), csvRequest(models.SchemaRAG1))
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, models.SchemaRAG1, resp.SelectedSchema)
	assert.Equal(t, "rag1_standard", resp.Result.Format)
	assert.Equal(t, "articles.csv", resp.FileInfo.Filename)
	assert.Equal(t, 2, resp.FileInfo.RowsCount)
	assert.Equal(t, 5, resp.FileInfo.ColumnsCount)
	require.Len(t, resp.Result.Data, 2)

	first := resp.Result.Data[0].(*models.RAG1Record)
	assert.Equal(t, "A-1", first.ArticuloID)
	assert.Equal(t, "Primero", first.Titulo)
	assert.Equal(t, 1, first.Numero)
	assert.NotEmpty(t, first.ID)

	validation := resp.Result.Metadata.Validation
	assert.True(t, validation.IsValid)
	assert.Equal(t, 2, validation.ValidRecords)
	assert.GreaterOrEqual(t, resp.Result.ConfidenceScore, 0.9)
}

func TestProcessFallsBackWhenLLMFails(t *testing.T) {
	completer := &fixedCompleter{err: errors.New("model unavailable")}
	p := New(completer, nil, nil)

	resp, err := p.Process(context.Background(), csvRequest(models.SchemaRAG1))
	require.NoError(t, err)

	assert.Equal(t, 1, completer.calls, "inference is attempted once, never retried")
	require.Len(t, resp.Result.Data, 2)
	assert.Equal(t, "A-1", resp.Result.Data[0].(*models.RAG1Record).ArticuloID)
}

func TestProcessUsesInferredRules(t *testing.T) {
	completer := &fixedCompleter{reply: `{
  "transformation_rules": {
    "articulo_id": {"source_column": "doc_ref", "transformation": "copy_as_is", "default_value": "ART-0000"},
    "titulo": {"source_column": "header", "transformation": "copy_as_is", "default_value": "Sin título"},
    "texto": {"source_column": "body_content", "transformation": "copy_full_no_summarize", "default_value": ""},
    "keywords": {"source_column": "tags", "transformation": "split_semicolon_join_comma", "default_value": null},
    "numero": {"source_column": "section", "transformation": "to_integer", "default_value": 0}
  }
}`}
	p := New(completer, nil, nil)

	resp, err := p.Process(context.Background(), csvRequest(models.SchemaRAG1))
	require.NoError(t, err)

	require.Len(t, resp.Result.Data, 2)
	first := resp.Result.Data[0].(*models.RAG1Record)
	require.NotNil(t, first.Keywords)
	assert.Equal(t, "go, json", *first.Keywords)
	assert.Equal(t, 1, first.Numero)
}

func TestProcessRAG2(t *testing.T) {
	content := []byte(`description,type,category,service
"El correo corporativo no envía mensajes desde esta mañana.",incidente,software,correo
`)
	p := New(nil, nil, nil)

	resp, err := p.Process(context.Background(), Request{
		Content:      content,
		Filename:     "tickets.csv",
		SizeBytes:    int64(len(content)),
		TargetSchema: models.SchemaRAG2,
	})
	require.NoError(t, err)

	assert.Equal(t, "rag2_standard", resp.Result.Format)
	require.Len(t, resp.Result.Data, 1)
	rec := resp.Result.Data[0].(*models.RAG2Record)
	assert.Equal(t, "incidente", rec.Tipo)
	assert.Equal(t, "software", rec.Categoria)
	assert.Equal(t, "correo", rec.Servicio)
	assert.Equal(t, "csv", rec.Fuente)
	assert.Contains(t, rec.Descripcion, "correo corporativo")
}

func TestProcessStructuralErrors(t *testing.T) {
	p := New(nil, nil, nil)

	_, err := p.Process(context.Background(), Request{
		Content:      []byte("whatever"),
		Filename:     "notes.txt",
		TargetSchema: models.SchemaRAG1,
	})
	require.Error(t, err)
	assert.True(t, IsStructural(err))

	_, err = p.Process(context.Background(), Request{
		Content:      []byte(""),
		Filename:     "empty.csv",
		TargetSchema: models.SchemaRAG1,
	})
	require.Error(t, err)
	assert.True(t, IsStructural(err))
}

func TestProcessDeterministicAcrossRuns(t *testing.T) {
	p := New(nil, nil, nil)

	first, err := p.Process(context.Background(), csvRequest(models.SchemaRAG1))
	require.NoError(t, err)
	second, err := p.Process(context.Background(), csvRequest(models.SchemaRAG1))
	require.NoError(t, err)

	require.Len(t, second.Result.Data, len(first.Result.Data))
	for i := range first.Result.Data {
		a := first.Result.Data[i].(*models.RAG1Record)
		b := second.Result.Data[i].(*models.RAG1Record)
		// Everything but the generated id must be identical.
		assert.Equal(t, a.ArticuloID, b.ArticuloID)
		assert.Equal(t, a.Titulo, b.Titulo)
		assert.Equal(t, a.Texto, b.Texto)
		assert.Equal(t, a.Numero, b.Numero)
		assert.NotEqual(t, a.ID, b.ID)
	}
}
