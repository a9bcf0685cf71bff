package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"request-to-standard/internal/models"
)

type stubCompleter struct {
	reply  string
	err    error
	system string
	user   string
}

func (s *stubCompleter) Complete(_ context.Context, system, user string, _ float64) (string, error) {
	s.system = system
	s.user = user
	return s.reply, s.err
}

func sampleDataset() *models.Dataset {
	return &models.Dataset{
		Columns: []string{"header", "body_content"},
		Rows: []models.Row{
			{"header": "Uno", "body_content": "texto"},
		},
	}
}

func sampleMapping() *models.ColumnMapping {
	m := models.NewColumnMapping()
	m.Set("header", "titulo")
	m.Set("body_content", "texto")
	return m
}

const rulesReply = `{
  "transformation_rules": {
    "titulo": {
      "source_column": "header",
      "transformation": "copy_as_is",
      "default_value": "Sin título"
    },
    "texto": {
      "source_column": "body_content",
      "transformation": "copy_full_no_summarize",
      "default_value": ""
    }
  },
  "context_analysis": {
    "data_type": "articles",
    "observations": "none"
  }
}`

func TestInferRulesParsesReply(t *testing.T) {
	completer := &stubCompleter{reply: rulesReply}

	rules, err := InferRules(context.Background(), completer, sampleDataset(), models.SchemaRAG1, sampleMapping())
	require.NoError(t, err)

	require.Len(t, rules, 2)
	assert.Equal(t, "header", rules["titulo"].SourceColumn)
	assert.Equal(t, models.TransformCopyAsIs, rules["titulo"].Transformation)
	assert.Equal(t, "Sin título", rules["titulo"].DefaultValue)
	assert.Equal(t, models.TransformCopyFull, rules["texto"].Transformation)
}

func TestInferRulesPromptContents(t *testing.T) {
	completer := &stubCompleter{reply: rulesReply}

	_, err := InferRules(context.Background(), completer, sampleDataset(), models.SchemaRAG1, sampleMapping())
	require.NoError(t, err)

	assert.Contains(t, completer.system, "RAG1")
	assert.Contains(t, completer.user, `"header": "titulo"`)
	assert.Contains(t, completer.user, `"articulo_id"`)
	assert.Contains(t, completer.user, `"header": "Uno"`)
}

func TestInferRulesStripsFences(t *testing.T) {
	completer := &stubCompleter{reply: "```json\n" + rulesReply + "\n```"}

	rules, err := InferRules(context.Background(), completer, sampleDataset(), models.SchemaRAG1, sampleMapping())
	require.NoError(t, err)
	assert.Len(t, rules, 2)
}

func TestInferRulesStripsThinkTags(t *testing.T) {
	completer := &stubCompleter{reply: "<think>\nlet me reason about the columns\n</think>\n" + rulesReply}

	rules, err := InferRules(context.Background(), completer, sampleDataset(), models.SchemaRAG1, sampleMapping())
	require.NoError(t, err)
	assert.Len(t, rules, 2)
}

func TestInferRulesMalformedReply(t *testing.T) {
	completer := &stubCompleter{reply: "I cannot produce JSON today"}

	_, err := InferRules(context.Background(), completer, sampleDataset(), models.SchemaRAG1, sampleMapping())
	assert.Error(t, err)
}

func TestInferRulesTransportError(t *testing.T) {
	completer := &stubCompleter{err: errors.New("connection refused")}

	_, err := InferRules(context.Background(), completer, sampleDataset(), models.SchemaRAG1, sampleMapping())
	assert.ErrorContains(t, err, "connection refused")
}
