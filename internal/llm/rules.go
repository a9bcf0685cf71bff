package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"request-to-standard/internal/models"
)

// SampleSize bounds how many rows the model ever sees. Rules inferred from
// the sample are applied to the entire dataset afterwards.
const SampleSize = 10

const ruleTemperature = 0.1

var (
	thinkTagRe  = regexp.MustCompile(models.ThinkTag)
	jsonFenceRe = regexp.MustCompile(models.JSONFence)
)

type ruleResponse struct {
	TransformationRules map[string]models.TransformationRule `json:"transformation_rules"`
}

// InferRules sends the sample, the target schema and the column mapping to
// the model and parses per-field transformation rules out of the reply.
// A transport failure or unparseable reply returns an error; the caller is
// expected to fall back to direct mapping, not retry.
func InferRules(
	ctx context.Context,
	completer Completer,
	sample *models.Dataset,
	schema models.Schema,
	mapping *models.ColumnMapping,
) (models.RuleSet, error) {
	prompt, err := buildRulePrompt(sample, schema, mapping)
	if err != nil {
		return nil, fmt.Errorf("building rule prompt: %w", err)
	}
	system := fmt.Sprintf(models.RuleSystemPromptTemplate, strings.ToUpper(string(schema)))

	reply, err := completer.Complete(ctx, system, prompt, ruleTemperature)
	if err != nil {
		return nil, fmt.Errorf("rule inference call: %w", err)
	}

	var parsed ruleResponse
	if err := json.Unmarshal([]byte(extractJSON(reply)), &parsed); err != nil {
		return nil, fmt.Errorf("parsing rule response: %w", err)
	}

	rules := models.RuleSet(parsed.TransformationRules)
	log.Info().Int("fields", len(rules)).Msg("Transformation rules obtained from LLM")
	return rules, nil
}

func buildRulePrompt(sample *models.Dataset, schema models.Schema, mapping *models.ColumnMapping) (string, error) {
	schemaInfo, err := json.MarshalIndent(map[string]any{
		"fields":      append([]string{"id"}, schema.Fields()...),
		"description": schema.Description(),
	}, "", "  ")
	if err != nil {
		return "", err
	}
	mappingJSON, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return "", err
	}
	sampleJSON, err := json.MarshalIndent(sample.Rows, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(models.RulePromptTemplate,
		strings.ToUpper(string(schema)),
		schemaInfo,
		mappingJSON,
		sampleJSON,
	), nil
}

// extractJSON strips reasoning tags and markdown fences some models wrap
// around their JSON reply.
func extractJSON(reply string) string {
	cleaned := thinkTagRe.ReplaceAllString(reply, "")
	if m := jsonFenceRe.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[1]
	}
	return strings.TrimSpace(cleaned)
}
