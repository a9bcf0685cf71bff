package transform

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"request-to-standard/internal/helper"
	"request-to-standard/internal/models"
)

// Captioner turns pre-extracted spreadsheet images into a caption. Vision
// analysis is an external concern; without a captioner the image_caption
// field is left to the rules.
type Captioner interface {
	Caption(ctx context.Context, images []models.ImageDescriptor) (string, error)
}

// Applier converts every row of a dataset into target-schema records, using
// LLM-inferred rules when available and deterministic column mapping when
// not. It is total: a dataset of N rows yields N records minus only those
// whose construction fails schema validation.
type Applier struct {
	Captioner Captioner
}

// ApplyRules applies the inferred rule set to every row of the full dataset,
// not just the sample the LLM saw. Fields without a rule fall back to direct
// mapping with the schema's static defaults. A record that fails construction
// is logged with its index and skipped; the batch continues.
func (a *Applier) ApplyRules(
	ctx context.Context,
	dataset *models.Dataset,
	rules models.RuleSet,
	mapping *models.ColumnMapping,
	schema models.Schema,
	imagesByRow map[int][]models.ImageDescriptor,
) []models.Record {
	records := make([]models.Record, 0, len(dataset.Rows))

	for idx, row := range dataset.Rows {
		fields := map[string]any{"id": helper.GenerateUUID()}
		for _, field := range schema.Fields() {
			if rule, ok := rules[field]; ok {
				fields[field] = applyRule(row, rule)
			} else {
				fields[field] = directLookup(row, mapping, field, schema.DefaultValue(field))
			}
		}
		a.captionImages(ctx, fields, schema, imagesByRow[idx])

		rec, err := models.NewRecord(schema, fields)
		if err != nil {
			log.Error().Err(err).Int("row", idx).Msg("Skipping record that failed schema construction")
			continue
		}
		records = append(records, rec)
	}
	return records
}

// ApplyDirect is the no-LLM fallback: pure column mapping for every field,
// with row-index based defaults where the schema defines them.
func (a *Applier) ApplyDirect(
	ctx context.Context,
	dataset *models.Dataset,
	mapping *models.ColumnMapping,
	schema models.Schema,
	imagesByRow map[int][]models.ImageDescriptor,
) []models.Record {
	records := make([]models.Record, 0, len(dataset.Rows))

	for idx, row := range dataset.Rows {
		fields := map[string]any{"id": helper.GenerateUUID()}
		for _, field := range schema.Fields() {
			fields[field] = directLookup(row, mapping, field, schema.IndexDefault(field, idx))
		}
		a.captionImages(ctx, fields, schema, imagesByRow[idx])

		rec, err := models.NewRecord(schema, fields)
		if err != nil {
			log.Error().Err(err).Int("row", idx).Msg("Skipping record that failed schema construction")
			continue
		}
		records = append(records, rec)
	}
	return records
}

func (a *Applier) captionImages(ctx context.Context, fields map[string]any, schema models.Schema, images []models.ImageDescriptor) {
	if a.Captioner == nil || schema != models.SchemaRAG1 || len(images) == 0 {
		return
	}
	if !models.IsMissing(fields["image_caption"]) {
		return
	}
	caption, err := a.Captioner.Caption(ctx, images)
	if err != nil {
		log.Warn().Err(err).Msg("Image captioning failed, leaving image_caption empty")
		return
	}
	if caption != "" {
		fields["image_caption"] = caption
	}
}

// applyRule resolves one field from one row. A missing or empty source value
// short-circuits to the rule's default regardless of transformation kind.
func applyRule(row models.Row, rule models.TransformationRule) any {
	var value any
	if rule.SourceColumn != "" {
		value = row[rule.SourceColumn]
	}
	if models.IsMissing(value) {
		return rule.DefaultValue
	}

	switch rule.Transformation {
	case models.TransformCopyIfExists:
		if s := models.CoerceString(value); s != "" {
			return s
		}
		return nil
	case models.TransformToInteger:
		return toInteger(value, rule.DefaultValue)
	case models.TransformSplitSemicolon:
		return splitAndRejoin(value)
	default:
		// copy_as_is, copy_full_no_summarize and any unknown kind.
		return models.CoerceString(value)
	}
}

func directLookup(row models.Row, mapping *models.ColumnMapping, field string, def any) any {
	source, ok := mapping.SourceFor(field)
	if !ok {
		return def
	}
	value, ok := row[source]
	if !ok || models.IsMissing(value) {
		return def
	}
	return value
}

func toInteger(value, def any) any {
	switch n := value.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
		if def != nil {
			return def
		}
		return 0
	default:
		if def != nil {
			return def
		}
		return 0
	}
}

// splitAndRejoin normalizes "a;b;c" (or "a,b,c") to "a, b, c".
func splitAndRejoin(value any) any {
	s, ok := value.(string)
	if !ok {
		return models.CoerceString(value)
	}
	var sep string
	switch {
	case strings.Contains(s, ";"):
		sep = ";"
	case strings.Contains(s, ","):
		sep = ","
	default:
		return s
	}
	parts := strings.Split(s, sep)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
