package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"request-to-standard/internal/cleaning"
	"request-to-standard/internal/embedding"
	"request-to-standard/internal/llm"
	"request-to-standard/internal/mapping"
	"request-to-standard/internal/models"
	"request-to-standard/internal/normalize"
	"request-to-standard/internal/reader"
	"request-to-standard/internal/transform"
	"request-to-standard/internal/validate"
)

// ErrPipeline wraps failures that are neither structural input errors nor
// locally recovered; callers surface these as internal errors.
var ErrPipeline = errors.New("pipeline failure")

// Request is one standardization job.
type Request struct {
	Content            []byte
	Filename           string
	SizeBytes          int64
	TargetSchema       models.Schema
	GenerateEmbeddings bool
}

// Pipeline sequences ingest, clean, map, normalize, transform and validate.
// Components are per-request safe: no shared mutable state.
type Pipeline struct {
	completer llm.Completer
	embedder  *embeddings.EmbedderImpl
	applier   *transform.Applier
}

// New builds a pipeline. A nil completer forces the deterministic direct
// mapping path; a nil embedder leaves embeddings null; a nil captioner
// leaves image captions to the rules.
func New(completer llm.Completer, embedder *embeddings.EmbedderImpl, captioner transform.Captioner) *Pipeline {
	return &Pipeline{
		completer: completer,
		embedder:  embedder,
		applier:   &transform.Applier{Captioner: captioner},
	}
}

// Process runs the full standardization flow for one file and assembles the
// caller-facing response. Structural input errors are returned as-is;
// anything else is wrapped in ErrPipeline.
func (p *Pipeline) Process(ctx context.Context, req Request) (*models.StandardizationResponse, error) {
	start := time.Now()
	log.Info().
		Str("filename", req.Filename).
		Int64("size_bytes", req.SizeBytes).
		Str("target_schema", string(req.TargetSchema)).
		Msg("Starting standardization pipeline")

	resp, err := p.process(ctx, req, start)
	if err != nil {
		elapsed := time.Since(start)
		log.Error().Err(err).Dur("elapsed", elapsed).Str("filename", req.Filename).Msg("Pipeline failed")
		if IsStructural(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPipeline, err)
	}

	log.Info().
		Float64("seconds", resp.ProcessingTimeSeconds).
		Str("target_schema", string(req.TargetSchema)).
		Int("records", len(resp.Result.Data)).
		Msg("Pipeline completed")
	return resp, nil
}

func (p *Pipeline) process(ctx context.Context, req Request, start time.Time) (*models.StandardizationResponse, error) {
	// STEP 1: ingest raw data and any embedded images.
	dataset, err := reader.Read(req.Content, req.Filename)
	if err != nil {
		return nil, err
	}
	log.Info().Int("rows", dataset.RowsCount()).Int("columns", dataset.ColumnsCount()).Msg("STEP 1: ingestion complete")
	imagesByRow := reader.ExtractImages(req.Content, req.Filename)
	fileInfo := reader.FileInfo(dataset, req.Filename, req.SizeBytes)

	// STEP 2: clean.
	cleaned := cleaning.Clean(dataset, cleaning.DefaultOptions())
	log.Info().Msg("STEP 2: cleaning complete")

	// STEP 3: identify relevant columns and drop the rest.
	columnMapping := mapping.Map(cleaned, req.TargetSchema)
	filtered := cleaned.Select(columnMapping.Columns())
	log.Info().
		Int("mapped", columnMapping.Len()).
		Int("dropped", cleaned.ColumnsCount()-filtered.ColumnsCount()).
		Msg("STEP 3: column mapping complete")

	// STEP 4: normalize names and types of the mapped columns.
	normalized, columnMapping, err := normalize.Normalize(filtered, columnMapping)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("STEP 4: normalization complete")

	// STEP 5: standardize every row, via LLM rules or direct fallback.
	records := p.standardize(ctx, normalized, columnMapping, req.TargetSchema, imagesByRow)
	log.Info().Int("records", len(records)).Msg("STEP 5: standardization complete")

	if req.GenerateEmbeddings && p.embedder != nil {
		if err := embedding.EmbedRecords(ctx, p.embedder, records); err != nil {
			log.Warn().Err(err).Msg("Embedding generation failed, records keep null embeddings")
		}
	}

	// STEP 6: validate and score.
	validation := validate.Score(records, req.TargetSchema)
	quality := validate.QualityScore(validation)
	log.Info().
		Float64("confidence", validation.ConfidenceScore).
		Float64("quality", quality).
		Msg("STEP 6: validation complete")

	elapsed := math.Round(time.Since(start).Seconds()*100) / 100
	return &models.StandardizationResponse{
		Success:        validation.IsValid,
		Message:        fmt.Sprintf("Data standardized to %s format", req.TargetSchema.Format()),
		SelectedSchema: req.TargetSchema,
		FileInfo:       fileInfo,
		Result: models.ResultPayload{
			Format: req.TargetSchema.Format(),
			Data:   records,
			Metadata: models.ResultMetadata{
				ColumnMapping: columnMapping,
				Validation:    validation,
			},
			ConfidenceScore: quality,
		},
		ProcessingTimeSeconds: elapsed,
	}, nil
}

// standardize asks the LLM for transformation rules over a bounded sample
// and applies them to the whole dataset. Inference failure of any kind
// switches to the deterministic direct mapping, never to a retry.
func (p *Pipeline) standardize(
	ctx context.Context,
	dataset *models.Dataset,
	columnMapping *models.ColumnMapping,
	schema models.Schema,
	imagesByRow map[int][]models.ImageDescriptor,
) []models.Record {
	if p.completer == nil {
		log.Info().Msg("No LLM client configured, using direct mapping")
		return p.applier.ApplyDirect(ctx, dataset, columnMapping, schema, imagesByRow)
	}

	sample := dataset.Head(llm.SampleSize)
	rules, err := llm.InferRules(ctx, p.completer, sample, schema, columnMapping)
	if err != nil {
		log.Warn().Err(err).Msg("Rule inference failed, falling back to direct mapping")
		return p.applier.ApplyDirect(ctx, dataset, columnMapping, schema, imagesByRow)
	}
	return p.applier.ApplyRules(ctx, dataset, rules, columnMapping, schema, imagesByRow)
}

// IsStructural reports whether the error is an input problem the caller can
// fix (bad extension, empty file, nothing left after filtering).
func IsStructural(err error) bool {
	return errors.Is(err, reader.ErrUnsupportedType) ||
		errors.Is(err, reader.ErrEmptyFile) ||
		errors.Is(err, normalize.ErrEmptyDataset)
}
