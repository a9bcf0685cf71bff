package embedding

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"request-to-standard/internal/config"
	"request-to-standard/internal/models"
)

// Descriptive text longer than this is truncated before embedding.
const maxEmbedChars = 4000

func NewEmbedder(llmConfig *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(llm)
}

// EmbedRecords fills the embedding of each record from its descriptive text.
// Records with empty descriptive text are left with a null embedding.
func EmbedRecords(ctx context.Context, embedder *embeddings.EmbedderImpl, records []models.Record) error {
	for _, rec := range records {
		text := rec.DescriptiveText()
		if text == "" {
			continue
		}
		if len(text) > maxEmbedChars {
			text = text[:maxEmbedChars]
		}
		vector, err := embedder.EmbedQuery(ctx, text)
		if err != nil {
			return err
		}
		rec.SetEmbedding(vector)
	}
	log.Debug().Int("records", len(records)).Msg("Generated record embeddings")
	return nil
}
