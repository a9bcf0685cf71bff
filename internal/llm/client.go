package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"request-to-standard/internal/config"
)

// Completer is the text-completion surface the pipeline depends on. Any
// client-side failure is a signal to use the deterministic fallback, never a
// fatal pipeline error.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

// Client is the OpenAI-compatible Completer used in production.
type Client struct {
	llm *openai.LLM
}

func NewClient(llmConfig *config.LLMConfig) (*Client, error) {
	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing LLM client: %w", err)
	}
	return &Client{llm: llm}, nil
}

func (c *Client) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextContent{Text: system}},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: user}},
		},
	}

	resp, err := c.llm.GenerateContent(ctx, messages, llms.WithTemperature(temperature))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Content, nil
}
