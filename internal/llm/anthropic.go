package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mendel-gtm/gtm-api/internal/config"
)

const defaultAnthropicModel = "claude-sonnet-4-20250514"

type anthropicGenerator struct {
	client anthropic.Client
	model  string
}

func newAnthropicGenerator(cfg *config.Config) *anthropicGenerator {
	model := cfg.LLM.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.LLM.APIKey),
		option.WithHTTPClient(newHTTPClient()),
	}
	if cfg.LLM.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.LLM.BaseURL))
	}
	return &anthropicGenerator{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (a *anthropicGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}
	return b.String(), nil
}
