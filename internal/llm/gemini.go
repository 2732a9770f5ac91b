package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/mendel-gtm/gtm-api/internal/config"
)

const defaultGeminiModel = "gemini-2.5-flash"

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func newGeminiGenerator(cfg *config.Config) (*geminiGenerator, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("gemini: GTM_LLM_API_KEY is required")
	}
	model := cfg.LLM.Model
	if model == "" {
		model = defaultGeminiModel
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.LLM.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: newHTTPClient(),
	}
	if cfg.LLM.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.LLM.BaseURL
	}
	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return text, nil
}
