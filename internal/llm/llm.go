// Package llm adapts generation providers to a single Generator interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mendel-gtm/gtm-api/internal/config"
)

// requestTimeout bounds a single provider call. Generation can be slow for
// long research briefs.
const requestTimeout = 120 * time.Second

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("empty response from provider")

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// New creates a Generator based on the config. Returns nil when the provider
// is unset, meaning generation is disabled and only prompts can be built.
func New(cfg *config.Config) (Generator, error) {
	switch cfg.LLM.Provider {
	case "", "none":
		return nil, nil
	case "anthropic":
		return newAnthropicGenerator(cfg), nil
	case "gemini", "google":
		return newGeminiGenerator(cfg)
	case "openai", "openai-compatible":
		return newOpenAIGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.LLM.Provider)
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}
