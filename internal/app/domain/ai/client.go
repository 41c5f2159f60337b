// Package ai wraps the LLM completion providers behind a single interface.
package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/pkg/config"
)

// Completer is the LLM completion collaborator: it takes a system prompt and
// a user prompt and returns raw completion text. Provider failures propagate
// to the caller as generation errors.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	ModelName() string
}

// NewCompleter builds the provider selected by configuration.
func NewCompleter(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (Completer, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	case "openai":
		return NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
