package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiCompleter implements Completer on top of the Gemini API.
type GeminiCompleter struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiCompleter(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiCompleter{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (g *GeminiCompleter) ModelName() string {
	return g.model
}

func (g *GeminiCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	response, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(userPrompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			Temperature:       genai.Ptr(float32(0.7)),
		},
	)
	if err != nil {
		g.logger.Error("Gemini completion failed", zap.Error(err), zap.String("model", g.model))
		return "", fmt.Errorf("gemini completion: %w", err)
	}

	text := response.Text()
	if text == "" {
		return "", fmt.Errorf("gemini completion: empty response")
	}

	g.logger.Debug("Gemini completion succeeded",
		zap.String("model", g.model),
		zap.Int("response_length", len(text)))
	return text, nil
}
