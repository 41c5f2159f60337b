package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAICompleter implements Completer on top of the OpenAI chat API.
type OpenAICompleter struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAICompleter(apiKey, model string, logger *zap.Logger) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAICompleter{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

func (o *OpenAICompleter) ModelName() string {
	return o.model
}

func (o *OpenAICompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	response, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		o.logger.Error("OpenAI completion failed", zap.Error(err), zap.String("model", o.model))
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices returned")
	}

	text := response.Choices[0].Message.Content
	o.logger.Debug("OpenAI completion succeeded",
		zap.String("model", o.model),
		zap.Int("response_length", len(text)))
	return text, nil
}
