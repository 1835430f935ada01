// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/axiompharma/compliance-copilot/internal/services"
	"github.com/axiompharma/compliance-copilot/internal/services/apperrors"
)

type OpenAIProvider struct {
	config *Config
	client *openai.Client
	logger services.Logger
}

func NewOpenAIProvider(config *Config, logger services.Logger) (*OpenAIProvider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, apperrors.NewValidationError("config", err.Error())
	}
	if logger == nil {
		logger = &services.NoOpLogger{}
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger,
	}, nil
}

// GetCompletion calls the chat-completion API with retries. Failures map to
// the upstream error class so callers can distinguish a broken completion
// API from a broken store.
func (p *OpenAIProvider) GetCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: p.config.Temperature,
		TopP:        p.config.TopP,
		MaxTokens:   p.config.MaxTokens,
	}

	var lastErr error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Warn("retrying completion", "attempt", attempt+1, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", apperrors.NewUpstreamError("completion", "timed out waiting to retry", ctx.Err())
			case <-time.After(p.config.RetryDelay):
			}
		}

		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return "", apperrors.NewUpstreamError("completion", "completion request timed out", ctx.Err())
			}
			continue
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			lastErr = apperrors.NewUpstreamError("completion", "empty completion response", nil)
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", apperrors.NewUpstreamError("completion", "completion failed after retries", lastErr)
}
