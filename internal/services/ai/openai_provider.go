// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Complete sends the messages as-is and returns the first choice's content.
// maxTokens <= 0 uses the configured default.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	if len(messages) == 0 {
		return "", NewValidationError("completion", "no messages")
	}
	if maxTokens <= 0 {
		maxTokens = p.config.MaxTokens
	}

	req := openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: p.config.Temperature,
		TopP:        p.config.TopP,
		MaxTokens:   maxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", p.classify("completion", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &AIError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Model:     p.config.Model,
			Message:   "empty completion response",
		}
	}

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck performs a one-token round trip.
func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	_, err := p.Complete(ctx, []Message{{Role: openai.ChatMessageRoleUser, Content: "ping"}}, 1)
	return err
}

func (p *OpenAIProvider) classify(operation string, err error) *AIError {
	aiErr := &AIError{
		Type:      ErrTypeNetwork,
		Operation: operation,
		Model:     p.config.Model,
		Message:   "request failed",
		Cause:     err,
	}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		aiErr.Code = apiErr.HTTPStatusCode
		aiErr.Type = ErrTypeProvider
		aiErr.Message = apiErr.Message
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			aiErr.Type = ErrTypeRateLimit
		}
	case errors.As(err, &reqErr):
		aiErr.Code = reqErr.HTTPStatusCode
		aiErr.Type = ErrTypeProvider
		aiErr.Message = "unexpected provider response"
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			aiErr.Type = ErrTypeRateLimit
		}
	}
	return aiErr
}
