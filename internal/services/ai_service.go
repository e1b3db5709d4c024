// File: internal/services/ai_service.go
package services

import (
	"context"
	"time"

	"github.com/iyunix/go-legalist/internal/services/ai"
	"github.com/iyunix/go-legalist/internal/services/chat"
)

// AIService is the chat-facing model client. It prepares the context window
// and turns every provider failure into the fallback reply.
type AIService struct {
	provider        ai.CompletionProvider
	maxMessageChars int
	logger          Logger
	now             func() time.Time
}

func NewAIService(provider ai.CompletionProvider, maxMessageChars int, logger Logger) *AIService {
	return &AIService{
		provider:        provider,
		maxMessageChars: maxMessageChars,
		logger:          logger,
		now:             time.Now,
	}
}

// GetChatResponse injects the system prompt when absent, normalizes the
// window and asks the provider. It never returns an error.
func (s *AIService) GetChatResponse(ctx context.Context, messages []ai.Message, maxTokens int) string {
	window := chat.NormalizeMessages(chat.EnsureSystemPrompt(messages, s.now()), s.maxMessageChars)

	reply, err := s.provider.Complete(ctx, window, maxTokens)
	if err != nil {
		s.logger.Error("chat completion failed, returning fallback",
			"error", err,
			"messages", len(window))
		return chat.FallbackReply
	}
	return reply
}

// DraftDocument asks for a complete legal document on topic.
func (s *AIService) DraftDocument(ctx context.Context, topic, details string) string {
	return s.GetChatResponse(ctx, []ai.Message{{Role: "user", Content: chat.DraftPrompt(topic, details)}}, 2048)
}
