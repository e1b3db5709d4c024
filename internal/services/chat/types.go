// File: internal/services/chat/types.go
package chat

import (
	"context"

	"github.com/iyunix/go-legalist/internal/services/ai"
)

// Logger defines the logging interface used across chat services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Responder produces an assistant reply for a context window. It never
// fails; an unavailable model yields a fixed fallback reply.
type Responder interface {
	GetChatResponse(ctx context.Context, messages []ai.Message, maxTokens int) string
}
