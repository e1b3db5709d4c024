// File: internal/services/ai/interface.go
package ai

import "context"

// Message is one turn sent to the model. Role is system, user or assistant.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionProvider handles chat completions.
type CompletionProvider interface {
	Complete(ctx context.Context, messages []Message, maxTokens int) (string, error)
	HealthCheck(ctx context.Context) error
}
