// File: internal/services/chat/context.go
package chat

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/services/ai"
)

const (
	truncatedMarker         = "...[truncated]"
	documentTruncatedMarker = "\n...(document truncated)..."
)

// ContextHelper shapes stored history into a model context window.
type ContextHelper struct {
	config *Config
	logger Logger
}

// NewContextHelper creates a new context helper with configuration
func NewContextHelper(config *Config, logger Logger) *ContextHelper {
	return &ContextHelper{
		config: config,
		logger: logger,
	}
}

// BuildWindow converts chronological history into model messages.
func (ch *ContextHelper) BuildWindow(history []domain.ChatMessage) []ai.Message {
	out := make([]ai.Message, 0, len(history))
	for _, m := range history {
		out = append(out, ai.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// Normalize applies NormalizeMessages with the configured per-message cap.
func (ch *ContextHelper) Normalize(messages []ai.Message) []ai.Message {
	out := NormalizeMessages(messages, ch.config.MaxMessageChars)
	if len(out) != len(messages) {
		ch.logger.Debug("context normalized", "before", len(messages), "after", len(out))
	}
	return out
}

// SessionTitle derives a title from the first message of a new session.
func (ch *ContextHelper) SessionTitle(message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.DefaultSessionTitle
	}
	return TruncateText(message, ch.config.TitleChars) + "..."
}

// DocumentMessage renders the user message that carries uploaded document
// text into a conversation.
func (ch *ContextHelper) DocumentMessage(filename, text string) string {
	body := TruncateText(text, ch.config.DocumentContextChars)
	if ch.DocumentTruncated(text) {
		body += documentTruncatedMarker
	}
	return fmt.Sprintf("I have uploaded a document named '%s'. Use this context for our discussion.\n\nReading Document: %s\n\nContent:\n%s", filename, filename, body)
}

// DocumentTruncated reports whether DocumentMessage would cut text short.
func (ch *ContextHelper) DocumentTruncated(text string) bool {
	return utf8.RuneCountInString(text) > ch.config.DocumentContextChars
}

// NormalizeMessages trims every message and drops the empty ones, caps each
// at maxChars runes with a truncation marker, and merges consecutive messages
// of the same role with a blank line.
func NormalizeMessages(messages []ai.Message, maxChars int) []ai.Message {
	out := make([]ai.Message, 0, len(messages))
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		if maxChars > 0 && utf8.RuneCountInString(content) > maxChars {
			content = TruncateText(content, maxChars) + truncatedMarker
		}
		if n := len(out); n > 0 && out[n-1].Role == m.Role {
			out[n-1].Content += "\n\n" + content
			continue
		}
		out = append(out, ai.Message{Role: m.Role, Content: content})
	}
	return out
}

// TruncateText safely truncates a UTF-8 string to maxLen runes, preserving character integrity
func TruncateText(input string, maxLen int) string {
	if input == "" || maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(input) <= maxLen {
		return input
	}

	var b strings.Builder
	count := 0
	for _, r := range input {
		if count >= maxLen {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}
