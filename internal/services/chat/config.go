// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"time"
)

type Config struct {
	HistoryLimit         int // Messages loaded into the context window
	MaxMessageChars      int // Per-message cap before the truncation marker
	DocumentContextChars int // Extracted text injected by a chat upload
	TitleChars           int // Prefix of the first message used as a session title

	MaxTokens int           // Reply budget
	Timeout   time.Duration // Per-reply deadline
}

func (c *Config) Validate() error {
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive")
	}
	if c.MaxMessageChars <= 0 {
		return fmt.Errorf("max_message_chars must be positive")
	}
	if c.DocumentContextChars <= 0 {
		return fmt.Errorf("document_context_chars must be positive")
	}
	if c.TitleChars <= 0 {
		return fmt.Errorf("title_chars must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		HistoryLimit:         20,
		MaxMessageChars:      12000,
		DocumentContextChars: 10000,
		TitleChars:           30,
		MaxTokens:            1024,
		Timeout:              5 * time.Minute,
	}
}
