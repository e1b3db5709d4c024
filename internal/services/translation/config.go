package translation

import "fmt"

type Config struct {
	ChunkSize int // Characters per model call
	MaxTokens int // Reply budget per chunk
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		ChunkSize: 6000,
		MaxTokens: 4096,
	}
}
