package judgments

import (
	"fmt"
	"time"
)

type Config struct {
	URL        string
	Timeout    time.Duration
	CacheTTL   time.Duration
	WindowDays int
	UserAgent  string
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("judgments URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.WindowDays <= 0 {
		return fmt.Errorf("window_days must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		URL:        "https://www.sci.gov.in/",
		Timeout:    30 * time.Second,
		CacheTTL:   10 * time.Minute,
		WindowDays: 7,
		UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	}
}
