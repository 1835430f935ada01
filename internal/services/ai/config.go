// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	APIKey  string
	BaseURL string // empty means the provider default; Groq-compatible endpoints override it
	Model   string

	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Compliance answers need low creativity.
	Temperature float32
	TopP        float32
	MaxTokens   int
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Model == "" {
		return fmt.Errorf("CHAT_MODEL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:     2 * time.Minute,
		MaxRetries:  3,
		RetryDelay:  2 * time.Second,
		Temperature: 0.1,
		TopP:        0.9,
		MaxTokens:   2000,
	}
}
