package ai

import (
	"context"
	"time"
)

// Provider is a chat-completion backend. Implementations must honor the
// context deadline and return an error for any unusable completion.
type Provider interface {
	Complete(ctx context.Context, model string, systemPrompt string, prompt string) (string, error)
}

// Config holds everything the remote provider needs. It is built once in
// config.LoadAIConfig and handed to the adapter at construction.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}
