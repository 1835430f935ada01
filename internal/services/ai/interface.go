// File: internal/services/ai/interface.go
package ai

import "context"

// CompletionProvider generates chat answers from an assembled prompt.
type CompletionProvider interface {
	GetCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
