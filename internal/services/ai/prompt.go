// File: internal/services/ai/prompt.go
package ai

import "fmt"

// SystemPrompt frames every answer. Compliance questions get grounded,
// conservative responses that cite the user's own documents.
const SystemPrompt = `You are a pharmaceutical compliance assistant. Answer strictly from the
provided document context. When the context does not cover the question,
say so instead of guessing. Reference document titles when citing. Keep
answers precise and audit-friendly.`

// BuildUserPrompt embeds the serialized retrieval context ahead of the
// question.
func BuildUserPrompt(contextJSON, question string) string {
	return fmt.Sprintf("Document context:\n%s\n\nQuestion: %s", contextJSON, question)
}
