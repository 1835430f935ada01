// File: internal/chunker/chunker.go
package chunker

import (
	"strings"

	"github.com/axiompharma/compliance-copilot/internal/domain"
)

const (
	// MinChunkSize and MaxChunkSize bound the caller-supplied chunk size.
	MinChunkSize     = 200
	MaxChunkSize     = 2000
	DefaultChunkSize = 800

	// MaxChunks is a hard safety cap; chunking stops here even if text
	// remains. Callers must not assume full coverage past the cap.
	MaxChunks = 5000
)

// Sanitize strips NUL characters, which the persistence layer rejects.
func Sanitize(text string) string {
	return strings.ReplaceAll(text, "\x00", "")
}

// ClampChunkSize normalizes a requested chunk size: non-positive values take
// the default, everything else is clamped into [MinChunkSize, MaxChunkSize].
func ClampChunkSize(chunkSize int) int {
	if chunkSize <= 0 {
		return DefaultChunkSize
	}
	if chunkSize < MinChunkSize {
		return MinChunkSize
	}
	if chunkSize > MaxChunkSize {
		return MaxChunkSize
	}
	return chunkSize
}

// Chunk splits sanitized text into consecutive, non-overlapping slices of
// chunkSize characters (runes); the final chunk may be shorter. Pure and
// deterministic: concatenating the chunks in index order reproduces the
// input exactly, up to MaxChunks.
func Chunk(text string, chunkSize int) []domain.Chunk {
	text = Sanitize(text)
	if text == "" {
		return nil
	}
	chunkSize = ClampChunkSize(chunkSize)

	runes := []rune(text)
	chunks := make([]domain.Chunk, 0, (len(runes)+chunkSize-1)/chunkSize)

	for start := 0; start < len(runes); start += chunkSize {
		if len(chunks) >= MaxChunks {
			break
		}
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		slice := runes[start:end]
		chunks = append(chunks, domain.Chunk{
			Index:          len(chunks),
			Text:           string(slice),
			WordCount:      countWords(string(slice)),
			CharacterCount: len(slice),
		})
	}
	return chunks
}

// countWords counts whitespace-delimited tokens, excluding empty ones.
func countWords(s string) int {
	return len(strings.Fields(s))
}
