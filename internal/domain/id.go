// File: internal/domain/id.go
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates an opaque identifier for documents and conversations
// created without a client-supplied id.
func NewID() string {
	return uuid.NewString()
}

// SanitizeID reduces an external identifier to [A-Za-z0-9._-], replacing
// every other character with '_'. The same sanitizer is applied to every id
// that becomes a storage key component, so equal inputs always collide onto
// the same key.
func SanitizeID(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= 'A' && r <= 'Z',
			r >= 'a' && r <= 'z',
			r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
