// File: internal/storage/key.go
package storage

import (
	"fmt"
	"path"
	"time"

	"github.com/axiompharma/compliance-copilot/internal/domain"
)

// BuildKey produces the canonical blob key
// {prefix}/{userId}/{documentId}/{timestamp}-{filename}. Every component is
// sanitized so keys stay valid across providers.
func BuildKey(prefix, userID, documentID, filename string, now time.Time) string {
	return path.Join(
		domain.SanitizeID(prefix),
		domain.SanitizeID(userID),
		domain.SanitizeID(documentID),
		fmt.Sprintf("%d-%s", now.UnixMilli(), domain.SanitizeID(filename)),
	)
}
