// File: internal/repository/chunk/interface.go
package chunk

import (
	"context"

	"github.com/axiompharma/compliance-copilot/internal/domain"
)

// ChunkRepository handles chunk persistence and the two search primitives
// the retrieval service builds on.
type ChunkRepository interface {
	Create(ctx context.Context, c *domain.DocumentChunk) error
	DeleteByDocumentID(ctx context.Context, documentID string) error
	CountByDocumentID(ctx context.Context, documentID string) (int64, error)
	// SearchFullText ranks chunks by language-aware full-text relevance,
	// scoped to the owner and an optional document id list. Results carry a
	// query-highlighted snippet and are ordered rank DESC, created_at DESC.
	SearchFullText(ctx context.Context, userID, query string, documentIDs []string, limit int) ([]domain.SearchResult, error)
	// SearchSubstring is the case-insensitive fallback primitive. Results
	// carry the full chunk text and are ordered created_at DESC.
	SearchSubstring(ctx context.Context, userID, term string, documentIDs []string, limit int) ([]domain.SearchResult, error)
}
