// File: internal/repository/document/interface.go
package document

import (
	"context"

	"github.com/axiompharma/compliance-copilot/internal/domain"
)

// DocumentRepository handles document row persistence.
type DocumentRepository interface {
	// Upsert inserts the document or, when the id already exists, overwrites
	// it with COALESCE precedence for storage-derived columns (new value
	// wins unless empty) and wholesale replacement of metadata.
	Upsert(ctx context.Context, doc *domain.Document) error
	FindByIDAndUser(ctx context.Context, id, userID string) (*domain.Document, error)
	FindByIDsAndUser(ctx context.Context, userID string, ids []string) ([]domain.Document, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Document, int64, error)
	Delete(ctx context.Context, id, userID string) error
	// UpdateMetadata persists the metadata blob together with the
	// denormalized title/summary/version columns.
	UpdateMetadata(ctx context.Context, doc *domain.Document) error
	// AllowedFileTypes returns the bounded file-type enumeration.
	AllowedFileTypes(ctx context.Context) ([]string, error)
}
