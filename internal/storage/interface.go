// File: internal/storage/interface.go
package storage

import "context"

// Location describes where a stored blob ended up.
type Location struct {
	Provider string `json:"provider"`
	Key      string `json:"key"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	ETag     string `json:"etag"`
}

// BlobStore stores raw document bytes. Implementations are swappable;
// ingestion treats any Put failure as a degradation, never a hard stop.
type BlobStore interface {
	Put(ctx context.Context, data []byte, contentType, userID, documentID, filename string) (*Location, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
