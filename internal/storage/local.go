// File: internal/storage/local.go
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LocalStore keeps blobs on the local filesystem under a root directory.
// It stands in for object storage in development and single-node deploys.
type LocalStore struct {
	root   string
	prefix string
}

func NewLocalStore(root, prefix string) *LocalStore {
	return &LocalStore{root: root, prefix: prefix}
}

func (s *LocalStore) Put(ctx context.Context, data []byte, contentType, userID, documentID, filename string) (*Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := BuildKey(s.prefix, userID, documentID, filename, time.Now())
	fullPath := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing blob: %w", err)
	}

	sum := sha256.Sum256(data)
	return &Location{
		Provider: "local",
		Key:      key,
		URL:      "file://" + fullPath,
		Size:     int64(len(data)),
		ETag:     hex.EncodeToString(sum[:]),
	}, nil
}

func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.root, filepath.FromSlash(key)))
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
