// File: internal/storage/key_test.go
package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestBuildKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	key := BuildKey("documents", "user-1", "doc.2", "sop final.txt", now)
	want := "documents/user-1/doc.2/1700000000000-sop_final.txt"
	if key != want {
		t.Errorf("BuildKey = %q, want %q", key, want)
	}
}

func TestBuildKeySanitizesComponents(t *testing.T) {
	key := BuildKey("documents", "user/../evil", "doc:1", "a b.txt", time.UnixMilli(0))
	// Separators are replaced, so ".." can never traverse a directory.
	if strings.Contains(key, ":") || strings.Contains(key, " ") {
		t.Errorf("key %q contains unsanitized characters", key)
	}
	if !strings.HasPrefix(key, "documents/user_.._evil/doc_1/") {
		t.Errorf("unexpected key layout: %q", key)
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "documents")
	ctx := context.Background()

	loc, err := store.Put(ctx, []byte("hello"), "text/plain", "u1", "d1", "sop.txt")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if loc.Provider != "local" || loc.Size != 5 || loc.ETag == "" {
		t.Errorf("unexpected location: %+v", loc)
	}

	data, err := store.Get(ctx, loc.Key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("Get = %q, want %q", data, "hello")
	}

	if err := store.Delete(ctx, loc.Key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, loc.Key); err != nil {
		t.Errorf("Delete twice: %v", err)
	}
}
