// File: internal/services/document/filetype.go
package document

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
)

// canonicalTypes maps extension and MIME-type synonyms to the canonical
// file-type category.
var canonicalTypes = map[string]string{
	"pdf":             "pdf",
	"application/pdf": "pdf",

	"docx": "docx",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"doc":                "doc",
	"application/msword": "doc",

	"csv":      "csv",
	"text/csv": "csv",

	"txt":        "text",
	"text":       "text",
	"text/plain": "text",

	"md":            "markdown",
	"markdown":      "markdown",
	"text/markdown": "markdown",

	"json":             "json",
	"application/json": "json",

	"html":      "html",
	"htm":       "html",
	"text/html": "html",

	"xml":             "xml",
	"application/xml": "xml",
	"text/xml":        "xml",

	"xlsx": "xlsx",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "xlsx",
	"pptx": "pptx",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "pptx",
}

// typeCache memoizes the relational store's allowed file-type set for the
// process lifetime. Reset exists for tests.
type typeCache struct {
	mu      sync.Mutex
	loaded  bool
	allowed map[string]bool
}

func (c *typeCache) get(ctx context.Context, fetch func(context.Context) ([]string, error)) (map[string]bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.allowed, nil
	}
	types, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	c.allowed = allowed
	c.loaded = true
	return allowed, nil
}

func (c *typeCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.allowed = nil
}

// normalizeFileType maps a raw mime/extension hint (falling back to the
// filename's extension) onto the canonical category, constrained by the
// allowed set. Unknown types degrade to "other", then "text".
func normalizeFileType(hint, filename string, allowed map[string]bool) string {
	key := strings.ToLower(strings.TrimSpace(hint))
	key = strings.TrimPrefix(key, ".")
	// MIME parameters like "; charset=utf-8" are not part of the key.
	if i := strings.IndexByte(key, ';'); i >= 0 {
		key = strings.TrimSpace(key[:i])
	}

	category, ok := canonicalTypes[key]
	if !ok {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
		category, ok = canonicalTypes[ext]
	}
	if !ok {
		category = "other"
	}

	if len(allowed) == 0 || allowed[category] {
		return category
	}
	for _, fallback := range []string{"other", "unknown", "text"} {
		if allowed[fallback] {
			return fallback
		}
	}
	return category
}
