// File: internal/services/document/config.go
package document

import (
	"fmt"

	"github.com/axiompharma/compliance-copilot/internal/chunker"
)

type Config struct {
	// Admission ceilings, checked before any store I/O
	MaxFileSizeBytes int64
	MaxTextSizeBytes int64
	MaxBase64Bytes   int64

	// Chunk persistence
	ChunkInsertBatch int
	DefaultChunkSize int
}

func (c *Config) Validate() error {
	if c.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("max_file_size_bytes must be positive")
	}
	if c.MaxTextSizeBytes <= 0 {
		return fmt.Errorf("max_text_size_bytes must be positive")
	}
	if c.MaxBase64Bytes <= 0 {
		return fmt.Errorf("max_base64_bytes must be positive")
	}
	if c.ChunkInsertBatch < 1 {
		return fmt.Errorf("chunk_insert_batch must be at least 1")
	}
	if c.DefaultChunkSize < chunker.MinChunkSize || c.DefaultChunkSize > chunker.MaxChunkSize {
		return fmt.Errorf("default_chunk_size must be within [%d, %d]",
			chunker.MinChunkSize, chunker.MaxChunkSize)
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		MaxFileSizeBytes: 10 * 1024 * 1024,
		MaxTextSizeBytes: 5 * 1024 * 1024,
		MaxBase64Bytes:   5 * 1024 * 1024,
		ChunkInsertBatch: 25,
		DefaultChunkSize: chunker.DefaultChunkSize,
	}
}
