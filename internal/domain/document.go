// File: internal/domain/document.go
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Document is one uploaded compliance document. The full sanitized text is
// kept on the row; the chunk table carries the searchable slices.
type Document struct {
	ID               string            `json:"id" gorm:"primaryKey;size:128"`
	UserID           string            `json:"user_id" gorm:"size:128;not null;index"`
	Filename         string            `json:"filename" gorm:"size:500;not null"`
	OriginalFilename string            `json:"original_filename" gorm:"size:500"`
	FileType         string            `json:"file_type" gorm:"size:50"`
	FileSize         int64             `json:"file_size" gorm:"not null;default:0"`
	TextContent      string            `json:"text_content" gorm:"type:text"`
	Metadata         datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`

	// Denormalized copies of metadata.title / metadata.summary /
	// metadata.version, kept in sync so they are indexable.
	Title   string `json:"title" gorm:"size:500"`
	Summary string `json:"summary" gorm:"type:text"`
	Version string `json:"version" gorm:"size:100"`

	// Blob storage location, empty when no binary was stored.
	ContentEncoding string `json:"content_encoding,omitempty" gorm:"size:20"`
	StorageProvider string `json:"storage_provider,omitempty" gorm:"size:50"`
	StorageKey      string `json:"storage_key,omitempty" gorm:"size:1000"`
	StorageURL      string `json:"storage_url,omitempty" gorm:"size:1000"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}

// DocumentChunk is a contiguous slice of a document's sanitized text, the
// unit of full-text indexing. Concatenating a document's chunks in
// chunk_index order reproduces the sanitized text.
type DocumentChunk struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	DocumentID     string    `json:"document_id" gorm:"size:128;not null;index"`
	ChunkIndex     int       `json:"chunk_index" gorm:"not null"`
	ChunkText      string    `json:"chunk_text" gorm:"type:text;not null"`
	WordCount      int       `json:"word_count" gorm:"not null;default:0"`
	CharacterCount int       `json:"character_count" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}

// Chunk is the in-memory result of the chunking engine, before persistence.
type Chunk struct {
	Index          int    `json:"index"`
	Text           string `json:"text"`
	WordCount      int    `json:"word_count"`
	CharacterCount int    `json:"character_count"`
}

// SearchResult is one ranked chunk hit. Text holds a query-highlighted
// snippet, not the full chunk.
type SearchResult struct {
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Filename   string  `json:"filename"`
	Title      string  `json:"title"`
	Rank       float64 `json:"rank"`
}

// DocumentSummary is the document-level context handed to the completion
// prompt alongside search hits.
type DocumentSummary struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	FileType   string `json:"file_type"`
}
