// File: internal/dtos/document.go
package dtos

import (
	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/storage"
)

// UploadDocumentRequest is the ingestion payload. Text is required;
// Content optionally carries the base64-encoded binary. The alternate
// mime fields mirror what different clients historically send.
type UploadDocumentRequest struct {
	DocumentID string `json:"documentId,omitempty"`
	Filename   string `json:"filename"`
	Text       string `json:"text,omitempty"`
	Content    string `json:"content,omitempty"`  // base64-encoded binary
	Encoding   string `json:"encoding,omitempty"` // "base64" when Content is set

	// First present wins: mimeType, type, fileType, contentType.
	MimeType    string `json:"mimeType,omitempty"`
	Type        string `json:"type,omitempty"`
	FileType    string `json:"fileType,omitempty"`
	ContentType string `json:"contentType,omitempty"`

	Size     *int64         `json:"size,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`

	Title       string `json:"title,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"` // synonym for summary
	Version     string `json:"version,omitempty"`

	ChunkSize int `json:"chunkSize,omitempty"`
}

// ResolveMimeType returns the first present mime-ish field.
func (r *UploadDocumentRequest) ResolveMimeType() string {
	for _, v := range []string{r.MimeType, r.Type, r.FileType, r.ContentType} {
		if v != "" {
			return v
		}
	}
	return ""
}

// ResolveSummary prefers summary over its description synonym.
func (r *UploadDocumentRequest) ResolveSummary() string {
	if r.Summary != "" {
		return r.Summary
	}
	return r.Description
}

type UploadDocumentResponse struct {
	Document        *domain.Document  `json:"document"`
	ChunkCount      int               `json:"chunkCount"`
	StorageLocation *storage.Location `json:"storageLocation,omitempty"`
}

// PatchMetadataRequest applies partial updates and clears to a document's
// metadata. A request with neither is a no-op.
type PatchMetadataRequest struct {
	Updates     map[string]any `json:"updates,omitempty"`
	ClearFields []string       `json:"clearFields,omitempty"`
}

type ListDocumentsResponse struct {
	Documents []domain.Document `json:"documents"`
	Total     int64             `json:"total"`
}
