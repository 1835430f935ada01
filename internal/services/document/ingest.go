// File: internal/services/document/ingest.go
package document

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/axiompharma/compliance-copilot/internal/chunker"
	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/dtos"
	"github.com/axiompharma/compliance-copilot/internal/services/apperrors"
	"github.com/axiompharma/compliance-copilot/internal/storage"
)

// Ingest validates and persists an uploaded document: document row first,
// then chunks in batches, with a compensating document delete when chunk
// persistence fails partway. Blob-store failures degrade to a metadata note
// instead of aborting, so text search keeps working without the binary.
func (s *Service) Ingest(ctx context.Context, userID string, req *dtos.UploadDocumentRequest) (*dtos.UploadDocumentResponse, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("ingest", "user id is required")
	}
	if req == nil || strings.TrimSpace(req.Filename) == "" {
		return nil, apperrors.NewValidationError("ingest", "filename is required")
	}

	text := chunker.Sanitize(req.Text)
	if text == "" {
		return nil, apperrors.NewValidationError("ingest", "document text is required")
	}

	// Admission control: every ceiling is checked before any store I/O.
	if req.Size != nil && *req.Size > s.config.MaxFileSizeBytes {
		return nil, apperrors.NewPayloadTooLargeError("ingest",
			fmt.Sprintf("file size %d exceeds limit %d", *req.Size, s.config.MaxFileSizeBytes))
	}
	if int64(len(text)) > s.config.MaxTextSizeBytes {
		return nil, apperrors.NewPayloadTooLargeError("ingest",
			fmt.Sprintf("text length %d exceeds limit %d", len(text), s.config.MaxTextSizeBytes))
	}
	chunkSize := req.ChunkSize
	if chunkSize <= 0 {
		chunkSize = s.config.DefaultChunkSize
	}
	chunkSize = chunker.ClampChunkSize(chunkSize)
	if runeLen := utf8.RuneCountInString(text); runeLen > chunkSize*chunker.MaxChunks {
		return nil, apperrors.NewPayloadTooLargeError("ingest",
			fmt.Sprintf("text of %d characters cannot fit %d chunks of %d", runeLen, chunker.MaxChunks, chunkSize))
	}

	documentID := domain.SanitizeID(req.DocumentID)
	if documentID == "" {
		documentID = domain.NewID()
	}

	fileType := s.resolveFileType(ctx, req, userID)

	metadata := copyMetadata(req.Metadata)
	title := resolveTitle(req.Title, metadata, req.Filename)
	summary := resolveSummary(req.ResolveSummary(), metadata)
	version := resolveVersion(req.Version, metadata)
	backfillAliases(metadata, title, summary, version)

	location, decodedLen, err := s.storeBinary(ctx, req, userID, documentID, metadata)
	if err != nil {
		return nil, err
	}

	// File size preference: explicit, blob-reported, decoded buffer,
	// text length. Never zero for non-empty text.
	var fileSize int64
	switch {
	case req.Size != nil && *req.Size >= 0:
		fileSize = *req.Size
	case location != nil:
		fileSize = location.Size
	case decodedLen > 0:
		fileSize = int64(decodedLen)
	default:
		fileSize = int64(len(text))
	}

	// Pending marker: a crash between the row write and chunk completion
	// leaves a detectable half-ingested document for cleanup.
	metadata["ingestStatus"] = "pending"

	encoding := req.Encoding
	if encoding == "" && req.Content != "" {
		encoding = "base64"
	}

	doc := &domain.Document{
		ID:               documentID,
		UserID:           userID,
		Filename:         req.Filename,
		OriginalFilename: req.Filename,
		FileType:         fileType,
		FileSize:         fileSize,
		TextContent:      text,
		Metadata:         metadata,
		Title:            title,
		Summary:          summary,
		Version:          version,
		ContentEncoding:  encoding,
	}
	if location != nil {
		doc.StorageProvider = location.Provider
		doc.StorageKey = location.Key
		doc.StorageURL = location.URL
	}

	if err := s.docRepo.Upsert(ctx, doc); err != nil {
		return nil, err
	}

	chunks := chunker.Chunk(text, chunkSize)
	if err := s.persistChunks(ctx, doc, chunks); err != nil {
		return nil, err
	}

	metadata["ingestStatus"] = "complete"
	doc.Metadata = metadata
	if err := s.docRepo.UpdateMetadata(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document ingested",
		"document_id", doc.ID, "user_id", userID,
		"chunks", len(chunks), "file_type", fileType, "file_size", fileSize)

	return &dtos.UploadDocumentResponse{
		Document:        doc,
		ChunkCount:      len(chunks),
		StorageLocation: location,
	}, nil
}

// resolveFileType normalizes the request's mime hint against the allowed
// set. A failed allowed-set fetch degrades to the unconstrained mapping.
func (s *Service) resolveFileType(ctx context.Context, req *dtos.UploadDocumentRequest, userID string) string {
	allowed, err := s.types.get(ctx, s.docRepo.AllowedFileTypes)
	if err != nil {
		s.logger.Warn("could not fetch allowed file types", "user_id", userID, "error", err)
		allowed = nil
	}
	return normalizeFileType(req.ResolveMimeType(), req.Filename, allowed)
}

// storeBinary decodes base64 content under the size threshold and uploads
// it. Oversized content is skipped and upload failures are recorded in
// metadata; neither stops the ingestion.
func (s *Service) storeBinary(ctx context.Context, req *dtos.UploadDocumentRequest, userID, documentID string, metadata map[string]any) (*storage.Location, int, error) {
	if req.Content == "" {
		return nil, 0, nil
	}

	if estimate := int64(base64.StdEncoding.DecodedLen(len(req.Content))); estimate > s.config.MaxBase64Bytes {
		metadata["blobStorageSkipped"] = fmt.Sprintf(
			"binary content of ~%d bytes exceeds the %d byte threshold", estimate, s.config.MaxBase64Bytes)
		s.logger.Warn("binary content skipped",
			"document_id", documentID, "estimated_bytes", estimate)
		return nil, 0, nil
	}

	data, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		return nil, 0, apperrors.NewValidationError("ingest", "content is not valid base64")
	}

	if s.blobStore == nil {
		return nil, len(data), nil
	}

	location, err := s.blobStore.Put(ctx, data, req.ResolveMimeType(), userID, documentID, req.Filename)
	if err != nil {
		// Degrade gracefully: the text-only record must still be written.
		metadata["blobStorageError"] = err.Error()
		s.logger.Error("blob upload failed, continuing without binary",
			"document_id", documentID, "error", err)
		return nil, len(data), nil
	}
	return location, len(data), nil
}

// persistChunks replaces the document's chunks: inserts within one batch run
// concurrently, batches run sequentially to bound in-flight requests. On
// failure the document row is deleted as compensation.
func (s *Service) persistChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if err := s.chunkRepo.DeleteByDocumentID(ctx, doc.ID); err != nil {
		return s.compensate(ctx, doc, len(chunks), err)
	}

	batch := s.config.ChunkInsertBatch
	for start := 0; start < len(chunks); start += batch {
		end := start + batch
		if end > len(chunks) {
			end = len(chunks)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, c := range chunks[start:end] {
			c := c
			g.Go(func() error {
				row := domain.DocumentChunk{
					DocumentID:     doc.ID,
					ChunkIndex:     c.Index,
					ChunkText:      c.Text,
					WordCount:      c.WordCount,
					CharacterCount: c.CharacterCount,
				}
				return s.chunkRepo.Create(gctx, &row)
			})
		}
		if err := g.Wait(); err != nil {
			return s.compensate(ctx, doc, len(chunks), err)
		}
	}
	return nil
}

func (s *Service) compensate(ctx context.Context, doc *domain.Document, chunkCount int, cause error) error {
	s.logger.Error("chunk persistence failed, deleting document row",
		"document_id", doc.ID, "chunk_count", chunkCount, "error", cause)

	if err := s.chunkRepo.DeleteByDocumentID(ctx, doc.ID); err != nil {
		s.logger.Error("compensating chunk delete failed", "document_id", doc.ID, "error", err)
	}
	if err := s.docRepo.Delete(ctx, doc.ID, doc.UserID); err != nil {
		s.logger.Error("compensating document delete failed", "document_id", doc.ID, "error", err)
	}
	return apperrors.NewStorageError("ingest_chunks",
		fmt.Sprintf("chunk persistence failed for document %s (%d chunks)", doc.ID, chunkCount),
		cause)
}
