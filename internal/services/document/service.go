// File: internal/services/document/service.go
package document

import (
	"context"

	"github.com/axiompharma/compliance-copilot/internal/domain"
	chunkrepo "github.com/axiompharma/compliance-copilot/internal/repository/chunk"
	docrepo "github.com/axiompharma/compliance-copilot/internal/repository/document"
	"github.com/axiompharma/compliance-copilot/internal/services"
	"github.com/axiompharma/compliance-copilot/internal/services/apperrors"
	"github.com/axiompharma/compliance-copilot/internal/storage"
)

// Service owns document ingestion, metadata patching, and document CRUD.
type Service struct {
	config    *Config
	docRepo   docrepo.DocumentRepository
	chunkRepo chunkrepo.ChunkRepository
	blobStore storage.BlobStore
	logger    services.Logger
	types     typeCache
}

// NewService validates dependencies and builds the document service. The
// blob store may be nil; ingestion then skips binary storage entirely.
func NewService(
	config *Config,
	docRepo docrepo.DocumentRepository,
	chunkRepo chunkrepo.ChunkRepository,
	blobStore storage.BlobStore,
	logger services.Logger,
) (*Service, error) {
	if docRepo == nil {
		return nil, apperrors.NewValidationError("constructor", "document repository is required")
	}
	if chunkRepo == nil {
		return nil, apperrors.NewValidationError("constructor", "chunk repository is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, apperrors.NewValidationError("config", err.Error())
	}
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &Service{
		config:    config,
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		blobStore: blobStore,
		logger:    logger,
	}, nil
}

// ResetTypeCache drops the memoized allowed file-type set. Tests use it;
// production code never needs to.
func (s *Service) ResetTypeCache() {
	s.types.reset()
}

func (s *Service) Get(ctx context.Context, documentID, userID string) (*domain.Document, error) {
	if documentID == "" {
		return nil, apperrors.NewValidationError("document_get", "document id is required")
	}
	return s.docRepo.FindByIDAndUser(ctx, documentID, userID)
}

// DocumentStats summarizes a user's document library. Derived by query on
// demand, never maintained incrementally.
type DocumentStats struct {
	Documents int64 `json:"documents"`
	Chunks    int64 `json:"chunks"`
}

// RecomputeUserDocumentStats rescans the user's library. Only the explicit
// recompute endpoint calls it.
func (s *Service) RecomputeUserDocumentStats(ctx context.Context, userID string) (*DocumentStats, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("recompute_document_stats", "user id is required")
	}
	docs, total, err := s.docRepo.ListByUser(ctx, userID, -1, 0)
	if err != nil {
		return nil, err
	}
	stats := &DocumentStats{Documents: total}
	for _, doc := range docs {
		n, err := s.chunkRepo.CountByDocumentID(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		stats.Chunks += n
	}
	return stats, nil
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]domain.Document, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.docRepo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes a document and its chunks. The blob, if any, is removed
// best-effort; a dangling blob is preferable to a half-deleted row.
func (s *Service) Delete(ctx context.Context, documentID, userID string) error {
	doc, err := s.docRepo.FindByIDAndUser(ctx, documentID, userID)
	if err != nil {
		return err
	}
	if err := s.chunkRepo.DeleteByDocumentID(ctx, documentID); err != nil {
		return err
	}
	if err := s.docRepo.Delete(ctx, documentID, userID); err != nil {
		return err
	}
	if s.blobStore != nil && doc.StorageKey != "" {
		if err := s.blobStore.Delete(ctx, doc.StorageKey); err != nil {
			s.logger.Warn("blob cleanup failed", "document_id", documentID, "key", doc.StorageKey, "error", err)
		}
	}
	s.logger.Info("document deleted", "document_id", documentID, "user_id", userID)
	return nil
}
