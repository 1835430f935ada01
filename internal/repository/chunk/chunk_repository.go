// File: internal/repository/chunk/chunk_repository.go
package chunk

import (
	"context"

	"gorm.io/gorm"

	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/services/apperrors"
)

type gormChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) ChunkRepository {
	return &gormChunkRepository{db: db}
}

func (r *gormChunkRepository) Create(ctx context.Context, c *domain.DocumentChunk) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return apperrors.NewStorageError("chunk_create", "could not insert chunk", err)
	}
	return nil
}

func (r *gormChunkRepository) DeleteByDocumentID(ctx context.Context, documentID string) error {
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&domain.DocumentChunk{}).Error
	if err != nil {
		return apperrors.NewStorageError("chunk_delete", "could not delete chunks", err)
	}
	return nil
}

func (r *gormChunkRepository) CountByDocumentID(ctx context.Context, documentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.DocumentChunk{}).
		Where("document_id = ?", documentID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.NewStorageError("chunk_count", "could not count chunks", err)
	}
	return count, nil
}

func (r *gormChunkRepository) SearchFullText(ctx context.Context, userID, query string, documentIDs []string, limit int) ([]domain.SearchResult, error) {
	sql := `
		SELECT dc.document_id, dc.chunk_index,
		       ts_headline('english', dc.chunk_text,
		                   plainto_tsquery('english', ?),
		                   'MaxWords=32, MinWords=16, MaxFragments=1') AS text,
		       d.filename, d.title,
		       ts_rank(to_tsvector('english', dc.chunk_text),
		               plainto_tsquery('english', ?)) AS rank
		FROM document_chunks dc
		JOIN documents d ON d.id = dc.document_id
		WHERE d.user_id = ?
		  AND to_tsvector('english', dc.chunk_text) @@ plainto_tsquery('english', ?)`
	args := []interface{}{query, query, userID, query}

	if len(documentIDs) > 0 {
		sql += ` AND dc.document_id IN ?`
		args = append(args, documentIDs)
	}
	sql += ` ORDER BY rank DESC, dc.created_at DESC LIMIT ?`
	args = append(args, limit)

	var results []domain.SearchResult
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&results).Error; err != nil {
		return nil, apperrors.NewStorageError("chunk_search_fts", "full-text search failed", err)
	}
	return results, nil
}

func (r *gormChunkRepository) SearchSubstring(ctx context.Context, userID, term string, documentIDs []string, limit int) ([]domain.SearchResult, error) {
	sql := `
		SELECT dc.document_id, dc.chunk_index,
		       dc.chunk_text AS text,
		       d.filename, d.title,
		       0 AS rank
		FROM document_chunks dc
		JOIN documents d ON d.id = dc.document_id
		WHERE d.user_id = ?
		  AND dc.chunk_text ILIKE ?`
	args := []interface{}{userID, "%" + term + "%"}

	if len(documentIDs) > 0 {
		sql += ` AND dc.document_id IN ?`
		args = append(args, documentIDs)
	}
	sql += ` ORDER BY dc.created_at DESC LIMIT ?`
	args = append(args, limit)

	var results []domain.SearchResult
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&results).Error; err != nil {
		return nil, apperrors.NewStorageError("chunk_search_substring", "substring search failed", err)
	}
	return results, nil
}
