// File: internal/repository/document/document_repository.go
package document

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/services/apperrors"
)

type gormDocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &gormDocumentRepository{db: db}
}

func (r *gormDocumentRepository) Upsert(ctx context.Context, doc *domain.Document) error {
	if doc.ID == "" || doc.UserID == "" {
		return apperrors.NewValidationError("document_upsert", "document id and user id are required")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"filename":          doc.Filename,
			"original_filename": doc.OriginalFilename,
			"file_type":         doc.FileType,
			"file_size":         doc.FileSize,
			"text_content":      doc.TextContent,
			"metadata":          doc.Metadata,
			"title":             doc.Title,
			"summary":           doc.Summary,
			"version":           doc.Version,
			// Storage-derived columns keep their old value when the new
			// ingestion produced none (COALESCE precedence).
			"content_encoding": gorm.Expr("COALESCE(NULLIF(excluded.content_encoding, ''), documents.content_encoding)"),
			"storage_provider": gorm.Expr("COALESCE(NULLIF(excluded.storage_provider, ''), documents.storage_provider)"),
			"storage_key":      gorm.Expr("COALESCE(NULLIF(excluded.storage_key, ''), documents.storage_key)"),
			"storage_url":      gorm.Expr("COALESCE(NULLIF(excluded.storage_url, ''), documents.storage_url)"),
			"updated_at":       time.Now().UTC(),
		}),
	}).Create(doc).Error
	if err != nil {
		return apperrors.NewStorageError("document_upsert", "could not upsert document", err)
	}
	return nil
}

func (r *gormDocumentRepository) FindByIDAndUser(ctx context.Context, id, userID string) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("document_find", "document not found")
	}
	if err != nil {
		return nil, apperrors.NewStorageError("document_find", "could not fetch document", err)
	}
	return &doc, nil
}

func (r *gormDocumentRepository) FindByIDsAndUser(ctx context.Context, userID string, ids []string) ([]domain.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var docs []domain.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&docs).Error
	if err != nil {
		return nil, apperrors.NewStorageError("document_find_ids", "could not fetch documents", err)
	}
	return docs, nil
}

func (r *gormDocumentRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Document, int64, error) {
	var docs []domain.Document
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Document{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewStorageError("document_list", "could not count documents", err)
	}
	err := query.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&docs).Error
	if err != nil {
		return nil, 0, apperrors.NewStorageError("document_list", "could not list documents", err)
	}
	return docs, total, nil
}

func (r *gormDocumentRepository) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Document{})
	if result.Error != nil {
		return apperrors.NewStorageError("document_delete", "could not delete document", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("document_delete", "document not found")
	}
	return nil
}

func (r *gormDocumentRepository) UpdateMetadata(ctx context.Context, doc *domain.Document) error {
	err := r.db.WithContext(ctx).Model(&domain.Document{}).
		Where("id = ? AND user_id = ?", doc.ID, doc.UserID).
		Updates(map[string]interface{}{
			"metadata":   doc.Metadata,
			"title":      doc.Title,
			"summary":    doc.Summary,
			"version":    doc.Version,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return apperrors.NewStorageError("document_update_metadata", "could not update metadata", err)
	}
	return nil
}

func (r *gormDocumentRepository) AllowedFileTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := r.db.WithContext(ctx).Model(&domain.DocumentFileType{}).
		Order("name ASC").Pluck("name", &types).Error
	if err != nil {
		return nil, apperrors.NewStorageError("document_file_types", "could not fetch allowed file types", err)
	}
	return types, nil
}
