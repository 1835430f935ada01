// File: internal/repository/conversation/conversation_repository.go
package conversation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/services/apperrors"
)

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

func (r *gormConversationRepository) FindByIDAndUser(ctx context.Context, id, userID string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("conversation_find", "conversation not found")
	}
	if err != nil {
		return nil, apperrors.NewStorageError("conversation_find", "could not fetch conversation", err)
	}
	return &conv, nil
}

func (r *gormConversationRepository) Upsert(ctx context.Context, conv *domain.Conversation) error {
	if conv.ID == "" || conv.UserID == "" {
		return apperrors.NewValidationError("conversation_upsert", "conversation id and user id are required")
	}

	// created_at is immutable: the conflict update leaves it untouched.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"messages":   conv.Messages,
			"metadata":   conv.Metadata,
			"updated_at": time.Now().UTC(),
		}),
	}).Create(conv).Error
	if err != nil {
		return apperrors.NewStorageError("conversation_upsert", "could not upsert conversation", err)
	}
	return nil
}

func (r *gormConversationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Conversation, int64, error) {
	var convs []domain.Conversation
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Conversation{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewStorageError("conversation_list", "could not count conversations", err)
	}
	err := query.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&convs).Error
	if err != nil {
		return nil, 0, apperrors.NewStorageError("conversation_list", "could not list conversations", err)
	}
	return convs, total, nil
}

func (r *gormConversationRepository) ListAllByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&convs).Error
	if err != nil {
		return nil, apperrors.NewStorageError("conversation_list_all", "could not list conversations", err)
	}
	return convs, nil
}

func (r *gormConversationRepository) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Conversation{})
	if result.Error != nil {
		return apperrors.NewStorageError("conversation_delete", "could not delete conversation", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("conversation_delete", "conversation not found")
	}
	return nil
}
