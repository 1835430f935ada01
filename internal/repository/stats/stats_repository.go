// File: internal/repository/stats/stats_repository.go
package stats

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/services/apperrors"
)

type gormStatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &gormStatsRepository{db: db}
}

func (r *gormStatsRepository) ApplyDelta(ctx context.Context, userID string, delta domain.StatsDelta) error {
	if userID == "" {
		return apperrors.NewValidationError("stats_apply_delta", "user id is required")
	}
	if delta.IsZero() {
		return nil
	}

	now := time.Now().UTC()
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO user_stats (user_id, conversations, messages, rag_conversations, last_updated)
		VALUES (?, GREATEST(0, ?), GREATEST(0, ?), GREATEST(0, ?), ?)
		ON CONFLICT (user_id) DO UPDATE SET
			conversations     = GREATEST(0, user_stats.conversations + ?),
			messages          = GREATEST(0, user_stats.messages + ?),
			rag_conversations = GREATEST(0, user_stats.rag_conversations + ?),
			last_updated      = ?`,
		userID, delta.Conversations, delta.Messages, delta.RagConversations, now,
		delta.Conversations, delta.Messages, delta.RagConversations, now,
	).Error
	if err != nil {
		return apperrors.NewStorageError("stats_apply_delta", "could not apply stats delta", err)
	}
	return nil
}

func (r *gormStatsRepository) Get(ctx context.Context, userID string) (*domain.UserStats, error) {
	var s domain.UserStats
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A user with no writes yet has all-zero stats.
		return &domain.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageError("stats_get", "could not fetch stats", err)
	}
	return &s, nil
}

func (r *gormStatsRepository) Replace(ctx context.Context, s *domain.UserStats) error {
	if s.UserID == "" {
		return apperrors.NewValidationError("stats_replace", "user id is required")
	}
	s.LastUpdated = time.Now().UTC()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(s).Error
	if err != nil {
		return apperrors.NewStorageError("stats_replace", "could not replace stats", err)
	}
	return nil
}
