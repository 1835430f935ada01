// File: internal/repository/conversation/interface.go
package conversation

import (
	"context"

	"github.com/axiompharma/compliance-copilot/internal/domain"
)

// ConversationRepository handles conversation persistence. Upserts are
// last-writer-wins; the merge service recomputes the full message list
// before every write.
type ConversationRepository interface {
	FindByIDAndUser(ctx context.Context, id, userID string) (*domain.Conversation, error)
	Upsert(ctx context.Context, conv *domain.Conversation) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Conversation, int64, error)
	ListAllByUser(ctx context.Context, userID string) ([]domain.Conversation, error)
	Delete(ctx context.Context, id, userID string) error
}
