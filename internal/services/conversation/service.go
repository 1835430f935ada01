// File: internal/services/conversation/service.go
package conversation

import (
	"context"
	"time"

	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/dtos"
	convrepo "github.com/axiompharma/compliance-copilot/internal/repository/conversation"
	statsrepo "github.com/axiompharma/compliance-copilot/internal/repository/stats"
	"github.com/axiompharma/compliance-copilot/internal/services"
	"github.com/axiompharma/compliance-copilot/internal/services/apperrors"
)

// MergeResult is what a conversation write produces: the stored state, the
// count of genuinely new messages, and the stats delta that was applied.
type MergeResult struct {
	Conversation *domain.Conversation
	AddedCount   int
	Delta        domain.StatsDelta
}

// Service merges incoming message batches into stored conversations and
// keeps the per-user aggregates in step via incremental deltas.
type Service struct {
	convRepo  convrepo.ConversationRepository
	statsRepo statsrepo.StatsRepository
	logger    services.Logger
}

func NewService(
	convRepo convrepo.ConversationRepository,
	statsRepo statsrepo.StatsRepository,
	logger services.Logger,
) (*Service, error) {
	if convRepo == nil {
		return nil, apperrors.NewValidationError("constructor", "conversation repository is required")
	}
	if statsRepo == nil {
		return nil, apperrors.NewValidationError("constructor", "stats repository is required")
	}
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &Service{convRepo: convRepo, statsRepo: statsRepo, logger: logger}, nil
}

// MergeAndSave resolves the conversation id, merges the incoming batch into
// the stored message list, recomputes RAG usage over the merged set, and
// applies a stats delta containing only the keys that actually changed.
func (s *Service) MergeAndSave(ctx context.Context, userID string, req *dtos.SaveConversationRequest) (*MergeResult, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("merge_save", "user id is required")
	}
	if req == nil || len(req.Messages) == 0 {
		return nil, apperrors.NewValidationError("merge_save", "messages are required")
	}

	conversationID := resolveConversationID(req)
	if conversationID == "" {
		conversationID = domain.NewID()
	}

	var existingMessages []domain.Message
	var existingMeta map[string]any
	creating := false

	existing, err := s.convRepo.FindByIDAndUser(ctx, conversationID, userID)
	switch {
	case err == nil:
		existingMessages = existing.Messages
		existingMeta = existing.Metadata
	case apperrors.IsNotFound(err):
		creating = true
	default:
		return nil, err
	}

	prevRAG := false
	if v, ok := existingMeta["ragUsed"].(bool); ok {
		prevRAG = v
	}

	merged, added := mergeMessages(existingMessages, req.Messages)
	rag := computeRAGStats(merged)

	meta := make(map[string]any, len(existingMeta)+len(req.Metadata)+5)
	for k, v := range existingMeta {
		meta[k] = v
	}
	for k, v := range req.Metadata {
		meta[k] = v
	}
	meta["messageCount"] = len(merged)
	meta["lastActivity"] = lastActivity(merged)
	meta["ragUsed"] = rag.Used
	meta["ragDocuments"] = rag.Documents
	meta["ragMessageCount"] = rag.MessageCount

	conv := &domain.Conversation{
		ID:       conversationID,
		UserID:   userID,
		Messages: merged,
		Metadata: meta,
	}
	if err := s.convRepo.Upsert(ctx, conv); err != nil {
		return nil, err
	}

	delta := domain.StatsDelta{}
	if creating {
		delta.Conversations = 1
	}
	if added > 0 {
		delta.Messages = int64(added)
	}
	switch {
	case creating && rag.Used:
		delta.RagConversations = 1
	case !creating && rag.Used && !prevRAG:
		delta.RagConversations = 1
	case !creating && !rag.Used && prevRAG:
		delta.RagConversations = -1
	}

	if !delta.IsZero() {
		if err := s.statsRepo.ApplyDelta(ctx, userID, delta); err != nil {
			return nil, err
		}
	}

	s.logger.Info("conversation merged",
		"conversation_id", conversationID, "user_id", userID,
		"added", added, "total", len(merged), "rag_used", rag.Used)

	return &MergeResult{Conversation: conv, AddedCount: added, Delta: delta}, nil
}

// lastActivity is the newest message timestamp, or the current time when no
// message carries one.
func lastActivity(messages []domain.Message) time.Time {
	var latest time.Time
	for _, m := range messages {
		if m.Timestamp.After(latest) {
			latest = m.Timestamp
		}
	}
	if latest.IsZero() {
		return time.Now().UTC()
	}
	return latest
}

func (s *Service) Get(ctx context.Context, conversationID, userID string) (*domain.Conversation, error) {
	if conversationID == "" {
		return nil, apperrors.NewValidationError("conversation_get", "conversation id is required")
	}
	return s.convRepo.FindByIDAndUser(ctx, domain.SanitizeID(conversationID), userID)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]domain.Conversation, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.convRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) Delete(ctx context.Context, conversationID, userID string) error {
	if conversationID == "" {
		return apperrors.NewValidationError("conversation_delete", "conversation id is required")
	}
	return s.convRepo.Delete(ctx, domain.SanitizeID(conversationID), userID)
}

// GetStats returns the per-user aggregate counters.
func (s *Service) GetStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	return s.statsRepo.Get(ctx, userID)
}

// RecomputeStats rebuilds the per-user aggregate by scanning every
// conversation. This is the only full-scan path; normal operation applies
// incremental deltas.
func (s *Service) RecomputeStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("recompute_stats", "user id is required")
	}

	convs, err := s.convRepo.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &domain.UserStats{UserID: userID}
	for _, conv := range convs {
		stats.Conversations++
		stats.Messages += int64(len(conv.Messages))
		if computeRAGStats(conv.Messages).Used {
			stats.RagConversations++
		}
	}

	if err := s.statsRepo.Replace(ctx, stats); err != nil {
		return nil, err
	}
	s.logger.Info("user stats recomputed",
		"user_id", userID, "conversations", stats.Conversations, "messages", stats.Messages)
	return stats, nil
}
