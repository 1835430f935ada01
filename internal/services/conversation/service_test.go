// File: internal/services/conversation/service_test.go
package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/dtos"
	"github.com/axiompharma/compliance-copilot/internal/services/apperrors"
)

// --- stubs ---

type stubConvRepo struct {
	convs map[string]*domain.Conversation
}

func newStubConvRepo() *stubConvRepo {
	return &stubConvRepo{convs: make(map[string]*domain.Conversation)}
}

func (r *stubConvRepo) FindByIDAndUser(ctx context.Context, id, userID string) (*domain.Conversation, error) {
	conv, ok := r.convs[id]
	if !ok || conv.UserID != userID {
		return nil, apperrors.NewNotFoundError("conversation_find", "conversation not found")
	}
	copied := *conv
	return &copied, nil
}

func (r *stubConvRepo) Upsert(ctx context.Context, conv *domain.Conversation) error {
	copied := *conv
	r.convs[conv.ID] = &copied
	return nil
}

func (r *stubConvRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Conversation, int64, error) {
	all, err := r.ListAllByUser(ctx, userID)
	return all, int64(len(all)), err
}

func (r *stubConvRepo) ListAllByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	out := []domain.Conversation{}
	for _, conv := range r.convs {
		if conv.UserID == userID {
			out = append(out, *conv)
		}
	}
	return out, nil
}

func (r *stubConvRepo) Delete(ctx context.Context, id, userID string) error {
	delete(r.convs, id)
	return nil
}

type stubStatsRepo struct {
	deltas   []domain.StatsDelta
	stats    map[string]*domain.UserStats
	replaced *domain.UserStats
}

func newStubStatsRepo() *stubStatsRepo {
	return &stubStatsRepo{stats: make(map[string]*domain.UserStats)}
}

func (r *stubStatsRepo) ApplyDelta(ctx context.Context, userID string, delta domain.StatsDelta) error {
	r.deltas = append(r.deltas, delta)
	s, ok := r.stats[userID]
	if !ok {
		s = &domain.UserStats{UserID: userID}
		r.stats[userID] = s
	}
	s.Conversations = clamp(s.Conversations + delta.Conversations)
	s.Messages = clamp(s.Messages + delta.Messages)
	s.RagConversations = clamp(s.RagConversations + delta.RagConversations)
	return nil
}

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func (r *stubStatsRepo) Get(ctx context.Context, userID string) (*domain.UserStats, error) {
	if s, ok := r.stats[userID]; ok {
		return s, nil
	}
	return &domain.UserStats{UserID: userID}, nil
}

func (r *stubStatsRepo) Replace(ctx context.Context, s *domain.UserStats) error {
	r.replaced = s
	r.stats[s.UserID] = s
	return nil
}

func newTestService(t *testing.T) (*Service, *stubConvRepo, *stubStatsRepo) {
	t.Helper()
	convs := newStubConvRepo()
	stats := newStubStatsRepo()
	svc, err := NewService(convs, stats, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, convs, stats
}

func at(sec int) time.Time {
	return time.Date(2026, 3, 1, 10, 0, sec, 0, time.UTC)
}

// --- merge semantics ---

func TestMergeDeduplicatesByMessageID(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.MergeAndSave(ctx, "u1", &dtos.SaveConversationRequest{
		ConversationID: "conv-1",
		Messages: []domain.Message{
			{ID: "1", Role: "user", Content: "original question", Timestamp: at(1)},
			{ID: "2", Role: "assistant", Content: "original answer", Timestamp: at(2)},
		},
	})
	if err != nil {
		t.Fatalf("first merge: %v", err)
	}
	if first.AddedCount != 2 {
		t.Fatalf("first added = %d, want 2", first.AddedCount)
	}

	second, err := svc.MergeAndSave(ctx, "u1", &dtos.SaveConversationRequest{
		ConversationID: "conv-1",
		Messages: []domain.Message{
			{ID: "2", Content: "edited answer", Timestamp: at(2)},
			{ID: "3", Role: "user", Content: "follow-up", Timestamp: at(3)},
		},
	})
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}

	if second.AddedCount != 1 {
		t.Fatalf("second added = %d, want 1 (id 2 merged, not duplicated)", second.AddedCount)
	}
	msgs := second.Conversation.Messages
	if len(msgs) != 3 {
		t.Fatalf("merged messages = %d, want 3", len(msgs))
	}
	if msgs[1].ID != "2" || msgs[1].Content != "edited answer" {
		t.Fatalf("message 2 not overlaid: %+v", msgs[1])
	}
	// Absent incoming fields keep the stored value.
	if msgs[1].Role != "assistant" {
		t.Fatalf("role = %q, want stored assistant", msgs[1].Role)
	}
}

func TestMergeSortsByTimestamp(t *testing.T) {
	svc, _, _ := newTestService(t)

	result, err := svc.MergeAndSave(context.Background(), "u1", &dtos.SaveConversationRequest{
		ConversationID: "conv-sort",
		Messages: []domain.Message{
			{ID: "late", Content: "later", Timestamp: at(30)},
			{ID: "undated", Content: "no clock"},
			{ID: "early", Content: "earlier", Timestamp: at(5)},
		},
	})
	if err != nil {
		t.Fatalf("MergeAndSave: %v", err)
	}

	order := []string{"undated", "early", "late"}
	for i, want := range order {
		if got := result.Conversation.Messages[i].ID; got != want {
			t.Fatalf("position %d = %s, want %s", i, got, want)
		}
	}
}

func TestMergeAssignsIDsToAnonymousMessages(t *testing.T) {
	svc, _, _ := newTestService(t)

	result, err := svc.MergeAndSave(context.Background(), "u1", &dtos.SaveConversationRequest{
		ConversationID: "conv-anon",
		Messages:       []domain.Message{{Content: "no id", Timestamp: at(1)}},
	})
	if err != nil {
		t.Fatalf("MergeAndSave: %v", err)
	}
	if result.Conversation.Messages[0].ID == "" {
		t.Fatal("anonymous message kept an empty id")
	}
}

// --- conversation id resolution ---

func TestResolveConversationIDPrecedence(t *testing.T) {
	cases := []struct {
		name string
		req  dtos.SaveConversationRequest
		want string
	}{
		{
			"explicit wins",
			dtos.SaveConversationRequest{
				ConversationID: "explicit",
				Metadata:       map[string]any{"conversationId": "meta"},
			},
			"explicit",
		},
		{
			"metadata conversationId",
			dtos.SaveConversationRequest{Metadata: map[string]any{"conversationId": "meta-conv"}},
			"meta-conv",
		},
		{
			"metadata threadId",
			dtos.SaveConversationRequest{Metadata: map[string]any{"threadId": "thread-9"}},
			"thread-9",
		},
		{
			"metadata sessionId",
			dtos.SaveConversationRequest{Metadata: map[string]any{"sessionId": "sess-2"}},
			"sess-2",
		},
		{
			"first message metadata",
			dtos.SaveConversationRequest{Messages: []domain.Message{
				{Metadata: map[string]any{"threadId": "msg-thread"}},
			}},
			"msg-thread",
		},
		{
			"sanitized for storage",
			dtos.SaveConversationRequest{ConversationID: "conv 1/evil?"},
			"conv_1_evil_",
		},
		{
			"nothing resolves",
			dtos.SaveConversationRequest{},
			"",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveConversationID(&tc.req); got != tc.want {
				t.Fatalf("resolveConversationID = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMergeGeneratesIDWhenUnresolvable(t *testing.T) {
	svc, _, _ := newTestService(t)
	result, err := svc.MergeAndSave(context.Background(), "u1", &dtos.SaveConversationRequest{
		Messages: []domain.Message{{ID: "1", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("MergeAndSave: %v", err)
	}
	if result.Conversation.ID == "" {
		t.Fatal("expected a generated conversation id")
	}
}

// --- stats deltas ---

func TestDeltaOnCreate(t *testing.T) {
	svc, _, stats := newTestService(t)

	result, err := svc.MergeAndSave(context.Background(), "u1", &dtos.SaveConversationRequest{
		ConversationID: "conv-new",
		Messages: []domain.Message{
			{ID: "1", Content: "q", Timestamp: at(1)},
			{ID: "2", Content: "a", Timestamp: at(2)},
		},
	})
	if err != nil {
		t.Fatalf("MergeAndSave: %v", err)
	}

	want := domain.StatsDelta{Conversations: 1, Messages: 2}
	if result.Delta != want {
		t.Fatalf("delta = %+v, want %+v", result.Delta, want)
	}
	if len(stats.deltas) != 1 {
		t.Fatalf("applied deltas = %d, want 1", len(stats.deltas))
	}
}

func TestDeltaOnPureUpdateSkipsApply(t *testing.T) {
	svc, _, stats := newTestService(t)
	ctx := context.Background()

	req := &dtos.SaveConversationRequest{
		ConversationID: "conv-u",
		Messages:       []domain.Message{{ID: "1", Content: "q", Timestamp: at(1)}},
	}
	if _, err := svc.MergeAndSave(ctx, "u1", req); err != nil {
		t.Fatalf("first merge: %v", err)
	}

	// Same message again: nothing added, no rag change, zero delta.
	result, err := svc.MergeAndSave(ctx, "u1", req)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if !result.Delta.IsZero() {
		t.Fatalf("delta = %+v, want zero", result.Delta)
	}
	if len(stats.deltas) != 1 {
		t.Fatalf("applied deltas = %d, want 1 (zero delta skipped)", len(stats.deltas))
	}
}

func TestDeltaRagFlip(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// Create without RAG.
	if _, err := svc.MergeAndSave(ctx, "u1", &dtos.SaveConversationRequest{
		ConversationID: "conv-rag",
		Messages:       []domain.Message{{ID: "1", Content: "q", Timestamp: at(1)}},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// A sourced answer flips the conversation to RAG.
	up, err := svc.MergeAndSave(ctx, "u1", &dtos.SaveConversationRequest{
		ConversationID: "conv-rag",
		Messages: []domain.Message{{
			ID: "2", Role: "assistant", Content: "a", Timestamp: at(2),
			Sources: []domain.Source{{DocumentID: "d1"}},
		}},
	})
	if err != nil {
		t.Fatalf("rag update: %v", err)
	}
	if up.Delta.RagConversations != 1 {
		t.Fatalf("rag delta = %d, want +1 on flip up", up.Delta.RagConversations)
	}

	// Overwriting the sourced message without sources does not flip down;
	// the overlay keeps the stored sources. Replace them explicitly.
	down, err := svc.MergeAndSave(ctx, "u1", &dtos.SaveConversationRequest{
		ConversationID: "conv-rag",
		Messages: []domain.Message{{
			ID: "2", Content: "a", Timestamp: at(2),
			Sources: []domain.Source{},
		}},
	})
	if err != nil {
		t.Fatalf("rag removal: %v", err)
	}
	if down.Delta.RagConversations != -1 {
		t.Fatalf("rag delta = %d, want -1 on flip down", down.Delta.RagConversations)
	}
}

func TestDeltaRagOnCreate(t *testing.T) {
	svc, _, _ := newTestService(t)

	result, err := svc.MergeAndSave(context.Background(), "u1", &dtos.SaveConversationRequest{
		ConversationID: "conv-rag-create",
		Messages: []domain.Message{{
			ID: "1", Role: "assistant", Content: "a", Timestamp: at(1),
			Sources: []domain.Source{{DocumentID: "d1"}},
		}},
	})
	if err != nil {
		t.Fatalf("MergeAndSave: %v", err)
	}
	want := domain.StatsDelta{Conversations: 1, Messages: 1, RagConversations: 1}
	if result.Delta != want {
		t.Fatalf("delta = %+v, want %+v", result.Delta, want)
	}
}

// --- derived metadata ---

func TestMergeDerivedMetadata(t *testing.T) {
	svc, convs, _ := newTestService(t)

	_, err := svc.MergeAndSave(context.Background(), "u1", &dtos.SaveConversationRequest{
		ConversationID: "conv-meta",
		Metadata:       map[string]any{"channel": "portal"},
		Messages: []domain.Message{
			{ID: "1", Role: "user", Content: "q", Timestamp: at(1)},
			{
				ID: "2", Role: "assistant", Content: "a", Timestamp: at(2),
				Sources: []domain.Source{{DocumentID: "d1"}, {DocumentID: "d1"}, {DocumentID: "d2"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("MergeAndSave: %v", err)
	}

	meta := convs.convs["conv-meta"].Metadata
	if meta["channel"] != "portal" {
		t.Fatal("client metadata lost")
	}
	if meta["messageCount"] != 2 {
		t.Fatalf("messageCount = %v, want 2", meta["messageCount"])
	}
	if meta["ragUsed"] != true {
		t.Fatalf("ragUsed = %v, want true", meta["ragUsed"])
	}
	docs, ok := meta["ragDocuments"].([]string)
	if !ok || len(docs) != 2 || docs[0] != "d1" || docs[1] != "d2" {
		t.Fatalf("ragDocuments = %v, want deduped [d1 d2]", meta["ragDocuments"])
	}
	if meta["ragMessageCount"] != 1 {
		t.Fatalf("ragMessageCount = %v, want 1", meta["ragMessageCount"])
	}
}

// --- recompute ---

func TestRecomputeStats(t *testing.T) {
	svc, _, stats := newTestService(t)
	ctx := context.Background()

	if _, err := svc.MergeAndSave(ctx, "u1", &dtos.SaveConversationRequest{
		ConversationID: "c1",
		Messages: []domain.Message{
			{ID: "1", Content: "q", Timestamp: at(1)},
			{ID: "2", Content: "a", Timestamp: at(2), Sources: []domain.Source{{DocumentID: "d1"}}},
		},
	}); err != nil {
		t.Fatalf("seed c1: %v", err)
	}
	if _, err := svc.MergeAndSave(ctx, "u1", &dtos.SaveConversationRequest{
		ConversationID: "c2",
		Messages:       []domain.Message{{ID: "1", Content: "q", Timestamp: at(3)}},
	}); err != nil {
		t.Fatalf("seed c2: %v", err)
	}

	recomputed, err := svc.RecomputeStats(ctx, "u1")
	if err != nil {
		t.Fatalf("RecomputeStats: %v", err)
	}
	if recomputed.Conversations != 2 || recomputed.Messages != 3 || recomputed.RagConversations != 1 {
		t.Fatalf("recomputed = %+v", recomputed)
	}
	if stats.replaced == nil {
		t.Fatal("recompute must go through Replace, not deltas")
	}
}

func TestMergeValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.MergeAndSave(ctx, "", &dtos.SaveConversationRequest{
		Messages: []domain.Message{{ID: "1"}},
	}); !apperrors.IsValidation(err) {
		t.Fatalf("missing user: got %v", err)
	}
	if _, err := svc.MergeAndSave(ctx, "u1", &dtos.SaveConversationRequest{}); !apperrors.IsValidation(err) {
		t.Fatalf("missing messages: got %v", err)
	}
}
