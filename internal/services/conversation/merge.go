// File: internal/services/conversation/merge.go
package conversation

import (
	"sort"

	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/dtos"
)

// metadata keys a conversation id may hide under, in precedence order.
var conversationIDKeys = []string{"conversationId", "threadId", "sessionId"}

// resolveConversationID walks the precedence chain: explicit payload id,
// metadata id, first message's metadata id. Returns "" when nothing
// resolves; the caller then generates one. Every candidate passes through
// the shared id sanitizer before use as a storage key component.
func resolveConversationID(req *dtos.SaveConversationRequest) string {
	if req.ConversationID != "" {
		return domain.SanitizeID(req.ConversationID)
	}
	if id := idFromMap(req.Metadata); id != "" {
		return id
	}
	if len(req.Messages) > 0 {
		if id := idFromMap(req.Messages[0].Metadata); id != "" {
			return id
		}
	}
	return ""
}

func idFromMap(meta map[string]any) string {
	for _, key := range conversationIDKeys {
		if v, ok := meta[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return domain.SanitizeID(s)
			}
		}
	}
	return ""
}

// mergeMessages merges incoming messages into existing ones by message id:
// a repeated id is shallow-merged field by field with the incoming message
// winning per populated field, never duplicated. The union is sorted by
// timestamp ascending with undated messages first. Returns the merged list
// and how many genuinely new messages arrived.
func mergeMessages(existing, incoming []domain.Message) ([]domain.Message, int) {
	merged := make([]domain.Message, len(existing))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, m := range merged {
		index[m.ID] = i
	}

	added := 0
	for _, in := range incoming {
		if in.ID == "" {
			in.ID = domain.NewID()
		}
		if i, ok := index[in.ID]; ok {
			merged[i] = mergeMessage(merged[i], in)
			continue
		}
		index[in.ID] = len(merged)
		merged = append(merged, in)
		added++
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})
	return merged, added
}

// mergeMessage overlays the incoming message onto the stored one: each
// populated incoming field wins, absent fields keep the stored value.
// Message metadata merges key-wise the same way.
func mergeMessage(old, in domain.Message) domain.Message {
	out := old
	if in.Role != "" {
		out.Role = in.Role
	}
	if in.Content != "" {
		out.Content = in.Content
	}
	if !in.Timestamp.IsZero() {
		out.Timestamp = in.Timestamp
	}
	if in.Sources != nil {
		out.Sources = in.Sources
	}
	if len(in.Metadata) > 0 {
		if out.Metadata == nil {
			out.Metadata = make(map[string]any, len(in.Metadata))
		} else {
			copied := make(map[string]any, len(out.Metadata)+len(in.Metadata))
			for k, v := range out.Metadata {
				copied[k] = v
			}
			out.Metadata = copied
		}
		for k, v := range in.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// ragStats recomputes RAG usage over the full merged message set.
type ragStats struct {
	Used         bool
	Documents    []string
	MessageCount int
}

func computeRAGStats(messages []domain.Message) ragStats {
	stats := ragStats{Documents: []string{}}
	seen := make(map[string]bool)
	for _, m := range messages {
		if !m.UsedRAG() {
			continue
		}
		stats.Used = true
		stats.MessageCount++
		for _, src := range m.Sources {
			if src.DocumentID == "" || seen[src.DocumentID] {
				continue
			}
			seen[src.DocumentID] = true
			stats.Documents = append(stats.Documents, src.DocumentID)
		}
	}
	return stats
}
