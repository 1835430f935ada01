// File: internal/dtos/conversation.go
package dtos

import "github.com/axiompharma/compliance-copilot/internal/domain"

// SaveConversationRequest merges an incoming message batch into a stored
// conversation. The conversation id may arrive at the top level, inside
// metadata (conversationId/threadId/sessionId), or on the first message.
type SaveConversationRequest struct {
	ConversationID string           `json:"conversationId,omitempty"`
	Messages       []domain.Message `json:"messages"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
}

type SaveConversationResponse struct {
	Conversation *domain.Conversation `json:"conversation"`
	AddedCount   int                  `json:"addedMessageCount"`
	Delta        domain.StatsDelta    `json:"delta"`
}

type ListConversationsResponse struct {
	Conversations []domain.Conversation `json:"conversations"`
	Total         int64                 `json:"total"`
}
