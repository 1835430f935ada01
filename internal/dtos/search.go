// File: internal/dtos/search.go
package dtos

import "github.com/axiompharma/compliance-copilot/internal/domain"

type SearchRequest struct {
	Query       string   `json:"query"`
	DocumentIDs []string `json:"documentIds,omitempty"`
	Limit       int      `json:"limit,omitempty"`
}

type SearchResponse struct {
	Results []domain.SearchResult `json:"results"`
}

// ChatRequest asks a question against the user's document library. The
// answer is generated with retrieved context and the exchange is persisted
// into the conversation identified the same way as in SaveConversationRequest.
type ChatRequest struct {
	Message        string         `json:"message"`
	ConversationID string         `json:"conversationId,omitempty"`
	DocumentIDs    []string       `json:"documentIds,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type ChatResponse struct {
	Reply          string                `json:"reply"`
	ConversationID string                `json:"conversationId"`
	Sources        []domain.Source       `json:"sources,omitempty"`
	Results        []domain.SearchResult `json:"results,omitempty"`
}
