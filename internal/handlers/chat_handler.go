// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/dtos"
	"github.com/axiompharma/compliance-copilot/internal/middleware"
	"github.com/axiompharma/compliance-copilot/internal/services"
	"github.com/axiompharma/compliance-copilot/internal/services/ai"
	"github.com/axiompharma/compliance-copilot/internal/services/conversation"
	"github.com/axiompharma/compliance-copilot/internal/services/retrieval"
)

type ChatHandler struct {
	RetrievalService    *retrieval.Service
	ConversationService *conversation.Service
	Completion          ai.CompletionProvider
	Logger              services.Logger
}

func NewChatHandler(
	rs *retrieval.Service,
	cs *conversation.Service,
	completion ai.CompletionProvider,
	logger services.Logger,
) *ChatHandler {
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &ChatHandler{
		RetrievalService:    rs,
		ConversationService: cs,
		Completion:          completion,
		Logger:              logger,
	}
}

// Search exposes the retrieval service directly.
func (h *ChatHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	results, err := h.RetrievalService.Search(r.Context(), userID, req.Query, retrieval.SearchOptions{
		DocumentIDs: req.DocumentIDs,
		Limit:       req.Limit,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.SearchResponse{Results: results})
}

// Chat answers a question with retrieved document context and persists the
// exchange into the resolved conversation.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if h.Completion == nil {
		writeError(w, "chat completions are not configured", http.StatusServiceUnavailable)
		return
	}

	var req dtos.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, "message is required", http.StatusBadRequest)
		return
	}

	results, err := h.RetrievalService.Search(r.Context(), userID, req.Message, retrieval.SearchOptions{
		DocumentIDs: req.DocumentIDs,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	docIDs := make([]string, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, res := range results {
		if !seen[res.DocumentID] {
			seen[res.DocumentID] = true
			docIDs = append(docIDs, res.DocumentID)
		}
	}
	summaries, err := h.RetrievalService.GetDocumentSummaries(r.Context(), userID, docIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	promptContext := retrieval.BuildContext(results, summaries)
	reply, err := h.Completion.GetCompletion(r.Context(), ai.SystemPrompt,
		ai.BuildUserPrompt(promptContext.Serialize(), req.Message))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	now := time.Now().UTC()
	sources := promptContext.SourceList()
	merge, err := h.ConversationService.MergeAndSave(r.Context(), userID, &dtos.SaveConversationRequest{
		ConversationID: req.ConversationID,
		Metadata:       req.Metadata,
		Messages: []domain.Message{
			{ID: domain.NewID(), Role: "user", Content: req.Message, Timestamp: now},
			{ID: domain.NewID(), Role: "assistant", Content: reply, Timestamp: now.Add(time.Millisecond), Sources: sources},
		},
	})
	if err != nil {
		// The answer was produced; losing the history write should not
		// discard it.
		h.Logger.Error("could not persist chat exchange", "user_id", userID, "error", err)
		writeJSON(w, http.StatusOK, dtos.ChatResponse{
			Reply:   reply,
			Sources: sources,
			Results: results,
		})
		return
	}

	writeJSON(w, http.StatusOK, dtos.ChatResponse{
		Reply:          reply,
		ConversationID: merge.Conversation.ID,
		Sources:        sources,
		Results:        results,
	})
}
