// File: internal/handlers/stats_handler.go
package handlers

import (
	"net/http"

	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/middleware"
	"github.com/axiompharma/compliance-copilot/internal/services/conversation"
	"github.com/axiompharma/compliance-copilot/internal/services/document"
)

type StatsHandler struct {
	ConversationService *conversation.Service
	DocumentService     *document.Service
}

func NewStatsHandler(cs *conversation.Service, ds *document.Service) *StatsHandler {
	return &StatsHandler{ConversationService: cs, DocumentService: ds}
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := h.ConversationService.GetStats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type recomputeStatsResponse struct {
	Stats     *domain.UserStats       `json:"stats"`
	Documents *document.DocumentStats `json:"documents"`
}

// Recompute rebuilds the user's aggregates with a full rescan of stored
// conversations and documents, replacing whatever the incremental deltas
// have accumulated.
func (h *StatsHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := h.ConversationService.RecomputeStats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	docStats, err := h.DocumentService.RecomputeUserDocumentStats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recomputeStatsResponse{Stats: stats, Documents: docStats})
}
