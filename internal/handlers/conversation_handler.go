// File: internal/handlers/conversation_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/axiompharma/compliance-copilot/internal/dtos"
	"github.com/axiompharma/compliance-copilot/internal/middleware"
	"github.com/axiompharma/compliance-copilot/internal/services/conversation"
)

type ConversationHandler struct {
	ConversationService *conversation.Service
}

func NewConversationHandler(cs *conversation.Service) *ConversationHandler {
	return &ConversationHandler{ConversationService: cs}
}

// Save merges an incoming message batch into the stored conversation.
func (h *ConversationHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.SaveConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.ConversationService.MergeAndSave(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.SaveConversationResponse{
		Conversation: result.Conversation,
		AddedCount:   result.AddedCount,
		Delta:        result.Delta,
	})
}

func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	convs, total, err := h.ConversationService.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ListConversationsResponse{Conversations: convs, Total: total})
}

func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conv, err := h.ConversationService.Get(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.ConversationService.Delete(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
