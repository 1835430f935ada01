// File: internal/handlers/document_handler.go
package handlers

import (
	"bytes"
	"encoding/json"
	"html"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/yuin/goldmark"

	"github.com/axiompharma/compliance-copilot/internal/dtos"
	"github.com/axiompharma/compliance-copilot/internal/middleware"
	"github.com/axiompharma/compliance-copilot/internal/services/document"
)

type DocumentHandler struct {
	DocumentService *document.Service
	markdown        goldmark.Markdown
}

func NewDocumentHandler(ds *document.Service) *DocumentHandler {
	return &DocumentHandler{
		DocumentService: ds,
		markdown:        goldmark.New(),
	}
}

// Upload ingests a document: text is chunked and indexed, optional base64
// binary content goes to the blob store.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.UploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.DocumentService.Ingest(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	docs, total, err := h.DocumentService.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ListDocumentsResponse{Documents: docs, Total: total})
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	doc, err := h.DocumentService.Get(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Preview renders the document text as HTML: markdown through the markdown
// renderer, everything else escaped verbatim.
func (h *DocumentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	doc, err := h.DocumentService.Get(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if doc.FileType == "markdown" {
		var buf bytes.Buffer
		if err := h.markdown.Convert([]byte(doc.TextContent), &buf); err != nil {
			writeError(w, "could not render preview", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(buf.Bytes())
		return
	}
	_, _ = w.Write([]byte("<pre>" + html.EscapeString(doc.TextContent) + "</pre>"))
}

func (h *DocumentHandler) PatchMetadata(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.PatchMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	doc, err := h.DocumentService.PatchMetadata(r.Context(), mux.Vars(r)["id"], userID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.DocumentService.Delete(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
