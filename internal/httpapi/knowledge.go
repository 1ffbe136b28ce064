package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wolfman30/booking-assistant/internal/knowledge"
	"github.com/wolfman30/booking-assistant/pkg/logging"
)

// KnowledgeHandler ingests service documents for the Q&A index.
type KnowledgeHandler struct {
	ingestor knowledge.Ingestor
	logger   *logging.Logger
}

// NewKnowledgeHandler creates the document ingest handler.
func NewKnowledgeHandler(ingestor knowledge.Ingestor, logger *logging.Logger) *KnowledgeHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &KnowledgeHandler{ingestor: ingestor, logger: logger}
}

// UploadRequest carries one document as plain text.
type UploadRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Upload handles POST /knowledge/documents requests.
func (h *KnowledgeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.ingestor == nil {
		http.Error(w, "document q&a is not enabled", http.StatusServiceUnavailable)
		return
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		req.Name = "document"
	}

	if err := h.ingestor.AddDocument(r.Context(), req.Name, req.Content); err != nil {
		h.logger.Error("document ingest failed", "error", err, "document", req.Name)
		http.Error(w, "failed to index document", http.StatusInternalServerError)
		return
	}

	h.logger.Info("document ingested", "document", req.Name)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"status": "indexed", "name": req.Name})
}
