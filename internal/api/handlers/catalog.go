package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/quotelane/salesagent/internal/queue"
)

type CatalogHandler struct {
	queue *queue.Client
}

func NewCatalogHandler(q *queue.Client) *CatalogHandler {
	return &CatalogHandler{queue: q}
}

type ingestRequest struct {
	Path     string `json:"path"`
	Category string `json:"category,omitempty"`
}

func (h *CatalogHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path required"})
		return
	}

	if err := h.queue.EnqueueCatalogIngest(queue.CatalogIngestPayload{
		Path:     req.Path,
		Category: req.Category,
	}); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to enqueue ingest"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
