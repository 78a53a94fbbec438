package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quotelane/salesagent/internal/conversation"
	"github.com/quotelane/salesagent/internal/session"
)

type ChatHandler struct {
	engine *conversation.Engine
	store  *session.Store
}

func NewChatHandler(engine *conversation.Engine, store *session.Store) *ChatHandler {
	return &ChatHandler{engine: engine, store: store}
}

type createSessionRequest struct {
	Title string `json:"title"`
}

func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	sessionID, err := h.store.CreateSession(r.Context(), req.Title)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"session_id": sessionID.String()})
}

type messageRequest struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "content required"})
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session_id"})
		return
	}

	// Persistence is best-effort: a storage hiccup must not fail the turn.
	if err := h.store.AppendMessage(r.Context(), sessionID, "user", req.Content); err != nil {
		slog.Warn("failed to persist user message", "session_id", sessionID, "error", err)
	}

	resp := h.engine.HandleMessage(r.Context(), sessionID, req.Content)

	if err := h.store.AppendMessage(r.Context(), sessionID, "assistant", resp.Message); err != nil {
		slog.Warn("failed to persist assistant message", "session_id", sessionID, "error", err)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list sessions"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

func (h *ChatHandler) SessionMessages(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "session_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session_id"})
		return
	}

	messages, err := h.store.SessionMessages(r.Context(), sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch messages"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "session_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session_id"})
		return
	}

	if err := h.store.DeleteSession(r.Context(), sessionID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete session"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
