// Package handlers exposes the chat API over HTTP: one controller per
// session, a status view for UIs, and transcript retrieval.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/appointbot/appointbot/internal/conversation"
	"github.com/appointbot/appointbot/pkg/logging"
)

// ChatSession pairs a controller with its own lock; turns within one session
// are serialized, sessions run independently.
type ChatSession struct {
	mu         sync.Mutex
	controller *conversation.Controller
	createdAt  time.Time
}

// ChatHandler owns the session registry and the chat endpoints.
type ChatHandler struct {
	mu            sync.RWMutex
	sessions      map[string]*ChatSession
	newController func() *conversation.Controller
	transcripts   conversation.TranscriptStore
	logger        *logging.Logger
}

// NewChatHandler creates the handler. newController builds a fresh
// controller per session; transcripts may be nil to disable history.
func NewChatHandler(newController func() *conversation.Controller, transcripts conversation.TranscriptStore, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{
		sessions:      make(map[string]*ChatSession),
		newController: newController,
		transcripts:   transcripts,
		logger:        logger,
	}
}

// ChatRequest is the POST /chat body. An empty session_id starts a new
// session.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Text      string `json:"text"`
}

// ChatResponse carries the reply and the booking status after the turn.
type ChatResponse struct {
	SessionID string              `json:"session_id"`
	Reply     string              `json:"reply"`
	Status    conversation.Status `json:"status"`
}

// HandleChat processes one turn for a session.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	session := h.session(sessionID)

	session.mu.Lock()
	reply := session.controller.HandleTurn(r.Context(), req.Text)
	status := session.controller.Status()
	session.mu.Unlock()

	h.appendTranscript(r, sessionID, "user", req.Text)
	h.appendTranscript(r, sessionID, "assistant", reply)

	writeJSON(w, http.StatusOK, ChatResponse{
		SessionID: sessionID,
		Reply:     reply,
		Status:    status,
	})
}

// HandleStatus returns the booking status for a session without consuming a
// turn. Unknown sessions get 404.
func (h *ChatHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	h.mu.RLock()
	session, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	session.mu.Lock()
	status := session.controller.Status()
	session.mu.Unlock()

	writeJSON(w, http.StatusOK, status)
}

// HandleTranscript returns recent messages for a session. The limit query
// parameter caps the count; zero means everything retained.
func (h *ChatHandler) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	if h.transcripts == nil {
		http.Error(w, "transcripts not enabled", http.StatusNotFound)
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	msgs, err := h.transcripts.List(r.Context(), sessionID, limit)
	if err != nil {
		h.logger.Error("failed to list transcript", "session_id", sessionID, "error", err)
		http.Error(w, "failed to load transcript", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []conversation.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// HealthCheck reports liveness.
func (h *ChatHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// session returns the existing session or registers a new one.
func (h *ChatHandler) session(sessionID string) *ChatSession {
	h.mu.RLock()
	session, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if ok {
		return session
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if session, ok = h.sessions[sessionID]; ok {
		return session
	}
	session = &ChatSession{
		controller: h.newController(),
		createdAt:  time.Now(),
	}
	h.sessions[sessionID] = session
	h.logger.Info("chat session created", "session_id", sessionID)
	return session
}

func (h *ChatHandler) appendTranscript(r *http.Request, sessionID, role, text string) {
	if h.transcripts == nil {
		return
	}
	err := h.transcripts.Append(r.Context(), sessionID, conversation.Message{
		Role: role,
		Text: text,
	})
	if err != nil {
		h.logger.Error("failed to append transcript", "session_id", sessionID, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
