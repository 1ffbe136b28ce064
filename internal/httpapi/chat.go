package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/wolfman30/booking-assistant/pkg/logging"
)

// ChatEngine is the dialogue entry point the handler needs.
type ChatEngine interface {
	HandleMessage(ctx context.Context, sessionID, text string) (string, error)
}

// ChatHandler serves the conversational endpoint.
type ChatHandler struct {
	engine ChatEngine
	logger *logging.Logger

	// Turns within one session run strictly one at a time; concurrent
	// requests for different sessions do not block each other.
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

// NewChatHandler creates the chat handler.
func NewChatHandler(engine ChatEngine, logger *logging.Logger) *ChatHandler {
	if engine == nil {
		panic("httpapi: chat engine cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{
		engine: engine,
		logger: logger,
		locks:  make(map[string]*sessionLock),
	}
}

// ChatRequest is the inbound message. SessionID may be empty on the first
// turn; the response carries the id to use from then on.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Handle handles POST /chat requests.
func (h *ChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	unlock := h.lockSession(req.SessionID)
	reply, err := h.engine.HandleMessage(r.Context(), req.SessionID, req.Message)
	unlock()
	if err != nil {
		h.logger.Error("turn failed", "error", err, "session_id", req.SessionID)
		http.Error(w, "Something went wrong, please try again", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChatResponse{SessionID: req.SessionID, Reply: reply})
}

// lockSession acquires the per-session lock, creating it on first use and
// dropping it once nobody waits on it.
func (h *ChatHandler) lockSession(id string) (unlock func()) {
	h.mu.Lock()
	lock, ok := h.locks[id]
	if !ok {
		lock = &sessionLock{}
		h.locks[id] = lock
	}
	lock.refs++
	h.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		h.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(h.locks, id)
		}
		h.mu.Unlock()
	}
}
