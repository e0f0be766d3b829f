package conversation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/laylabot/leasing-agent/pkg/logging"
)

// ChatRequest is the POST /chat payload. Callers either carry the state
// themselves or pass a conversation_id so the server loads it.
type ChatRequest struct {
	Message        string `json:"message"`
	State          *State `json:"state,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse returns the agent reply plus the updated state.
type ChatResponse struct {
	Response       string `json:"response"`
	State          *State `json:"state"`
	ConversationID string `json:"conversation_id"`
}

// Handler wires HTTP requests to the conversation engine.
type Handler struct {
	engine *Engine
	store  StateStore
	apiKey string
	logger *logging.Logger
}

// NewHandler creates a conversation handler. The state store and API key
// are optional; without a store the caller must round-trip state itself.
func NewHandler(engine *Engine, store StateStore, apiKey string, logger *logging.Logger) *Handler {
	if engine == nil {
		panic("conversation: engine cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		engine: engine,
		store:  store,
		apiKey: apiKey,
		logger: logger,
	}
}

// Chat handles POST /chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if h.apiKey != "" && r.Header.Get("X-API-Key") != h.apiKey {
		http.Error(w, "Invalid or missing API key", http.StatusUnauthorized)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode chat request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	prior := req.State
	if prior == nil && h.store != nil && req.ConversationID != "" {
		loaded, err := h.store.Load(r.Context(), conversationID)
		switch {
		case err == nil:
			prior = loaded
		case errors.Is(err, ErrStateNotFound):
			// First turn of this conversation.
		default:
			h.logger.Error("failed to load conversation state", "conversation_id", conversationID, "error", err)
			http.Error(w, "Failed to load conversation state", http.StatusInternalServerError)
			return
		}
	}

	next, reply, err := h.engine.ProcessTurn(r.Context(), prior, req.Message)
	if err != nil && !errors.Is(err, ErrCollaboratorUnavailable) {
		h.logger.Error("failed to process turn", "conversation_id", conversationID, "error", err)
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
		return
	}
	if err != nil {
		// The turn was discarded; the apology plus the prior state goes
		// back so the customer can simply retry.
		h.logger.Warn("collaborator unavailable, turn discarded", "conversation_id", conversationID, "error", err)
	}
	if next == nil {
		next = NewState()
	}

	if h.store != nil {
		if saveErr := h.store.Save(r.Context(), conversationID, next); saveErr != nil {
			h.logger.Error("failed to save conversation state", "conversation_id", conversationID, "error", saveErr)
		}
	}

	h.writeJSON(w, http.StatusOK, ChatResponse{
		Response:       reply,
		State:          next,
		ConversationID: conversationID,
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
