package memory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mijinlabs/lily-assistant/internal/model/chat"
	memoryservice "github.com/mijinlabs/lily-assistant/internal/service/memory"
	"github.com/mijinlabs/lily-assistant/pkg/utils"
)

// recentWindow is how many turns the inspection endpoint returns.
const recentWindow = 10

// Handler exposes read-only memory inspection. It never mutates state and is
// safe to call while turns for the same user are in flight.
type Handler struct {
	memory *memoryservice.Service
}

// New creates the memory handler.
func New(memory *memoryservice.Service) *Handler {
	return &Handler{memory: memory}
}

// RegisterRoutes mounts the memory routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/memory/{userID}", h.handleGetMemory)
}

func (h *Handler) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "user id is required")
		return
	}

	turns := h.memory.GetContext(userID, recentWindow)
	if turns == nil {
		turns = []chat.Turn{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"user_id":              userID,
		"conversation_summary": h.memory.ConversationSummary(userID),
		"emotional_summary":    h.memory.EmotionalSummary(userID),
		"recent_messages":      turns,
	})
}
