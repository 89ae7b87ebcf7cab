package emotion

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	emotionservice "github.com/mijinlabs/lily-assistant/internal/service/emotion"
	"github.com/mijinlabs/lily-assistant/pkg/utils"
)

const defaultUserID = "default_user"

// Handler exposes the current emotional state for diagnostics.
type Handler struct {
	tracker *emotionservice.Tracker
}

// New creates the emotion handler.
func New(tracker *emotionservice.Tracker) *Handler {
	return &Handler{tracker: tracker}
}

// RegisterRoutes mounts the emotion routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/emotion", h.handleCurrentEmotion)
}

func (h *Handler) handleCurrentEmotion(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		userID = defaultUserID
	}

	state := h.tracker.Current(userID)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"emotion":   state.Label,
		"intensity": state.Intensity,
		"reason":    state.Reason,
		"timestamp": state.Timestamp,
	})
}
