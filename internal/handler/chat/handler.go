package chat

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mijinlabs/lily-assistant/internal/service/ai"
	"github.com/mijinlabs/lily-assistant/internal/service/speech"
	"github.com/mijinlabs/lily-assistant/pkg/utils"
)

// defaultUserID matches the identity used when the client omits user_id.
const defaultUserID = "default_user"

// Handler exposes the main chat endpoint.
type Handler struct {
	engine *ai.Engine
	speech *speech.Service
}

// New creates the chat handler. speech may be nil when audio is disabled.
func New(engine *ai.Engine, speechSvc *speech.Service) *Handler {
	return &Handler{engine: engine, speech: speechSvc}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type chatResponse struct {
	Response  string `json:"response"`
	Emotion   string `json:"emotion"`
	AudioURL  string `json:"audio_url,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := strings.TrimSpace(payload.Message)
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	userID := strings.TrimSpace(payload.UserID)
	if userID == "" {
		userID = defaultUserID
	}

	reply, state := h.engine.HandleTurn(r.Context(), message, userID)

	audioURL := ""
	if h.speech.Enabled() {
		url, err := h.speech.Synthesize(r.Context(), reply, string(state.Label))
		if err != nil {
			log.Printf("[chat] audio generation failed: %v", err)
		} else {
			audioURL = url
		}
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		Response:  reply,
		Emotion:   string(state.Label),
		AudioURL:  audioURL,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
