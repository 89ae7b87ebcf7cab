package speech

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	speechservice "github.com/mijinlabs/lily-assistant/internal/service/speech"
	"github.com/mijinlabs/lily-assistant/pkg/utils"
)

// Handler exposes text-to-speech and the generated audio file lifecycle.
type Handler struct {
	speech *speechservice.Service
}

// New creates the speech handler.
func New(speech *speechservice.Service) *Handler {
	return &Handler{speech: speech}
}

// RegisterRoutes mounts the speech routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/tts", h.handleTTS)
	r.Get("/audio/{filename}", h.handleGetAudio)
	r.Delete("/audio/{filename}", h.handleDeleteAudio)
}

func (h *Handler) handleTTS(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text    string `json:"text"`
		Emotion string `json:"emotion"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	emotion := payload.Emotion
	if emotion == "" {
		emotion = "neutral"
	}

	audioURL, err := h.speech.Synthesize(r.Context(), text, emotion)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "audio generation failed: "+err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "success",
		"audio_url": audioURL,
		"text":      text,
		"emotion":   emotion,
	})
}

func (h *Handler) handleGetAudio(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	path, ok := h.speech.AudioPath(filename)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "audio not found")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}

func (h *Handler) handleDeleteAudio(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	if h.speech.Delete(filename) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "success",
			"message": "audio deleted",
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "error",
		"message": "audio not found",
	})
}
