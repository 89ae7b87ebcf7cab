package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/mijinlabs/lily-assistant/internal/handler/chat"
	emotionHandler "github.com/mijinlabs/lily-assistant/internal/handler/emotion"
	memoryHandler "github.com/mijinlabs/lily-assistant/internal/handler/memory"
	speechHandler "github.com/mijinlabs/lily-assistant/internal/handler/speech"
	middlewarePkg "github.com/mijinlabs/lily-assistant/internal/middleware"
	"github.com/mijinlabs/lily-assistant/internal/service/ai"
	emotionService "github.com/mijinlabs/lily-assistant/internal/service/emotion"
	memoryService "github.com/mijinlabs/lily-assistant/internal/service/memory"
	speechService "github.com/mijinlabs/lily-assistant/internal/service/speech"
	"github.com/mijinlabs/lily-assistant/pkg/utils"
)

// NewRouter wires HTTP routes to core services. engine and speechSvc may be
// nil when the corresponding backend is not configured.
func NewRouter(engine *ai.Engine, tracker *emotionService.Tracker, memorySvc *memoryService.Service, speechSvc *speechService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/", handleIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		connected := engine != nil && engine.Healthy(req.Context())
		status := "healthy"
		if !connected {
			status = "degraded"
		}
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":           status,
			"ollama_connected": connected,
			"timestamp":        time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(api chi.Router) {
		if engine != nil {
			chatHandler.New(engine, speechSvc).RegisterRoutes(api)
		} else {
			api.Post("/chat", func(w http.ResponseWriter, _ *http.Request) {
				utils.RespondError(w, http.StatusServiceUnavailable, "chat model unavailable")
			})
		}

		emotionHandler.New(tracker).RegisterRoutes(api)
		memoryHandler.New(memorySvc).RegisterRoutes(api)

		if speechSvc != nil {
			speechHandler.New(speechSvc).RegisterRoutes(api)
		}
	})

	return r
}

// handleIndex serves the chat frontend.
func handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := os.ReadFile("templates/index.html")
	if err != nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
