package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mijinlabs/lily-assistant/internal/config"
	"github.com/mijinlabs/lily-assistant/internal/handler"
	"github.com/mijinlabs/lily-assistant/internal/model/persona"
	"github.com/mijinlabs/lily-assistant/internal/service/ai"
	emotionservice "github.com/mijinlabs/lily-assistant/internal/service/emotion"
	memoryservice "github.com/mijinlabs/lily-assistant/internal/service/memory"
	"github.com/mijinlabs/lily-assistant/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	tracker := emotionservice.NewTracker()
	memorySvc := memoryservice.NewService(memoryservice.Config{
		MaxTurns:    cfg.Memory.MaxTurns,
		MaxEmotions: cfg.Memory.MaxEmotions,
	})

	var engine *ai.Engine
	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Printf("warning: failed to initialize chat model: %v", err)
		log.Println("continuing without chat functionality - check OLLAMA_BASE_URL and CHAT_MODEL")
	} else {
		engine, err = ai.NewEngine(ctx, chatModel, persona.Lily(), tracker, memorySvc, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI engine: %v", err)
			engine = nil
		} else {
			log.Printf("AI engine initialized with model %s", cfg.AI.Model)
		}
	}

	var speechSvc *speech.Service
	if cfg.Speech.Enabled {
		speechSvc, err = speech.NewService(cfg.Speech)
		if err != nil {
			log.Printf("warning: failed to initialize speech service: %v", err)
			speechSvc = nil
		} else {
			speechSvc.CleanOldFiles(cfg.Speech.MaxAge)
			log.Println("Speech service initialized successfully")
		}
	} else {
		log.Println("Speech synthesis disabled by configuration")
	}

	router := handler.NewRouter(engine, tracker, memorySvc, speechSvc)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Lily assistant backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
