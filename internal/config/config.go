package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"
	"github.com/ollama/ollama/api"
)

// Config aggregates every runtime setting of the service.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Memory MemoryConfig
	Speech SpeechConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	mem, err := loadMemoryConfig()
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Memory: mem, Speech: speech}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// Accept ":8000" and "127.0.0.1:8000" forms directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the Ollama-backed chat model and the turn pipeline.
type AIConfig struct {
	BaseURL       string
	Model         string
	Temperature   float64
	TopP          float64
	TopK          int
	Timeout       time.Duration
	ContextWindow int
}

// NewChatModel builds the Ollama chat model with the configured sampling
// parameters.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: c.BaseURL,
		Model:   c.Model,
		Timeout: c.Timeout,
		Options: &api.Options{
			Temperature: float32(c.Temperature),
			TopP:        float32(c.TopP),
			TopK:        c.TopK,
		},
	})
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseFloatEnv("CHAT_TEMPERATURE", 0.8)
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseFloatEnv("CHAT_TOP_P", 0.9)
	if err != nil {
		return AIConfig{}, err
	}

	topK, err := parseIntEnv("CHAT_TOP_K", 40)
	if err != nil {
		return AIConfig{}, err
	}

	timeoutSeconds, err := parseIntEnv("CHAT_TIMEOUT", 60)
	if err != nil {
		return AIConfig{}, err
	}
	if timeoutSeconds < 1 {
		timeoutSeconds = 1
	}

	window, err := parseIntEnv("CHAT_CONTEXT_WINDOW", 6)
	if err != nil {
		return AIConfig{}, err
	}
	if window < 0 {
		window = 0
	}

	return AIConfig{
		BaseURL:       getEnvOrDefault("OLLAMA_BASE_URL", "http://127.0.0.1:11434"),
		Model:         getEnvOrDefault("CHAT_MODEL", "qwen3"),
		Temperature:   temperature,
		TopP:          topP,
		TopK:          topK,
		Timeout:       time.Duration(timeoutSeconds) * time.Second,
		ContextWindow: window,
	}, nil
}

// MemoryConfig bounds per-user retention.
type MemoryConfig struct {
	MaxTurns    int
	MaxEmotions int
}

func loadMemoryConfig() (MemoryConfig, error) {
	maxTurns, err := parseIntEnv("MEMORY_MAX_TURNS", 200)
	if err != nil {
		return MemoryConfig{}, err
	}

	maxEmotions, err := parseIntEnv("MEMORY_MAX_EMOTIONS", 100)
	if err != nil {
		return MemoryConfig{}, err
	}

	return MemoryConfig{MaxTurns: maxTurns, MaxEmotions: maxEmotions}, nil
}

// SpeechConfig describes the TTS sidecar and audio file lifecycle.
type SpeechConfig struct {
	Enabled  bool
	BaseURL  string
	Language string
	AudioDir string
	MaxAge   time.Duration
}

func loadSpeechConfig() (SpeechConfig, error) {
	enabled, err := parseBoolEnv("TTS_ENABLED", true)
	if err != nil {
		return SpeechConfig{}, err
	}

	maxAgeSeconds, err := parseIntEnv("TTS_MAX_AGE", 300)
	if err != nil {
		return SpeechConfig{}, err
	}

	return SpeechConfig{
		Enabled:  enabled,
		BaseURL:  getEnvOrDefault("TTS_BASE_URL", "https://translate.google.com/translate_tts"),
		Language: getEnvOrDefault("TTS_LANGUAGE", "es"),
		AudioDir: getEnvOrDefault("TTS_AUDIO_DIR", "static/audio"),
		MaxAge:   time.Duration(maxAgeSeconds) * time.Second,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}
