package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	analysis "github.com/mijinlabs/lily-assistant/internal/analysis/emotion"
	"github.com/mijinlabs/lily-assistant/internal/model/chat"
)

const (
	defaultMaxTurns    = 200
	defaultMaxEmotions = 100

	// excerptLimit bounds the message fragments quoted inside summaries so
	// the model payload cannot grow with history size.
	excerptLimit = 80

	// emotionalWindow is how many recent states feed the emotional summary.
	emotionalWindow = 10
)

// Config bounds per-user retention. Zero values fall back to defaults.
type Config struct {
	MaxTurns    int
	MaxEmotions int
}

// Service stores per-user conversation transcripts and emotional history.
// Users are created lazily on first interaction and live for the process
// lifetime. Retention is bounded: the oldest entries are evicted once the
// configured caps are reached, while running totals keep summaries truthful.
type Service struct {
	mu    sync.RWMutex
	users map[string]*userMemory
	cfg   Config
}

// userMemory owns one user's sequences. Each user carries its own lock so
// turns for different users never block each other.
type userMemory struct {
	mu            sync.Mutex
	turns         []chat.Turn
	emotions      []analysis.State
	totalTurns    int
	totalEmotions int
}

// NewService creates an empty memory store.
func NewService(cfg Config) *Service {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = defaultMaxTurns
	}
	if cfg.MaxEmotions <= 0 {
		cfg.MaxEmotions = defaultMaxEmotions
	}
	return &Service{users: make(map[string]*userMemory), cfg: cfg}
}

// user returns the memory for userID, creating it on first use.
func (s *Service) user(userID string) *userMemory {
	s.mu.RLock()
	um, ok := s.users[userID]
	s.mu.RUnlock()
	if ok {
		return um
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if um, ok = s.users[userID]; ok {
		return um
	}
	um = &userMemory{}
	s.users[userID] = um
	return um
}

// peek returns the memory for userID without creating it.
func (s *Service) peek(userID string) (*userMemory, bool) {
	s.mu.RLock()
	um, ok := s.users[userID]
	s.mu.RUnlock()
	return um, ok
}

// RecordTurn appends a turn to the user's transcript. The emotion label may
// be empty for user turns.
func (s *Service) RecordTurn(userID string, role chat.Role, content string, emotion analysis.Label) {
	um := s.user(userID)

	turn := chat.Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Emotion:   string(emotion),
		CreatedAt: time.Now().UTC(),
	}

	um.mu.Lock()
	um.turns = append(um.turns, turn)
	um.totalTurns++
	if len(um.turns) > s.cfg.MaxTurns {
		um.turns = um.turns[len(um.turns)-s.cfg.MaxTurns:]
	}
	um.mu.Unlock()
}

// RecordEmotion appends a state to the user's emotional history.
func (s *Service) RecordEmotion(userID string, state analysis.State) {
	um := s.user(userID)

	um.mu.Lock()
	um.emotions = append(um.emotions, state)
	um.totalEmotions++
	if len(um.emotions) > s.cfg.MaxEmotions {
		um.emotions = um.emotions[len(um.emotions)-s.cfg.MaxEmotions:]
	}
	um.mu.Unlock()
}

// GetContext returns the most recent maxMessages turns in chronological
// order. Unseen users and maxMessages <= 0 yield an empty slice. The result
// is a copy; callers cannot mutate stored state through it.
func (s *Service) GetContext(userID string, maxMessages int) []chat.Turn {
	um, ok := s.peek(userID)
	if !ok || maxMessages <= 0 {
		return nil
	}

	um.mu.Lock()
	defer um.mu.Unlock()

	start := 0
	if len(um.turns) > maxMessages {
		start = len(um.turns) - maxMessages
	}

	window := make([]chat.Turn, len(um.turns)-start)
	copy(window, um.turns[start:])
	return window
}

// ConversationSummary renders a bounded digest of the transcript. Its length
// is capped by a constant regardless of how many turns were recorded.
func (s *Service) ConversationSummary(userID string) string {
	um, ok := s.peek(userID)
	if !ok {
		return "Aún no hay conversación previa con este usuario."
	}

	um.mu.Lock()
	defer um.mu.Unlock()

	if len(um.turns) == 0 {
		return "Aún no hay conversación previa con este usuario."
	}

	userTurns := 0
	lastUser := ""
	for _, turn := range um.turns {
		if turn.Role == chat.RoleUser {
			userTurns++
			lastUser = turn.Content
		}
	}

	if lastUser == "" {
		return fmt.Sprintf("La conversación acumula %d turnos.", um.totalTurns)
	}

	return fmt.Sprintf(
		"La conversación acumula %d turnos (%d recientes del usuario). Último mensaje del usuario: %q.",
		um.totalTurns, userTurns, excerpt(lastUser, excerptLimit),
	)
}

// EmotionalSummary renders a bounded digest of the emotional history:
// the dominant recent label and the trend across the retained window.
func (s *Service) EmotionalSummary(userID string) string {
	um, ok := s.peek(userID)
	if !ok {
		return "Sin historial emocional registrado."
	}

	um.mu.Lock()
	defer um.mu.Unlock()

	if len(um.emotions) == 0 {
		return "Sin historial emocional registrado."
	}

	start := 0
	if len(um.emotions) > emotionalWindow {
		start = len(um.emotions) - emotionalWindow
	}
	window := um.emotions[start:]

	counts := make(map[analysis.Label]int, len(window))
	dominant := window[0].Label
	for _, st := range window {
		counts[st.Label]++
		if counts[st.Label] > counts[dominant] {
			dominant = st.Label
		}
	}

	first := window[0].Label
	last := window[len(window)-1].Label
	if first == last {
		return fmt.Sprintf("Historial emocional: predominan estados de %s; el ánimo se ha mantenido en %s.", dominant, last)
	}
	return fmt.Sprintf("Historial emocional: predominan estados de %s; el ánimo pasó de %s a %s.", dominant, first, last)
}

// excerpt truncates s to at most max runes, marking the cut with an ellipsis.
func excerpt(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
