package emotion

import (
	"fmt"
	"sync"

	analysis "github.com/mijinlabs/lily-assistant/internal/analysis/emotion"
)

// Tracker keeps the agent's current emotional state per user. The state for a
// user is replaced wholesale on every classified utterance; concurrent turns
// for different users never interfere with each other.
type Tracker struct {
	mu     sync.RWMutex
	states map[string]analysis.State
}

// NewTracker returns a tracker with no recorded states; unseen users read as
// neutral.
func NewTracker() *Tracker {
	return &Tracker{states: make(map[string]analysis.State)}
}

// Update classifies the utterance, stores the resulting state as the user's
// current one, and returns it.
func (t *Tracker) Update(userID, text string) analysis.State {
	state := analysis.Classify(text)

	t.mu.Lock()
	t.states[userID] = state
	t.mu.Unlock()

	return state
}

// Current returns the user's current emotional state, or the neutral default
// for users that have not spoken yet.
func (t *Tracker) Current(userID string) analysis.State {
	t.mu.RLock()
	state, ok := t.states[userID]
	t.mu.RUnlock()

	if !ok {
		return analysis.NeutralState()
	}
	return state
}

var toneDirectives = map[analysis.Label]string{
	analysis.Neutral:      "Mantén un tono natural y conversacional, sin exagerar ninguna emoción.",
	analysis.Happy:        "Estás de buen humor: responde con ligereza, humor y energía positiva.",
	analysis.Sad:          "El ambiente es triste: responde con suavidad y empatía, sin perder tu personalidad.",
	analysis.Angry:        "Estás molesta: puedes ser cortante y directa en tu respuesta.",
	analysis.Worried:      "Estás preocupada: muestra interés genuino por el bienestar del usuario.",
	analysis.Affectionate: "Te sientes cariñosa: responde con ternura y cercanía.",
	analysis.Playful:      "Estás juguetona: bromea, provoca un poco y mantén el tono ligero.",
	analysis.Excited:      "Estás emocionada: deja que el entusiasmo se note en cada frase.",
}

// Modifier renders the behavioural directive for a given state. It is pure
// with respect to the state value so in-flight turns can use the snapshot
// they classified rather than whatever is current by the time they render.
func (t *Tracker) Modifier(state analysis.State) string {
	base, ok := toneDirectives[state.Label]
	if !ok {
		base = toneDirectives[analysis.Neutral]
	}

	switch {
	case state.Label == analysis.Angry && state.Intensity >= 0.7:
		return "El usuario te ha faltado al respeto. Responde con firmeza y la misma intensidad, sin filtros ni lenguaje suavizado."
	case state.Intensity >= 0.7:
		return fmt.Sprintf("%s La emoción es intensa (%.2f): hazla evidente en tu respuesta.", base, state.Intensity)
	default:
		return base
	}
}
