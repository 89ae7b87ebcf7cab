package emotion

import (
	"strings"
	"time"
	"unicode"
)

// Label identifies one of the moods Lily can express. The values are the
// Spanish tags the frontend and the TTS layer consume.
type Label string

const (
	Neutral      Label = "neutral"
	Happy        Label = "feliz"
	Sad          Label = "triste"
	Angry        Label = "enojada"
	Worried      Label = "preocupada"
	Affectionate Label = "cariñosa"
	Playful      Label = "juguetona"
	Excited      Label = "emocionada"
)

// State is an immutable snapshot of the agent's mood. Updates always build a
// new State rather than mutating an existing one.
type State struct {
	Label     Label     `json:"emotion"`
	Intensity float64   `json:"intensity"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NeutralState is the resting mood used when no rule fires.
func NeutralState() State {
	return State{
		Label:     Neutral,
		Intensity: 0,
		Reason:    "sin disparador emocional",
		Timestamp: time.Now().UTC(),
	}
}

// rule maps a trigger condition over the normalized input to an outcome.
// Rules are evaluated in declaration order; the highest intensity wins and
// earlier rules win ties.
type rule struct {
	match     func(normalized, raw string) bool
	label     Label
	intensity float64
	reason    string
}

var rules = []rule{
	{
		match:     keywordMatcher("estúpida", "estupida", "idiota", "imbécil", "imbecil", "pendeja", "puta", "mierda", "cabrona", "chinga", "inútil", "inutil", "babosa", "vete al diablo"),
		label:     Angry,
		intensity: 0.9,
		reason:    "insulto directo detectado",
	},
	{
		match:     keywordMatcher("cállate", "callate", "te odio", "me molestas", "odio", "eres lo peor"),
		label:     Angry,
		intensity: 0.7,
		reason:    "tono agresivo detectado",
	},
	{
		match:     allCapsShouting,
		label:     Angry,
		intensity: 0.65,
		reason:    "mensaje escrito a gritos",
	},
	{
		match:     keywordMatcher("te quiero", "te amo", "linda", "hermosa", "preciosa", "cariño", "carino", "besos", "abrazo", "mi amor"),
		label:     Affectionate,
		intensity: 0.8,
		reason:    "expresión de cariño",
	},
	{
		match:     keywordMatcher("increíble", "increible", "asombroso", "no puedo creer", "qué emoción", "que emocion", "wow"),
		label:     Excited,
		intensity: 0.7,
		reason:    "sorpresa o entusiasmo fuerte",
	},
	{
		match:     keywordMatcher("triste", "llorar", "llorando", "deprimido", "deprimida", "me siento mal", "desanimado", "desanimada", "extraño a", "extrano a"),
		label:     Sad,
		intensity: 0.7,
		reason:    "expresión de tristeza",
	},
	{
		match:     keywordMatcher("me preocupa", "preocupado", "preocupada", "tengo miedo", "nervios", "ansiedad", "asustado", "asustada", "peligro"),
		label:     Worried,
		intensity: 0.6,
		reason:    "señal de preocupación",
	},
	{
		match:     keywordMatcher("jaja", "jeje", "genial", "me alegra", "feliz", "contento", "contenta", "buenísimo", "buenisimo", "excelente", "me encanta"),
		label:     Happy,
		intensity: 0.6,
		reason:    "expresión de alegría",
	},
	{
		match:     repeatedExclamations,
		label:     Excited,
		intensity: 0.55,
		reason:    "signos de exclamación repetidos",
	},
	{
		match:     keywordMatcher("juguemos", "una broma", "jiji", "travesura", "adivina", "vamos a jugar"),
		label:     Playful,
		intensity: 0.5,
		reason:    "invitación a jugar",
	},
}

// Classify derives an emotional state from a single user utterance. It never
// fails: inputs with no matching trigger resolve to the neutral state, and a
// malformed rule is skipped rather than propagated.
func Classify(text string) State {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return NeutralState()
	}

	best := NeutralState()
	for _, r := range rules {
		if r.match == nil {
			continue
		}
		if !r.match(normalized, text) {
			continue
		}
		if r.intensity > best.Intensity {
			best = State{
				Label:     r.label,
				Intensity: clamp01(r.intensity),
				Reason:    r.reason,
				Timestamp: best.Timestamp,
			}
		}
	}

	return best
}

func keywordMatcher(words ...string) func(normalized, raw string) bool {
	return func(normalized, _ string) bool {
		for _, word := range words {
			if word != "" && strings.Contains(normalized, word) {
				return true
			}
		}
		return false
	}
}

// repeatedExclamations treats two or more exclamation marks as an intensity
// marker, covering both "!!" runs and sentences ending in "!...!".
func repeatedExclamations(_, raw string) bool {
	return strings.Count(raw, "!")+strings.Count(raw, "¡") >= 2
}

// allCapsShouting fires on messages of six letters or more written entirely
// in upper case.
func allCapsShouting(_, raw string) bool {
	letters := 0
	for _, r := range raw {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsLower(r) {
			return false
		}
	}
	return letters >= 6
}

func clamp01(val float64) float64 {
	if val < 0 {
		return 0
	}
	if val > 1 {
		return 1
	}
	return val
}
