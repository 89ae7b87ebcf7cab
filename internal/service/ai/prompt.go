package ai

import (
	"fmt"
	"strings"

	analysis "github.com/mijinlabs/lily-assistant/internal/analysis/emotion"
)

// buildSystemPrompt assembles the single system message: the fixed persona,
// the current emotional context, the memory digests, and the closing
// meta-instructions. Everything except the persona block is derived from the
// per-turn snapshot.
func (e *Engine) buildSystemPrompt(userID string, state analysis.State) string {
	modifier := e.tracker.Modifier(state)
	conversationSummary := e.memory.ConversationSummary(userID)
	emotionalSummary := e.memory.EmotionalSummary(userID)

	var b strings.Builder

	for i, directive := range e.persona.Directives {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(directive)
	}

	b.WriteString("\n\nCONTEXTO EMOCIONAL ACTUAL:\n")
	b.WriteString(modifier)
	b.WriteString(fmt.Sprintf("\nTu emoción actual: %s (intensidad: %.2f)\n", state.Label, state.Intensity))
	b.WriteString("Razón: ")
	b.WriteString(state.Reason)

	b.WriteString("\n\nMEMORIA DE CONVERSACIÓN:\n")
	b.WriteString(conversationSummary)
	b.WriteString("\n")
	b.WriteString(emotionalSummary)

	b.WriteString("\n\nINSTRUCCIONES ADICIONALES:\n")
	b.WriteString("- Mantén coherencia con las conversaciones previas\n")
	b.WriteString("- Adapta tu tono según la emoción detectada\n")
	b.WriteString(fmt.Sprintf("- Recuerda que eres %s y siempre llamas %q al usuario\n", e.persona.Name, e.persona.UserAlias))
	b.WriteString("- NO muestres tu proceso de pensamiento ni razonamiento interno; responde directamente\n")
	b.WriteString("- NO uses bloques <think> ni etiquetas XML; responde solo con tu mensaje final en español")

	return b.String()
}
