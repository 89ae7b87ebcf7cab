package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/mijinlabs/lily-assistant/internal/analysis/emotion"
	"github.com/mijinlabs/lily-assistant/internal/config"
	"github.com/mijinlabs/lily-assistant/internal/model/chat"
	"github.com/mijinlabs/lily-assistant/internal/model/persona"
	emotionservice "github.com/mijinlabs/lily-assistant/internal/service/emotion"
	memoryservice "github.com/mijinlabs/lily-assistant/internal/service/memory"
)

// timeoutFallback is returned verbatim when the model call exceeds its bound.
const timeoutFallback = "Lo siento Mijin, estoy tardando mucho en pensar... ¿Podrías repetir eso?"

// callErrKind classifies a failed model call so the turn pipeline can branch
// on kind instead of error text.
type callErrKind int

const (
	callOK callErrKind = iota
	callTimeout
	callProtocolError
)

// Engine runs the full chat turn: emotion classification, prompt assembly,
// the model call, output sanitation, and memory recording.
type Engine struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	tracker *emotionservice.Tracker
	memory  *memoryservice.Service
	persona persona.Persona
	cfg     config.AIConfig
	health  *http.Client
}

// NewEngine compiles the prompt chain around the provided chat model. The
// model is injected so tests can substitute a fake.
func NewEngine(ctx context.Context, chatModel model.ChatModel, p persona.Persona, tracker *emotionservice.Tracker, memory *memoryservice.Service, cfg config.AIConfig) (*Engine, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Engine{
		chain:   runnable,
		tracker: tracker,
		memory:  memory,
		persona: p,
		cfg:     cfg,
		health:  &http.Client{Timeout: 5 * time.Second},
	}, nil
}

// HandleTurn processes a single user message and always produces a textual
// reply plus the emotional state attached to it. Model failures are recovered
// locally: the caller receives fallback content, and the failed turn is never
// recorded so the transcript only contains turns that got an answer.
func (e *Engine) HandleTurn(ctx context.Context, userMessage, userID string) (string, analysis.State) {
	state := e.tracker.Update(userID, userMessage)
	e.memory.RecordEmotion(userID, state)

	// Snapshot everything the prompt needs before the model call so no lock
	// is held while the model is thinking.
	input := map[string]any{
		"system":  e.buildSystemPrompt(userID, state),
		"history": e.buildHistoryMessages(e.memory.GetContext(userID, e.cfg.ContextWindow)),
		"query":   userMessage,
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	msg, err := e.chain.Invoke(callCtx, input)
	switch classifyCallError(callCtx, msg, err) {
	case callTimeout:
		log.Printf("[ai] model call timed out for user=%s: %v", userID, err)
		return timeoutFallback, degradedState(analysis.Worried, 0.6, "el modelo tardó demasiado en responder")
	case callProtocolError:
		log.Printf("[ai] model call failed for user=%s: %v", userID, err)
		return fmt.Sprintf("Error al conectar con el modelo: %v", err), degradedState(analysis.Neutral, 0, "fallo del modelo")
	}

	reply := Sanitize(msg.Content)

	e.memory.RecordTurn(userID, chat.RoleUser, userMessage, "")
	e.memory.RecordTurn(userID, chat.RoleAssistant, reply, state.Label)

	log.Printf("[ai] generated response for user=%s, emotion=%s, length=%d", userID, state.Label, len(reply))
	return reply, state
}

// Healthy reports whether the Ollama backend answers its tags endpoint.
func (e *Engine) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := e.health.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func classifyCallError(callCtx context.Context, msg *schema.Message, err error) callErrKind {
	switch {
	case err == nil && msg != nil:
		return callOK
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return callTimeout
	default:
		return callProtocolError
	}
}

func degradedState(label analysis.Label, intensity float64, reason string) analysis.State {
	return analysis.State{
		Label:     label,
		Intensity: intensity,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
}

func (e *Engine) buildHistoryMessages(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(turn.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		}
	}
	return history
}
