package ai_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysis "github.com/mijinlabs/lily-assistant/internal/analysis/emotion"
	"github.com/mijinlabs/lily-assistant/internal/config"
	"github.com/mijinlabs/lily-assistant/internal/model/chat"
	"github.com/mijinlabs/lily-assistant/internal/model/persona"
	"github.com/mijinlabs/lily-assistant/internal/service/ai"
	emotionservice "github.com/mijinlabs/lily-assistant/internal/service/emotion"
	memoryservice "github.com/mijinlabs/lily-assistant/internal/service/memory"
)

// fakeChatModel satisfies model.ChatModel with canned behaviour so turn
// processing can be exercised without a live backend.
type fakeChatModel struct {
	reply string
	err   error
	block bool
}

func (f *fakeChatModel) Generate(ctx context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (f *fakeChatModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func newTestEngine(t *testing.T, chatModel model.ChatModel) (*ai.Engine, *emotionservice.Tracker, *memoryservice.Service) {
	t.Helper()

	tracker := emotionservice.NewTracker()
	memory := memoryservice.NewService(memoryservice.Config{})

	cfg := config.AIConfig{
		BaseURL:       "http://127.0.0.1:11434",
		Model:         "qwen3",
		Timeout:       200 * time.Millisecond,
		ContextWindow: 6,
	}

	engine, err := ai.NewEngine(context.Background(), chatModel, persona.Lily(), tracker, memory, cfg)
	require.NoError(t, err)
	return engine, tracker, memory
}

func TestHandleTurnFreshUser(t *testing.T) {
	engine, _, memory := newTestEngine(t, &fakeChatModel{reply: "¡Hola Mijin!"})

	require.Empty(t, memory.GetContext("u1", 6), "fresh user should start with no context")

	reply, state := engine.HandleTurn(context.Background(), "Hola", "u1")
	assert.Equal(t, "¡Hola Mijin!", reply)
	assert.Equal(t, analysis.Neutral, state.Label)
	assert.Zero(t, state.Intensity)

	turns := memory.GetContext("u1", 6)
	require.Len(t, turns, 2)
	assert.Equal(t, chat.RoleUser, turns[0].Role)
	assert.Equal(t, "Hola", turns[0].Content)
	assert.Equal(t, chat.RoleAssistant, turns[1].Role)
}

func TestHandleTurnStripsReasoning(t *testing.T) {
	engine, _, memory := newTestEngine(t, &fakeChatModel{reply: "<think>pensando...</think>Claro Mijin"})

	reply, _ := engine.HandleTurn(context.Background(), "Hola", "u1")
	assert.Equal(t, "Claro Mijin", reply)

	turns := memory.GetContext("u1", 6)
	require.Len(t, turns, 2)
	assert.Equal(t, "Claro Mijin", turns[1].Content, "sanitized text is what gets recorded")
}

func TestHandleTurnInsultDrivesAngryState(t *testing.T) {
	engine, tracker, _ := newTestEngine(t, &fakeChatModel{reply: "¡Pues tú más!"})

	_, state := engine.HandleTurn(context.Background(), "eres una estúpida", "u1")
	assert.Equal(t, analysis.Angry, state.Label)
	assert.GreaterOrEqual(t, state.Intensity, 0.7)

	modifier := tracker.Modifier(state)
	assert.Contains(t, modifier, "sin filtros")
}

func TestHandleTurnTimeoutFallback(t *testing.T) {
	engine, _, memory := newTestEngine(t, &fakeChatModel{block: true})

	before := len(memory.GetContext("u1", 100))

	reply, state := engine.HandleTurn(context.Background(), "Hola", "u1")
	assert.True(t, strings.Contains(reply, "tardando mucho en pensar"),
		"expected the fixed timeout fallback, got %q", reply)
	assert.Equal(t, analysis.Worried, state.Label)

	after := len(memory.GetContext("u1", 100))
	assert.Equal(t, before, after, "failed turns must not be recorded")
}

func TestHandleTurnProtocolErrorFallback(t *testing.T) {
	engine, _, memory := newTestEngine(t, &fakeChatModel{err: errors.New("status 500")})

	reply, state := engine.HandleTurn(context.Background(), "Hola", "u1")
	assert.Contains(t, reply, "Error al conectar con el modelo")
	assert.Equal(t, analysis.Neutral, state.Label)
	assert.Empty(t, memory.GetContext("u1", 100), "failed turns must not be recorded")
}

func TestHandleTurnRecordsEmotionEvenOnFailure(t *testing.T) {
	engine, _, memory := newTestEngine(t, &fakeChatModel{block: true})

	engine.HandleTurn(context.Background(), "tengo miedo", "u1")

	// The user's classified emotion is recorded before the model call; only
	// the transcript stays untouched on failure.
	summary := memory.EmotionalSummary("u1")
	assert.Contains(t, summary, string(analysis.Worried))
}

func TestHandleTurnContextWindowFlowsIntoNextCall(t *testing.T) {
	fake := &fakeChatModel{reply: "respuesta"}
	engine, _, memory := newTestEngine(t, fake)

	for i := 0; i < 5; i++ {
		engine.HandleTurn(context.Background(), "Hola otra vez", "u1")
	}

	turns := memory.GetContext("u1", 6)
	require.Len(t, turns, 6, "window must cap at the configured size")
}
