package emotion_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysis "github.com/mijinlabs/lily-assistant/internal/analysis/emotion"
	emotion "github.com/mijinlabs/lily-assistant/internal/service/emotion"
)

func TestCurrentDefaultsToNeutral(t *testing.T) {
	tracker := emotion.NewTracker()

	state := tracker.Current("nunca-visto")
	assert.Equal(t, analysis.Neutral, state.Label)
	assert.Zero(t, state.Intensity)
}

func TestUpdateReplacesCurrentState(t *testing.T) {
	tracker := emotion.NewTracker()

	updated := tracker.Update("u1", "me siento muy triste")
	require.Equal(t, analysis.Sad, updated.Label)

	current := tracker.Current("u1")
	assert.Equal(t, updated.Label, current.Label)
	assert.Equal(t, updated.Intensity, current.Intensity)
}

func TestStatesAreIsolatedPerUser(t *testing.T) {
	tracker := emotion.NewTracker()

	tracker.Update("u1", "eres una idiota")
	tracker.Update("u2", "te quiero mucho")

	assert.Equal(t, analysis.Angry, tracker.Current("u1").Label)
	assert.Equal(t, analysis.Affectionate, tracker.Current("u2").Label)
}

func TestModifierForHighIntensityAnger(t *testing.T) {
	tracker := emotion.NewTracker()

	state := tracker.Update("u1", "eres una estúpida inútil")
	require.Equal(t, analysis.Angry, state.Label)
	require.GreaterOrEqual(t, state.Intensity, 0.7)

	modifier := tracker.Modifier(state)
	assert.True(t, strings.Contains(modifier, "sin filtros"),
		"expected an unfiltered tone directive, got %q", modifier)
}

func TestModifierForNeutralState(t *testing.T) {
	tracker := emotion.NewTracker()

	modifier := tracker.Modifier(analysis.NeutralState())
	assert.NotEmpty(t, modifier)
}

func TestModifierMentionsHighIntensity(t *testing.T) {
	tracker := emotion.NewTracker()

	state := analysis.State{Label: analysis.Affectionate, Intensity: 0.8, Reason: "prueba"}
	modifier := tracker.Modifier(state)
	assert.Contains(t, modifier, "intensa")
}
