// ABOUTME: Tests for the shared domain model: personality and action validity, roster lookup.
// ABOUTME: Pins the closed enumerations the rest of the engine depends on.

package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonality_Valid(t *testing.T) {
	require.Len(t, AllPersonalities, 16)
	for _, p := range AllPersonalities {
		assert.True(t, p.Valid(), "%s must be valid", p)
	}

	assert.False(t, Personality("").Valid())
	assert.False(t, Personality("intj").Valid(), "tags are case sensitive")
	assert.False(t, Personality("ABCD").Valid())
}

func TestAction_Valid(t *testing.T) {
	for _, a := range []Action{"", ActionNone, ActionGenerateImage, ActionGenerateVideo, ActionSearch} {
		assert.True(t, a.Valid(), "%q must be valid", a)
	}
	assert.False(t, Action("dance").Valid())
	assert.False(t, Action("GENERATE_IMAGE").Valid())
}

func TestRoom_AgentByPersonality(t *testing.T) {
	room := &Room{Agents: []Agent{
		{ID: "a1", Personality: INTJ, Name: "Architect"},
		{ID: "a2", Personality: ENFP, Name: "Campaigner"},
		{ID: "a3", Personality: INTJ, Name: "Architect"},
	}}

	got := room.AgentByPersonality(INTJ)
	require.NotNil(t, got)
	assert.Equal(t, "a1", got.ID, "first roster match wins")

	assert.Nil(t, room.AgentByPersonality(ESFP))
}
