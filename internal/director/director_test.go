// ABOUTME: Tests for director request shaping and reply validation.
// ABOUTME: The provider call itself is not exercised here; only the pure halves are.

package director

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelmbti/chat/internal/chat"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testRoster(types ...chat.Personality) []chat.Agent {
	agents := make([]chat.Agent, 0, len(types))
	for i, p := range types {
		agents = append(agents, chat.Agent{
			ID:          string(rune('a' + i)),
			Personality: p,
			Name:        "Agent " + string(p),
		})
	}
	return agents
}

func TestRosterDescription_OneLinePerAgent(t *testing.T) {
	roster := []chat.Agent{
		{Personality: chat.INTJ, Name: "Architect"},
		{Personality: chat.ENFP, Name: "Campaigner"},
	}

	desc := rosterDescription(roster)
	lines := strings.Split(desc, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "INTJ (Architect): Strictly adheres to INTJ personality traits.", lines[0])
	assert.Equal(t, "ENFP (Campaigner): Strictly adheres to ENFP personality traits.", lines[1])
}

func TestMaxTurns_CappedAtSix(t *testing.T) {
	assert.Equal(t, 1, maxTurns(testRoster(chat.INTJ)))
	assert.Equal(t, 3, maxTurns(testRoster(chat.INTJ, chat.ENFP, chat.ISTP)))

	big := testRoster(chat.INTJ, chat.INTP, chat.ENTJ, chat.ENTP, chat.INFJ, chat.INFP, chat.ENFJ)
	assert.Equal(t, 6, maxTurns(big))
}

func TestSystemInstruction_MentionsRosterAndBudget(t *testing.T) {
	roster := testRoster(chat.INTJ, chat.ENFP)
	instr := systemInstruction(roster)

	assert.Contains(t, instr, "2 characters")
	assert.Contains(t, instr, "INTJ (Agent INTJ)")
	assert.Contains(t, instr, "Decide how many should respond (1 to 2)")
	assert.Contains(t, instr, "'generate_image'")
	assert.Contains(t, instr, "'generate_video'")
	assert.Contains(t, instr, "'search'")
}

func TestHistoryLines_WindowAndFormat(t *testing.T) {
	history := make([]chat.Message, 0, 12)
	for i := 0; i < 12; i++ {
		history = append(history, chat.Message{
			SenderName: "You",
			Content:    "msg",
			Kind:       chat.KindText,
		})
	}
	history[1].SenderName = "Architect"
	history[1].Content = "outside the window"

	lines := strings.Split(historyLines(history), "\n")
	require.Len(t, lines, HistoryWindow)
	for _, line := range lines {
		assert.NotContains(t, line, "outside the window")
	}
	assert.Equal(t, "You: msg [Type: text]", lines[0])
}

func TestHistoryLines_TagsMessageKind(t *testing.T) {
	history := []chat.Message{
		{SenderName: "Architect", Content: "look", Kind: chat.KindImage},
		{SenderName: "You", Content: "nice", Kind: chat.KindText},
	}

	got := historyLines(history)
	assert.Contains(t, got, "Architect: look [Type: image]")
	assert.Contains(t, got, "You: nice [Type: text]")
}

func TestUserPrompt_ImageOnlyFallback(t *testing.T) {
	prompt := userPrompt(nil, chat.Message{Kind: chat.KindImage})
	assert.Contains(t, prompt, "User Latest Message: [Image/Media]")

	prompt = userPrompt(nil, chat.Message{Content: "hello", Kind: chat.KindText})
	assert.Contains(t, prompt, "User Latest Message: hello")
}

func TestPlanSchema_SpeakerEnumMatchesRoster(t *testing.T) {
	roster := testRoster(chat.INTJ, chat.ENFP, chat.INTJ)
	schema := planSchema(roster)

	items := schema.Properties["responses"].Items
	speakers := items.Properties["speakerMbti"].Enum
	assert.Equal(t, []string{"INTJ", "ENFP"}, speakers, "duplicates collapse")

	actions := items.Properties["action"].Enum
	assert.ElementsMatch(t, []string{"none", "generate_image", "generate_video", "search"}, actions)
	assert.Equal(t, []string{"speakerMbti", "content"}, items.Required)
}

func TestValidate_AcceptsWellFormedTurns(t *testing.T) {
	raw := wirePlan{Responses: []wireTurn{
		{SpeakerMbti: "INTJ", Content: "Indeed."},
		{SpeakerMbti: "ENFP", Content: "Look!", Action: "generate_image", ActionQuery: "a sunrise"},
	}}

	plan := validate(raw, testLogger())
	require.Len(t, plan.Turns, 2)
	assert.Equal(t, chat.INTJ, plan.Turns[0].Speaker)
	assert.Equal(t, chat.ActionNone, plan.Turns[0].Action)
	assert.Equal(t, chat.ActionGenerateImage, plan.Turns[1].Action)
	assert.Equal(t, "a sunrise", plan.Turns[1].Query)
}

func TestValidate_DropsInvalidSpeaker(t *testing.T) {
	raw := wirePlan{Responses: []wireTurn{
		{SpeakerMbti: "XXXX", Content: "ghost"},
		{SpeakerMbti: "INTJ", Content: "real"},
	}}

	plan := validate(raw, testLogger())
	require.Len(t, plan.Turns, 1)
	assert.Equal(t, "real", plan.Turns[0].Content)
}

func TestValidate_DropsInvalidAction(t *testing.T) {
	raw := wirePlan{Responses: []wireTurn{
		{SpeakerMbti: "INTJ", Content: "hm", Action: "explode"},
	}}

	plan := validate(raw, testLogger())
	assert.Empty(t, plan.Turns)
}

func TestValidate_DropsEmptyTurns(t *testing.T) {
	raw := wirePlan{Responses: []wireTurn{
		{SpeakerMbti: "INTJ"},
		{SpeakerMbti: "ENFP", Action: "search"},
	}}

	plan := validate(raw, testLogger())
	assert.Empty(t, plan.Turns)
}

func TestValidate_KeepsActionOnlyTurnWithQuery(t *testing.T) {
	raw := wirePlan{Responses: []wireTurn{
		{SpeakerMbti: "INTJ", Action: "generate_image", ActionQuery: "a diagram"},
	}}

	plan := validate(raw, testLogger())
	require.Len(t, plan.Turns, 1)
	assert.Empty(t, plan.Turns[0].Content)
	assert.Equal(t, "a diagram", plan.Turns[0].Query)
}

func TestValidate_EmptyReply(t *testing.T) {
	plan := validate(wirePlan{}, testLogger())
	require.NotNil(t, plan)
	assert.Empty(t, plan.Turns)
}
