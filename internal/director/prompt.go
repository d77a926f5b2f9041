// ABOUTME: Request shaping for the director call: roster directives, history window, schema.
// ABOUTME: The reply schema constrains speakers to the room's roster tags.

package director

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pixelmbti/chat/internal/chat"
)

// HistoryWindow is how many prior messages are included in the request.
const HistoryWindow = 10

// maxTurnCap caps how many speaking turns the director may propose,
// regardless of roster size.
const maxTurnCap = 6

// rosterDescription renders one directive line per agent.
func rosterDescription(roster []chat.Agent) string {
	lines := make([]string, 0, len(roster))
	for _, a := range roster {
		lines = append(lines, fmt.Sprintf("%s (%s): Strictly adheres to %s personality traits.",
			a.Personality, a.Name, a.Personality))
	}
	return strings.Join(lines, "\n")
}

// maxTurns returns the turn budget offered to the director for a roster.
func maxTurns(roster []chat.Agent) int {
	if len(roster) < maxTurnCap {
		return len(roster)
	}
	return maxTurnCap
}

// systemInstruction builds the director prompt for a roster.
func systemInstruction(roster []chat.Agent) string {
	return fmt.Sprintf(`You are the Director of a pixel-art personality chatroom with %d characters.

Characters:
%s

Current Context:
The user just sent a message.

Task:
Decide how many should respond (1 to %d) based on the context:
- In most cases, you can have 1, 2, or at most 4 characters respond in a sequence.
- In rare cases, you can have up to %d characters respond in that very sequence.
- The more characters in the room, the more can participate, but avoid spam.
- Characters can reply to the user or to each other.
- Consider personality type - some types are more talkative (E) vs quiet (I).
- Characters MUST stay in character.
- Balance natural group dynamics with readability.
- If the user sent an image, characters should react to it visually/emotionally based on their type.
- Characters can perform actions:
  - 'generate_image' (if asked to show something or feeling creative).
  - 'generate_video' (if asked to make a video/movie).
  - 'search' (if asked for facts/links).

Return a JSON object containing an array of responses.`,
		len(roster), rosterDescription(roster), maxTurns(roster), maxTurns(roster))
}

// historyLines reduces the trailing window of prior messages to the
// "Sender: content [Type: kind]" form the director consumes.
func historyLines(history []chat.Message) string {
	start := 0
	if len(history) > HistoryWindow {
		start = len(history) - HistoryWindow
	}
	lines := make([]string, 0, len(history)-start)
	for _, m := range history[start:] {
		lines = append(lines, fmt.Sprintf("%s: %s [Type: %s]", m.SenderName, m.Content, m.Kind))
	}
	return strings.Join(lines, "\n")
}

// userPrompt combines the history window with the new user message.
func userPrompt(history []chat.Message, userMsg chat.Message) string {
	content := userMsg.Content
	if content == "" {
		content = "[Image/Media]"
	}
	return fmt.Sprintf("Previous Conversation History:\n%s\n\nUser Latest Message: %s",
		historyLines(history), content)
}

// planSchema builds the structured-output schema, with the speaker enum
// restricted to tags actually present in the roster.
func planSchema(roster []chat.Agent) *genai.Schema {
	speakers := make([]string, 0, len(roster))
	seen := make(map[chat.Personality]bool, len(roster))
	for _, a := range roster {
		if seen[a.Personality] {
			continue
		}
		seen[a.Personality] = true
		speakers = append(speakers, string(a.Personality))
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"responses": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"speakerMbti": {Type: genai.TypeString, Enum: speakers},
						"content":     {Type: genai.TypeString},
						"action": {Type: genai.TypeString, Enum: []string{
							string(chat.ActionNone),
							string(chat.ActionGenerateImage),
							string(chat.ActionGenerateVideo),
							string(chat.ActionSearch),
						}},
						"actionQuery": {Type: genai.TypeString},
					},
					Required: []string{"speakerMbti", "content"},
				},
			},
		},
	}
}
