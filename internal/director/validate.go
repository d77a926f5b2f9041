// ABOUTME: Wire types and the strict validator for director replies.
// ABOUTME: Malformed turns are dropped before they can reach message construction.

package director

import (
	"log/slog"

	"github.com/pixelmbti/chat/internal/chat"
)

// wirePlan mirrors the provider's JSON reply shape.
type wirePlan struct {
	Responses []wireTurn `json:"responses"`
}

type wireTurn struct {
	SpeakerMbti string `json:"speakerMbti"`
	Content     string `json:"content"`
	Action      string `json:"action,omitempty"`
	ActionQuery string `json:"actionQuery,omitempty"`
}

// validate converts a parsed reply into a TurnPlan, dropping turns that are
// malformed: unknown speaker tags, unknown action tags, or entries carrying
// neither content nor an actionable query. The provider's schema is trusted
// but not relied upon.
func validate(raw wirePlan, logger *slog.Logger) *chat.TurnPlan {
	plan := &chat.TurnPlan{Turns: make([]chat.PlannedTurn, 0, len(raw.Responses))}

	for i, r := range raw.Responses {
		speaker := chat.Personality(r.SpeakerMbti)
		if !speaker.Valid() {
			logger.Warn("dropping turn with invalid speaker", "index", i, "speaker", r.SpeakerMbti)
			continue
		}

		action := chat.Action(r.Action)
		if !action.Valid() {
			logger.Warn("dropping turn with invalid action", "index", i, "action", r.Action)
			continue
		}
		if action == "" {
			action = chat.ActionNone
		}

		if r.Content == "" && (action == chat.ActionNone || r.ActionQuery == "") {
			logger.Warn("dropping turn with no content", "index", i, "speaker", r.SpeakerMbti)
			continue
		}

		plan.Turns = append(plan.Turns, chat.PlannedTurn{
			Speaker: speaker,
			Content: r.Content,
			Action:  action,
			Query:   r.ActionQuery,
		})
	}

	return plan
}
