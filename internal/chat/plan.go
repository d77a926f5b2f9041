// ABOUTME: TurnPlan: the transient, ordered output of one director call.
// ABOUTME: Created per decision, consumed immediately by the sequencer, never stored.

package chat

// Action names the side effect a planned turn wants to perform.
type Action string

const (
	ActionNone          Action = "none"
	ActionGenerateImage Action = "generate_image"
	ActionGenerateVideo Action = "generate_video"
	ActionSearch        Action = "search"
)

// Valid reports whether a is one of the four known action tags.
// An empty tag counts as ActionNone.
func (a Action) Valid() bool {
	switch a {
	case "", ActionNone, ActionGenerateImage, ActionGenerateVideo, ActionSearch:
		return true
	}
	return false
}

// PlannedTurn is one entry of a TurnPlan: who speaks, what they say, and
// which action (if any) they perform with what query.
type PlannedTurn struct {
	Speaker Personality
	Content string
	Action  Action
	Query   string
}

// TurnPlan is the ordered list of turns the director proposed for a single
// user message. It may be empty.
type TurnPlan struct {
	Turns []PlannedTurn
}

// SearchResult is what a search resolver produces: a short summary plus
// zero or more citation links.
type SearchResult struct {
	Summary string
	Links   []LinkMeta
}
