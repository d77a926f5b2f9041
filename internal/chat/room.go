// ABOUTME: Room and Agent types: a room owns a fixed agent roster and a message log.
// ABOUTME: Agents are exclusive to one room; the log is append-only.

package chat

import "time"

// Agent is a personality-bound participant. Its personality tag is immutable
// and the agent belongs to exactly one room.
type Agent struct {
	ID          string
	Personality Personality
	Name        string
	Color       string
}

// Room is a chat session: a fixed roster of 1..5 agents plus an ordered,
// append-only message log. LastActivity is bumped on every append.
type Room struct {
	ID           string
	Name         string
	Agents       []Agent
	Messages     []Message
	LastActivity time.Time
}

// AgentByPersonality returns the first roster agent with the given tag,
// or nil when no agent matches. Rooms may contain duplicate tags; the
// first match wins, matching how the director addresses speakers.
func (r *Room) AgentByPersonality(p Personality) *Agent {
	for i := range r.Agents {
		if r.Agents[i].Personality == p {
			return &r.Agents[i]
		}
	}
	return nil
}
