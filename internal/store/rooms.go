// ABOUTME: In-memory room state store: room registry, append-only logs, busy flags.
// ABOUTME: Appends are serialized per store; different rooms never contend on turns.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixelmbti/chat/internal/chat"
	"github.com/pixelmbti/chat/internal/persona"
)

// ErrRoomNotFound is returned when a room id does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrRosterSize is returned when a room is created with an invalid roster.
var ErrRosterSize = errors.New("room needs between 1 and 5 agents")

// maxRoomAgents bounds the roster size at creation.
const maxRoomAgents = 5

// RoomStore holds every room for the process lifetime. Message logs are
// append-only and rooms own their agents; nothing here survives a restart.
type RoomStore struct {
	mu       sync.RWMutex
	rooms    map[string]*chat.Room
	busy     map[string]bool
	personas *persona.Registry
	watcher  *Watcher
	logger   *slog.Logger
}

// NewRoomStore creates an empty store. Pass nil logger for default.
func NewRoomStore(personas *persona.Registry, logger *slog.Logger) *RoomStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomStore{
		rooms:    make(map[string]*chat.Room),
		busy:     make(map[string]bool),
		personas: personas,
		watcher:  newWatcher(logger),
		logger:   logger.With("component", "store"),
	}
}

// CreateRoom materializes a room with one agent per requested personality.
// The roster is fixed from here on; agents belong to this room alone.
func (s *RoomStore) CreateRoom(name string, personalities []chat.Personality) (*chat.Room, error) {
	if len(personalities) == 0 || len(personalities) > maxRoomAgents {
		return nil, ErrRosterSize
	}

	agents := make([]chat.Agent, 0, len(personalities))
	for _, p := range personalities {
		prof, ok := s.personas.Profile(p)
		if !ok {
			return nil, fmt.Errorf("%w: %q", persona.ErrUnknownPersonality, p)
		}
		agents = append(agents, chat.Agent{
			ID:          uuid.New().String(),
			Personality: p,
			Name:        prof.Name,
			Color:       prof.Color,
		})
	}

	room := &chat.Room{
		ID:           uuid.New().String(),
		Name:         name,
		Agents:       agents,
		LastActivity: time.Now(),
	}

	s.mu.Lock()
	s.rooms[room.ID] = room
	s.mu.Unlock()

	s.logger.Info("room created",
		"room_id", room.ID,
		"name", name,
		"agents", len(agents))

	s.watcher.publish(Update{RoomID: room.ID})
	return snapshot(room), nil
}

// Room returns a defensive copy of the room with the given id.
func (s *RoomStore) Room(id string) (*chat.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return snapshot(room), nil
}

// Rooms returns snapshots of every room, most recently active first.
func (s *RoomStore) Rooms() []*chat.Room {
	s.mu.RLock()
	out := make([]*chat.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, snapshot(room))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out
}

// Append adds a message to a room's log and bumps its activity timestamp.
// The log is append-only; callers never mutate appended messages.
func (s *RoomStore) Append(roomID string, msg chat.Message) error {
	s.mu.Lock()
	room, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	room.Messages = append(room.Messages, msg)
	room.LastActivity = msg.CreatedAt
	s.mu.Unlock()

	s.logger.Debug("message appended",
		"room_id", roomID,
		"message_id", msg.ID,
		"sender", msg.Sender,
		"kind", msg.Kind)

	s.watcher.publish(Update{RoomID: roomID})
	return nil
}

// Messages returns a copy of a room's message log.
func (s *RoomStore) Messages(roomID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	out := make([]chat.Message, len(room.Messages))
	copy(out, room.Messages)
	return out, nil
}

// AcquireBusy atomically marks a room as processing a turn. It returns false
// when the room is already busy or does not exist; the caller must not start
// a turn in that case.
func (s *RoomStore) AcquireBusy(roomID string) bool {
	s.mu.Lock()
	_, exists := s.rooms[roomID]
	if !exists || s.busy[roomID] {
		s.mu.Unlock()
		return false
	}
	s.busy[roomID] = true
	s.mu.Unlock()

	s.watcher.publish(Update{RoomID: roomID})
	return true
}

// ReleaseBusy clears a room's busy flag. Safe to call for unknown rooms.
func (s *RoomStore) ReleaseBusy(roomID string) {
	s.mu.Lock()
	delete(s.busy, roomID)
	s.mu.Unlock()

	s.watcher.publish(Update{RoomID: roomID})
}

// IsBusy reports whether a turn is currently being processed for the room.
func (s *RoomStore) IsBusy(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy[roomID]
}

// Watch exposes the store's change feed; see Watcher.Subscribe.
func (s *RoomStore) Watch(ctx context.Context) (<-chan Update, string) {
	return s.watcher.Subscribe(ctx)
}

// Close shuts down the change feed.
func (s *RoomStore) Close() {
	s.watcher.Close()
}

// snapshot copies a room so readers never observe concurrent appends.
func snapshot(room *chat.Room) *chat.Room {
	out := *room
	out.Agents = make([]chat.Agent, len(room.Agents))
	copy(out.Agents, room.Agents)
	out.Messages = make([]chat.Message, len(room.Messages))
	copy(out.Messages, room.Messages)
	return &out
}
