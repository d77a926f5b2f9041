// ABOUTME: Thread-safe registry of personality profiles keyed by personality type.
// ABOUTME: Ships the 16 built-in profiles; TOML packs may reskin names and colors.

package persona

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/pixelmbti/chat/internal/chat"
)

// ErrUnknownPersonality indicates a pack referenced a type outside the closed set.
var ErrUnknownPersonality = errors.New("unknown personality type")

// Profile describes how one personality presents in a room.
type Profile struct {
	Type  chat.Personality
	Name  string
	Color string
}

// builtin profiles. Colors follow the temperament groups of the original
// palette: analysts purple, diplomats green, sentinels blue, explorers yellow.
var builtins = []Profile{
	{Type: chat.INTJ, Name: "Architect", Color: "#9333ea"},
	{Type: chat.INTP, Name: "Logician", Color: "#a855f7"},
	{Type: chat.ENTJ, Name: "Commander", Color: "#7e22ce"},
	{Type: chat.ENTP, Name: "Debater", Color: "#c084fc"},
	{Type: chat.INFJ, Name: "Advocate", Color: "#16a34a"},
	{Type: chat.INFP, Name: "Mediator", Color: "#22c55e"},
	{Type: chat.ENFJ, Name: "Protagonist", Color: "#15803d"},
	{Type: chat.ENFP, Name: "Campaigner", Color: "#4ade80"},
	{Type: chat.ISTJ, Name: "Logistician", Color: "#2563eb"},
	{Type: chat.ISFJ, Name: "Defender", Color: "#3b82f6"},
	{Type: chat.ESTJ, Name: "Executive", Color: "#1d4ed8"},
	{Type: chat.ESFJ, Name: "Consul", Color: "#60a5fa"},
	{Type: chat.ISTP, Name: "Virtuoso", Color: "#ca8a04"},
	{Type: chat.ISFP, Name: "Adventurer", Color: "#eab308"},
	{Type: chat.ESTP, Name: "Entrepreneur", Color: "#a16207"},
	{Type: chat.ESFP, Name: "Entertainer", Color: "#facc15"},
}

// Registry maps personality types to their profiles.
type Registry struct {
	mu       sync.RWMutex
	profiles map[chat.Personality]Profile
	logger   *slog.Logger
}

// NewRegistry creates a registry seeded with the 16 built-in profiles.
// Pass nil logger for default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		profiles: make(map[chat.Personality]Profile, len(builtins)),
		logger:   logger.With("component", "persona"),
	}
	for _, p := range builtins {
		r.profiles[p.Type] = p
	}
	return r
}

// Profile returns the profile for the given personality type.
func (r *Registry) Profile(p chat.Personality) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prof, ok := r.profiles[p]
	return prof, ok
}

// All returns every profile in the canonical personality order.
func (r *Registry) All() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Profile, 0, len(chat.AllPersonalities))
	for _, p := range chat.AllPersonalities {
		out = append(out, r.profiles[p])
	}
	return out
}

// packFile is the on-disk shape of a persona pack.
type packFile struct {
	Personas []packEntry `toml:"persona"`
}

type packEntry struct {
	Type  string `toml:"type"`
	Name  string `toml:"name"`
	Color string `toml:"color"`
}

// LoadDir applies every *.toml persona pack found in dir, in lexical order.
// A missing directory is not an error; a pack naming an unknown personality
// type is, because the type set is closed.
func (r *Registry) LoadDir(dir string) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading persona pack dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".toml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := r.loadPack(path); err != nil {
			return fmt.Errorf("loading persona pack %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// loadPack merges one pack file into the registry.
func (r *Registry) loadPack(path string) error {
	var pack packFile
	if _, err := toml.DecodeFile(path, &pack); err != nil {
		return fmt.Errorf("parsing pack: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range pack.Personas {
		typ := chat.Personality(e.Type)
		if !typ.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownPersonality, e.Type)
		}
		prof := r.profiles[typ]
		if e.Name != "" {
			prof.Name = e.Name
		}
		if e.Color != "" {
			prof.Color = e.Color
		}
		r.profiles[typ] = prof
		r.logger.Debug("persona profile updated", "type", typ, "name", prof.Name)
	}
	return nil
}
