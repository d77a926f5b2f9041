// ABOUTME: Tests for the persona registry: builtin closure, TOML pack merging, error paths.
// ABOUTME: Pack files are written to t.TempDir so every test is hermetic.

package persona

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelmbti/chat/internal/chat"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRegistry_New_CoversAllPersonalities(t *testing.T) {
	r := NewRegistry(testLogger())

	for _, p := range chat.AllPersonalities {
		prof, ok := r.Profile(p)
		require.True(t, ok, "missing builtin profile for %s", p)
		assert.Equal(t, p, prof.Type)
		assert.NotEmpty(t, prof.Name)
		assert.NotEmpty(t, prof.Color)
	}
}

func TestRegistry_Profile_Unknown(t *testing.T) {
	r := NewRegistry(testLogger())
	_, ok := r.Profile(chat.Personality("XXXX"))
	assert.False(t, ok)
}

func TestRegistry_All_CanonicalOrder(t *testing.T) {
	r := NewRegistry(testLogger())

	all := r.All()
	require.Len(t, all, len(chat.AllPersonalities))
	for i, p := range chat.AllPersonalities {
		assert.Equal(t, p, all[i].Type)
	}
	assert.Equal(t, "Architect", all[0].Name)
}

func TestRegistry_LoadDir_AppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	pack := `
[[persona]]
type = "INTJ"
name = "Strategist"
color = "#111111"

[[persona]]
type = "ENFP"
name = "Spark"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reskin.toml"), []byte(pack), 0o644))

	r := NewRegistry(testLogger())
	require.NoError(t, r.LoadDir(dir))

	intj, ok := r.Profile(chat.INTJ)
	require.True(t, ok)
	assert.Equal(t, "Strategist", intj.Name)
	assert.Equal(t, "#111111", intj.Color)

	// A pack entry without a color keeps the builtin color.
	enfp, ok := r.Profile(chat.ENFP)
	require.True(t, ok)
	assert.Equal(t, "Spark", enfp.Name)
	assert.Equal(t, "#4ade80", enfp.Color)

	// Untouched profiles keep their builtin values.
	istp, ok := r.Profile(chat.ISTP)
	require.True(t, ok)
	assert.Equal(t, "Virtuoso", istp.Name)
}

func TestRegistry_LoadDir_LexicalOrderLastWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.toml"),
		[]byte("[[persona]]\ntype = \"INTJ\"\nname = \"First\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.toml"),
		[]byte("[[persona]]\ntype = \"INTJ\"\nname = \"Second\"\n"), 0o644))

	r := NewRegistry(testLogger())
	require.NoError(t, r.LoadDir(dir))

	prof, ok := r.Profile(chat.INTJ)
	require.True(t, ok)
	assert.Equal(t, "Second", prof.Name)
}

func TestRegistry_LoadDir_UnknownTypeFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.toml"),
		[]byte("[[persona]]\ntype = \"ABCD\"\nname = \"Nobody\"\n"), 0o644))

	r := NewRegistry(testLogger())
	err := r.LoadDir(dir)
	assert.ErrorIs(t, err, ErrUnknownPersonality)
}

func TestRegistry_LoadDir_MissingDirIsNotAnError(t *testing.T) {
	r := NewRegistry(testLogger())
	assert.NoError(t, r.LoadDir(filepath.Join(t.TempDir(), "does-not-exist")))
	assert.NoError(t, r.LoadDir(""))
}

func TestRegistry_LoadDir_IgnoresNonTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a pack"), 0o644))

	r := NewRegistry(testLogger())
	assert.NoError(t, r.LoadDir(dir))
}
