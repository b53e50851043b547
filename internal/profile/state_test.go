package profile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/endlessdepth/internal/choice"
	"github.com/udisondev/endlessdepth/internal/depth"
)

func sampleState() *State {
	s := NewState(42)
	s.RunIndex = 3
	s.Depth = depth.Record{BestDepth: 77, Unlocked: []string{"bullet_hell", "armored"}, LastUnlockDepth: 75}
	s.Freshness = choice.History{Window: 4, Recent: []string{"ash|OPEN|dunes", "ash|ARENA|dunes"}}
	return s
}

func TestEncodeDecode(t *testing.T) {
	s := sampleState()
	kv, err := Encode(s)
	require.NoError(t, err)
	assert.Equal(t, "42", kv[KeyWorldSeed])
	assert.Equal(t, `["bullet_hell","armored"]`, kv[KeyUnlocked])

	got, err := Decode(kv)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestDecode_MissingKeysUseDefaults(t *testing.T) {
	got, err := Decode(map[string]string{KeyWorldSeed: "4294967295"})
	require.NoError(t, err)
	assert.Equal(t, uint32(4294967295), got.WorldSeed)
	assert.Equal(t, choice.DefaultWindow, got.Freshness.Window)
	assert.Empty(t, got.Depth.Unlocked)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		kv   map[string]string
	}{
		{"seed overflow", map[string]string{KeyWorldSeed: "4294967296"}},
		{"bad int", map[string]string{KeyBestDepth: "deep"}},
		{"bad list", map[string]string{KeyUnlocked: "[1,"}},
		{"bad history", map[string]string{KeyFreshRecent: "{}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.kv)
			assert.Error(t, err)
		})
	}
}

func testStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	_, err := st.Load(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)

	fresh, err := LoadState(ctx, st, "nobody", 9)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), fresh.WorldSeed)

	s := sampleState()
	require.NoError(t, SaveState(ctx, st, "p1", s))
	got, err := LoadState(ctx, st, "p1", 0)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	s.Depth.BestDepth = 90
	s.Depth.Unlocked = nil
	require.NoError(t, SaveState(ctx, st, "p1", s))
	got, err = LoadState(ctx, st, "p1", 0)
	require.NoError(t, err)
	assert.Equal(t, 90, got.Depth.BestDepth)
	assert.Empty(t, got.Depth.Unlocked)
}

func TestMemoryStore(t *testing.T) {
	st := NewMemoryStore()
	defer st.Close()
	testStore(t, st)
}

func TestSQLiteStore(t *testing.T) {
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "profiles.db"))
	require.NoError(t, err)
	defer st.Close()
	testStore(t, st)
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.Error(t, err)
}
