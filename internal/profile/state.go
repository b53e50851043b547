package profile

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/udisondev/endlessdepth/internal/choice"
	"github.com/udisondev/endlessdepth/internal/depth"
)

// Persisted keys. These are stable; renaming one orphans saved profiles.
const (
	KeyWorldSeed       = "world_seed"
	KeyRunIndex        = "run_index"
	KeyBestDepth       = "best_depth"
	KeyLastUnlockDepth = "last_unlock_depth"
	KeyUnlocked        = "unlocked_modifiers"
	KeyFreshWindow     = "freshness_window"
	KeyFreshRecent     = "freshness_recent"
)

// State is the save-state owned by the orchestrator for one profile.
type State struct {
	WorldSeed uint32
	RunIndex  int
	Depth     depth.Record
	Freshness choice.History
}

// NewState returns a fresh profile for worldSeed.
func NewState(worldSeed uint32) *State {
	return &State{
		WorldSeed: worldSeed,
		Freshness: *choice.NewHistory(choice.DefaultWindow),
	}
}

// Encode flattens s into string pairs.
func Encode(s *State) (map[string]string, error) {
	unlocked, err := json.Marshal(nonNil(s.Depth.Unlocked))
	if err != nil {
		return nil, fmt.Errorf("encoding unlocked modifiers: %w", err)
	}
	recent, err := json.Marshal(nonNil(s.Freshness.Recent))
	if err != nil {
		return nil, fmt.Errorf("encoding freshness history: %w", err)
	}
	return map[string]string{
		KeyWorldSeed:       strconv.FormatUint(uint64(s.WorldSeed), 10),
		KeyRunIndex:        strconv.Itoa(s.RunIndex),
		KeyBestDepth:       strconv.Itoa(s.Depth.BestDepth),
		KeyLastUnlockDepth: strconv.Itoa(s.Depth.LastUnlockDepth),
		KeyUnlocked:        string(unlocked),
		KeyFreshWindow:     strconv.Itoa(s.Freshness.Window),
		KeyFreshRecent:     string(recent),
	}, nil
}

// Decode rebuilds a State. Missing keys keep their zero defaults.
func Decode(kv map[string]string) (*State, error) {
	s := NewState(0)

	if v, ok := kv[KeyWorldSeed]; ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", KeyWorldSeed, err)
		}
		s.WorldSeed = uint32(n)
	}
	ints := []struct {
		key string
		dst *int
	}{
		{KeyRunIndex, &s.RunIndex},
		{KeyBestDepth, &s.Depth.BestDepth},
		{KeyLastUnlockDepth, &s.Depth.LastUnlockDepth},
		{KeyFreshWindow, &s.Freshness.Window},
	}
	for _, f := range ints {
		v, ok := kv[f.key]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", f.key, err)
		}
		*f.dst = n
	}
	if v, ok := kv[KeyUnlocked]; ok && v != "" {
		if err := json.Unmarshal([]byte(v), &s.Depth.Unlocked); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", KeyUnlocked, err)
		}
	}
	if v, ok := kv[KeyFreshRecent]; ok && v != "" {
		if err := json.Unmarshal([]byte(v), &s.Freshness.Recent); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", KeyFreshRecent, err)
		}
	}
	s.Freshness.Window = choice.ClampWindow(s.Freshness.Window)
	return s, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
