package depth

import (
	"log/slog"
	"slices"

	"github.com/udisondev/endlessdepth/internal/choice"
	"github.com/udisondev/endlessdepth/internal/rng"
)

// DefaultMilestoneEvery is the depth distance between unlock milestones.
const DefaultMilestoneEvery = 25

// Record is the per-profile escalation state.
type Record struct {
	BestDepth       int      `json:"best_depth"`
	Unlocked        []string `json:"unlocked"`
	LastUnlockDepth int      `json:"last_unlock_depth"`
}

// IsUnlocked reports whether id has been unlocked.
func (r *Record) IsUnlocked(id string) bool {
	return slices.Contains(r.Unlocked, id)
}

// Milestone returns the milestone boundary at or below depth.
func Milestone(depth, every int) int {
	if every <= 0 {
		every = DefaultMilestoneEvery
	}
	if depth <= 0 {
		return 0
	}
	return depth / every * every
}

// CheckMilestone unlocks at most one new modifier per milestone boundary.
// It returns the unlocked id, or "" when nothing was unlocked. Calling it again
// for the same milestone is a no-op.
func (r *Record) CheckMilestone(depth int, pool Pool, s *rng.Stream, every int) string {
	if depth > r.BestDepth {
		r.BestDepth = depth
	}

	m := Milestone(depth, every)
	if m <= 0 || m <= r.LastUnlockDepth {
		return ""
	}

	var opts []choice.Option[string]
	for _, mod := range pool.Modifiers {
		if r.IsUnlocked(mod.ID) {
			continue
		}
		opts = append(opts, choice.Option[string]{Item: mod.ID, Weight: mod.Weight})
	}
	id, ok := choice.Pick(s, opts)
	if !ok {
		return ""
	}

	r.Unlocked = append(r.Unlocked, id)
	r.LastUnlockDepth = m
	slog.Info("modifier unlocked", "modifier", id, "milestone", m, "depth", depth)
	return id
}

// SlotCount returns how many modifiers are active at depth.
func SlotCount(depth int) int {
	switch {
	case depth < 25:
		return 1
	case depth < 50:
		return 2
	case depth < 100:
		return 3
	case depth < 200:
		return 4
	}
	return 5 + (depth-200)/150
}

// SampleActive picks the active modifier set for a zone: weighted picks without
// replacement from the unlocked modifiers plus the baseline.
func SampleActive(depth int, r *Record, pool Pool, s *rng.Stream) []Modifier {
	var cands []Modifier
	seen := make(map[string]bool)
	add := func(id string) {
		if seen[id] {
			return
		}
		m, ok := pool.Get(id)
		if !ok {
			return
		}
		seen[id] = true
		cands = append(cands, m)
	}
	for _, id := range pool.Baseline {
		add(id)
	}
	if r != nil {
		for _, id := range r.Unlocked {
			add(id)
		}
	}

	slots := SlotCount(depth)
	active := make([]Modifier, 0, min(slots, len(cands)))
	for len(active) < slots && len(cands) > 0 {
		opts := make([]choice.Option[int], len(cands))
		for i, m := range cands {
			opts[i] = choice.Option[int]{Item: i, Weight: m.Weight}
		}
		i, ok := choice.Pick(s, opts)
		if !ok {
			break
		}
		active = append(active, cands[i])
		cands = slices.Delete(cands, i, i+1)
	}
	return active
}
