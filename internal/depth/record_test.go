package depth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/endlessdepth/internal/config"
	"github.com/udisondev/endlessdepth/internal/rng"
)

func TestSlotCount(t *testing.T) {
	tests := []struct {
		depth, want int
	}{
		{1, 1}, {24, 1}, {25, 2}, {49, 2}, {50, 3}, {99, 3},
		{100, 4}, {199, 4}, {200, 5}, {349, 5}, {350, 6}, {10_000, 70},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SlotCount(tt.depth), "SlotCount(%d)", tt.depth)
	}
}

func TestMilestone(t *testing.T) {
	assert.Equal(t, 0, Milestone(24, 25))
	assert.Equal(t, 25, Milestone(25, 25))
	assert.Equal(t, 50, Milestone(74, 25))
	assert.Equal(t, 20, Milestone(20, 0), "zero interval uses the default of 25")
	assert.Equal(t, 0, Milestone(-5, 25))
}

func TestCheckMilestone_Idempotent(t *testing.T) {
	pool := NewPool(nil)
	r := &Record{}

	assert.Empty(t, r.CheckMilestone(10, pool, rng.New(1), 25), "no unlock before the first milestone")

	first := r.CheckMilestone(25, pool, rng.New(1), 25)
	require.NotEmpty(t, first)
	assert.Empty(t, r.CheckMilestone(25, pool, rng.New(2), 25))
	assert.Empty(t, r.CheckMilestone(30, pool, rng.New(3), 25), "same milestone boundary")
	assert.Len(t, r.Unlocked, 1)
	assert.Equal(t, 25, r.LastUnlockDepth)
	assert.Equal(t, 30, r.BestDepth)

	second := r.CheckMilestone(50, pool, rng.New(4), 25)
	require.NotEmpty(t, second)
	assert.NotEqual(t, first, second, "unlocks never repeat")
}

func TestCheckMilestone_PoolExhausted(t *testing.T) {
	act := config.NewAct("tiny")
	act.Modifiers.Pool = []config.ModifierWeight{{ID: BulletHell}}
	pool := NewPool(act)

	r := &Record{}
	assert.Equal(t, BulletHell, r.CheckMilestone(25, pool, rng.New(1), 25))
	assert.Empty(t, r.CheckMilestone(50, pool, rng.New(1), 25))
	assert.Equal(t, 25, r.LastUnlockDepth)
	assert.Equal(t, []string{BulletHell}, r.Unlocked)
}

func TestCheckMilestone_DeepJumpUnlocksOnce(t *testing.T) {
	r := &Record{}
	pool := NewPool(nil)
	id := r.CheckMilestone(1000, pool, rng.New(9), 25)
	require.NotEmpty(t, id)
	assert.Equal(t, 1000, r.LastUnlockDepth)
	assert.Len(t, r.Unlocked, 1)
}

func TestSampleActive_BaselineAtDepthOne(t *testing.T) {
	mods := SampleActive(1, &Record{}, NewPool(nil), rng.New(3))
	require.Len(t, mods, 1)
	assert.Equal(t, SwiftFoes, mods[0].ID)
}

func TestSampleActive_WithoutReplacement(t *testing.T) {
	r := &Record{Unlocked: []string{BulletHell, ElitePacks, Minefield}}
	for seed := range uint32(50) {
		mods := SampleActive(500, r, NewPool(nil), rng.New(seed))
		ids := IDs(mods)
		assert.Len(t, ids, 4, "candidates exhausted before slots")
		assert.ElementsMatch(t, []string{SwiftFoes, BulletHell, ElitePacks, Minefield}, ids)
	}

	mods := SampleActive(30, r, NewPool(nil), rng.New(1))
	assert.Len(t, mods, 2)
	assert.NotEqual(t, mods[0].ID, mods[1].ID)
}

func TestSampleActive_Deterministic(t *testing.T) {
	r := &Record{Unlocked: []string{BulletHell, ElitePacks, Minefield, Armored}}
	a := SampleActive(120, r, NewPool(nil), rng.New(77))
	b := SampleActive(120, r, NewPool(nil), rng.New(77))
	assert.Equal(t, a, b)
}

func TestNewPool_Overrides(t *testing.T) {
	act := config.NewAct("x")
	act.Modifiers.Pool = []config.ModifierWeight{{ID: Armored, Weight: 3}, {ID: "nope"}}
	act.Modifiers.Baseline = []string{Volatile}

	p := NewPool(act)
	require.Len(t, p.Modifiers, 1)
	assert.Equal(t, 3.0, p.Modifiers[0].Weight)
	assert.Equal(t, []string{Volatile}, p.Baseline)

	m, ok := p.Get(Volatile)
	require.True(t, ok, "baseline ids resolve from the built-in table")
	assert.Equal(t, Volatile, m.ID)

	def, _ := Lookup(Armored)
	assert.Equal(t, 1.0, def.Weight, "overrides never mutate the built-in table")
}

func TestFactor(t *testing.T) {
	assert.Equal(t, 1.0, Factor(0))
	assert.Equal(t, 1.35, Factor(1.35))
}
