package choice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/endlessdepth/internal/rng"
)

func layoutCandidates() []Candidate[string] {
	return []Candidate[string]{
		{Key: "ash|OPEN|dunes", Item: "open", Weight: 1},
		{Key: "ash|ARENA|dunes", Item: "arena", Weight: 1},
		{Key: "ash|CORRIDOR|dunes", Item: "corridor", Weight: 1},
	}
}

func TestHistory_WindowTruncatesFromFront(t *testing.T) {
	h := NewHistory(3)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		h.Push(k)
	}
	assert.Equal(t, []string{"c", "d", "e"}, h.Recent)
	assert.Equal(t, 1, h.Count("e"))
	assert.Equal(t, 0, h.Count("a"))
}

func TestClampWindow(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultWindow},
		{-4, MinWindow},
		{1, 1},
		{64, 64},
		{500, MaxWindow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampWindow(tt.in), "ClampWindow(%d)", tt.in)
	}
}

func TestProbabilities_MonotonicSuppression(t *testing.T) {
	for _, base := range []float64{0.1, 0.25, 0.5, 0.9} {
		h := NewHistory(16)
		cands := layoutCandidates()
		prev := Probabilities(h, cands, base)[0]
		for k := 1; k <= 6; k++ {
			h.Push(cands[0].Key)
			p := Probabilities(h, cands, base)[0]
			require.Less(t, p, prev, "base %.2f, repeat %d", base, k)
			prev = p
		}
	}
}

func TestPickFresh_PushesChosenKey(t *testing.T) {
	h := NewHistory(8)
	s := rng.New(10)
	v, ok := PickFresh(s, h, layoutCandidates(), DefaultPenaltyBase)
	require.True(t, ok)
	require.Len(t, h.Recent, 1)

	for _, c := range layoutCandidates() {
		if c.Item == v {
			assert.Equal(t, c.Key, h.Recent[0])
		}
	}
}

func TestPickFresh_FallsBackWhenAllSuppressed(t *testing.T) {
	// each key sits ~21 times in the window; 1e-20^21 underflows to zero
	h := NewHistory(64)
	cands := layoutCandidates()
	for range 40 {
		for _, c := range cands {
			h.Push(c.Key)
		}
	}
	opts := Penalized(h, cands, 1e-20)
	require.Equal(t, 0.0, Total(opts))

	_, ok := PickFresh(rng.New(4), h, cands, 1e-20)
	assert.True(t, ok, "a pick must always be possible")
}

func TestPickFresh_ReducesRepeats(t *testing.T) {
	s := rng.New(99)
	h := NewHistory(DefaultWindow)
	cands := layoutCandidates()

	repeats := 0
	prev := ""
	for range 300 {
		v, _ := PickFresh(s, h, cands, DefaultPenaltyBase)
		if v == prev {
			repeats++
		}
		prev = v
	}
	// uniform picking would repeat about a third of the time
	assert.Less(t, repeats, 85)
}
