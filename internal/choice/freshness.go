package choice

import (
	"math"

	"github.com/udisondev/endlessdepth/internal/rng"
)

const (
	DefaultWindow      = 8
	MinWindow          = 1
	MaxWindow          = 64
	DefaultPenaltyBase = 0.25
)

// History is the freshness record: recently chosen signature keys, oldest first.
type History struct {
	Window int      `json:"window"`
	Recent []string `json:"recent"`
}

// NewHistory creates an empty history with the given window (clamped to [1,64]; 0 means default).
func NewHistory(window int) *History {
	return &History{Window: ClampWindow(window)}
}

// ClampWindow normalizes a configured window size.
func ClampWindow(window int) int {
	switch {
	case window == 0:
		return DefaultWindow
	case window < MinWindow:
		return MinWindow
	case window > MaxWindow:
		return MaxWindow
	}
	return window
}

// Count returns how many times key appears in the history.
func (h *History) Count(key string) int {
	n := 0
	for _, k := range h.Recent {
		if k == key {
			n++
		}
	}
	return n
}

// Push appends key and drops the oldest entries beyond the window.
func (h *History) Push(key string) {
	h.Window = ClampWindow(h.Window)
	h.Recent = append(h.Recent, key)
	if over := len(h.Recent) - h.Window; over > 0 {
		h.Recent = append(h.Recent[:0:0], h.Recent[over:]...)
	}
}

// Candidate is an Option keyed for freshness tracking.
type Candidate[T any] struct {
	Key    string
	Item   T
	Weight float64
}

// ClampPenalty normalizes a penalty base into [0,1]; 0 or negative means default.
func ClampPenalty(base float64) float64 {
	if base <= 0 || math.IsNaN(base) {
		return DefaultPenaltyBase
	}
	if base > 1 {
		return 1
	}
	return base
}

// Penalized returns the candidates as options whose weight is multiplied by
// penaltyBase^count for every recent occurrence of their key.
func Penalized[T any](h *History, candidates []Candidate[T], penaltyBase float64) []Option[T] {
	penaltyBase = ClampPenalty(penaltyBase)
	out := make([]Option[T], len(candidates))
	for i, c := range candidates {
		w := c.Weight
		if h != nil {
			if n := h.Count(c.Key); n > 0 {
				w *= math.Pow(penaltyBase, float64(n))
			}
		}
		out[i] = Option[T]{Item: c.Item, Weight: w}
	}
	return out
}

// Probabilities returns the selection probability of each candidate under the current history.
func Probabilities[T any](h *History, candidates []Candidate[T], penaltyBase float64) []float64 {
	opts := Penalized(h, candidates, penaltyBase)
	total := Total(opts)
	if total <= 0 {
		opts = unpenalized(candidates)
		total = Total(opts)
	}
	probs := make([]float64, len(opts))
	if total <= 0 {
		return probs
	}
	for i, o := range opts {
		if o.Weight > 0 {
			probs[i] = o.Weight / total
		}
	}
	return probs
}

// PickFresh picks a candidate with recent repeats down-weighted and records the pick in h.
// When every candidate is penalized to zero the unpenalized weights are used instead.
func PickFresh[T any](s *rng.Stream, h *History, candidates []Candidate[T], penaltyBase float64) (item T, ok bool) {
	opts := Penalized(h, candidates, penaltyBase)
	if Total(opts) <= 0 {
		opts = unpenalized(candidates)
	}

	idx := PickIndex(s, opts)
	if idx < 0 {
		return item, false
	}
	if h != nil {
		h.Push(candidates[idx].Key)
	}
	return candidates[idx].Item, true
}

func unpenalized[T any](candidates []Candidate[T]) []Option[T] {
	out := make([]Option[T], len(candidates))
	for i, c := range candidates {
		out[i] = Option[T]{Item: c.Item, Weight: c.Weight}
	}
	return out
}
