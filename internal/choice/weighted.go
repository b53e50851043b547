package choice

import "github.com/udisondev/endlessdepth/internal/rng"

// Option is one weighted candidate.
type Option[T any] struct {
	Item   T
	Weight float64
}

// Total sums the positive weights of options.
func Total[T any](options []Option[T]) float64 {
	total := 0.0
	for _, o := range options {
		if o.Weight > 0 {
			total += o.Weight
		}
	}
	return total
}

// Pick draws one item proportionally to its weight.
// Options with weight <= 0 are walked but can never be chosen.
// ok is false when no option carries positive weight; the stream is not advanced then.
func Pick[T any](s *rng.Stream, options []Option[T]) (item T, ok bool) {
	idx := PickIndex(s, options)
	if idx < 0 {
		return item, false
	}
	return options[idx].Item, true
}

// PickIndex is Pick returning the index of the chosen option, or -1.
func PickIndex[T any](s *rng.Stream, options []Option[T]) int {
	total := Total(options)
	if total <= 0 {
		return -1
	}

	r := s.Next() * total
	last := -1
	for i, o := range options {
		if o.Weight <= 0 {
			continue
		}
		last = i
		r -= o.Weight
		if r <= 0 {
			return i
		}
	}
	// float rounding left a sliver of r
	return last
}
