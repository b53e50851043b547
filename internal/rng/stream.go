package rng

// Stream is a deterministic mulberry32 generator.
// A Stream is not safe for concurrent use; every logical consumer owns its own instance.
type Stream struct {
	seed  uint32
	state uint32
}

// New creates a stream seeded with seed.
func New(seed uint32) *Stream {
	return &Stream{seed: seed, state: seed}
}

// Seed returns the seed the stream was created (or last reseeded) with.
func (s *Stream) Seed() uint32 {
	return s.seed
}

// SetSeed reinitializes both the stored seed and the running state.
func (s *Stream) SetSeed(seed uint32) {
	s.seed = seed
	s.state = seed
}

// Reset rewinds the stream so it reproduces its original sequence.
func (s *Stream) Reset() {
	s.state = s.seed
}

// Next returns a float in [0, 1).
func (s *Stream) Next() float64 {
	s.state += 0x6D2B79F5
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// Range returns a float in [min, max).
func (s *Stream) Range(min, max float64) float64 {
	return min + s.Next()*(max-min)
}

// Int returns an integer in [min, max], both inclusive.
func (s *Stream) Int(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + int(s.Next()*float64(max-min+1))
}

// Chance reports true with probability p.
func (s *Stream) Chance(p float64) bool {
	return s.Next() < p
}

// Uint32 draws a full 32-bit value, used to hand sub-seeds to visual consumers.
func (s *Stream) Uint32() uint32 {
	return uint32(s.Next() * 4294967296.0)
}

// Pick returns a uniformly chosen element of items.
// ok is false when items is empty; the stream is not advanced in that case.
func Pick[T any](s *Stream, items []T) (v T, ok bool) {
	if len(items) == 0 {
		return v, false
	}
	return items[s.Int(0, len(items)-1)], true
}

// Shuffle permutes items in place (Fisher-Yates, high index first).
func Shuffle[T any](s *Stream, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := s.Int(0, i)
		items[i], items[j] = items[j], items[i]
	}
}
