package rng

import (
	"fmt"
	"math"
)

const (
	// partsBasis is the non-zero starting value SeedFromParts folds from.
	partsBasis uint32 = 0x9E3779B9

	// goldenGamma spreads consecutive zone indices across the 32-bit space.
	goldenGamma uint32 = 0x9E3779B1
)

// MixSeed folds value into seed with a murmur3-style finalizer.
func MixSeed(seed, value uint32) uint32 {
	h := seed ^ value
	h ^= h >> 16
	h *= 0x85EBCA6B
	h ^= h >> 13
	h *= 0xC2B2AE35
	h ^= h >> 16
	return h
}

// SeedFromParts folds an ordered list of parts into one seed.
// Order is significant: ("a", 1) and (1, "a") derive different seeds.
func SeedFromParts(parts ...any) uint32 {
	h := partsBasis
	for _, p := range parts {
		h = MixSeed(h, partValue(p))
	}
	return h
}

func partValue(p any) uint32 {
	switch v := p.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		return HashString(v)
	case uint32:
		return v
	case int:
		return uint32(v)
	case int8:
		return uint32(v)
	case int16:
		return uint32(v)
	case int32:
		return uint32(v)
	case int64:
		return uint32(v)
	case uint:
		return uint32(v)
	case uint8:
		return uint32(v)
	case uint16:
		return uint32(v)
	case uint64:
		return uint32(v)
	case float32:
		return floatToUint32(float64(v))
	case float64:
		return floatToUint32(v)
	default:
		return HashString(fmt.Sprint(v))
	}
}

// floatToUint32 truncates toward zero and wraps modulo 2^32.
func floatToUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), 4294967296.0)
	if m < 0 {
		m += 4294967296.0
	}
	return uint32(m)
}

// HashString is a polynomial rolling hash (h*31 + byte) over the UTF-8 bytes of s.
func HashString(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}

// RunSeed derives the seed of one run from the world seed.
func RunSeed(worldSeed uint32, runIndex int) uint32 {
	return SeedFromParts(worldSeed, "run", runIndex)
}

// ActSeed derives the seed of one act within a run.
func ActSeed(runSeed uint32, actID string) uint32 {
	return SeedFromParts(runSeed, "act", actID)
}

// ZoneSeed derives the seed of zone zoneIndex. The multiply wraps at 32 bits,
// so arbitrarily large indices stay exact.
func ZoneSeed(actSeed uint32, zoneIndex int) uint32 {
	return actSeed ^ (uint32(zoneIndex+1) * goldenGamma)
}

// Bundle holds the independent sub-seeds used to build one zone.
type Bundle struct {
	Zone       uint32 `json:"zone"`
	Macro      uint32 `json:"macro"`
	Meso       uint32 `json:"meso"`
	Micro      uint32 `json:"micro"`
	Mods       uint32 `json:"mods"`
	Encounters uint32 `json:"encounters"`
	Loot       uint32 `json:"loot"`
}

// DeriveBundle expands a zone seed into per-purpose sub-seeds.
func DeriveBundle(zoneSeed uint32) Bundle {
	return Bundle{
		Zone:       zoneSeed,
		Macro:      SeedFromParts(zoneSeed, "macro"),
		Meso:       SeedFromParts(zoneSeed, "meso"),
		Micro:      SeedFromParts(zoneSeed, "micro"),
		Mods:       SeedFromParts(zoneSeed, "mods"),
		Encounters: SeedFromParts(zoneSeed, "encounters"),
		Loot:       SeedFromParts(zoneSeed, "loot"),
	}
}

// Streams is one fresh Stream per bundle seed.
type Streams struct {
	Macro      *Stream
	Meso       *Stream
	Micro      *Stream
	Mods       *Stream
	Encounters *Stream
	Loot       *Stream
}

// Streams returns new, unshared streams for every sub-seed.
func (b Bundle) Streams() Streams {
	return Streams{
		Macro:      New(b.Macro),
		Meso:       New(b.Meso),
		Micro:      New(b.Micro),
		Mods:       New(b.Mods),
		Encounters: New(b.Encounters),
		Loot:       New(b.Loot),
	}
}
