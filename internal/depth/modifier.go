package depth

import (
	"log/slog"

	"github.com/udisondev/endlessdepth/internal/config"
)

// Modifier ids of the built-in table.
const (
	SwiftFoes      = "swift_foes"
	BulletHell     = "bullet_hell"
	ElitePacks     = "elite_packs"
	DenseObstacles = "dense_obstacles"
	Minefield      = "minefield"
	CrampedZone    = "cramped_zone"
	Armored        = "armored"
	Volatile       = "volatile"
)

// Modifier is a named rule that alters generation or gameplay of a zone.
// Multipliers of 0 are treated as 1.
type Modifier struct {
	ID     string
	Weight float64

	EnemyDensity    float64
	EliteDensity    float64
	ObstacleDensity float64
	Footprint       float64 // scales zone width and height
	MineFraction    float64 // share of obstacles turned into mines

	EnemyHealth float64
	EnemySpeed  float64
}

// DefaultModifiers is the built-in modifier table.
var DefaultModifiers = []Modifier{
	{ID: SwiftFoes, Weight: 1, EnemySpeed: 1.15},
	{ID: BulletHell, Weight: 1, EnemyDensity: 1.35},
	{ID: ElitePacks, Weight: 1, EliteDensity: 1.8},
	{ID: DenseObstacles, Weight: 1, ObstacleDensity: 1.6},
	{ID: Minefield, Weight: 0.8, ObstacleDensity: 1.3, MineFraction: 0.4},
	{ID: CrampedZone, Weight: 0.8, Footprint: 0.8},
	{ID: Armored, Weight: 1, EnemyHealth: 1.25},
	{ID: Volatile, Weight: 0.6, EnemySpeed: 1.05, EnemyHealth: 0.9},
}

// DefaultBaseline is available from depth 1, before any unlock.
var DefaultBaseline = []string{SwiftFoes}

// Lookup returns the built-in modifier with the given id.
func Lookup(id string) (Modifier, bool) {
	for _, m := range DefaultModifiers {
		if m.ID == id {
			return m, true
		}
	}
	return Modifier{}, false
}

// Factor returns v, or 1 when v is unset.
func Factor(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// Pool is the modifier table in effect for one act.
type Pool struct {
	Modifiers []Modifier
	Baseline  []string
}

// NewPool builds the act's pool: the act's override list when present, otherwise the built-in table.
// Unknown ids in the override are skipped.
func NewPool(act *config.Act) Pool {
	p := Pool{
		Modifiers: append([]Modifier(nil), DefaultModifiers...),
		Baseline:  append([]string(nil), DefaultBaseline...),
	}
	if act == nil {
		return p
	}

	if len(act.Modifiers.Pool) > 0 {
		p.Modifiers = p.Modifiers[:0]
		for _, mw := range act.Modifiers.Pool {
			m, ok := Lookup(mw.ID)
			if !ok {
				slog.Warn("unknown modifier in act pool", "act", act.ID, "modifier", mw.ID)
				continue
			}
			if mw.Weight > 0 {
				m.Weight = mw.Weight
			}
			p.Modifiers = append(p.Modifiers, m)
		}
	}
	if len(act.Modifiers.Baseline) > 0 {
		p.Baseline = append([]string(nil), act.Modifiers.Baseline...)
	}
	return p
}

// Get returns the modifier with id from the pool, falling back to the built-in table
// so baseline ids outside an act's override list still resolve.
func (p Pool) Get(id string) (Modifier, bool) {
	for _, m := range p.Modifiers {
		if m.ID == id {
			return m, true
		}
	}
	return Lookup(id)
}

// IDs returns the ids of mods in order.
func IDs(mods []Modifier) []string {
	ids := make([]string, len(mods))
	for i, m := range mods {
		ids[i] = m.ID
	}
	return ids
}
