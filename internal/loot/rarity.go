package loot

import "github.com/udisondev/endlessdepth/internal/choice"

// Rarity is an item rarity tier, ordered from most to least common.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
	Mythic
	numRarities
)

var rarityNames = [numRarities]string{"common", "uncommon", "rare", "epic", "legendary", "mythic"}

func (r Rarity) String() string {
	if r < 0 || r >= numRarities {
		return "unknown"
	}
	return rarityNames[r]
}

// ParseRarity maps a configured name to a Rarity.
func ParseRarity(name string) (Rarity, bool) {
	for i, n := range rarityNames {
		if n == name {
			return Rarity(i), true
		}
	}
	return 0, false
}

// Table is a weight per rarity.
type Table [numRarities]float64

// Built-in tier tables.
var (
	NormalTable = Table{60, 25, 10, 4, 0.9, 0.1}
	EliteTable  = Table{35, 30, 20, 10, 4, 1}
	BossTable   = Table{0, 15, 35, 30, 15, 5}
)

// TableFrom builds a table from rarity names. An empty map returns def.
func TableFrom(m map[string]float64, def Table) Table {
	if len(m) == 0 {
		return def
	}
	var t Table
	for name, w := range m {
		if r, ok := ParseRarity(name); ok && w > 0 {
			t[r] = w
		}
	}
	return t
}

const (
	tiltStart = 50
	tiltSlope = 0.0025
	tiltMax   = 0.25
)

// Tilt returns the depth tilt: zero through depth 50, then linear, capped at 0.25.
func Tilt(depth int) float64 {
	if depth <= tiltStart {
		return 0
	}
	return min(float64(depth-tiltStart)*tiltSlope, tiltMax)
}

// Tilted shaves common/uncommon weight and boosts legendary/mythic weight.
func (t Table) Tilted(depth int) Table {
	k := Tilt(depth)
	if k == 0 {
		return t
	}
	t[Common] *= 1 - k
	t[Uncommon] *= 1 - k/2
	t[Legendary] *= 1 + 2*k
	t[Mythic] *= 1 + 3*k
	return t
}

// Share returns the normalized probability of r.
func (t Table) Share(r Rarity) float64 {
	var total float64
	for _, w := range t {
		total += w
	}
	if total <= 0 {
		return 0
	}
	return t[r] / total
}

func (t Table) options() []choice.Option[Rarity] {
	opts := make([]choice.Option[Rarity], numRarities)
	for i, w := range t {
		opts[i] = choice.Option[Rarity]{Item: Rarity(i), Weight: w}
	}
	return opts
}
