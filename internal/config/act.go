package config

import "gopkg.in/yaml.v3"

// DensityUnit is the area that act densities are expressed against (1000×1000 units).
const DensityUnit = 1_000_000.0

// Act is the typed configuration of one act. Every optional field is filled
// with its default exactly once, when the catalog is loaded.
type Act struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Biome     string   `yaml:"biome"`
	ZoneCount int      `yaml:"zone_count"` // boss interval
	NextAct   string   `yaml:"next_act"`   // victory portal destination; empty = hub
	Width     Span     `yaml:"width"`
	Height    Span     `yaml:"height"`
	Density   Density  `yaml:"density"`
	Enemies   []string `yaml:"enemies"`
	Elites    []string `yaml:"elites"`
	Boss      Boss     `yaml:"boss"`
	Layouts   []string `yaml:"layouts"`
	Backdrops []string `yaml:"backdrops"`

	Modifiers ModifierConfig `yaml:"modifiers"`
	Parallax  Parallax       `yaml:"parallax"`
	Economy   Economy        `yaml:"economy"`
	Loot      Loot           `yaml:"loot"`
	Freshness Freshness      `yaml:"freshness"`
}

// Span is an inclusive integer range.
type Span struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Density is entities per DensityUnit of zone area.
type Density struct {
	Enemy      float64 `yaml:"enemy"`
	Elite      float64 `yaml:"elite"`
	Obstacle   float64 `yaml:"obstacle"`
	Decoration float64 `yaml:"decoration"`
}

// Boss describes the boss arena of an act.
type Boss struct {
	Type        string `yaml:"type"`
	ArenaWidth  int    `yaml:"arena_width"`
	ArenaHeight int    `yaml:"arena_height"`
}

// ModifierConfig overrides the built-in modifier table for an act.
type ModifierConfig struct {
	Pool           []ModifierWeight `yaml:"pool"`     // empty = built-in table
	Baseline       []string         `yaml:"baseline"` // empty = built-in baseline
	MilestoneEvery int              `yaml:"milestone_every"`
}

// ModifierWeight selects a built-in modifier and optionally reweights it.
type ModifierWeight struct {
	ID     string  `yaml:"id"`
	Weight float64 `yaml:"weight"` // 0 = keep built-in weight
}

// Parallax is the visual palette for background layers.
type Parallax struct {
	Palette []string `yaml:"palette"`
	Layers  int      `yaml:"layers"`
}

// unsetChance marks a probability the configuration left out. An explicit
// 0 is kept and disables that roll.
const unsetChance = -1

// Economy holds currency constants granted on kills.
type Economy struct {
	CellsPerKill    int     `yaml:"cells_per_kill"`
	ScrapPerKill    int     `yaml:"scrap_per_kill"`
	EliteMultiplier float64 `yaml:"elite_multiplier"`
	BossMultiplier  float64 `yaml:"boss_multiplier"`
	CellChance      float64 `yaml:"cell_chance"`
	ScrapChance     float64 `yaml:"scrap_chance"`
}

// Loot holds drop-chance constants and optional rarity weight overrides
// (rarity name → weight). Missing tables fall back to the built-in ones.
type Loot struct {
	DropChance DropChance         `yaml:"drop_chance"`
	LuckBonus  float64            `yaml:"luck_bonus"` // added drop chance fraction per luck point
	Normal     map[string]float64 `yaml:"normal"`
	Elite      map[string]float64 `yaml:"elite"`
	Boss       map[string]float64 `yaml:"boss"`
}

// DropChance is the probability that a kill drops an item at all, per tier.
type DropChance struct {
	Base  float64 `yaml:"base"`
	Elite float64 `yaml:"elite"`
	Boss  float64 `yaml:"boss"`
}

// Freshness tunes the anti-repetition sampler.
type Freshness struct {
	Window      int     `yaml:"window"`
	PenaltyBase float64 `yaml:"penalty_base"`
}

// AllLayouts lists every layout template name.
var AllLayouts = []string{"OPEN", "CORRIDOR", "ARENA", "CLUTTERED", "CRAMPED"}

// BossInterval returns how many zones separate boss zones.
func (a *Act) BossInterval() int {
	if a.ZoneCount <= 0 {
		return 4
	}
	return a.ZoneCount
}

// Normalize fills defaults. Enemy and elite pools are left as configured:
// an empty pool generates empty spawn lists.
func (a *Act) Normalize() {
	if a.Name == "" {
		a.Name = a.ID
	}
	if a.Biome == "" {
		a.Biome = "wastes"
	}
	if a.ZoneCount <= 0 {
		a.ZoneCount = 4
	}
	a.Width = a.Width.orDefault(Span{Min: 1600, Max: 2400})
	a.Height = a.Height.orDefault(Span{Min: 1200, Max: 1800})

	if a.Density.Enemy <= 0 {
		a.Density.Enemy = 5
	}
	if a.Density.Elite <= 0 {
		a.Density.Elite = 0.6
	}
	if a.Density.Obstacle <= 0 {
		a.Density.Obstacle = 4
	}
	if a.Density.Decoration <= 0 {
		a.Density.Decoration = 12
	}

	if a.Boss.Type == "" {
		a.Boss.Type = "warden"
	}
	if a.Boss.ArenaWidth <= 0 {
		a.Boss.ArenaWidth = 1400
	}
	if a.Boss.ArenaHeight <= 0 {
		a.Boss.ArenaHeight = 1100
	}

	if len(a.Layouts) == 0 {
		a.Layouts = append([]string(nil), AllLayouts...)
	}
	if len(a.Backdrops) == 0 {
		a.Backdrops = []string{"default"}
	}
	if a.Modifiers.MilestoneEvery <= 0 {
		a.Modifiers.MilestoneEvery = 25
	}

	if len(a.Parallax.Palette) == 0 {
		a.Parallax.Palette = []string{"#1b1f2a", "#2c3344", "#48506a"}
	}
	if a.Parallax.Layers <= 0 {
		a.Parallax.Layers = 3
	}

	e := &a.Economy
	if e.CellsPerKill <= 0 {
		e.CellsPerKill = 3
	}
	if e.ScrapPerKill <= 0 {
		e.ScrapPerKill = 1
	}
	if e.EliteMultiplier <= 0 {
		e.EliteMultiplier = 2.5
	}
	if e.BossMultiplier <= 0 {
		e.BossMultiplier = 10
	}
	if e.CellChance < 0 {
		e.CellChance = 0.6
	}
	if e.ScrapChance < 0 {
		e.ScrapChance = 0.35
	}

	dc := &a.Loot.DropChance
	if dc.Base < 0 {
		dc.Base = 0.12
	}
	if dc.Elite < 0 {
		dc.Elite = 0.45
	}
	if dc.Boss < 0 {
		dc.Boss = 1
	}
	if a.Loot.LuckBonus <= 0 {
		a.Loot.LuckBonus = 0.01
	}

	if a.Freshness.Window <= 0 {
		a.Freshness.Window = 8
	}
	if a.Freshness.PenaltyBase <= 0 {
		a.Freshness.PenaltyBase = 0.25
	}
}

func (s Span) orDefault(def Span) Span {
	if s.Min <= 0 {
		s.Min = def.Min
	}
	if s.Max <= 0 {
		s.Max = def.Max
	}
	if s.Max < s.Min {
		s.Min, s.Max = s.Max, s.Min
	}
	return s
}

// NewAct returns an act with every default filled, for callers that build
// configuration in code rather than from a catalog file.
func NewAct(id string) *Act {
	a := &Act{ID: id}
	a.clearChances()
	a.Normalize()
	return a
}

// UnmarshalYAML decodes an act, telling omitted probabilities apart from
// explicit zeroes.
func (a *Act) UnmarshalYAML(n *yaml.Node) error {
	type plain Act
	a.clearChances()
	return n.Decode((*plain)(a))
}

func (a *Act) clearChances() {
	a.Economy.CellChance = unsetChance
	a.Economy.ScrapChance = unsetChance
	a.Loot.DropChance = DropChance{Base: unsetChance, Elite: unsetChance, Boss: unsetChance}
}
