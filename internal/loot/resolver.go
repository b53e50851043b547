package loot

import (
	"log/slog"
	"math"

	"github.com/udisondev/endlessdepth/internal/choice"
	"github.com/udisondev/endlessdepth/internal/config"
	"github.com/udisondev/endlessdepth/internal/rng"
)

// Pickup kinds.
const (
	KindItem  = "item"
	KindCells = "cells"
	KindScrap = "scrap"
)

// Reward is the payload an entity reports when it dies.
type Reward struct {
	DropBonus float64 `json:"drop_bonus,omitempty"` // extra drop chance fraction
	Cells     int     `json:"cells,omitempty"`      // overrides economy cells per kill
	Scrap     int     `json:"scrap,omitempty"`      // overrides economy scrap per kill
}

// KillEvent is queued by the orchestrator and resolved on the next tick.
type KillEvent struct {
	X, Y   float64
	Elite  bool
	Boss   bool
	Type   string
	Reward Reward
}

// Pickup is a collectible dropped into the world.
type Pickup struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Kind   string  `json:"kind"`
	Rarity string  `json:"rarity,omitempty"`
	Value  int     `json:"value"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	TTL    float64 `json:"ttl"` // seconds
}

const pickupTTL = 30.0

var rarityValue = Table{1, 3, 8, 20, 60, 200}

// Resolver turns kill events into pickups for one run.
type Resolver struct {
	act     *config.Act
	runSeed uint32
	serial  uint64
	stream  *rng.Stream // run loot stream; nil = per-drop fallback

	normal, elite, boss Table
}

// NewResolver creates a resolver with the run loot stream seeded from runSeed.
func NewResolver(act *config.Act, runSeed uint32) *Resolver {
	r := &Resolver{
		runSeed: runSeed,
		stream:  rng.New(rng.SeedFromParts(runSeed, "loot")),
	}
	r.Rebind(act)
	return r
}

// Rebind switches the act tables and economy without touching the serial
// or the run stream, so drops in the next act of the same run continue
// the sequence.
func (r *Resolver) Rebind(act *config.Act) {
	if act == nil {
		act = config.NewAct("default")
	}
	r.act = act
	r.normal = TableFrom(act.Loot.Normal, NormalTable)
	r.elite = TableFrom(act.Loot.Elite, EliteTable)
	r.boss = TableFrom(act.Loot.Boss, BossTable)
}

// RunSeed returns the run seed drops are derived from.
func (r *Resolver) RunSeed() uint32 {
	return r.runSeed
}

// Serial returns the number of kills resolved in this run.
func (r *Resolver) Serial() uint64 {
	return r.serial
}

// TableFor returns the untilted table for a kill tier.
func (r *Resolver) TableFor(elite, boss bool) Table {
	switch {
	case boss:
		return r.boss
	case elite:
		return r.elite
	default:
		return r.normal
	}
}

// DropSeed derives the seed of one drop. The serial keeps repeated kills at
// the same position and depth apart.
func DropSeed(runSeed uint32, serial uint64, x, y float64, depth int) uint32 {
	return rng.SeedFromParts(runSeed, "drop", serial, int(x), int(y), depth)
}

// Resolve rolls the drops for one kill. Every roll comes from a seeded stream.
func (r *Resolver) Resolve(ev KillEvent, depth int, luck float64) []Pickup {
	r.serial++
	drop := rng.New(DropSeed(r.runSeed, r.serial, ev.X, ev.Y, depth))
	run := r.stream
	if run == nil {
		run = drop
	}

	var out []Pickup
	if drop.Chance(r.dropChance(ev, luck)) {
		table := r.TableFor(ev.Elite, ev.Boss).Tilted(depth)
		if rarity, ok := choice.Pick(run, table.options()); ok {
			value := int(math.Round(rarityValue[rarity] * (1 + float64(depth)*0.02)))
			out = append(out, r.pickup(drop, ev, KindItem, rarity.String(), value))
			slog.Debug("loot drop", "rarity", rarity, "depth", depth, "serial", r.serial)
		}
	}

	eco := r.act.Economy
	mult := 1.0
	switch {
	case ev.Boss:
		mult = eco.BossMultiplier
	case ev.Elite:
		mult = eco.EliteMultiplier
	}
	if run.Chance(eco.CellChance) {
		n := ev.Reward.Cells
		if n <= 0 {
			n = eco.CellsPerKill
		}
		if v := int(math.Round(float64(n) * mult)); v > 0 {
			out = append(out, r.pickup(drop, ev, KindCells, "", v))
		}
	}
	if run.Chance(eco.ScrapChance) {
		n := ev.Reward.Scrap
		if n <= 0 {
			n = eco.ScrapPerKill
		}
		if v := int(math.Round(float64(n) * mult)); v > 0 {
			out = append(out, r.pickup(drop, ev, KindScrap, "", v))
		}
	}
	return out
}

func (r *Resolver) dropChance(ev KillEvent, luck float64) float64 {
	dc := r.act.Loot.DropChance
	p := dc.Base
	switch {
	case ev.Boss:
		p = dc.Boss
	case ev.Elite:
		p = dc.Elite
	}
	p *= 1 + max(luck, 0)*r.act.Loot.LuckBonus
	p *= 1 + max(ev.Reward.DropBonus, 0)
	return min(p, 1)
}

func (r *Resolver) pickup(s *rng.Stream, ev KillEvent, kind, rarity string, value int) Pickup {
	a := s.Range(0, 2*math.Pi)
	speed := s.Range(40, 120)
	return Pickup{
		X:      ev.X,
		Y:      ev.Y,
		Kind:   kind,
		Rarity: rarity,
		Value:  value,
		VX:     math.Cos(a) * speed,
		VY:     math.Sin(a) * speed,
		TTL:    pickupTTL,
	}
}
