package zonegen

import (
	"fmt"
	"math"
	"strings"

	"github.com/udisondev/endlessdepth/internal/choice"
	"github.com/udisondev/endlessdepth/internal/config"
	"github.com/udisondev/endlessdepth/internal/depth"
	"github.com/udisondev/endlessdepth/internal/rng"
)

// Hard caps applied after depth ramps and modifier stacking.
const (
	MaxEnemyDensity    = 14.0
	MaxEliteDensity    = 3.0
	MaxObstacleDensity = 14.0

	MaxEnemies     = 48
	MaxElites      = 10
	MaxObstacles   = 64
	MaxDecorations = 96
	MaxParallax    = 8

	minDimension = 600
	edgeMargin   = 80.0

	enemyClearance    = 220.0
	eliteClearance    = 300.0
	obstacleClearance = 120.0
	obstacleSep       = 60.0
)

// Input is everything a zone is generated from.
type Input struct {
	Act       *config.Act
	Seed      uint32
	Depth     int
	Modifiers []depth.Modifier
	Layout    Layout
	Backdrop  string
	Bundle    rng.Bundle // zero value = derived from Seed
}

func (in Input) act() *config.Act {
	if in.Act != nil {
		return in.Act
	}
	return config.NewAct("default")
}

func (in Input) bundle() rng.Bundle {
	if in.Bundle == (rng.Bundle{}) {
		return rng.DeriveBundle(in.Seed)
	}
	return in.Bundle
}

// effects is the product of all active modifier multipliers.
type effects struct {
	enemy, elite, obstacle float64
	footprint              float64
	mines                  float64
}

func combine(mods []depth.Modifier) effects {
	e := effects{enemy: 1, elite: 1, obstacle: 1, footprint: 1}
	for _, m := range mods {
		e.enemy *= depth.Factor(m.EnemyDensity)
		e.elite *= depth.Factor(m.EliteDensity)
		e.obstacle *= depth.Factor(m.ObstacleDensity)
		e.footprint *= depth.Factor(m.Footprint)
		e.mines = math.Max(e.mines, m.MineFraction)
	}
	return e
}

// Densities are per config.DensityUnit of area.
type Densities struct {
	Enemy, Elite, Obstacle float64
}

// ComputeDensities applies the saturating depth ramp, modifiers and layout, then clamps to the caps.
func ComputeDensities(act *config.Act, d int, mods []depth.Modifier, layout Layout) Densities {
	e := combine(mods)
	t := templateFor(layout)
	fd := float64(max(d, 0))

	enemy := act.Density.Enemy * (1 + math.Min(fd*0.012, 1.6)) * e.enemy * t.enemy
	elite := act.Density.Elite * (1 + math.Min(fd*0.008, 1.2)) * e.elite * t.elite
	obstacle := act.Density.Obstacle * (1 + math.Min(fd*0.005, 0.8)) * e.obstacle * t.obstacle

	return Densities{
		Enemy:    math.Min(enemy, MaxEnemyDensity),
		Elite:    math.Min(elite, MaxEliteDensity),
		Obstacle: math.Min(obstacle, MaxObstacleDensity),
	}
}

func targetCount(area, density float64, limit int) int {
	n := int(math.Floor(area / config.DensityUnit * density))
	return max(0, min(n, limit))
}

// Generate builds a normal (non-boss) zone. It is a pure function of in.
func Generate(in Input) *Zone {
	act := in.act()
	b := in.bundle()
	st := b.Streams()
	tpl := templateFor(in.Layout)
	fx := combine(in.Modifiers)

	w := dimension(st.Meso.Int(act.Width.Min, act.Width.Max), tpl.width*fx.footprint)
	h := dimension(st.Meso.Int(act.Height.Min, act.Height.Max), tpl.height*fx.footprint)
	fw, fh := float64(w), float64(h)
	area := fw * fh
	dens := ComputeDensities(act, in.Depth, in.Modifiers, in.Layout)

	spawn, side := placeSpawn(st.Meso, fw, fh)
	exit := placeExit(st.Meso, side, spawn, fw, fh)
	anchors := []Point{spawn, exit}

	z := &Zone{
		Seed:       in.Seed,
		Depth:      in.Depth,
		Width:      w,
		Height:     h,
		Biome:      act.Biome,
		Layout:     in.Layout,
		Backdrop:   in.Backdrop,
		SpawnPoint: spawn,
		Exit:       &exit,
		Modifiers:  depth.IDs(in.Modifiers),
		Seeds:      b,
	}

	if len(act.Enemies) > 0 {
		pts, _ := scatter(st.Micro, scatterParams{
			target: targetCount(area, dens.Enemy, MaxEnemies),
			w:      fw, h: fh,
			minSep:    tpl.minSep,
			clearance: enemyClearance,
			anchors:   anchors,
			laneBias:  tpl.laneBias,
		})
		z.EnemySpawns = makeSpawns(st.Micro, pts, act.Enemies, KindEnemy, 0)
	}

	if len(act.Elites) > 0 {
		es := rng.New(rng.SeedFromParts(b.Micro, "elites"))
		pts, _ := scatter(es, scatterParams{
			target: targetCount(area, dens.Elite, MaxElites),
			w:      fw, h: fh,
			minSep:    tpl.minSep * 1.5,
			clearance: eliteClearance,
			anchors:   anchors,
		})
		z.EliteSpawns = makeSpawns(es, pts, act.Elites, KindElite, len(z.EnemySpawns))
	}

	obs := rng.New(rng.SeedFromParts(b.Micro, "obstacles"))
	pts, _ := scatter(obs, scatterParams{
		target: targetCount(area, dens.Obstacle, MaxObstacles),
		w:      fw, h: fh,
		minSep:    obstacleSep,
		clearance: obstacleClearance,
		anchors:   anchors,
		laneBias:  tpl.laneBias,
	})
	z.Obstacles = makeObstacles(obs, pts, fx.mines)

	z.Decorations = decorate(st.Macro, act, fw, fh, 1)
	z.Parallax = parallax(st.Macro, act)
	z.Signature = signature(z, "")
	return z
}

func dimension(base int, scale float64) int {
	return max(minDimension, int(math.Round(float64(base)*scale)))
}

type edge int

const (
	edgeBottom edge = iota
	edgeLeft
	edgeRight
)

var spawnEdges = []choice.Option[edge]{
	{Item: edgeBottom, Weight: 1},
	{Item: edgeLeft, Weight: 1},
	{Item: edgeRight, Weight: 1},
}

// placeSpawn puts the player start on the bottom, left or right edge; never the top.
func placeSpawn(s *rng.Stream, w, h float64) (Point, edge) {
	e, _ := choice.Pick(s, spawnEdges)
	switch e {
	case edgeLeft:
		return Point{X: edgeMargin, Y: s.Range(h*0.2, h*0.8)}, e
	case edgeRight:
		return Point{X: w - edgeMargin, Y: s.Range(h*0.2, h*0.8)}, e
	default:
		return Point{X: s.Range(w*0.2, w*0.8), Y: h - edgeMargin}, edgeBottom
	}
}

// placeExit puts the exit on the opposite edge, in the half away from the spawn.
func placeExit(s *rng.Stream, e edge, spawn Point, w, h float64) Point {
	switch e {
	case edgeLeft, edgeRight:
		x := w - edgeMargin
		if e == edgeRight {
			x = edgeMargin
		}
		if spawn.Y < h/2 {
			return Point{X: x, Y: s.Range(h*0.5, h*0.8)}
		}
		return Point{X: x, Y: s.Range(h*0.2, h*0.5)}
	default:
		if spawn.X < w/2 {
			return Point{X: s.Range(w*0.5, w*0.8), Y: edgeMargin}
		}
		return Point{X: s.Range(w*0.2, w*0.5), Y: edgeMargin}
	}
}

type scatterParams struct {
	target    int
	w, h      float64
	minSep    float64
	clearance float64
	anchors   []Point
	laneBias  float64
}

// scatter rejection-samples up to target points in at most 3×target attempts.
// Under-filling is expected when the area is crowded.
func scatter(s *rng.Stream, p scatterParams) (pts []Point, attempts int) {
	if p.target <= 0 || p.w <= 2*edgeMargin || p.h <= 2*edgeMargin {
		return nil, 0
	}
	pts = make([]Point, 0, p.target)
	for attempts < 3*p.target && len(pts) < p.target {
		attempts++
		c := Point{
			X: s.Range(edgeMargin, p.w-edgeMargin),
			Y: s.Range(edgeMargin, p.h-edgeMargin),
		}
		if p.laneBias > 0 && s.Chance(p.laneBias) {
			c.X = laneX(s, p.w)
		}
		if near(c, p.anchors, p.clearance) || near(c, pts, p.minSep) {
			continue
		}
		pts = append(pts, c)
	}
	return pts, attempts
}

var lanes = []float64{0.5, 0.25, 0.75}

// laneX snaps x to the centerline or a side lane with a little spread.
func laneX(s *rng.Stream, w float64) float64 {
	lane, _ := rng.Pick(s, lanes)
	x := lane*w + s.Range(-0.06*w, 0.06*w)
	return math.Min(math.Max(x, edgeMargin), w-edgeMargin)
}

func near(c Point, pts []Point, r float64) bool {
	r2 := r * r
	for _, p := range pts {
		dx, dy := c.X-p.X, c.Y-p.Y
		if dx*dx+dy*dy < r2 {
			return true
		}
	}
	return false
}

var patrolWeights = map[SpawnKind][]choice.Option[Patrol]{
	KindEnemy: {
		{Item: PatrolStatic, Weight: 1},
		{Item: PatrolCircle, Weight: 1},
		{Item: PatrolLine, Weight: 1},
		{Item: PatrolWander, Weight: 2},
	},
	KindElite: {
		{Item: PatrolStatic, Weight: 0.5},
		{Item: PatrolCircle, Weight: 1},
		{Item: PatrolLine, Weight: 1},
		{Item: PatrolWander, Weight: 1},
	},
}

func makeSpawns(s *rng.Stream, pts []Point, pool []string, kind SpawnKind, firstID int) []*Spawn {
	spawns := make([]*Spawn, 0, len(pts))
	minR, maxR := 60.0, 160.0
	if kind == KindElite {
		minR, maxR = 80, 200
	}
	for i, p := range pts {
		typ, _ := rng.Pick(s, pool)
		patrol, _ := choice.Pick(s, patrolWeights[kind])
		spawns = append(spawns, &Spawn{
			ID:           firstID + i,
			Kind:         kind,
			X:            p.X,
			Y:            p.Y,
			Type:         typ,
			Patrol:       patrol,
			PatrolRadius: s.Range(minR, maxR),
		})
	}
	return spawns
}

var obstacleKinds = []string{"rock", "crate", "pylon"}

func makeObstacles(s *rng.Stream, pts []Point, mines float64) []Obstacle {
	obs := make([]Obstacle, 0, len(pts))
	for _, p := range pts {
		if mines > 0 && s.Chance(mines) {
			obs = append(obs, Obstacle{X: p.X, Y: p.Y, Radius: 18, Kind: "mine", Destructible: true, HP: 1})
			continue
		}
		kind, _ := rng.Pick(s, obstacleKinds)
		o := Obstacle{X: p.X, Y: p.Y, Radius: s.Range(24, 56), Kind: kind}
		if kind == "crate" {
			o.Destructible = true
			o.HP = 30
		}
		obs = append(obs, o)
	}
	return obs
}

func signature(z *Zone, boss string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%s|%s|d%d|%dx%d|e%d/el%d/o%d",
		z.Biome, z.Layout, z.Backdrop, z.Depth, z.Width, z.Height,
		len(z.EnemySpawns), len(z.EliteSpawns), len(z.Obstacles))
	if boss != "" {
		fmt.Fprintf(&sb, "|boss:%s", boss)
	}
	sb.WriteString("|")
	sb.WriteString(strings.Join(z.Modifiers, "+"))
	return sb.String()
}
