package zonegen

import (
	"math"

	"github.com/udisondev/endlessdepth/internal/depth"
	"github.com/udisondev/endlessdepth/internal/rng"
)

const pillarRadius = 48.0

// GenerateBoss builds a fixed-size boss arena: boss near the top center,
// a ring of 2–4 pillars around the center and no pre-placed enemies.
func GenerateBoss(in Input) *Zone {
	act := in.act()
	b := in.bundle()
	st := b.Streams()

	w, h := max(act.Boss.ArenaWidth, minDimension), max(act.Boss.ArenaHeight, minDimension)
	fw, fh := float64(w), float64(h)

	z := &Zone{
		Seed:        in.Seed,
		Depth:       in.Depth,
		Width:       w,
		Height:      h,
		Biome:       act.Biome,
		Layout:      in.Layout,
		Backdrop:    in.Backdrop,
		IsBoss:      true,
		SpawnPoint:  Point{X: fw / 2, Y: fh - edgeMargin},
		EnemySpawns: []*Spawn{},
		EliteSpawns: []*Spawn{},
		Modifiers:   depth.IDs(in.Modifiers),
		Seeds:       b,
	}
	z.BossSpawn = &Spawn{
		ID:     0,
		Kind:   KindBoss,
		X:      fw / 2,
		Y:      fh * 0.22,
		Type:   act.Boss.Type,
		Patrol: PatrolStatic,
	}
	z.Obstacles = pillars(st.Meso, fw, fh)
	z.Decorations = decorate(st.Macro, act, fw, fh, 0.5)
	z.Parallax = parallax(st.Macro, act)
	z.Signature = signature(z, act.Boss.Type)
	return z
}

// pillars places 2–4 evenly spaced pillars with per-pillar radial jitter.
func pillars(s *rng.Stream, w, h float64) []Obstacle {
	n := s.Int(2, 4)
	base := s.Range(0, 2*math.Pi)
	ring := math.Min(w, h) * 0.28
	cx, cy := w/2, h/2

	obs := make([]Obstacle, 0, n)
	for i := range n {
		a := base + float64(i)*2*math.Pi/float64(n)
		r := ring * s.Range(0.9, 1.1)
		obs = append(obs, Obstacle{
			X:      cx + math.Cos(a)*r,
			Y:      cy + math.Sin(a)*r,
			Radius: pillarRadius,
			Kind:   "pillar",
		})
	}
	return obs
}

// IsBossDepth reports whether depth lands on a boss zone for the interval.
func IsBossDepth(depth, interval int) bool {
	if interval <= 0 {
		interval = 4
	}
	return depth > 0 && depth%interval == 0
}
