package zonegen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/endlessdepth/internal/config"
	"github.com/udisondev/endlessdepth/internal/depth"
	"github.com/udisondev/endlessdepth/internal/rng"
)

func ashenReach(t *testing.T) *config.Act {
	t.Helper()
	act, err := config.DefaultCatalog().Act("ashen_reach")
	require.NoError(t, err)
	return act
}

func allModifiers() []depth.Modifier {
	return append([]depth.Modifier(nil), depth.DefaultModifiers...)
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func at(s *Spawn) Point {
	return Point{X: s.X, Y: s.Y}
}

func TestGenerate_Deterministic(t *testing.T) {
	act := ashenReach(t)
	in := Input{Act: act, Seed: 1234, Depth: 7, Layout: LayoutCluttered, Backdrop: "dunes",
		Modifiers: []depth.Modifier{depth.DefaultModifiers[0], depth.DefaultModifiers[4]}}

	a := Generate(in)
	b := Generate(in)
	assert.Equal(t, a, b)
	assert.Equal(t, rng.DeriveBundle(1234), a.Seeds)
	assert.NotEqual(t, a.Signature, Generate(Input{Act: act, Seed: 1235, Depth: 7, Layout: LayoutCluttered, Backdrop: "dunes"}).Signature)
}

func TestGenerate_BossScenarioSeed42(t *testing.T) {
	act := ashenReach(t)
	actSeed := rng.ActSeed(rng.RunSeed(42, 0), act.ID)

	require.False(t, IsBossDepth(1, act.BossInterval()))
	z1 := Generate(Input{Act: act, Seed: rng.ZoneSeed(actSeed, 0), Depth: 1})
	assert.False(t, z1.IsBoss)
	assert.Nil(t, z1.BossSpawn)
	assert.NotNil(t, z1.Exit)

	require.True(t, IsBossDepth(4, act.BossInterval()))
	z4 := GenerateBoss(Input{Act: act, Seed: rng.ZoneSeed(actSeed, 3), Depth: 4})
	assert.True(t, z4.IsBoss)
	require.NotNil(t, z4.BossSpawn)
	assert.Equal(t, KindBoss, z4.BossSpawn.Kind)
	assert.Equal(t, act.Boss.Type, z4.BossSpawn.Type)
	assert.Empty(t, z4.EnemySpawns)
	assert.Empty(t, z4.EliteSpawns)
	assert.Nil(t, z4.Exit)
	assert.Equal(t, act.Boss.ArenaWidth, z4.Width)
	assert.Equal(t, act.Boss.ArenaHeight, z4.Height)
	assert.Same(t, z4.BossSpawn, z4.SpawnByID(0))
}

func TestIsBossDepth(t *testing.T) {
	assert.False(t, IsBossDepth(0, 4))
	assert.False(t, IsBossDepth(3, 4))
	assert.True(t, IsBossDepth(8, 4))
	assert.True(t, IsBossDepth(4, 0), "zero interval defaults to 4")
	assert.True(t, IsBossDepth(5, 5))
}

func TestGenerateBoss_PillarRing(t *testing.T) {
	act := ashenReach(t)
	for seed := uint32(1); seed <= 50; seed++ {
		z := GenerateBoss(Input{Act: act, Seed: seed, Depth: 4})
		require.GreaterOrEqual(t, len(z.Obstacles), 2)
		require.LessOrEqual(t, len(z.Obstacles), 4)

		ring := math.Min(float64(z.Width), float64(z.Height)) * 0.28
		for _, o := range z.Obstacles {
			assert.Equal(t, "pillar", o.Kind)
			assert.False(t, o.Destructible)
			r := dist(Point{X: o.X, Y: o.Y}, z.Center())
			assert.InDelta(t, ring, r, ring*0.1+1e-9)
		}
	}
}

func TestGenerate_CapsHoldAtAnyDepth(t *testing.T) {
	act := ashenReach(t)
	mods := allModifiers()
	combos := [][]depth.Modifier{nil, mods[:1], mods[:4], mods}

	for d := 1; d <= 10_000; d += 97 {
		for ci, m := range combos {
			for _, l := range []Layout{LayoutOpen, LayoutCorridor, LayoutCramped, LayoutCluttered} {
				dens := ComputeDensities(act, d, m, l)
				assert.LessOrEqual(t, dens.Enemy, MaxEnemyDensity)
				assert.LessOrEqual(t, dens.Elite, MaxEliteDensity)
				assert.LessOrEqual(t, dens.Obstacle, MaxObstacleDensity)

				z := Generate(Input{Act: act, Seed: uint32(d*31 + ci), Depth: d, Modifiers: m, Layout: l})
				assert.LessOrEqual(t, len(z.EnemySpawns), MaxEnemies)
				assert.LessOrEqual(t, len(z.EliteSpawns), MaxElites)
				assert.LessOrEqual(t, len(z.Obstacles), MaxObstacles)
				assert.LessOrEqual(t, len(z.Decorations), MaxDecorations)
				assert.LessOrEqual(t, len(z.Parallax), MaxParallax)
			}
		}
	}
}

func TestComputeDensities_RampSaturates(t *testing.T) {
	act := ashenReach(t)
	shallow := ComputeDensities(act, 1, nil, LayoutOpen)
	mid := ComputeDensities(act, 100, nil, LayoutOpen)
	deep := ComputeDensities(act, 1_000, nil, LayoutOpen)
	abyss := ComputeDensities(act, 1_000_000, nil, LayoutOpen)

	assert.Less(t, shallow.Enemy, mid.Enemy)
	assert.Less(t, mid.Enemy, deep.Enemy)
	assert.Equal(t, deep, abyss, "ramp is flat past saturation")
}

func TestGenerate_PlacementRules(t *testing.T) {
	act := ashenReach(t)
	for seed := uint32(100); seed < 160; seed++ {
		z := Generate(Input{Act: act, Seed: seed, Depth: 30, Layout: LayoutOpen})
		w, h := float64(z.Width), float64(z.Height)
		require.NotNil(t, z.Exit)

		assert.Greater(t, z.SpawnPoint.Y, edgeMargin-1, "spawn is never on the top edge")
		assert.Greater(t, dist(z.SpawnPoint, *z.Exit), math.Min(w, h)*0.4)

		for i, s := range z.Spawns() {
			assert.Equal(t, i, s.ID)
			assert.True(t, s.Dormant())
			assert.GreaterOrEqual(t, s.X, edgeMargin)
			assert.LessOrEqual(t, s.X, w-edgeMargin)
			assert.GreaterOrEqual(t, s.Y, edgeMargin)
			assert.LessOrEqual(t, s.Y, h-edgeMargin)
		}
		for _, s := range z.EnemySpawns {
			assert.GreaterOrEqual(t, dist(at(s), z.SpawnPoint), enemyClearance)
			assert.GreaterOrEqual(t, dist(at(s), *z.Exit), enemyClearance)
			assert.Contains(t, act.Enemies, s.Type)
		}
		for _, s := range z.EliteSpawns {
			assert.GreaterOrEqual(t, dist(at(s), z.SpawnPoint), eliteClearance)
			assert.Contains(t, act.Elites, s.Type)
		}
	}
}

func TestGenerate_EmptyPools(t *testing.T) {
	act := config.NewAct("barren")
	z := Generate(Input{Act: act, Seed: 9, Depth: 50})
	assert.Empty(t, z.EnemySpawns)
	assert.Empty(t, z.EliteSpawns)
	assert.NotEmpty(t, z.Obstacles)

	z = Generate(Input{Seed: 9, Depth: 1})
	assert.Equal(t, "wastes", z.Biome, "nil act falls back to defaults")
}

func TestGenerate_ObstaclesDoNotPerturbEnemies(t *testing.T) {
	act := ashenReach(t)
	dense, ok := depth.Lookup(depth.DenseObstacles)
	require.True(t, ok)

	base := Generate(Input{Act: act, Seed: 77, Depth: 40})
	more := Generate(Input{Act: act, Seed: 77, Depth: 40, Modifiers: []depth.Modifier{dense}})

	assert.Greater(t, len(more.Obstacles), len(base.Obstacles))
	assert.Equal(t, base.EnemySpawns, more.EnemySpawns)
	assert.Equal(t, base.EliteSpawns, more.EliteSpawns)
	assert.Equal(t, base.SpawnPoint, more.SpawnPoint)
}

func TestGenerate_Minefield(t *testing.T) {
	act := ashenReach(t)
	mines, ok := depth.Lookup(depth.Minefield)
	require.True(t, ok)

	var n int
	for seed := uint32(1); seed <= 20; seed++ {
		z := Generate(Input{Act: act, Seed: seed, Depth: 20, Modifiers: []depth.Modifier{mines}})
		for _, o := range z.Obstacles {
			if o.Kind == "mine" {
				n++
				assert.True(t, o.Destructible)
			}
		}
	}
	assert.Positive(t, n)
}

func TestGenerate_CorridorBiasesLanes(t *testing.T) {
	act := ashenReach(t)
	var inLane, total int
	for seed := uint32(1); seed <= 40; seed++ {
		z := Generate(Input{Act: act, Seed: seed, Depth: 10, Layout: LayoutCorridor})
		w := float64(z.Width)
		for _, s := range z.EnemySpawns {
			total++
			for _, l := range lanes {
				if math.Abs(s.X-l*w) <= 0.06*w+1e-9 {
					inLane++
					break
				}
			}
		}
	}
	require.Positive(t, total)
	assert.Greater(t, float64(inLane)/float64(total), 0.55)
}

func TestGenerate_CrampedShrinksFootprint(t *testing.T) {
	act := ashenReach(t)
	cramped, ok := depth.Lookup(depth.CrampedZone)
	require.True(t, ok)

	a := Generate(Input{Act: act, Seed: 5, Depth: 3})
	b := Generate(Input{Act: act, Seed: 5, Depth: 3, Modifiers: []depth.Modifier{cramped}})
	assert.Less(t, b.Width, a.Width)
	assert.Less(t, b.Height, a.Height)
}

func TestScatter_BoundedAttempts(t *testing.T) {
	pts, attempts := scatter(rng.New(3), scatterParams{
		target: 100, w: 400, h: 400, minSep: 200, clearance: 0,
	})
	assert.Equal(t, 300, attempts)
	assert.Less(t, len(pts), 100)

	pts, attempts = scatter(rng.New(3), scatterParams{target: 0, w: 4000, h: 4000})
	assert.Empty(t, pts)
	assert.Zero(t, attempts)
}

func TestSignature(t *testing.T) {
	act := ashenReach(t)
	mods := allModifiers()[:2]
	z := Generate(Input{Act: act, Seed: 1, Depth: 12, Layout: LayoutArena, Backdrop: "ember_sky", Modifiers: mods})
	assert.Contains(t, z.Signature, "ash|ARENA|ember_sky|d12|")
	assert.Contains(t, z.Signature, "swift_foes+bullet_hell")

	b := GenerateBoss(Input{Act: act, Seed: 1, Depth: 12})
	assert.Contains(t, b.Signature, "boss:furnace_warden")
}

func TestParseLayout(t *testing.T) {
	assert.Equal(t, LayoutCorridor, ParseLayout("CORRIDOR"))
	assert.Equal(t, LayoutOpen, ParseLayout("corridor"))
	assert.Equal(t, LayoutOpen, ParseLayout(""))
}
