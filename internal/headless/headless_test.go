package headless

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/endlessdepth/internal/config"
	"github.com/udisondev/endlessdepth/internal/orchestrator"
	"github.com/udisondev/endlessdepth/internal/profile"
)

func TestFactory_Lifecycle(t *testing.T) {
	f := NewFactory()
	_, err := f.Spawn(orchestrator.SpawnRequest{})
	require.Error(t, err)

	id, err := f.Spawn(orchestrator.SpawnRequest{Type: "drone", X: 10, Y: 10, HealthMult: 1.5})
	require.NoError(t, err)
	e, ok := f.Get(id)
	require.True(t, ok)
	assert.Equal(t, EnemyHP*1.5, e.HP)

	_, dead := f.Damage(id, 100, false)
	assert.False(t, dead)
	_, dead = f.Damage(id, 30, true)
	assert.True(t, dead)

	f.Move(id, 50, 60)
	got, ok := f.Nearest(40, 60, 20)
	require.True(t, ok)
	assert.Equal(t, id, got.ID)

	f.Destroy(id)
	assert.Zero(t, f.Len())
	assert.Equal(t, 1, f.Spawned())
}

func TestFactory_NearestTieBreak(t *testing.T) {
	f := NewFactory()
	a, _ := f.Spawn(orchestrator.SpawnRequest{Type: "a", X: 10})
	_, _ = f.Spawn(orchestrator.SpawnRequest{Type: "b", X: -10})
	e, ok := f.Nearest(0, 0, 50)
	require.True(t, ok)
	assert.Equal(t, a, e.ID)

	_, ok = f.Nearest(500, 500, 50)
	assert.False(t, ok)
}

func TestWalker_ClearsFirstBossZone(t *testing.T) {
	f := NewFactory()
	w := NewWalker(42, 0)
	hub := &Hub{}
	o := orchestrator.New(config.DefaultCatalog(), profile.NewState(42), f, w,
		orchestrator.WithSceneTransitioner(hub))
	require.NoError(t, o.Init("ashen_reach", 0))
	require.NoError(t, o.LoadZone(0))

	const dt = 0.05
	for range 40_000 {
		w.Think(o, f, dt)
		o.Update(dt)
		if o.Act().ID != "ashen_reach" {
			break
		}
	}

	assert.Equal(t, "sunken_vault", o.Act().ID, "walker reached the victory portal")
	assert.GreaterOrEqual(t, o.State().Depth.BestDepth, 4)
	assert.Zero(t, hub.Visits)
}
