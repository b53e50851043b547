// Package headless provides a display-less entity factory and an autopilot
// player so runs can be simulated without a game client.
package headless

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/udisondev/endlessdepth/internal/orchestrator"
)

// Base hit points per tier before modifiers.
const (
	EnemyHP = 100.0
	EliteHP = 450.0
	BossHP  = 4000.0
)

// Entity is one simulated enemy.
type Entity struct {
	ID    uint32
	Type  string
	X, Y  float64
	HP    float64
	Elite bool
	Boss  bool
}

// Factory keeps entities in memory. It implements orchestrator.EntityFactory.
type Factory struct {
	nextID   uint32
	entities map[uint32]*Entity
	spawned  int
}

// NewFactory creates an empty factory. Ids start at 100000.
func NewFactory() *Factory {
	return &Factory{nextID: 100000, entities: make(map[uint32]*Entity)}
}

func (f *Factory) Spawn(req orchestrator.SpawnRequest) (uint32, error) {
	if req.Type == "" {
		return 0, fmt.Errorf("spawning entity: empty type")
	}
	hp := EnemyHP
	switch {
	case req.Boss:
		hp = BossHP
	case req.Elite:
		hp = EliteHP
	}
	if req.HealthMult > 0 {
		hp *= req.HealthMult
	}

	f.nextID++
	f.spawned++
	f.entities[f.nextID] = &Entity{
		ID:    f.nextID,
		Type:  req.Type,
		X:     req.X,
		Y:     req.Y,
		HP:    hp,
		Elite: req.Elite,
		Boss:  req.Boss,
	}
	return f.nextID, nil
}

func (f *Factory) Damage(id uint32, amount float64, crit bool) (*orchestrator.KillPayload, bool) {
	e, ok := f.entities[id]
	if !ok {
		return nil, false
	}
	if crit {
		amount *= 2
	}
	e.HP -= amount
	if e.HP > 0 {
		return nil, false
	}
	slog.Debug("entity defeated", "entity", id, "type", e.Type)
	return &orchestrator.KillPayload{}, true
}

func (f *Factory) Move(id uint32, x, y float64) {
	if e, ok := f.entities[id]; ok {
		e.X, e.Y = x, y
	}
}

func (f *Factory) Destroy(id uint32) {
	delete(f.entities, id)
}

// Get returns a live entity.
func (f *Factory) Get(id uint32) (*Entity, bool) {
	e, ok := f.entities[id]
	return e, ok
}

// Len returns the number of live entities.
func (f *Factory) Len() int {
	return len(f.entities)
}

// Spawned returns how many entities were ever created.
func (f *Factory) Spawned() int {
	return f.spawned
}

// Nearest returns the live entity closest to (x, y) within r.
// Ties break on the lower id so the choice is reproducible.
func (f *Factory) Nearest(x, y, r float64) (*Entity, bool) {
	ids := make([]uint32, 0, len(f.entities))
	for id := range f.entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var best *Entity
	bestD := r
	for _, id := range ids {
		e := f.entities[id]
		if d := math.Hypot(e.X-x, e.Y-y); d <= bestD {
			if best == nil || d < bestD {
				best, bestD = e, d
			}
		}
	}
	return best, best != nil
}

var _ orchestrator.EntityFactory = (*Factory)(nil)
