package orchestrator

import (
	"math"

	"github.com/udisondev/endlessdepth/internal/rng"
	"github.com/udisondev/endlessdepth/internal/zonegen"
)

// Patrol tuning.
const (
	patrolSpeed  = 60.0 // units per second at SpeedMult 1
	lineFreq     = 0.8  // radians per second
	wanderRate   = 0.8  // expected direction changes per second
	wanderMinSpd = 20.0
)

// entity is the orchestrator's view of one materialized spawn.
// It refers to its descriptor by id; the descriptor holds the entity id.
type entity struct {
	id      uint32
	spawnID int
	kind    zonegen.SpawnKind
	patrol  zonegen.Patrol
	radius  float64
	speed   float64

	originX, originY float64
	x, y             float64

	angle  float64 // circle
	phase  float64 // line
	vx, vy float64 // wander
	wander *rng.Stream
}

func newEntity(id uint32, sp *zonegen.Spawn, speedMult float64, wander *rng.Stream) *entity {
	return &entity{
		id:      id,
		spawnID: sp.ID,
		kind:    sp.Kind,
		patrol:  sp.Patrol,
		radius:  sp.PatrolRadius,
		speed:   patrolSpeed * speedMult,
		originX: sp.X,
		originY: sp.Y,
		x:       sp.X,
		y:       sp.Y,
		angle:   wander.Range(0, 2*math.Pi),
		phase:   wander.Range(0, 2*math.Pi),
		wander:  wander,
	}
}

// step advances patrol by dt seconds and reports whether the position changed.
func (e *entity) step(dt float64) bool {
	if e.radius <= 0 {
		return false
	}
	switch e.patrol {
	case zonegen.PatrolCircle:
		e.angle += e.speed / e.radius * dt
		e.x = e.originX + math.Cos(e.angle)*e.radius
		e.y = e.originY + math.Sin(e.angle)*e.radius
		return true

	case zonegen.PatrolLine:
		e.phase += lineFreq * dt
		e.x = e.originX + math.Sin(e.phase)*e.radius
		e.y = e.originY
		return true

	case zonegen.PatrolWander:
		if (e.vx == 0 && e.vy == 0) || e.wander.Chance(dt*wanderRate) {
			a := e.wander.Range(0, 2*math.Pi)
			spd := e.wander.Range(wanderMinSpd, e.speed)
			e.vx, e.vy = math.Cos(a)*spd, math.Sin(a)*spd
		}
		dx, dy := e.x-e.originX, e.y-e.originY
		if d := math.Hypot(dx, dy); d > e.radius {
			spd := math.Hypot(e.vx, e.vy)
			e.vx, e.vy = -dx/d*spd, -dy/d*spd
		}
		e.x += e.vx * dt
		e.y += e.vy * dt
		return true

	default:
		return false
	}
}
