package orchestrator

import "github.com/udisondev/endlessdepth/internal/loot"

// SpawnRequest asks the entity factory to materialize one descriptor.
type SpawnRequest struct {
	Type  string
	X, Y  float64
	Elite bool
	Boss  bool

	// Multipliers from the zone's active modifiers.
	HealthMult float64
	SpeedMult  float64
}

// KillPayload is what a dying entity reports.
type KillPayload struct {
	Reward loot.Reward
}

// EntityFactory owns entity simulation. All calls are synchronous.
type EntityFactory interface {
	Spawn(req SpawnRequest) (uint32, error)
	Damage(id uint32, amount float64, crit bool) (*KillPayload, bool)
	Move(id uint32, x, y float64)
	Destroy(id uint32)
}

// Player is the read side of the player plus position assignment on zone load.
type Player interface {
	Position() (x, y float64)
	SetPosition(x, y float64)
	Luck() float64
}

// Announcer shows a best-effort banner. Optional.
type Announcer interface {
	Announce(text string)
}

// SceneTransitioner leaves the run for the hub. Optional.
type SceneTransitioner interface {
	ToHub()
}

// EventKind is a lifecycle event type.
type EventKind string

const (
	EventSpawn        EventKind = "spawn"
	EventDespawn      EventKind = "despawn"
	EventKill         EventKind = "kill"
	EventZoneLoaded   EventKind = "zone_loaded"
	EventPortalOpened EventKind = "portal_opened"
	EventTransition   EventKind = "transition"
)

// Event is a lifecycle notification drained by the caller.
type Event struct {
	Kind     EventKind
	EntityID uint32
	SpawnID  int
	Depth    int
	Detail   string
}

// Camera is the view rectangle; X/Y is the top-left corner.
type Camera struct {
	X, Y          float64
	Width, Height float64
}
