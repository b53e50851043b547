package orchestrator

import (
	"log/slog"
	"math"
	"slices"

	"github.com/udisondev/endlessdepth/internal/depth"
	"github.com/udisondev/endlessdepth/internal/rng"
	"github.com/udisondev/endlessdepth/internal/spatial"
	"github.com/udisondev/endlessdepth/internal/zonegen"
)

// bossSpawnFactor widens the trigger radius for the boss.
const bossSpawnFactor = 1.5

// Update advances one tick of dt seconds.
func (o *Orchestrator) Update(dt float64) {
	if o.zone == nil || o.status != StatusActive {
		return
	}
	o.drainRewards()

	var px, py float64
	if o.player != nil {
		px, py = o.player.Position()
	}

	o.spawnNear(px, py)
	o.despawnFar(px, py)
	o.patrol(dt)
	o.updateCamera()

	if o.checkExit(px, py) {
		return
	}
	o.checkPortals(px, py)
}

func (o *Orchestrator) spawnNear(px, py float64) {
	r := o.cfg.SpawnRadius
	for _, idx := range [...]*spatial.Index[*zonegen.Spawn]{o.enemies, o.elites} {
		if idx == nil {
			continue
		}
		for _, sp := range idx.Query(px, py, r) {
			if !sp.Dormant() || math.Hypot(sp.X-px, sp.Y-py) > r {
				continue
			}
			o.materialize(sp)
		}
	}
	if b := o.zone.BossSpawn; b != nil && b.Dormant() && math.Hypot(b.X-px, b.Y-py) <= r*bossSpawnFactor {
		o.materialize(b)
	}
}

func (o *Orchestrator) despawnFar(px, py float64) {
	r := o.cfg.DespawnRadius
	for _, id := range slices.Clone(o.order) {
		e := o.active[id]
		if e.kind == zonegen.KindBoss {
			continue
		}
		if math.Hypot(e.x-px, e.y-py) > r {
			o.dematerialize(e)
		}
	}
}

func (o *Orchestrator) patrol(dt float64) {
	if dt <= 0 {
		return
	}
	for _, id := range o.order {
		e := o.active[id]
		if e.step(dt) && o.factory != nil {
			o.factory.Move(e.id, e.x, e.y)
		}
	}
}

// materialize asks the factory for an entity. Malformed descriptors and
// factory failures are skipped so the tick continues.
func (o *Orchestrator) materialize(sp *zonegen.Spawn) {
	if sp.Type == "" {
		slog.Warn("skipping spawn without type", "spawn", sp.ID, "depth", o.Depth())
		return
	}
	if o.factory == nil {
		return
	}
	health, speed := modifierMults(o.mods)
	id, err := o.factory.Spawn(SpawnRequest{
		Type:       sp.Type,
		X:          sp.X,
		Y:          sp.Y,
		Elite:      sp.Kind == zonegen.KindElite,
		Boss:       sp.Kind == zonegen.KindBoss,
		HealthMult: health,
		SpeedMult:  speed,
	})
	if err != nil {
		slog.Warn("entity spawn failed", "spawn", sp.ID, "type", sp.Type, "error", err)
		return
	}
	if _, dup := o.active[id]; dup {
		slog.Warn("entity factory reused id", "entity", id, "spawn", sp.ID)
		return
	}

	wander := rng.New(rng.SeedFromParts(o.zone.Seeds.Encounters, "patrol", sp.ID, o.spawnSerial))
	o.spawnSerial++
	o.spawned++

	sp.Active = true
	sp.EntityID = id
	o.active[id] = newEntity(id, sp, speed, wander)
	o.order = append(o.order, id)
	o.emit(Event{Kind: EventSpawn, EntityID: id, SpawnID: sp.ID, Depth: o.Depth(), Detail: sp.Type})

	if IsDebugEnabled() {
		slog.Debug("entity spawned", "entity", id, "spawn", sp.ID, "kind", sp.Kind, "type", sp.Type)
	}
}

// dematerialize destroys the entity and returns its descriptor to dormant.
func (o *Orchestrator) dematerialize(e *entity) {
	o.release(e)
	if sp := o.zone.SpawnByID(e.spawnID); sp != nil {
		sp.Active = false
		sp.EntityID = 0
	}
	o.emit(Event{Kind: EventDespawn, EntityID: e.id, SpawnID: e.spawnID, Depth: o.Depth()})

	if IsDebugEnabled() {
		slog.Debug("entity despawned", "entity", e.id, "spawn", e.spawnID)
	}
}

func (o *Orchestrator) release(e *entity) {
	if o.factory != nil {
		o.factory.Destroy(e.id)
	}
	delete(o.active, e.id)
	if i := slices.Index(o.order, e.id); i >= 0 {
		o.order = slices.Delete(o.order, i, i+1)
	}
}

// destroyAll releases every entity of the outgoing zone.
func (o *Orchestrator) destroyAll() {
	for _, id := range slices.Clone(o.order) {
		e := o.active[id]
		o.release(e)
		if sp := o.zone.SpawnByID(e.spawnID); sp != nil {
			sp.Active = false
			sp.EntityID = 0
		}
	}
}

func (o *Orchestrator) checkExit(px, py float64) bool {
	ex := o.zone.Exit
	if ex == nil || math.Hypot(ex.X-px, ex.Y-py) > o.cfg.ExitRadius {
		return false
	}
	o.status = StatusExitTriggered
	if err := o.LoadZone(o.index + 1); err != nil {
		slog.Error("advancing zone", "zone", o.index+1, "error", err)
		o.status = StatusActive
	}
	return true
}

func (o *Orchestrator) checkPortals(px, py float64) {
	for i, p := range o.zone.Portals {
		if math.Hypot(p.X-px, p.Y-py) > o.cfg.PortalRadius {
			continue
		}
		o.status = StatusPortalTriggered
		o.enterPortal(i, p)
		return
	}
}

func (o *Orchestrator) enterPortal(i int, p zonegen.Portal) {
	if p.Destination == "" || p.Destination == HubDestination {
		o.destroyAll()
		o.status = StatusTransition
		o.emit(Event{Kind: EventTransition, Depth: o.Depth(), Detail: HubDestination})
		if o.scenes != nil {
			o.scenes.ToHub()
		}
		slog.Info("leaving for hub", "act", o.act.ID, "depth", o.Depth())
		return
	}

	if err := o.Init(p.Destination, o.state.RunIndex); err != nil {
		slog.Warn("portal destination unavailable", "destination", p.Destination, "error", err)
		o.zone.Portals = slices.Delete(o.zone.Portals, i, i+1)
		o.status = StatusActive
		return
	}
	if err := o.LoadZone(0); err != nil {
		slog.Error("loading destination zone", "destination", p.Destination, "error", err)
	}
}

func modifierMults(mods []depth.Modifier) (health, speed float64) {
	health, speed = 1, 1
	for _, m := range mods {
		health *= depth.Factor(m.EnemyHealth)
		speed *= depth.Factor(m.EnemySpeed)
	}
	return health, speed
}
