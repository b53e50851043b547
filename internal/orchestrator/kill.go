package orchestrator

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/endlessdepth/internal/loot"
	"github.com/udisondev/endlessdepth/internal/zonegen"
)

// Damage forwards a hit to the entity factory. A kill payload ends in Kill.
func (o *Orchestrator) Damage(id uint32, amount float64, crit bool) (killed bool, err error) {
	if _, ok := o.active[id]; !ok {
		return false, fmt.Errorf("damaging entity %d: %w", id, ErrUnknownEntity)
	}
	if o.factory == nil {
		return false, nil
	}
	payload, dead := o.factory.Damage(id, amount, crit)
	if !dead {
		return false, nil
	}
	var reward loot.Reward
	if payload != nil {
		reward = payload.Reward
	}
	return true, o.Kill(id, reward)
}

// Kill marks the entity's descriptor killed and queues its reward for the
// next Update. Killing the boss opens a victory portal at the zone center.
func (o *Orchestrator) Kill(id uint32, reward loot.Reward) error {
	e, ok := o.active[id]
	if !ok {
		return fmt.Errorf("killing entity %d: %w", id, ErrUnknownEntity)
	}
	sp := o.zone.SpawnByID(e.spawnID)
	o.release(e)
	if sp == nil {
		slog.Warn("killed entity without descriptor", "entity", id, "spawn", e.spawnID)
		return nil
	}
	sp.Killed = true
	sp.Active = false
	sp.EntityID = 0
	o.kills++

	o.rewards = append(o.rewards, pendingKill{
		ev: loot.KillEvent{
			X:      e.x,
			Y:      e.y,
			Elite:  sp.Kind == zonegen.KindElite,
			Boss:   sp.Kind == zonegen.KindBoss,
			Type:   sp.Type,
			Reward: reward,
		},
		depth: o.Depth(),
	})
	o.emit(Event{Kind: EventKill, EntityID: id, SpawnID: sp.ID, Depth: o.Depth(), Detail: sp.Type})

	if sp.Kind == zonegen.KindBoss {
		o.openVictoryPortal()
	}
	return nil
}

func (o *Orchestrator) openVictoryPortal() {
	dest := o.act.NextAct
	if dest == "" {
		dest = HubDestination
	}
	c := o.zone.Center()
	o.zone.Portals = append(o.zone.Portals, zonegen.Portal{X: c.X, Y: c.Y, Destination: dest})
	o.emit(Event{Kind: EventPortalOpened, Depth: o.Depth(), Detail: dest})
	o.announce("Portal opened")
	slog.Info("boss defeated", "act", o.act.ID, "depth", o.Depth(), "portal", dest)
}

// drainRewards resolves queued kills in the order they happened.
func (o *Orchestrator) drainRewards() {
	if len(o.rewards) == 0 {
		return
	}
	var luck float64
	if o.player != nil {
		luck = o.player.Luck()
	}
	for _, k := range o.rewards {
		o.pickups = append(o.pickups, o.loot.Resolve(k.ev, k.depth, luck)...)
	}
	o.rewards = o.rewards[:0]
}
