package headless

import (
	"log/slog"
	"math"

	"github.com/udisondev/endlessdepth/internal/orchestrator"
	"github.com/udisondev/endlessdepth/internal/rng"
	"github.com/udisondev/endlessdepth/internal/zonegen"
)

// Walker tuning.
const (
	WalkSpeed   = 320.0 // units per second
	AttackRange = 160.0
	AttackDPS   = 240.0
	CritChance  = 0.1
)

// Walker is an autopilot player: it fights whatever is in range and
// otherwise heads for the boss, an open portal or the exit.
// It implements orchestrator.Player.
type Walker struct {
	x, y float64
	luck float64
	rng  *rng.Stream
}

// NewWalker creates a walker whose crit rolls come from seed.
func NewWalker(seed uint32, luck float64) *Walker {
	return &Walker{luck: luck, rng: rng.New(rng.SeedFromParts(seed, "walker"))}
}

func (w *Walker) Position() (float64, float64) { return w.x, w.y }
func (w *Walker) SetPosition(x, y float64)     { w.x, w.y = x, y }
func (w *Walker) Luck() float64                { return w.luck }

// Think runs one tick of walker decisions against o.
func (w *Walker) Think(o *orchestrator.Orchestrator, f *Factory, dt float64) {
	z := o.Zone()
	if z == nil || dt <= 0 {
		return
	}

	if e, ok := f.Nearest(w.x, w.y, AttackRange); ok {
		crit := w.rng.Chance(CritChance)
		if _, err := o.Damage(e.ID, AttackDPS*dt, crit); err != nil {
			slog.Warn("walker attack failed", "entity", e.ID, "error", err)
		}
		return
	}

	if tx, ty, ok := w.target(z, f); ok {
		w.moveToward(tx, ty, dt)
	}
}

func (w *Walker) target(z *zonegen.Zone, f *Factory) (float64, float64, bool) {
	if b := z.BossSpawn; b != nil && !b.Killed {
		if e, ok := f.Get(b.EntityID); ok && b.Active {
			return e.X, e.Y, true
		}
		return b.X, b.Y, true
	}
	if len(z.Portals) > 0 {
		p := z.Portals[0]
		return p.X, p.Y, true
	}
	if z.Exit != nil {
		return z.Exit.X, z.Exit.Y, true
	}
	return 0, 0, false
}

func (w *Walker) moveToward(tx, ty, dt float64) {
	dx, dy := tx-w.x, ty-w.y
	d := math.Hypot(dx, dy)
	step := WalkSpeed * dt
	if d <= step {
		w.x, w.y = tx, ty
		return
	}
	w.x += dx / d * step
	w.y += dy / d * step
}

var _ orchestrator.Player = (*Walker)(nil)

// LogAnnouncer writes banners to the default logger.
type LogAnnouncer struct{}

func (LogAnnouncer) Announce(text string) {
	slog.Info("announce", "text", text)
}

// Hub records hub transitions for the driver loop.
type Hub struct {
	Visits int
}

func (h *Hub) ToHub() { h.Visits++ }
