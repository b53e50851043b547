package orchestrator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/endlessdepth/internal/choice"
	"github.com/udisondev/endlessdepth/internal/config"
	"github.com/udisondev/endlessdepth/internal/depth"
	"github.com/udisondev/endlessdepth/internal/loot"
	"github.com/udisondev/endlessdepth/internal/profile"
	"github.com/udisondev/endlessdepth/internal/rng"
	"github.com/udisondev/endlessdepth/internal/spatial"
	"github.com/udisondev/endlessdepth/internal/zonegen"
)

// HubDestination is the portal destination that leaves the run.
const HubDestination = "hub"

var (
	// ErrNotInitialized is returned by LoadZone before a successful Init.
	ErrNotInitialized = errors.New("orchestrator not initialized")
	// ErrUnknownEntity is returned for entity ids the orchestrator does not own.
	ErrUnknownEntity = errors.New("unknown entity")
)

// Status is the lifecycle state of the current zone.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusActive
	StatusExitTriggered
	StatusPortalTriggered
	StatusTransition
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusActive:
		return "active"
	case StatusExitTriggered:
		return "exit_triggered"
	case StatusPortalTriggered:
		return "portal_triggered"
	case StatusTransition:
		return "transition"
	default:
		return "unknown"
	}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConfig overrides the radii and view size.
func WithConfig(cfg config.OrchestratorConfig) Option {
	return func(o *Orchestrator) { o.cfg = cfg }
}

// WithAnnouncer installs a banner hook.
func WithAnnouncer(a Announcer) Option {
	return func(o *Orchestrator) { o.announcer = a }
}

// WithSceneTransitioner installs the hub transition hook.
func WithSceneTransitioner(s SceneTransitioner) Option {
	return func(o *Orchestrator) { o.scenes = s }
}

type pendingKill struct {
	ev    loot.KillEvent
	depth int
}

// Orchestrator owns the current zone and every piece of run state it mutates.
// It is not safe for concurrent use; all calls come from the simulation goroutine.
type Orchestrator struct {
	cfg       config.OrchestratorConfig
	catalog   *config.Catalog
	state     *profile.State
	factory   EntityFactory
	player    Player
	announcer Announcer
	scenes    SceneTransitioner

	act     *config.Act
	pool    depth.Pool
	runSeed uint32
	actSeed uint32
	loot    *loot.Resolver

	zone    *zonegen.Zone
	index   int
	status  Status
	mods    []depth.Modifier
	enemies *spatial.Index[*zonegen.Spawn]
	elites  *spatial.Index[*zonegen.Spawn]

	active      map[uint32]*entity
	order       []uint32
	spawnSerial int
	spawned     int
	kills       int

	rewards []pendingKill
	events  []Event
	pickups []loot.Pickup
	camera  Camera
}

// New creates an orchestrator over state. Call Init before LoadZone.
func New(catalog *config.Catalog, state *profile.State, factory EntityFactory, player Player, opts ...Option) *Orchestrator {
	if catalog == nil {
		catalog = config.DefaultCatalog()
	}
	if state == nil {
		state = profile.NewState(0)
	}
	o := &Orchestrator{
		cfg:     config.DefaultOrchestrator(),
		catalog: catalog,
		state:   state,
		factory: factory,
		player:  player,
		active:  make(map[uint32]*entity),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Init selects the act for run runIndex. A missing act returns an error
// wrapping config.ErrActNotFound and leaves every field untouched.
// Re-initialising within the same run keeps the loot serial and stream.
func (o *Orchestrator) Init(actID string, runIndex int) error {
	act, err := o.catalog.Act(actID)
	if err != nil {
		return fmt.Errorf("init act: %w", err)
	}

	runSeed := rng.RunSeed(o.state.WorldSeed, runIndex)
	if o.loot != nil && o.loot.RunSeed() == runSeed && o.state.RunIndex == runIndex {
		o.loot.Rebind(act)
	} else {
		o.loot = loot.NewResolver(act, runSeed)
	}
	o.act = act
	o.pool = depth.NewPool(act)
	o.runSeed = runSeed
	o.actSeed = rng.ActSeed(o.runSeed, act.ID)
	o.state.RunIndex = runIndex
	o.state.Freshness.Window = choice.ClampWindow(act.Freshness.Window)
	o.status = StatusLoading

	slog.Info("act initialized", "act", act.ID, "run", runIndex, "actSeed", o.actSeed)
	return nil
}

// LoadZone generates zone index of the current act and makes it current.
func (o *Orchestrator) LoadZone(index int) error {
	if o.act == nil {
		return ErrNotInitialized
	}
	if index < 0 {
		return fmt.Errorf("loading zone %d: negative index", index)
	}
	o.status = StatusLoading

	d := index + 1
	zoneSeed := rng.ZoneSeed(o.actSeed, index)
	bundle := rng.DeriveBundle(zoneSeed)

	modStream := rng.New(bundle.Mods)
	if id := o.state.Depth.CheckMilestone(d, o.pool, modStream, o.act.Modifiers.MilestoneEvery); id != "" {
		o.announce(fmt.Sprintf("New modifier unlocked: %s", id))
	}
	mods := depth.SampleActive(d, &o.state.Depth, o.pool, modStream)

	layout, backdrop := o.pickLook(bundle)
	in := zonegen.Input{
		Act:       o.act,
		Seed:      zoneSeed,
		Depth:     d,
		Modifiers: mods,
		Layout:    layout,
		Backdrop:  backdrop,
		Bundle:    bundle,
	}
	var z *zonegen.Zone
	if zonegen.IsBossDepth(d, o.act.BossInterval()) {
		z = zonegen.GenerateBoss(in)
	} else {
		z = zonegen.Generate(in)
	}

	o.destroyAll()
	o.zone = z
	o.index = index
	o.mods = mods
	o.enemies = spatial.Build(o.cfg.SpawnRadius, z.EnemySpawns)
	o.elites = spatial.Build(o.cfg.SpawnRadius, z.EliteSpawns)
	o.spawnSerial = 0
	o.spawned = 0
	o.kills = 0

	if o.player != nil {
		o.player.SetPosition(z.SpawnPoint.X, z.SpawnPoint.Y)
	}
	o.updateCamera()
	o.status = StatusActive

	o.emit(Event{Kind: EventZoneLoaded, Depth: d, Detail: z.Signature})
	if z.IsBoss {
		o.announce(fmt.Sprintf("Depth %d: %s", d, o.act.Boss.Type))
	} else {
		o.announce(fmt.Sprintf("Depth %d", d))
	}
	slog.Info("zone loaded",
		"act", o.act.ID,
		"zone", index,
		"depth", d,
		"boss", z.IsBoss,
		"enemies", len(z.EnemySpawns),
		"elites", len(z.EliteSpawns),
		"modifiers", z.Modifiers,
		"signature", z.Signature)
	return nil
}

// pickLook picks layout and backdrop with the freshness sampler and records the key.
func (o *Orchestrator) pickLook(b rng.Bundle) (zonegen.Layout, string) {
	cands := make([]choice.Candidate[[2]string], 0, len(o.act.Layouts)*len(o.act.Backdrops))
	for _, l := range o.act.Layouts {
		for _, bd := range o.act.Backdrops {
			cands = append(cands, choice.Candidate[[2]string]{
				Key:    o.act.Biome + "|" + l + "|" + bd,
				Item:   [2]string{l, bd},
				Weight: 1,
			})
		}
	}
	s := rng.New(rng.SeedFromParts(b.Macro, "freshness"))
	pick, ok := choice.PickFresh(s, &o.state.Freshness, cands, o.act.Freshness.PenaltyBase)
	if !ok {
		return zonegen.LayoutOpen, ""
	}
	return zonegen.ParseLayout(pick[0]), pick[1]
}

func (o *Orchestrator) announce(text string) {
	if o.announcer != nil {
		o.announcer.Announce(text)
	}
}

func (o *Orchestrator) emit(ev Event) {
	o.events = append(o.events, ev)
}

// Zone returns the current zone, or nil before the first LoadZone.
func (o *Orchestrator) Zone() *zonegen.Zone { return o.zone }

// ZoneIndex returns the index of the current zone in the act.
func (o *Orchestrator) ZoneIndex() int { return o.index }

// Depth returns the depth of the current zone.
func (o *Orchestrator) Depth() int { return o.index + 1 }

// Status returns the zone lifecycle state.
func (o *Orchestrator) Status() Status { return o.status }

// Act returns the current act, or nil before Init.
func (o *Orchestrator) Act() *config.Act { return o.act }

// State returns the profile state the orchestrator mutates.
func (o *Orchestrator) State() *profile.State { return o.state }

// Modifiers returns the active modifiers of the current zone.
func (o *Orchestrator) Modifiers() []depth.Modifier { return o.mods }

// ActiveCount returns the number of materialized entities.
func (o *Orchestrator) ActiveCount() int { return len(o.order) }

// Counters returns per-zone spawn and kill counts.
func (o *Orchestrator) Counters() (spawned, kills int) { return o.spawned, o.kills }

// Camera returns the current view rectangle.
func (o *Orchestrator) Camera() Camera { return o.camera }

// DrainEvents returns and clears queued lifecycle events.
func (o *Orchestrator) DrainEvents() []Event {
	ev := o.events
	o.events = nil
	return ev
}

// DrainPickups returns and clears resolved pickups.
func (o *Orchestrator) DrainPickups() []loot.Pickup {
	p := o.pickups
	o.pickups = nil
	return p
}

func (o *Orchestrator) updateCamera() {
	if o.zone == nil {
		return
	}
	w, h := o.cfg.ViewWidth, o.cfg.ViewHeight
	var px, py float64
	if o.player != nil {
		px, py = o.player.Position()
	}
	o.camera = Camera{
		X:      clamp(px-w/2, 0, max(0, float64(o.zone.Width)-w)),
		Y:      clamp(py-h/2, 0, max(0, float64(o.zone.Height)-h)),
		Width:  w,
		Height: h,
	}
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
