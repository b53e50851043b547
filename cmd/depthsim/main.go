package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/endlessdepth/internal/config"
	"github.com/udisondev/endlessdepth/internal/db"
	"github.com/udisondev/endlessdepth/internal/headless"
	"github.com/udisondev/endlessdepth/internal/orchestrator"
	"github.com/udisondev/endlessdepth/internal/profile"
)

const SimConfigPath = "config/depthsim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := SimConfigPath
	if p := os.Getenv("DEPTH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSim(cfgPath)
	if err != nil {
		return fmt.Errorf("loading sim config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	orchestrator.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("depthsim starting",
		"log_level", cfg.LogLevel,
		"world_seed", cfg.WorldSeed,
		"act", cfg.Act,
		"store", cfg.Store.Driver)

	catalog, err := config.LoadCatalog(cfg.ActsFile)
	if err != nil {
		return fmt.Errorf("loading act catalog: %w", err)
	}

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	state, err := profile.LoadState(ctx, store, cfg.ProfileID, cfg.WorldSeed)
	if err != nil {
		return err
	}
	slog.Info("profile loaded",
		"profile", cfg.ProfileID,
		"run", state.RunIndex,
		"best_depth", state.Depth.BestDepth,
		"unlocked", state.Depth.Unlocked)

	factory := headless.NewFactory()
	walker := headless.NewWalker(state.WorldSeed, 0)
	hub := &headless.Hub{}
	orch := orchestrator.New(catalog, state, factory, walker,
		orchestrator.WithConfig(cfg.Orchestrator),
		orchestrator.WithAnnouncer(headless.LogAnnouncer{}),
		orchestrator.WithSceneTransitioner(hub))

	if err := orch.Init(cfg.Act, state.RunIndex); err != nil {
		return err
	}
	if err := orch.LoadZone(0); err != nil {
		return fmt.Errorf("loading first zone: %w", err)
	}

	// The sim goroutine is the only writer of state; snapshots cross to the
	// persistence goroutine already encoded.
	snapshots := make(chan map[string]string, 4)
	saverDone := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(snapshots)
		return simulate(gctx, cfg, orch, factory, walker, hub, snapshots, saverDone)
	})
	g.Go(func() error {
		defer close(saverDone)
		for kv := range snapshots {
			// Detached so the final save survives shutdown.
			saveCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), 5*time.Second)
			err := store.Save(saveCtx, cfg.ProfileID, kv)
			cancel()
			if err != nil {
				return fmt.Errorf("saving profile: %w", err)
			}
			slog.Debug("profile saved", "profile", cfg.ProfileID)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("depthsim stopped",
		"best_depth", state.Depth.BestDepth,
		"run", state.RunIndex,
		"entities_spawned", factory.Spawned())
	return nil
}

func simulate(
	ctx context.Context,
	cfg config.Sim,
	orch *orchestrator.Orchestrator,
	factory *headless.Factory,
	walker *headless.Walker,
	hub *headless.Hub,
	out chan<- map[string]string,
	saverDone <-chan struct{},
) error {
	dt := cfg.TickRate.Seconds()
	if dt <= 0 {
		dt = 0.05
	}
	var tick <-chan time.Time
	if cfg.TickRate > 0 {
		ticker := time.NewTicker(cfg.TickRate)
		defer ticker.Stop()
		tick = ticker.C
	}

	snapshot := func() error {
		kv, err := profile.Encode(orch.State())
		if err != nil {
			return err
		}
		select {
		case out <- kv:
		case <-saverDone:
			// The saver failed; its error is reported by the group.
		}
		return nil
	}

	visits := 0
	for n := 1; cfg.MaxTicks <= 0 || n <= cfg.MaxTicks; n++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return snapshot()
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return snapshot()
		}

		walker.Think(orch, factory, dt)
		orch.Update(dt)
		for _, ev := range orch.DrainEvents() {
			if ev.Kind == orchestrator.EventZoneLoaded {
				slog.Debug("zone", "depth", ev.Depth, "signature", ev.Detail)
			}
		}
		for _, p := range orch.DrainPickups() {
			slog.Debug("pickup", "kind", p.Kind, "rarity", p.Rarity, "value", p.Value)
		}

		if hub.Visits > visits {
			visits = hub.Visits
			if err := nextRun(orch, cfg.Act); err != nil {
				return err
			}
		}

		if cfg.AutosaveEvery > 0 && n%cfg.AutosaveEvery == 0 {
			if err := snapshot(); err != nil {
				return err
			}
		}
	}
	return snapshot()
}

// nextRun starts a new run of act from the hub.
func nextRun(orch *orchestrator.Orchestrator, act string) error {
	run := orch.State().RunIndex + 1
	if err := orch.Init(act, run); err != nil {
		return err
	}
	if err := orch.LoadZone(0); err != nil {
		return fmt.Errorf("loading first zone of run %d: %w", run, err)
	}
	slog.Info("new run", "run", run, "act", act)
	return nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (profile.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return profile.NewMemoryStore(), nil
	case "sqlite":
		st, err := profile.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return st, nil
	case "postgres":
		dsn := cfg.Database.DSN()
		version, err := db.RunMigrations(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("profile schema ready", "version", version)
		database, err := db.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		return &pgStore{ProfileRepository: db.NewProfileRepository(database.Pool()), db: database}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// pgStore closes the pool together with the repository.
type pgStore struct {
	*db.ProfileRepository
	db *db.DB
}

func (s *pgStore) Close() error {
	s.db.Close()
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
