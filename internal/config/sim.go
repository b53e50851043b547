package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Sim holds all configuration for the headless depth simulation.
type Sim struct {
	LogLevel string `yaml:"log_level" env:"DEPTH_LOG_LEVEL"`

	// Run identity
	WorldSeed uint32 `yaml:"world_seed" env:"DEPTH_WORLD_SEED"`
	ProfileID string `yaml:"profile_id" env:"DEPTH_PROFILE_ID"`
	Act       string `yaml:"act" env:"DEPTH_ACT"`
	ActsFile  string `yaml:"acts_file" env:"DEPTH_ACTS_FILE"` // empty = built-in catalog

	// Loop
	TickRate      time.Duration `yaml:"tick_rate" env:"DEPTH_TICK_RATE"`
	MaxTicks      int           `yaml:"max_ticks" env:"DEPTH_MAX_TICKS"`           // 0 = until interrupted
	AutosaveEvery int           `yaml:"autosave_every" env:"DEPTH_AUTOSAVE_EVERY"` // ticks

	Store        StoreConfig        `yaml:"store" envPrefix:"DEPTH_STORE_"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator" envPrefix:"DEPTH_"`
}

// StoreConfig selects where profile state (depth record, freshness, world seed) lives.
type StoreConfig struct {
	Driver   string         `yaml:"driver" env:"DRIVER"` // memory | sqlite | postgres
	Path     string         `yaml:"path" env:"PATH"`     // sqlite file
	Database DatabaseConfig `yaml:"database" envPrefix:"DB_"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// OrchestratorConfig holds proximity radii and the view size used for camera clamping.
type OrchestratorConfig struct {
	SpawnRadius   float64 `yaml:"spawn_radius" env:"SPAWN_RADIUS"`
	DespawnRadius float64 `yaml:"despawn_radius" env:"DESPAWN_RADIUS"`
	ExitRadius    float64 `yaml:"exit_radius" env:"EXIT_RADIUS"`
	PortalRadius  float64 `yaml:"portal_radius" env:"PORTAL_RADIUS"`
	ViewWidth     float64 `yaml:"view_width" env:"VIEW_WIDTH"`
	ViewHeight    float64 `yaml:"view_height" env:"VIEW_HEIGHT"`
}

// DefaultOrchestrator returns the stock radii.
func DefaultOrchestrator() OrchestratorConfig {
	return OrchestratorConfig{
		SpawnRadius:   600,
		DespawnRadius: 1200,
		ExitRadius:    50,
		PortalRadius:  60,
		ViewWidth:     1280,
		ViewHeight:    720,
	}
}

// DefaultSim returns Sim config with sensible defaults.
func DefaultSim() Sim {
	return Sim{
		LogLevel:      "info",
		WorldSeed:     42,
		ProfileID:     "default",
		Act:           "ashen_reach",
		TickRate:      50 * time.Millisecond,
		MaxTicks:      0,
		AutosaveEvery: 200,
		Store: StoreConfig{
			Driver: "memory",
			Path:   "data/profiles.db",
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "depth",
				Password: "depth",
				DBName:   "depth",
				SSLMode:  "disable",
			},
		},
		Orchestrator: DefaultOrchestrator(),
	}
}

// LoadSim loads sim config from a YAML file and applies DEPTH_* environment overrides.
// If the file doesn't exist, defaults are used.
func LoadSim(path string) (Sim, error) {
	cfg := DefaultSim()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing env overrides: %w", err)
	}
	return cfg, nil
}
