package zonegen

import "github.com/udisondev/endlessdepth/internal/rng"

// Point is a position in zone coordinates. Y grows downward; y=0 is the top edge.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SpawnKind classifies a spawn descriptor.
type SpawnKind string

const (
	KindEnemy SpawnKind = "enemy"
	KindElite SpawnKind = "elite"
	KindBoss  SpawnKind = "boss"
)

// Patrol is the movement behavior of a materialized spawn.
type Patrol string

const (
	PatrolStatic Patrol = "static"
	PatrolCircle Patrol = "circle"
	PatrolLine   Patrol = "line"
	PatrolWander Patrol = "wander"
)

// Spawn is a pre-placed descriptor of something that can be materialized.
// Only Active, Killed and EntityID change after generation.
type Spawn struct {
	ID           int       `json:"id"`
	Kind         SpawnKind `json:"kind"`
	X            float64   `json:"x"`
	Y            float64   `json:"y"`
	Type         string    `json:"type"`
	Patrol       Patrol    `json:"patrol"`
	PatrolRadius float64   `json:"patrol_radius"`

	Active   bool   `json:"active"`
	Killed   bool   `json:"killed"`
	EntityID uint32 `json:"entity_id,omitempty"`
}

// Pos returns the descriptor position.
func (s *Spawn) Pos() (float64, float64) {
	return s.X, s.Y
}

// Dormant reports whether the descriptor can be materialized.
func (s *Spawn) Dormant() bool {
	return !s.Active && !s.Killed
}

// Obstacle is a static blocker.
type Obstacle struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Radius       float64 `json:"radius"`
	Kind         string  `json:"kind"`
	Destructible bool    `json:"destructible"`
	HP           int     `json:"hp,omitempty"`
}

// Decoration is a visual-only prop.
type Decoration struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Kind  string  `json:"kind"`
	Scale float64 `json:"scale"`
	Layer int     `json:"layer"`
}

// ParallaxLayer describes one background layer for the renderer.
type ParallaxLayer struct {
	Depth    float64 `json:"depth"`
	Color    string  `json:"color"`
	Elements int     `json:"elements"`
	Seed     uint32  `json:"seed"`
	Drift    float64 `json:"drift"`
}

// Portal is a transition trigger appended to a zone after generation.
type Portal struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Destination string  `json:"destination"` // "hub" or an act id
}

// Zone is one generated playable area.
type Zone struct {
	Seed     uint32 `json:"seed"`
	Depth    int    `json:"depth"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Biome    string `json:"biome"`
	Layout   Layout `json:"layout"`
	Backdrop string `json:"backdrop"`
	IsBoss   bool   `json:"is_boss"`

	SpawnPoint Point  `json:"spawn_point"`
	Exit       *Point `json:"exit,omitempty"`

	EnemySpawns []*Spawn `json:"enemy_spawns"`
	EliteSpawns []*Spawn `json:"elite_spawns"`
	BossSpawn   *Spawn   `json:"boss_spawn,omitempty"`

	Obstacles   []Obstacle      `json:"obstacles"`
	Decorations []Decoration    `json:"decorations"`
	Parallax    []ParallaxLayer `json:"parallax"`

	Modifiers []string   `json:"modifiers"`
	Signature string     `json:"signature"`
	Seeds     rng.Bundle `json:"seeds"`

	Portals []Portal `json:"portals,omitempty"`
}

// Spawns returns every descriptor in id order: enemies, elites, then the boss.
func (z *Zone) Spawns() []*Spawn {
	all := make([]*Spawn, 0, len(z.EnemySpawns)+len(z.EliteSpawns)+1)
	all = append(all, z.EnemySpawns...)
	all = append(all, z.EliteSpawns...)
	if z.BossSpawn != nil {
		all = append(all, z.BossSpawn)
	}
	return all
}

// SpawnByID returns the descriptor with the given id, or nil.
func (z *Zone) SpawnByID(id int) *Spawn {
	if id < 0 {
		return nil
	}
	if id < len(z.EnemySpawns) {
		return z.EnemySpawns[id]
	}
	id -= len(z.EnemySpawns)
	if id < len(z.EliteSpawns) {
		return z.EliteSpawns[id]
	}
	if id == len(z.EliteSpawns) {
		return z.BossSpawn
	}
	return nil
}

// Center returns the zone center.
func (z *Zone) Center() Point {
	return Point{X: float64(z.Width) / 2, Y: float64(z.Height) / 2}
}
