package zonegen

// Layout names a geometry template.
type Layout string

const (
	LayoutOpen      Layout = "OPEN"
	LayoutCorridor  Layout = "CORRIDOR"
	LayoutArena     Layout = "ARENA"
	LayoutCluttered Layout = "CLUTTERED"
	LayoutCramped   Layout = "CRAMPED"
)

// template scales geometry and densities before placement.
type template struct {
	width, height float64
	enemy, elite  float64
	obstacle      float64
	minSep        float64 // minimum distance between accepted spawns
	laneBias      float64 // probability of snapping x to a lane
}

var templates = map[Layout]template{
	LayoutOpen:      {width: 1, height: 1, enemy: 1, elite: 1, obstacle: 0.8, minSep: 140},
	LayoutCorridor:  {width: 0.6, height: 1.5, enemy: 1.1, elite: 1, obstacle: 0.9, minSep: 120, laneBias: 0.65},
	LayoutArena:     {width: 1.1, height: 1.1, enemy: 1.2, elite: 1.2, obstacle: 0.5, minSep: 150},
	LayoutCluttered: {width: 1, height: 1, enemy: 0.9, elite: 1, obstacle: 1.8, minSep: 100},
	LayoutCramped:   {width: 0.7, height: 0.7, enemy: 1.1, elite: 0.9, obstacle: 1.2, minSep: 90},
}

// ParseLayout maps a configured name to a Layout, defaulting to OPEN.
func ParseLayout(name string) Layout {
	l := Layout(name)
	if _, ok := templates[l]; ok {
		return l
	}
	return LayoutOpen
}

func templateFor(l Layout) template {
	if t, ok := templates[l]; ok {
		return t
	}
	return templates[LayoutOpen]
}
