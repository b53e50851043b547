package zonegen

import (
	"math"

	"github.com/udisondev/endlessdepth/internal/config"
	"github.com/udisondev/endlessdepth/internal/rng"
)

var biomeProps = map[string][]string{
	"ash":    {"cinder_heap", "charred_tree", "bone_pile", "ember_vent"},
	"tide":   {"coral", "kelp", "shell", "drowned_column"},
	"wastes": {"rock_shard", "dry_bush", "rubble"},
}

func propsFor(biome string) []string {
	if p, ok := biomeProps[biome]; ok {
		return p
	}
	return biomeProps["wastes"]
}

// decorate scatters visual-only props. Overlap is allowed; only count is capped.
func decorate(s *rng.Stream, act *config.Act, w, h, scale float64) []Decoration {
	n := targetCount(w*h, act.Density.Decoration*scale, MaxDecorations)
	kinds := propsFor(act.Biome)
	out := make([]Decoration, 0, n)
	for range n {
		kind, _ := rng.Pick(s, kinds)
		out = append(out, Decoration{
			X:     s.Range(0, w),
			Y:     s.Range(0, h),
			Kind:  kind,
			Scale: s.Range(0.6, 1.4),
			Layer: s.Int(0, 1),
		})
	}
	return out
}

// parallax describes background layers from far to near.
func parallax(s *rng.Stream, act *config.Act) []ParallaxLayer {
	n := min(max(act.Parallax.Layers, 0), MaxParallax)
	palette := act.Parallax.Palette
	out := make([]ParallaxLayer, 0, n)
	for i := range n {
		color := "#000000"
		if len(palette) > 0 {
			color = palette[i%len(palette)]
		}
		d := float64(i+1) / float64(n+1)
		out = append(out, ParallaxLayer{
			Depth:    math.Round(d*100) / 100,
			Color:    color,
			Elements: s.Int(4, 12),
			Seed:     s.Uint32(),
			Drift:    s.Range(-0.3, 0.3) * d,
		})
	}
	return out
}
