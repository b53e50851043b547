package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/endlessdepth/internal/rng"
)

type point struct {
	id   int
	x, y float64
}

func (p point) Pos() (float64, float64) { return p.x, p.y }

func randomPoints(seed uint32, n int, span float64) []point {
	s := rng.New(seed)
	pts := make([]point, n)
	for i := range pts {
		pts[i] = point{id: i, x: s.Range(-span, span), y: s.Range(-span, span)}
	}
	return pts
}

func TestKey_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		cx, cy int32
	}{
		{"origin", 0, 0},
		{"positive", 3, 7},
		{"negative x", -1, 5},
		{"negative y", 5, -1},
		{"both negative", -12, -40},
		{"extremes", math.MaxInt32, math.MinInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx, cy := Unpack(Key(tt.cx, tt.cy))
			assert.Equal(t, tt.cx, cx)
			assert.Equal(t, tt.cy, cy)
		})
	}
	assert.NotEqual(t, Key(1, -1), Key(-1, 1))
}

func TestCellOf_FloorsNegatives(t *testing.T) {
	idx := New[point](100)
	cx, cy := idx.CellOf(-0.5, 99.9)
	assert.Equal(t, int32(-1), cx)
	assert.Equal(t, int32(0), cy)

	cx, cy = idx.CellOf(100, -100)
	assert.Equal(t, int32(1), cx)
	assert.Equal(t, int32(-1), cy)
}

func TestQuery_Superset(t *testing.T) {
	pts := randomPoints(11, 500, 3000)
	for _, cell := range []float64{50, 300, 600, 2000} {
		idx := Build(cell, pts)
		require.Equal(t, len(pts), idx.Len())

		probe := rng.New(99)
		for range 50 {
			x, y := probe.Range(-3000, 3000), probe.Range(-3000, 3000)
			r := probe.Range(0, 900)

			got := map[int]bool{}
			for _, p := range idx.Query(x, y, r) {
				got[p.id] = true
			}
			for _, p := range pts {
				if math.Hypot(p.x-x, p.y-y) <= r {
					assert.True(t, got[p.id], "cell %v: point %d within %v missing", cell, p.id, r)
				}
			}
		}
	}
}

func TestWithin_ExactFilter(t *testing.T) {
	pts := randomPoints(5, 300, 1000)
	idx := Build(200, pts)

	var want []int
	for _, p := range pts {
		if math.Hypot(p.x-100, p.y+50) <= 250 {
			want = append(want, p.id)
		}
	}
	var got []int
	for _, p := range idx.Within(100, -50, 250) {
		got = append(got, p.id)
	}
	assert.ElementsMatch(t, want, got)
}

func TestQuery_DeterministicOrder(t *testing.T) {
	pts := randomPoints(8, 200, 1500)
	a := Build(300, pts).Query(0, 0, 800)
	b := Build(300, pts).Query(0, 0, 800)
	assert.Equal(t, a, b)
}

func TestQuery_HugeRadiusWalksOccupiedCells(t *testing.T) {
	pts := randomPoints(21, 300, 2000)
	idx := Build(100, pts)

	got := idx.Query(0, 0, 1e12)
	require.Len(t, got, len(pts))
	ids := make([]int, 0, len(got))
	for i, p := range got {
		ids = append(ids, p.id)
		if i == 0 {
			continue
		}
		pcx, pcy := idx.CellOf(got[i-1].x, got[i-1].y)
		cx, cy := idx.CellOf(p.x, p.y)
		assert.True(t, pcy < cy || (pcy == cy && pcx <= cx), "row-major order broken at %d", i)
	}
	want := make([]int, 0, len(pts))
	for _, p := range pts {
		want = append(want, p.id)
	}
	assert.ElementsMatch(t, want, ids)
	assert.Equal(t, got, idx.Query(0, 0, 1e12))
}

func TestQuery_ClampsFarCoordinates(t *testing.T) {
	idx := New[point](10)
	idx.Insert(point{id: 1, x: 1e15, y: -1e15})
	idx.Insert(point{id: 2, x: 5, y: 5})

	cx, cy := idx.CellOf(1e15, -1e15)
	assert.Equal(t, int32(math.MaxInt32), cx)
	assert.Equal(t, int32(math.MinInt32), cy)

	far := idx.Query(1e15, -1e15, 1)
	require.Len(t, far, 1)
	assert.Equal(t, 1, far[0].id)
	assert.Len(t, idx.Query(0, 0, math.Inf(1)), 2)
	assert.Empty(t, idx.Query(-1e15, 1e15, 1))
}

func TestIndex_EmptyAndClear(t *testing.T) {
	idx := New[point](0)
	assert.Equal(t, DefaultCellSize, idx.CellSize())
	assert.Empty(t, idx.Query(0, 0, 1000))

	idx.Insert(point{id: 1, x: 10, y: 10})
	assert.Len(t, idx.Query(0, 0, 50), 1)
	assert.Empty(t, idx.Query(0, 0, -1))

	idx.Clear()
	assert.Zero(t, idx.Len())
	assert.Zero(t, idx.Cells())
	assert.Empty(t, idx.Query(10, 10, 10))
}
