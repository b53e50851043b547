package spatial

import (
	"cmp"
	"math"
	"slices"
)

// DefaultCellSize matches the default spawn radius.
const DefaultCellSize = 600.0

// Positioned is anything with a point position.
type Positioned interface {
	Pos() (x, y float64)
}

// Index is a uniform grid over item positions.
// Items are bucketed by cell; each bucket keeps insertion order.
type Index[T Positioned] struct {
	cell  float64
	cells map[int64][]T
	n     int
}

// New creates an empty index. Non-positive cell sizes use DefaultCellSize.
func New[T Positioned](cellSize float64) *Index[T] {
	if cellSize <= 0 || math.IsNaN(cellSize) {
		cellSize = DefaultCellSize
	}
	return &Index[T]{cell: cellSize, cells: make(map[int64][]T)}
}

// Build creates an index holding items.
func Build[T Positioned](cellSize float64, items []T) *Index[T] {
	idx := New[T](cellSize)
	for _, it := range items {
		idx.Insert(it)
	}
	return idx
}

// CellSize returns the grid cell edge length.
func (idx *Index[T]) CellSize() float64 {
	return idx.cell
}

// Key packs cell coordinates into one int64: cx in the high word, cy in the low word.
func Key(cx, cy int32) int64 {
	return int64(cx)<<32 | int64(uint32(cy))
}

// Unpack reverses Key.
func Unpack(k int64) (cx, cy int32) {
	return int32(k >> 32), int32(uint32(k))
}

func (idx *Index[T]) coord(v float64) int32 {
	f := math.Floor(v / idx.cell)
	switch {
	case math.IsNaN(f):
		return 0
	case f <= math.MinInt32:
		return math.MinInt32
	case f >= math.MaxInt32:
		return math.MaxInt32
	}
	return int32(f)
}

// CellOf returns the cell coordinates containing (x, y).
func (idx *Index[T]) CellOf(x, y float64) (cx, cy int32) {
	return idx.coord(x), idx.coord(y)
}

// Insert adds an item at its current position.
func (idx *Index[T]) Insert(it T) {
	x, y := it.Pos()
	k := Key(idx.CellOf(x, y))
	idx.cells[k] = append(idx.cells[k], it)
	idx.n++
}

// Query returns every item in cells overlapping the square around (x, y)
// with half-side r. The result is a superset of the items within distance r;
// callers do the exact distance test. Order is by cell row, then column,
// then insertion.
func (idx *Index[T]) Query(x, y, r float64) []T {
	if r < 0 || idx.n == 0 {
		return nil
	}
	minX, maxX := idx.coord(x-r), idx.coord(x+r)
	minY, maxY := idx.coord(y-r), idx.coord(y+r)

	// Walk the occupied cells instead when the box covers more cells than exist.
	span := float64(int64(maxX)-int64(minX)+1) * float64(int64(maxY)-int64(minY)+1)
	if span > float64(len(idx.cells)) {
		return idx.querySparse(minX, maxX, minY, maxY)
	}

	var out []T
	for cy := int64(minY); cy <= int64(maxY); cy++ {
		for cx := int64(minX); cx <= int64(maxX); cx++ {
			out = append(out, idx.cells[Key(int32(cx), int32(cy))]...)
		}
	}
	return out
}

func (idx *Index[T]) querySparse(minX, maxX, minY, maxY int32) []T {
	keys := make([]int64, 0, len(idx.cells))
	for k := range idx.cells {
		cx, cy := Unpack(k)
		if cx >= minX && cx <= maxX && cy >= minY && cy <= maxY {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b int64) int {
		ax, ay := Unpack(a)
		bx, by := Unpack(b)
		if ay != by {
			return cmp.Compare(ay, by)
		}
		return cmp.Compare(ax, bx)
	})

	var out []T
	for _, k := range keys {
		out = append(out, idx.cells[k]...)
	}
	return out
}

// Within is Query followed by the exact distance filter.
func (idx *Index[T]) Within(x, y, r float64) []T {
	cand := idx.Query(x, y, r)
	r2 := r * r
	return slices.DeleteFunc(cand, func(it T) bool {
		ix, iy := it.Pos()
		dx, dy := ix-x, iy-y
		return dx*dx+dy*dy > r2
	})
}

// Len returns the number of inserted items.
func (idx *Index[T]) Len() int {
	return idx.n
}

// Cells returns the number of non-empty cells.
func (idx *Index[T]) Cells() int {
	return len(idx.cells)
}

// Clear removes every item and keeps the cell size.
func (idx *Index[T]) Clear() {
	clear(idx.cells)
	idx.n = 0
}
