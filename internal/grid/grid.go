// Package grid implements the square-grid coordinate geometry the world
// generator, action resolvers and pathfinder all share: bounds checks,
// Manhattan distance, line predicates, and ring enumeration. Ported from
// the axial-hex primitives this codebase used to lean on, onto plain
// Cartesian cells.
package grid

// Cell is an integer grid coordinate, origin top-left.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a grid's width and height in cells.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Add returns a+b.
func (c Cell) Add(d Cell) Cell { return Cell{c.X + d.X, c.Y + d.Y} }

// InBounds reports whether c lies within a size×size grid.
func (c Cell) InBounds(sz Size) bool {
	return c.X >= 0 && c.X < sz.W && c.Y >= 0 && c.Y < sz.H
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Manhattan returns |ax-bx| + |ay-by|.
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Straight reports whether a and b share a row or column.
func Straight(a, b Cell) bool {
	return a.X == b.X || a.Y == b.Y
}

// Diagonal reports whether a and b lie on a 45-degree diagonal.
func Diagonal(a, b Cell) bool {
	return abs(a.X-b.X) == abs(a.Y-b.Y)
}

// WallBlocksStraight reports whether any cell in walls sits strictly
// between a and b on their shared row or column. a and b must satisfy
// Straight(a, b); the check is a no-op (returns false) otherwise.
func WallBlocksStraight(a, b Cell, walls []Cell) bool {
	if a.X == b.X {
		lo, hi := minMax(a.Y, b.Y)
		for _, w := range walls {
			if w.X == a.X && w.Y > lo && w.Y < hi {
				return true
			}
		}
		return false
	}
	if a.Y == b.Y {
		lo, hi := minMax(a.X, b.X)
		for _, w := range walls {
			if w.Y == a.Y && w.X > lo && w.X < hi {
				return true
			}
		}
		return false
	}
	return false
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

// North, East, South, West are the fixed 4-neighbor iteration order used
// everywhere a deterministic neighbor sequence matters (candidate
// enumeration, A* goal-neighbor search).
var (
	North = Cell{0, -1}
	East  = Cell{1, 0}
	South = Cell{0, 1}
	West  = Cell{-1, 0}
)

// Directions4 lists the four cardinal offsets in a fixed, deterministic order.
var Directions4 = []Cell{North, East, South, West}

// Neighbors4 returns the in-bounds 4-connected neighbors of c, in the fixed
// Directions4 order.
func Neighbors4(c Cell, sz Size) []Cell {
	out := make([]Cell, 0, 4)
	for _, d := range Directions4 {
		n := c.Add(d)
		if n.InBounds(sz) {
			out = append(out, n)
		}
	}
	return out
}

// RingCells returns all cells at exact Manhattan distance dist from center,
// without bounds filtering. dist==0 returns [center].
func RingCells(center Cell, dist int) []Cell {
	if dist <= 0 {
		return []Cell{center}
	}
	out := make([]Cell, 0, 4*dist)
	for dx := -dist; dx <= dist; dx++ {
		dy := dist - abs(dx)
		out = append(out, Cell{center.X + dx, center.Y + dy})
		if dy != 0 {
			out = append(out, Cell{center.X + dx, center.Y - dy})
		}
	}
	return out
}

// InBoundsOnly filters cells to those within sz.
func InBoundsOnly(cells []Cell, sz Size) []Cell {
	out := make([]Cell, 0, len(cells))
	for _, c := range cells {
		if c.InBounds(sz) {
			out = append(out, c)
		}
	}
	return out
}

// AllCells enumerates every cell of a size×size grid, row-major.
func AllCells(sz Size) []Cell {
	out := make([]Cell, 0, sz.W*sz.H)
	for y := 0; y < sz.H; y++ {
		for x := 0; x < sz.W; x++ {
			out = append(out, Cell{x, y})
		}
	}
	return out
}

// MinSeparated reports whether c is at least minSep Manhattan distance from
// every cell already in placed.
func MinSeparated(c Cell, placed []Cell, minSep int) bool {
	for _, p := range placed {
		if Manhattan(c, p) < minSep {
			return false
		}
	}
	return true
}

// Centrality is min(x, w-1-x) + min(y, h-1-y) — higher for cells nearer the
// grid's center.
func Centrality(c Cell, sz Size) int {
	dx := c.X
	if sz.W-1-c.X < dx {
		dx = sz.W - 1 - c.X
	}
	dy := c.Y
	if sz.H-1-c.Y < dy {
		dy = sz.H - 1 - c.Y
	}
	return dx + dy
}
