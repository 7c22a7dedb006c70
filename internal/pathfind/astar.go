// Package pathfind implements A* search over the match grid, used by the AI
// to compute a recommended next step toward its opponent. Grounded on the
// hex-grid binary-heap A* this codebase used before the switch to square
// cells; the heap shape and open/closed bookkeeping carry over unchanged.
package pathfind

import (
	"container/heap"

	"github.com/gravitas-games/tacticsd/internal/grid"
)

// Blocked reports whether a cell cannot be entered.
type Blocked func(c grid.Cell) bool

type node struct {
	cell     grid.Cell
	g        int
	f        int
	seq      int
	parent   *node
}

type openHeap []*node

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	// LIFO tie-break: the node inserted later (higher seq) wins.
	return h[i].seq > h[j].seq
}
func (h openHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }
func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// AStar finds the shortest path from start to goal over sz, treating any
// cell for which blocked returns true (other than start and goal
// themselves) as impassable. Returns nil if no path exists.
func AStar(start, goal grid.Cell, sz grid.Size, blocked Blocked) []grid.Cell {
	if start == goal {
		return []grid.Cell{start}
	}

	startNode := &node{cell: start, g: 0, f: grid.Manhattan(start, goal), seq: 0}
	open := &openHeap{startNode}
	heap.Init(open)

	best := map[grid.Cell]*node{start: startNode}
	closed := map[grid.Cell]bool{}
	seq := 1

	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		if closed[current.cell] {
			continue
		}
		closed[current.cell] = true

		if current.cell == goal {
			return reconstruct(current)
		}

		for _, next := range grid.Neighbors4(current.cell, sz) {
			if closed[next] {
				continue
			}
			if next != goal && blocked(next) {
				continue
			}
			g := current.g + 1
			if existing, ok := best[next]; ok && existing.g <= g {
				continue
			}
			n := &node{cell: next, g: g, f: g + grid.Manhattan(next, goal), seq: seq, parent: current}
			seq++
			best[next] = n
			heap.Push(open, n)
		}
	}

	return nil
}

func reconstruct(n *node) []grid.Cell {
	var out []grid.Cell
	for cur := n; cur != nil; cur = cur.parent {
		out = append([]grid.Cell{cur.cell}, out...)
	}
	return out
}

// BestPathToNeighbor computes the shortest path from start to each in-bounds
// 4-neighbor of goal (walls and goal itself blocked), and returns the
// shortest one found, in grid.Directions4 order on ties.
func BestPathToNeighbor(start, goal grid.Cell, sz grid.Size, blocked Blocked) []grid.Cell {
	var best []grid.Cell
	for _, n := range grid.Neighbors4(goal, sz) {
		path := AStar(start, n, sz, func(c grid.Cell) bool {
			return c == goal || blocked(c)
		})
		if path == nil {
			continue
		}
		if best == nil || len(path) < len(best) {
			best = path
		}
	}
	return best
}
