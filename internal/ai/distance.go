// Package ai chooses the snake's direction each tick. It computes BFS
// distance fields over the free cells, simulates eating the food on a cloned
// board to check the snake can still reach its tail afterwards, and walks a
// fixed decision ladder: eat, stall towards the tail, follow the tail, wander.
package ai

import (
	"snakebot/internal/env"
	"snakebot/internal/grid"
)

const unreached = -1

// DistanceField maps cells to their BFS distance from a single source.
type DistanceField struct {
	source grid.Cell
	dist   []int32
}

// Distance returns the distance of c from the source, false if c was not reached.
func (f DistanceField) Distance(c grid.Cell) (int, bool) {
	if c < 0 || int(c) >= len(f.dist) || f.dist[c] == unreached {
		return 0, false
	}
	return int(f.dist[c]), true
}

// Source is the cell the search started from.
func (f DistanceField) Source() grid.Cell { return f.source }

// ComputeDistances runs a breadth-first search from source over cells not
// occupied by the snake. The source itself may be a body cell (the tail).
// The bool reports whether the snake head was seen as a neighbour of an
// expanded cell; the head is never part of the field.
func ComputeDistances(g grid.Grid, s env.Snake, source grid.Cell) (DistanceField, bool) {
	dist := make([]int32, g.Size())
	for i := range dist {
		dist[i] = unreached
	}
	occupied := make([]bool, g.Size())
	for _, c := range s.Body {
		occupied[c] = true
	}
	head := s.Head()

	dist[source] = 0
	queue := make([]grid.Cell, 0, g.PlayableCells())
	queue = append(queue, source)
	reachesHead := false

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range grid.Directions {
			if g.IsBlockedByWall(c, d) {
				continue
			}
			next := g.Step(c, d)
			if next == head {
				reachesHead = true
			}
			if occupied[next] || dist[next] != unreached {
				continue
			}
			dist[next] = dist[c] + 1
			queue = append(queue, next)
		}
	}
	return DistanceField{source: source, dist: dist}, reachesHead
}
