package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snakebot/internal/env"
	"snakebot/internal/grid"
)

func mustGrid(t *testing.T, w, h int) grid.Grid {
	t.Helper()
	g, err := grid.New(w, h)
	require.NoError(t, err)
	return g
}

// body builds a snake from (row, col) pairs, head first.
func body(g grid.Grid, rc ...[2]int) env.Snake {
	out := make([]grid.Cell, len(rc))
	for i, p := range rc {
		out[i] = g.CellAt(p[0], p[1])
	}
	return env.Snake{Body: out}
}

// relaxDistances is a slow fixpoint reference for BFS distances.
func relaxDistances(g grid.Grid, s env.Snake, source grid.Cell) map[grid.Cell]int {
	dist := map[grid.Cell]int{source: 0}
	for changed := true; changed; {
		changed = false
		for c, dc := range dist {
			for _, d := range grid.Directions {
				if g.IsBlockedByWall(c, d) {
					continue
				}
				n := g.Step(c, d)
				if s.Contains(n) {
					continue
				}
				if old, ok := dist[n]; !ok || dc+1 < old {
					dist[n] = dc + 1
					changed = true
				}
			}
		}
	}
	return dist
}

func TestComputeDistancesIsOptimal(t *testing.T) {
	g := mustGrid(t, 12, 9)
	snakes := []env.Snake{
		env.SeedSnake(g),
		body(g, [2]int{3, 3}, [2]int{3, 4}, [2]int{4, 4}, [2]int{5, 4}, [2]int{5, 3}, [2]int{5, 2}, [2]int{4, 2}),
		body(g, [2]int{2, 5}, [2]int{3, 5}, [2]int{4, 5}, [2]int{5, 5}, [2]int{6, 5}, [2]int{7, 5}),
	}
	sources := []grid.Cell{g.CellAt(1, 0), g.CellAt(7, 9), g.CellAt(4, 7)}

	for _, s := range snakes {
		for _, src := range sources {
			if s.Contains(src) {
				continue
			}
			field, _ := ComputeDistances(g, s, src)
			want := relaxDistances(g, s, src)

			for c := grid.Cell(0); int(c) < g.Size(); c++ {
				got, ok := field.Distance(c)
				wd, wok := want[c]
				require.Equal(t, wok, ok, "reachability of cell %d", c)
				if !ok {
					continue
				}
				assert.Equal(t, wd, got, "distance of cell %d", c)
				if c == src {
					continue
				}
				hasParent := false
				for _, d := range grid.Directions {
					p := g.Step(c, d.Opposite())
					if pd, ok := field.Distance(p); ok && pd == got-1 && !g.IsBlockedByWall(p, d) && g.Step(p, d) == c {
						hasParent = true
					}
				}
				assert.True(t, hasParent, "cell %d has no parent", c)
			}
		}
	}
}

func TestComputeDistancesFromTail(t *testing.T) {
	g := mustGrid(t, 20, 10)
	s := env.SeedSnake(g)

	field, reaches := ComputeDistances(g, s, s.Tail())
	assert.True(t, reaches)
	d, ok := field.Distance(s.Tail())
	require.True(t, ok)
	assert.Equal(t, 0, d)
	_, ok = field.Distance(s.Head())
	assert.False(t, ok, "head is never part of the field")
	_, ok = field.Distance(s.Body[1])
	assert.False(t, ok)
	assert.Equal(t, s.Tail(), field.Source())
}

func TestComputeDistancesDetectsEnclosure(t *testing.T) {
	g := mustGrid(t, 7, 5)
	// Corner pocket (1,0),(1,1) sealed by the body.
	s := body(g, [2]int{1, 3}, [2]int{1, 2}, [2]int{2, 2}, [2]int{2, 1}, [2]int{2, 0}, [2]int{3, 0})

	field, reaches := ComputeDistances(g, s, g.CellAt(1, 0))
	assert.False(t, reaches)
	d, ok := field.Distance(g.CellAt(1, 1))
	assert.True(t, ok)
	assert.Equal(t, 1, d)
	_, ok = field.Distance(g.CellAt(3, 4))
	assert.False(t, ok)
}
