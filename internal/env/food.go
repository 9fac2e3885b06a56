package env

import (
	"math/rand"

	"snakebot/internal/grid"
)

// DefaultFoodAttempts caps rejection sampling before falling back to a scan.
const DefaultFoodAttempts = 4096

// Spawner draws food positions that avoid the snake.
type Spawner struct {
	grid        grid.Grid
	rng         *rand.Rand
	maxAttempts int
}

// NewSpawner creates a spawner. maxAttempts <= 0 selects DefaultFoodAttempts.
func NewSpawner(g grid.Grid, rng *rand.Rand, maxAttempts int) *Spawner {
	if maxAttempts <= 0 {
		maxAttempts = DefaultFoodAttempts
	}
	return &Spawner{grid: g, rng: rng, maxAttempts: maxAttempts}
}

// Spawn returns a uniformly random playable cell not on the snake.
// Rejection sampling is bounded; once the cap is hit the free cells are
// enumerated instead, so a nearly full board still terminates.
func (sp *Spawner) Spawn(s Snake) (grid.Cell, error) {
	occupied := make(map[grid.Cell]bool, len(s.Body))
	for _, c := range s.Body {
		occupied[c] = true
	}

	rlo, rhi := sp.grid.InteriorRows()
	clo, chi := sp.grid.InteriorCols()
	for i := 0; i < sp.maxAttempts; i++ {
		row := rlo + sp.rng.Intn(rhi-rlo+1)
		col := clo + sp.rng.Intn(chi-clo+1)
		c := sp.grid.CellAt(row, col)
		if !occupied[c] {
			return c, nil
		}
	}

	free := make([]grid.Cell, 0, max(0, sp.grid.PlayableCells()-len(s.Body)))
	for row := rlo; row <= rhi; row++ {
		for col := clo; col <= chi; col++ {
			c := sp.grid.CellAt(row, col)
			if !occupied[c] {
				free = append(free, c)
			}
		}
	}
	if len(free) == 0 {
		return 0, ErrNoFreeCell
	}
	return free[sp.rng.Intn(len(free))], nil
}
