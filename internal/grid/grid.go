// Package grid describes the board geometry: linear cell indices, the four
// movement directions and the wall rules. It holds no game state.
package grid

import (
	"errors"
	"fmt"
	"strings"
)

// MinSize is the smallest accepted outer width and height.
const MinSize = 5

// ErrGridTooSmall is returned by New for dimensions below MinSize.
var ErrGridTooSmall = errors.New("grid too small")

// Cell is a linear index row*Width + col over the outer grid.
type Cell int

// Direction is one of the four compass moves
type Direction int

const (
	Down Direction = iota
	Up
	Right
	Left
)

// Directions lists every direction in tie-break order.
var Directions = [4]Direction{Down, Up, Right, Left}

func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return "none"
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Down && d <= Left
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {
	switch d {
	case Down:
		return Up
	case Up:
		return Down
	case Right:
		return Left
	default:
		return Right
	}
}

// ParseDirection accepts "down", "up", "right" or "left" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "down":
		return Down, nil
	case "up":
		return Up, nil
	case "right":
		return Right, nil
	case "left":
		return Left, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Grid is the outer board size including the border.
type Grid struct {
	Width  int
	Height int
}

// New validates the outer dimensions.
func New(width, height int) (Grid, error) {
	if width < MinSize || height < MinSize {
		return Grid{}, fmt.Errorf("%w: %dx%d (minimum %dx%d)", ErrGridTooSmall, width, height, MinSize, MinSize)
	}
	return Grid{Width: width, Height: height}, nil
}

// Size is the number of cells in the outer grid.
func (g Grid) Size() int {
	return g.Width * g.Height
}

// CellAt returns the index of (row, col).
func (g Grid) CellAt(row, col int) Cell {
	return Cell(row*g.Width + col)
}

// RowCol splits a cell index.
func (g Grid) RowCol(c Cell) (row, col int) {
	return int(c) / g.Width, int(c) % g.Width
}

// Delta is the index offset of one step in d.
func (g Grid) Delta(d Direction) int {
	switch d {
	case Down:
		return g.Width
	case Up:
		return -g.Width
	case Right:
		return 1
	case Left:
		return -1
	}
	return 0
}

// Step returns the neighbour of c in direction d. It does not check walls.
func (g Grid) Step(c Cell, d Direction) Cell {
	return c + Cell(g.Delta(d))
}

// IsBlockedByWall reports whether leaving c in direction d hits a wall.
//
// The rule is asymmetric on purpose: the left wall is column 0, the right
// wall starts three columns before the outer edge, the top wall covers the
// first two rows and the bottom wall starts two rows before the outer edge.
// Cells are drawn one column to the right, which makes the rendered border
// symmetric.
func (g Grid) IsBlockedByWall(c Cell, d Direction) bool {
	row, col := g.RowCol(c)
	switch d {
	case Left:
		return col <= 0
	case Right:
		return col >= g.Width-3
	case Up:
		return row <= 1
	case Down:
		return row >= g.Height-2
	}
	return true
}

// InteriorRows is the inclusive row range a snake can occupy.
func (g Grid) InteriorRows() (lo, hi int) {
	return 1, g.Height - 2
}

// InteriorCols is the inclusive column range a snake can occupy.
func (g Grid) InteriorCols() (lo, hi int) {
	return 0, g.Width - 3
}

// InPlay reports whether c lies inside the playable region.
func (g Grid) InPlay(c Cell) bool {
	if c < 0 || int(c) >= g.Size() {
		return false
	}
	row, col := g.RowCol(c)
	rlo, rhi := g.InteriorRows()
	clo, chi := g.InteriorCols()
	return row >= rlo && row <= rhi && col >= clo && col <= chi
}

// PlayableCells is the number of cells inside the playable region.
func (g Grid) PlayableCells() int {
	rlo, rhi := g.InteriorRows()
	clo, chi := g.InteriorCols()
	return (rhi - rlo + 1) * (chi - clo + 1)
}

// Adjacent reports whether b is one legal step away from a.
func (g Grid) Adjacent(a, b Cell) bool {
	for _, d := range Directions {
		if !g.IsBlockedByWall(a, d) && g.Step(a, d) == b {
			return true
		}
	}
	return false
}
