package env

import (
	"errors"
	"fmt"

	"snakebot/internal/grid"
)

var (
	// ErrBlocked means the requested direction cannot be taken right now.
	ErrBlocked = errors.New("move blocked")
	// ErrNoFreeCell means food could not be placed because the snake fills the board.
	ErrNoFreeCell = errors.New("no free cell for food")
	// ErrInvalidBoard marks a malformed snake or food position.
	ErrInvalidBoard = errors.New("invalid board")
)

// BlockedError describes why a move was rejected.
type BlockedError struct {
	Direction grid.Direction
	Wall      bool // false means the head would run into the body
}

func (e *BlockedError) Error() string {
	if e.Wall {
		return fmt.Sprintf("move %s blocked by wall", e.Direction)
	}
	return fmt.Sprintf("move %s blocked by body", e.Direction)
}

func (e *BlockedError) Unwrap() error { return ErrBlocked }

// Snake is an ordered list of cells, head first.
type Snake struct {
	Body []grid.Cell
}

// SeedSnake returns the three-cell starting snake: head at row 2, column 6,
// heading right. On grids too narrow for column 6 the head moves to the
// rightmost playable column.
func SeedSnake(g grid.Grid) Snake {
	_, maxCol := g.InteriorCols()
	col := 6
	if col > maxCol {
		col = maxCol
	}
	head := g.CellAt(2, col)
	return Snake{Body: []grid.Cell{head, head - 1, head - 2}}
}

// Head returns the first body cell.
func (s Snake) Head() grid.Cell { return s.Body[0] }

// Tail returns the last body cell.
func (s Snake) Tail() grid.Cell { return s.Body[len(s.Body)-1] }

// Len is the body length.
func (s Snake) Len() int { return len(s.Body) }

// Contains reports whether c is any body cell.
func (s Snake) Contains(c grid.Cell) bool {
	for _, b := range s.Body {
		if b == c {
			return true
		}
	}
	return false
}

// Clone returns a snake that shares no storage with s.
func (s Snake) Clone() Snake {
	body := make([]grid.Cell, len(s.Body))
	copy(body, s.Body)
	return Snake{Body: body}
}

// Food is the single active food item.
type Food struct {
	Cell   grid.Cell
	Exists bool
}

// Board is the mutable world: one snake and one food. It is the unit of
// cloning for lookahead.
type Board struct {
	Snake Snake
	Food  Food
}

// Clone performs a deep copy of the board.
func (b Board) Clone() Board {
	return Board{Snake: b.Snake.Clone(), Food: b.Food}
}

// Equal reports whether two boards hold the same snake and food.
func (b Board) Equal(o Board) bool {
	if b.Food != o.Food || len(b.Snake.Body) != len(o.Snake.Body) {
		return false
	}
	for i := range b.Snake.Body {
		if b.Snake.Body[i] != o.Snake.Body[i] {
			return false
		}
	}
	return true
}

// Validate rejects boards that cannot occur in play.
func (b Board) Validate(g grid.Grid) error {
	if len(b.Snake.Body) == 0 {
		return fmt.Errorf("%w: empty snake", ErrInvalidBoard)
	}
	seen := make(map[grid.Cell]struct{}, len(b.Snake.Body))
	for i, c := range b.Snake.Body {
		if !g.InPlay(c) {
			return fmt.Errorf("%w: body cell %d outside playable region", ErrInvalidBoard, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: duplicate body cell %d", ErrInvalidBoard, c)
		}
		seen[c] = struct{}{}
		if i > 0 && !g.Adjacent(b.Snake.Body[i-1], c) {
			return fmt.Errorf("%w: body cells %d and %d are not adjacent", ErrInvalidBoard, b.Snake.Body[i-1], c)
		}
	}
	if b.Food.Exists {
		if !g.InPlay(b.Food.Cell) {
			return fmt.Errorf("%w: food cell %d outside playable region", ErrInvalidBoard, b.Food.Cell)
		}
		if _, onBody := seen[b.Food.Cell]; onBody {
			return fmt.Errorf("%w: food on snake at %d", ErrInvalidBoard, b.Food.Cell)
		}
	}
	return nil
}
