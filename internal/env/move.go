package env

import (
	"errors"

	"snakebot/internal/grid"
)

// IsLegalMove reports whether the head may step in direction d. The current
// tail does not count as an obstacle because it moves away on the same tick.
func IsLegalMove(g grid.Grid, b Board, d grid.Direction) bool {
	return blocked(g, b, d) == nil
}

func blocked(g grid.Grid, b Board, d grid.Direction) *BlockedError {
	head := b.Snake.Head()
	if !d.Valid() || g.IsBlockedByWall(head, d) {
		return &BlockedError{Direction: d, Wall: true}
	}
	next := g.Step(head, d)
	body := b.Snake.Body
	for _, c := range body[:len(body)-1] {
		if c == next {
			return &BlockedError{Direction: d}
		}
	}
	return nil
}

// Move applies one step and returns the resulting board; b is not modified.
// The bool reports whether the snake ate. When it eats, sp draws the next
// food; if the snake now fills the board the returned food does not exist.
func Move(g grid.Grid, b Board, d grid.Direction, sp *Spawner) (Board, bool, error) {
	if err := blocked(g, b, d); err != nil {
		return b, false, err
	}

	old := b.Snake.Body
	head := g.Step(old[0], d)
	ate := b.Food.Exists && head == b.Food.Cell

	n := len(old)
	if ate {
		n++
	}
	body := make([]grid.Cell, n)
	body[0] = head
	copy(body[1:], old)

	next := Board{Snake: Snake{Body: body}, Food: b.Food}
	if !ate {
		return next, false, nil
	}

	cell, err := sp.Spawn(next.Snake)
	switch {
	case errors.Is(err, ErrNoFreeCell):
		next.Food = Food{}
	case err != nil:
		return b, false, err
	default:
		next.Food = Food{Cell: cell, Exists: true}
	}
	return next, true, nil
}
