package server

import (
	"fmt"

	"snakebot/internal/env"
	"snakebot/internal/grid"
)

// MaxGridSide bounds the width and height accepted by /move. Each decision
// runs several full-grid searches, so the request size must stay small.
const MaxGridSide = 256

// Point is a cell on the wire.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveRequest asks for one decision on an arbitrary board.
type MoveRequest struct {
	Width    int     `json:"width" binding:"required"`
	Height   int     `json:"height" binding:"required"`
	Snake    []Point `json:"snake" binding:"required"`
	Food     *Point  `json:"food"`
	Override string  `json:"override"`
}

// MoveResponse carries the planner decision.
type MoveResponse struct {
	Move string `json:"move"`
	Rule string `json:"rule"`
}

// Frame is one streamed tick of a watched game.
type Frame struct {
	ID    string  `json:"id"`
	Tick  int     `json:"tick"`
	Move  string  `json:"move,omitempty"`
	Rule  string  `json:"rule,omitempty"`
	Snake []Point `json:"snake"`
	Food  *Point  `json:"food"`
	Alive bool    `json:"alive"`
	Death string  `json:"death,omitempty"`
}

func toPoint(g grid.Grid, c grid.Cell) Point {
	row, col := g.RowCol(c)
	return Point{Row: row, Col: col}
}

func toCell(g grid.Grid, p Point) (grid.Cell, error) {
	if p.Row < 0 || p.Row >= g.Height || p.Col < 0 || p.Col >= g.Width {
		return 0, fmt.Errorf("%w: (%d,%d) outside %dx%d grid", env.ErrInvalidBoard, p.Row, p.Col, g.Width, g.Height)
	}
	return g.CellAt(p.Row, p.Col), nil
}

// Board converts the request into a validated grid and board.
func (r MoveRequest) Board() (grid.Grid, env.Board, error) {
	if r.Width > MaxGridSide || r.Height > MaxGridSide {
		return grid.Grid{}, env.Board{}, fmt.Errorf("grid %dx%d exceeds %d cells per side", r.Width, r.Height, MaxGridSide)
	}
	g, err := grid.New(r.Width, r.Height)
	if err != nil {
		return grid.Grid{}, env.Board{}, err
	}

	body := make([]grid.Cell, len(r.Snake))
	for i, p := range r.Snake {
		if body[i], err = toCell(g, p); err != nil {
			return grid.Grid{}, env.Board{}, err
		}
	}
	b := env.Board{Snake: env.Snake{Body: body}}
	if r.Food != nil {
		c, err := toCell(g, *r.Food)
		if err != nil {
			return grid.Grid{}, env.Board{}, err
		}
		b.Food = env.Food{Cell: c, Exists: true}
	}

	if err := b.Validate(g); err != nil {
		return grid.Grid{}, env.Board{}, err
	}
	return g, b, nil
}

func boardPoints(g grid.Grid, b env.Board) ([]Point, *Point) {
	snake := make([]Point, len(b.Snake.Body))
	for i, c := range b.Snake.Body {
		snake[i] = toPoint(g, c)
	}
	if !b.Food.Exists {
		return snake, nil
	}
	food := toPoint(g, b.Food.Cell)
	return snake, &food
}
