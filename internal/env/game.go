package env

import (
	"errors"
	"fmt"
	"math/rand"

	"snakebot/internal/grid"
)

// Options are the per-game limits.
type Options struct {
	TickCap      int // 0 disables the cap
	StallWindow  int // ticks without food before the game is stopped, 0 disables
	FoodAttempts int // rejection sampling cap for the food spawner
}

// Game is the live world owned by one session.
type Game struct {
	Grid        grid.Grid
	TickCap     int
	StallWindow int

	// State
	Board       Board
	Heading     grid.Direction
	Tick        int
	TicksNoFood int
	FoodEaten   int
	Alive       bool
	DeathReason DeathReason

	spawner *Spawner
}

// NewGame creates a game with the seed snake and a first food drawn from seed.
func NewGame(g grid.Grid, opts Options, seed uint32) (*Game, error) {
	game := &Game{
		Grid:        g,
		TickCap:     opts.TickCap,
		StallWindow: opts.StallWindow,
		spawner:     NewSpawner(g, rand.New(rand.NewSource(int64(seed))), opts.FoodAttempts),
	}
	if err := game.Reset(); err != nil {
		return nil, err
	}
	return game, nil
}

// Reset puts the seed snake back on the board and draws new food.
func (g *Game) Reset() error {
	g.Tick = 0
	g.TicksNoFood = 0
	g.FoodEaten = 0
	g.Alive = true
	g.DeathReason = DeathNone
	g.Heading = grid.Right

	snake := SeedSnake(g.Grid)
	cell, err := g.spawner.Spawn(snake)
	if err != nil {
		return fmt.Errorf("spawn first food: %w", err)
	}
	g.Board = Board{Snake: snake, Food: Food{Cell: cell, Exists: true}}
	return nil
}

// Step advances the game by one tick in direction d. A blocked move ends
// the game and the error is returned to the caller.
func (g *Game) Step(d grid.Direction) error {
	if !g.Alive {
		return nil
	}

	g.Tick++
	g.TicksNoFood++

	next, ate, err := Move(g.Grid, g.Board, d, g.spawner)
	if err != nil {
		var be *BlockedError
		switch {
		case errors.As(err, &be) && be.Wall:
			g.Stop(DeathWall)
		case errors.As(err, &be):
			g.Stop(DeathSelf)
		default:
			g.Stop(DeathNoMove)
		}
		return err
	}

	g.Board = next
	g.Heading = d
	if ate {
		g.FoodEaten++
		g.TicksNoFood = 0
		if !next.Food.Exists {
			g.Stop(DeathBoardFull)
			return nil
		}
	}

	if g.StallWindow > 0 && g.TicksNoFood >= g.StallWindow {
		g.Stop(DeathStall)
		return nil
	}
	if g.TickCap > 0 && g.Tick >= g.TickCap {
		g.Stop(DeathTimeout)
	}
	return nil
}

// Stop ends the game with the given reason.
func (g *Game) Stop(reason DeathReason) {
	g.Alive = false
	g.DeathReason = reason
}

// Head returns the snake's head position
func (g *Game) Head() grid.Cell {
	return g.Board.Snake.Head()
}

// Tail returns the snake's tail position
func (g *Game) Tail() grid.Cell {
	return g.Board.Snake.Tail()
}

// Stats returns the episode statistics
func (g *Game) Stats(seed uint32) EpisodeStats {
	return EpisodeStats{
		Food:   g.FoodEaten,
		Ticks:  g.Tick,
		Length: g.Board.Snake.Len(),
		Death:  g.DeathReason,
		Seed:   seed,
	}
}
