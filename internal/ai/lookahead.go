package ai

import (
	"hash/fnv"
	"math/rand"

	"snakebot/internal/env"
	"snakebot/internal/grid"
)

// Rollout is the result of playing a cloned board forward until it eats.
type Rollout struct {
	Path  []grid.Direction // shortest-path moves taken on the clone
	Final env.Board        // clone after the last move
	Ate   bool             // the clone reached the food
	Safe  bool             // after eating, the head can still reach the tail
}

// Simulator plays "eat the food" sequences on private copies of a board.
type Simulator struct {
	grid         grid.Grid
	foodAttempts int
}

// NewSimulator creates a simulator for g.
func NewSimulator(g grid.Grid, foodAttempts int) *Simulator {
	return &Simulator{grid: g, foodAttempts: foodAttempts}
}

// IsEatingSafe reports whether following shortest paths to the food leaves
// the grown snake able to reach its own tail. b is never modified.
func (s *Simulator) IsEatingSafe(b env.Board) bool {
	return s.Rollout(b).Safe
}

// Rollout clones b and moves the clone along shortest paths to the food,
// recomputing the distance field after every step. It aborts as soon as the
// food becomes unreachable. Food re-spawned inside the clone is drawn from
// a generator seeded by the board itself, never from the live spawner.
func (s *Simulator) Rollout(b env.Board) Rollout {
	work := b.Clone()
	r := Rollout{}
	if !work.Food.Exists {
		return r
	}

	spawner := env.NewSpawner(s.grid, rand.New(rand.NewSource(boardSeed(work))), s.foodAttempts)
	for step := 0; !r.Ate; step++ {
		if step >= s.grid.Size() {
			r.Final = work
			return r
		}
		field, reachable := ComputeDistances(s.grid, work.Snake, work.Food.Cell)
		if !reachable {
			r.Final = work
			return r
		}
		d, ok := shortest(s.grid, work, field)
		if !ok {
			r.Final = work
			return r
		}
		next, ate, err := env.Move(s.grid, work, d, spawner)
		if err != nil {
			r.Final = work
			return r
		}
		r.Path = append(r.Path, d)
		r.Ate = ate
		work = next
	}

	r.Final = work
	_, r.Safe = ComputeDistances(s.grid, work.Snake, work.Snake.Tail())
	return r
}

// boardSeed derives a deterministic seed from the board contents.
func boardSeed(b env.Board) int64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v int) {
		for i := range buf {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}
	for _, c := range b.Snake.Body {
		put(int(c))
	}
	put(int(b.Food.Cell))
	return int64(h.Sum64())
}
