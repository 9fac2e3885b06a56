package ai

import (
	"errors"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"snakebot/internal/env"
	"snakebot/internal/grid"
)

// ErrNoLegalMove means every direction is blocked; the game is over.
var ErrNoLegalMove = errors.New("no legal move")

// Rule names the step of the decision ladder that produced a direction.
type Rule int

const (
	RuleNone       Rule = iota
	RuleEat             // shortest path to safe food
	RuleStall           // food reachable but unsafe, longest path around the tail
	RuleFollowTail      // food unreachable, longest path around the tail
	RuleWander          // first legal move
)

func (r Rule) String() string {
	switch r {
	case RuleEat:
		return "eat"
	case RuleStall:
		return "stall"
	case RuleFollowTail:
		return "follow_tail"
	case RuleWander:
		return "wander"
	default:
		return "none"
	}
}

// Decision is the planner output for one tick.
type Decision struct {
	Direction grid.Direction
	Rule      Rule
}

// Planner picks a direction from the current board. It keeps no state
// between calls.
type Planner struct {
	grid   grid.Grid
	sim    *Simulator
	logger log.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger decisions are reported to at debug level.
func WithLogger(l log.Logger) Option {
	return func(p *Planner) { p.logger = l }
}

// WithFoodAttempts sets the spawner cap used inside lookahead.
func WithFoodAttempts(n int) Option {
	return func(p *Planner) { p.sim = NewSimulator(p.grid, n) }
}

// NewPlanner creates a planner for g.
func NewPlanner(g grid.Grid, opts ...Option) *Planner {
	p := &Planner{
		grid:   g,
		sim:    NewSimulator(g, 0),
		logger: log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Simulator exposes the lookahead used by Decide.
func (p *Planner) Simulator() *Simulator { return p.sim }

// Decide walks the decision ladder for b.
func (p *Planner) Decide(b env.Board) (Decision, error) {
	dec, err := p.decide(b)
	if err != nil {
		_ = level.Debug(p.logger).Log("msg", "no legal move", "head", b.Snake.Head(), "length", b.Snake.Len())
		return dec, err
	}
	_ = level.Debug(p.logger).Log("msg", "decision", "move", dec.Direction, "rule", dec.Rule, "head", b.Snake.Head(), "length", b.Snake.Len())
	return dec, nil
}

func (p *Planner) decide(b env.Board) (Decision, error) {
	tail := b.Snake.Tail()

	if b.Food.Exists {
		foodField, reachable := ComputeDistances(p.grid, b.Snake, b.Food.Cell)
		if reachable {
			if p.sim.IsEatingSafe(b) {
				if d, ok := shortest(p.grid, b, foodField); ok {
					return Decision{Direction: d, Rule: RuleEat}, nil
				}
			} else {
				tailField, _ := ComputeDistances(p.grid, b.Snake, tail)
				if d, ok := longest(p.grid, b, tailField); ok {
					return Decision{Direction: d, Rule: RuleStall}, nil
				}
			}
			return p.wander(b)
		}
	}

	tailField, reachesTail := ComputeDistances(p.grid, b.Snake, tail)
	if reachesTail {
		if d, ok := longest(p.grid, b, tailField); ok {
			return Decision{Direction: d, Rule: RuleFollowTail}, nil
		}
	}
	return p.wander(b)
}

func (p *Planner) wander(b env.Board) (Decision, error) {
	for _, d := range grid.Directions {
		if env.IsLegalMove(p.grid, b, d) {
			return Decision{Direction: d, Rule: RuleWander}, nil
		}
	}
	return Decision{}, ErrNoLegalMove
}

// shortest picks the legal move whose destination is closest to the field's
// source. Ties go to the earlier direction in grid.Directions.
func shortest(g grid.Grid, b env.Board, f DistanceField) (grid.Direction, bool) {
	return pick(g, b, f, func(cand, best int) bool { return cand < best })
}

// longest picks the legal move whose destination is farthest from the source.
func longest(g grid.Grid, b env.Board, f DistanceField) (grid.Direction, bool) {
	return pick(g, b, f, func(cand, best int) bool { return cand > best })
}

func pick(g grid.Grid, b env.Board, f DistanceField, better func(cand, best int) bool) (grid.Direction, bool) {
	var (
		best  grid.Direction
		score int
		found bool
	)
	head := b.Snake.Head()
	for _, d := range grid.Directions {
		if !env.IsLegalMove(g, b, d) {
			continue
		}
		dist, ok := f.Distance(g.Step(head, d))
		if !ok {
			continue
		}
		if !found || better(dist, score) {
			best, score, found = d, dist, true
		}
	}
	return best, found
}
