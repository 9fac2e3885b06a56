// Package autoplay drives a live game with the planner, one decision per tick.
package autoplay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"snakebot/internal/ai"
	"snakebot/internal/env"
	"snakebot/internal/grid"
)

// ErrGameOver is returned by Tick once the game has ended.
var ErrGameOver = errors.New("game over")

// TickResult describes one applied tick.
type TickResult struct {
	Tick      int
	Direction grid.Direction
	Rule      ai.Rule
	Ate       bool
	Override  *grid.Direction // key pressed during the tick, never applied
	Board     env.Board
}

// Decider chooses the direction for a board. *ai.Planner implements it.
type Decider interface {
	Decide(b env.Board) (ai.Decision, error)
}

// Session owns a live game and the planner that steers it.
type Session struct {
	Game *env.Game
	Seed uint32

	planner  Decider
	replay   *env.Replay
	logger   log.Logger
	interval time.Duration
	finished bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The planner inherits it unless
// WithPlanner is also given.
func WithLogger(l log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithPlanner replaces the default planner.
func WithPlanner(p Decider) Option {
	return func(s *Session) { s.planner = p }
}

// WithReplay records every applied direction into r.
func WithReplay(r *env.Replay) Option {
	return func(s *Session) { s.replay = r }
}

// WithInterval sets the pause between ticks in Run. Zero runs flat out.
func WithInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

// NewSession wraps game. seed is only used for stats and logging.
func NewSession(game *env.Game, seed uint32, opts ...Option) *Session {
	s := &Session{
		Game:   game,
		Seed:   seed,
		logger: log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.planner == nil {
		s.planner = ai.NewPlanner(game.Grid, ai.WithLogger(s.logger))
	}
	return s
}

// Replay returns the recorder passed with WithReplay, if any.
func (s *Session) Replay() *env.Replay { return s.replay }

// Stats returns the statistics of the game so far.
func (s *Session) Stats() env.EpisodeStats { return s.Game.Stats(s.Seed) }

// Tick asks the planner for a direction and applies it to the live game.
// A human override is accepted but the planner always wins; the override is
// only reported back and logged. ai.ErrNoLegalMove ends the game and is
// returned as is.
func (s *Session) Tick(override *grid.Direction) (TickResult, error) {
	if !s.Game.Alive {
		return TickResult{}, ErrGameOver
	}

	dec, err := s.planner.Decide(s.Game.Board)
	if override != nil && (err != nil || *override != dec.Direction) {
		_ = level.Debug(s.logger).Log("msg", "override superseded", "key", *override, "move", dec.Direction, "tick", s.Game.Tick)
	}
	if err != nil {
		s.Game.Stop(env.DeathNoMove)
		s.finish()
		return TickResult{Tick: s.Game.Tick, Override: override, Board: s.Game.Board}, err
	}

	eaten := s.Game.FoodEaten
	if s.replay != nil {
		s.replay.Record(dec.Direction)
	}
	stepErr := s.Game.Step(dec.Direction)
	res := TickResult{
		Tick:      s.Game.Tick,
		Direction: dec.Direction,
		Rule:      dec.Rule,
		Ate:       s.Game.FoodEaten > eaten,
		Override:  override,
		Board:     s.Game.Board,
	}
	if stepErr != nil {
		s.finish()
		return res, fmt.Errorf("tick %d: %w", s.Game.Tick, stepErr)
	}
	if !s.Game.Alive {
		s.finish()
	}
	return res, nil
}

// Run ticks until the game ends, ctx is cancelled or onTick fails. Running
// out of legal moves is a normal end of game and is not reported as an
// error. overrides may be nil.
func (s *Session) Run(ctx context.Context, overrides <-chan grid.Direction, onTick func(TickResult) error) error {
	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var pending *grid.Direction
	for s.Game.Alive {
		if err := ctx.Err(); err != nil {
			return err
		}
		if tick != nil {
		wait:
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case d := <-overrides:
					pending = &d
				case <-tick:
					break wait
				}
			}
		}

		res, err := s.Tick(pending)
		pending = nil
		if errors.Is(err, ai.ErrNoLegalMove) {
			if onTick != nil {
				return onTick(res)
			}
			return nil
		}
		if err != nil {
			return err
		}
		if onTick != nil {
			if err := onTick(res); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) finish() {
	if s.finished {
		return
	}
	s.finished = true
	stats := s.Stats()
	if s.replay != nil {
		s.replay.SetFinalStats(stats)
	}
	_ = level.Info(s.logger).Log("msg", "game over", "seed", s.Seed, "death", stats.Death, "food", stats.Food, "ticks", stats.Ticks, "length", stats.Length)
}
