package autoplay

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snakebot/internal/ai"
	"snakebot/internal/env"
	"snakebot/internal/grid"
)

func newSession(t *testing.T, w, h int, opts env.Options, seed uint32, sopts ...Option) *Session {
	t.Helper()
	g, err := grid.New(w, h)
	require.NoError(t, err)
	game, err := env.NewGame(g, opts, seed)
	require.NoError(t, err)
	return NewSession(game, seed, sopts...)
}

func TestTickAppliesPlannerDecision(t *testing.T) {
	s := newSession(t, 20, 10, env.Options{}, 5)
	want, err := ai.NewPlanner(s.Game.Grid).Decide(s.Game.Board)
	require.NoError(t, err)

	res, err := s.Tick(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Tick)
	assert.Equal(t, want.Direction, res.Direction)
	assert.Equal(t, want.Rule, res.Rule)
	assert.Equal(t, s.Game.Board.Snake.Head(), res.Board.Snake.Head())
}

func TestOverrideIsSuperseded(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogfmtLogger(&buf)
	s := newSession(t, 20, 10, env.Options{}, 5, WithLogger(logger))
	planned, err := ai.NewPlanner(s.Game.Grid).Decide(s.Game.Board)
	require.NoError(t, err)

	key := planned.Direction.Opposite()
	res, err := s.Tick(&key)
	require.NoError(t, err)
	assert.Equal(t, planned.Direction, res.Direction)
	require.NotNil(t, res.Override)
	assert.Equal(t, key, *res.Override)
	assert.Contains(t, buf.String(), "override superseded")
}

func TestReplayReproducesBoard(t *testing.T) {
	rc := env.ReplayConfig{Width: 20, Height: 10, TickCap: 400}
	replay := env.NewReplay(99, rc)
	s := newSession(t, 20, 10, env.Options{TickCap: rc.TickCap}, 99, WithReplay(replay))

	require.NoError(t, s.Run(context.Background(), nil, nil))
	require.False(t, s.Game.Alive)
	assert.Equal(t, s.Stats(), replay.FinalStats)

	path := filepath.Join(t.TempDir(), "replay.json")
	require.NoError(t, replay.Save(path))
	loaded, err := env.LoadReplay(path)
	require.NoError(t, err)

	game, err := loaded.Playback()
	require.NoError(t, err)
	require.NoError(t, loaded.PlaybackStep(game, len(loaded.Directions)))
	assert.True(t, s.Game.Board.Equal(game.Board))
	assert.Equal(t, s.Game.Board.Food, game.Board.Food)
	assert.Equal(t, s.Game.FoodEaten, game.FoodEaten)
}

func TestNoLegalMoveEndsGame(t *testing.T) {
	g, err := grid.New(7, 5)
	require.NoError(t, err)
	game, err := env.NewGame(g, env.Options{}, 1)
	require.NoError(t, err)

	cells := [][2]int{{1, 4}, {1, 3}, {1, 2}, {1, 1}, {1, 0}, {2, 0}, {2, 1}, {2, 2}, {2, 3}, {2, 4}, {3, 4}, {3, 3}, {3, 2}}
	body := make([]grid.Cell, len(cells))
	for i, rc := range cells {
		body[i] = g.CellAt(rc[0], rc[1])
	}
	game.Board = env.Board{Snake: env.Snake{Body: body}, Food: env.Food{Cell: g.CellAt(3, 0), Exists: true}}

	s := NewSession(game, 1)
	_, err = s.Tick(nil)
	assert.True(t, errors.Is(err, ai.ErrNoLegalMove))
	assert.False(t, game.Alive)
	assert.Equal(t, env.DeathNoMove, game.DeathReason)

	_, err = s.Tick(nil)
	assert.True(t, errors.Is(err, ErrGameOver))
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newSession(t, 20, 10, env.Options{}, 3, WithInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	ticks := 0
	err := s.Run(ctx, nil, func(res TickResult) error {
		ticks++
		if ticks == 5 {
			cancel()
		}
		return nil
	})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 5, ticks)
	assert.True(t, s.Game.Alive)
}

func TestRunForwardsOverrides(t *testing.T) {
	s := newSession(t, 20, 10, env.Options{TickCap: 50}, 3, WithInterval(time.Millisecond))
	overrides := make(chan grid.Direction, 1)
	overrides <- grid.Left

	var seen []grid.Direction
	require.NoError(t, s.Run(context.Background(), overrides, func(res TickResult) error {
		if res.Override != nil {
			seen = append(seen, *res.Override)
		}
		return nil
	}))
	assert.Equal(t, []grid.Direction{grid.Left}, seen)
	assert.Equal(t, env.DeathTimeout, s.Game.DeathReason)
}

// fixedDecider always answers with the same decision.
type fixedDecider ai.Decision

func (f fixedDecider) Decide(env.Board) (ai.Decision, error) { return ai.Decision(f), nil }

func TestBlockedStepKeepsTickResult(t *testing.T) {
	s := newSession(t, 20, 10, env.Options{}, 5,
		WithPlanner(fixedDecider{Direction: grid.Left, Rule: ai.RuleWander}))
	before := s.Game.Board.Clone()

	res, err := s.Tick(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, env.ErrBlocked))

	assert.Equal(t, 1, res.Tick)
	assert.Equal(t, grid.Left, res.Direction)
	assert.Equal(t, ai.RuleWander, res.Rule)
	assert.True(t, before.Equal(res.Board))
	assert.False(t, s.Game.Alive)
	assert.Equal(t, env.DeathSelf, s.Game.DeathReason)
}
