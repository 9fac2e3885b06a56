package eval

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"snakebot/internal/ai"
	"snakebot/internal/autoplay"
	"snakebot/internal/config"
	"snakebot/internal/env"
	"snakebot/internal/grid"
	"snakebot/internal/logging"
)

// EpisodeResult is everything produced by one autoplay episode.
type EpisodeResult struct {
	ID     string
	Stats  env.EpisodeStats
	Turns  []logging.TurnRow
	Replay *env.Replay
}

// Evaluator plays seeded autoplay episodes, several at a time.
type Evaluator struct {
	cfg     *config.Config
	grid    grid.Grid
	opts    env.Options
	logger  log.Logger
	workers int
}

// NewEvaluator creates a new evaluator. Batch episodes always terminate:
// when the config sets neither a tick cap nor a stall window, a stall
// window proportional to the board is used.
func NewEvaluator(cfg *config.Config, logger log.Logger) (*Evaluator, error) {
	g, err := cfg.NewGrid()
	if err != nil {
		return nil, err
	}

	workers := cfg.Eval.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	opts := cfg.GameOptions()
	if opts.TickCap == 0 && opts.StallWindow == 0 {
		opts.StallWindow = 4 * g.PlayableCells()
	}

	return &Evaluator{
		cfg:     cfg,
		grid:    g,
		opts:    opts,
		logger:  logger,
		workers: workers,
	}, nil
}

// RunEpisode plays one episode with the planner in control and records every
// tick.
func (e *Evaluator) RunEpisode(seed uint32) (EpisodeResult, error) {
	game, err := env.NewGame(e.grid, e.opts, seed)
	if err != nil {
		return EpisodeResult{}, fmt.Errorf("seed %d: %w", seed, err)
	}

	id := uuid.New().String()
	rc := e.cfg.ReplayConfig()
	rc.TickCap, rc.StallWindow = e.opts.TickCap, e.opts.StallWindow
	replay := env.NewReplay(seed, rc)

	logger := log.With(e.logger, "episode", id)
	planner := ai.NewPlanner(e.grid, ai.WithLogger(logger), ai.WithFoodAttempts(e.opts.FoodAttempts))
	session := autoplay.NewSession(game, seed,
		autoplay.WithPlanner(planner),
		autoplay.WithReplay(replay),
		autoplay.WithLogger(logger),
	)

	res := EpisodeResult{ID: id, Replay: replay}
	for game.Alive {
		tr, err := session.Tick(nil)
		if errors.Is(err, ai.ErrNoLegalMove) {
			break
		}
		if err != nil {
			return EpisodeResult{}, fmt.Errorf("seed %d: %w", seed, err)
		}
		res.Turns = append(res.Turns, e.turnRow(id, seed, tr))
	}

	res.Stats = session.Stats()
	return res, nil
}

func (e *Evaluator) turnRow(id string, seed uint32, tr autoplay.TickResult) logging.TurnRow {
	body := make([]int32, len(tr.Board.Snake.Body))
	for i, c := range tr.Board.Snake.Body {
		body[i] = int32(c)
	}
	food := int32(-1)
	if tr.Board.Food.Exists {
		food = int32(tr.Board.Food.Cell)
	}
	return logging.TurnRow{
		EpisodeID: id,
		Seed:      int64(seed),
		Tick:      int32(tr.Tick),
		Width:     int32(e.grid.Width),
		Height:    int32(e.grid.Height),
		Move:      tr.Direction.String(),
		Rule:      tr.Rule.String(),
		Ate:       tr.Ate,
		Body:      body,
		Food:      food,
	}
}

// RunSeeds plays one episode per seed on a bounded worker pool. Results
// keep the order of seeds.
func (e *Evaluator) RunSeeds(seeds []uint32) ([]EpisodeResult, error) {
	results := make([]EpisodeResult, len(seeds))
	errs := make([]error, len(seeds))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.workers)

	for i, seed := range seeds {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, seed uint32) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = e.RunEpisode(seed)
			if errs[i] == nil {
				st := results[i].Stats
				_ = level.Debug(e.logger).Log("msg", "episode done", "seed", seed, "food", st.Food, "ticks", st.Ticks, "death", st.Death)
			}
		}(i, seed)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// Seeds returns n consecutive seeds starting at base.
func Seeds(base, n int) []uint32 {
	seeds := make([]uint32, n)
	for i := range seeds {
		seeds[i] = uint32(base + i)
	}
	return seeds
}

// Aggregate summarises a batch.
func Aggregate(results []EpisodeResult) env.AggregatedStats {
	episodes := make([]env.EpisodeStats, len(results))
	for i, r := range results {
		episodes[i] = r.Stats
	}
	return env.Aggregate(episodes)
}
