package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"snakebot/internal/ai"
	"snakebot/internal/autoplay"
	"snakebot/internal/config"
	"snakebot/internal/env"
	"snakebot/internal/grid"
	"snakebot/internal/logging"
	"snakebot/internal/tui"
)

func main() {
	configPath := flag.String("config", "configs/autoplay.yaml", "path to config file, empty for built-in defaults")
	seed := flag.Uint("seed", 0, "random seed for the game (0 uses the config seed)")
	tickMS := flag.Int("tick-ms", 0, "delay between ticks in milliseconds (0 uses the config)")
	replayPath := flag.String("replay", "", "play back a recorded replay instead of the planner")
	savePath := flag.String("save-replay", "", "write the played game to this replay file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *tickMS > 0 {
		cfg.Game.TickMS = *tickMS
	}
	gameSeed := cfg.GameSeed()
	if uint64(*seed) > math.MaxUint32 {
		fmt.Fprintf(os.Stderr, "Error: -seed must not exceed %d\n", uint32(math.MaxUint32))
		os.Exit(1)
	}
	if *seed != 0 {
		gameSeed = uint32(*seed)
	}

	logger, logFile, err := logging.NewFile(cfg.Logging.LogPath, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}

	var stats env.EpisodeStats
	if *replayPath != "" {
		stats, err = playReplay(screen, cfg, *replayPath)
	} else {
		stats, err = playAuto(screen, cfg, gameSeed, logger, logFile, *savePath)
	}
	screen.Fini()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("═══════════════════════════════════")
	fmt.Printf("  Game Over! Death: %s\n", stats.Death)
	fmt.Printf("  Ticks: %d, Food: %d, Length: %d\n", stats.Ticks, stats.Food, stats.Length)
	fmt.Println("═══════════════════════════════════")
}

// keys forwards key presses from the screen. quit is closed on Esc or Ctrl-C.
func keys(screen tcell.Screen) (<-chan grid.Direction, <-chan struct{}) {
	dirs := make(chan grid.Direction, 1)
	quit := make(chan struct{})
	go func() {
		defer close(quit)
		for {
			ev := screen.PollEvent()
			switch ev := ev.(type) {
			case nil:
				return
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if tui.IsQuit(ev.Key()) {
					return
				}
				if d, ok := tui.KeyDirection(ev.Key()); ok {
					select {
					case dirs <- d:
					default:
					}
				}
			}
		}
	}()
	return dirs, quit
}

func playAuto(screen tcell.Screen, cfg *config.Config, seed uint32, logger log.Logger, dump io.Writer, savePath string) (env.EpisodeStats, error) {
	g, err := cfg.NewGrid()
	if err != nil {
		return env.EpisodeStats{}, err
	}
	game, err := env.NewGame(g, cfg.GameOptions(), seed)
	if err != nil {
		return env.EpisodeStats{}, err
	}

	replay := env.NewReplay(seed, cfg.ReplayConfig())
	session := autoplay.NewSession(game, seed,
		autoplay.WithLogger(logger),
		autoplay.WithPlanner(ai.NewPlanner(g, ai.WithLogger(logger), ai.WithFoodAttempts(cfg.Game.FoodAttempts))),
		autoplay.WithReplay(replay),
		autoplay.WithInterval(cfg.TickInterval()),
	)

	display := tui.NewDisplay(screen, g)
	display.Draw(game.Board, status(game, "", ""))

	dirs, quit := keys(screen)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-quit
		cancel()
	}()

	err = session.Run(ctx, dirs, func(res autoplay.TickResult) error {
		key := ""
		if res.Override != nil {
			key = res.Override.String()
		}
		display.Draw(res.Board, status(game, res.Rule.String(), key))
		return nil
	})
	switch {
	case errors.Is(err, context.Canceled):
		_ = level.Info(logger).Log("msg", "quit", "tick", game.Tick)
		label := func(c grid.Cell) (int, bool) { return 0, false }
		if game.Board.Food.Exists {
			field, _ := ai.ComputeDistances(g, game.Board.Snake, game.Board.Food.Cell)
			label = field.Distance
		}
		if err := env.Dump(dump, g, game.Board, label); err != nil {
			return env.EpisodeStats{}, err
		}
	case err != nil:
		return env.EpisodeStats{}, err
	default:
		display.Draw(game.Board, status(game, "", "")+" | press Esc")
		<-quit
	}

	if savePath != "" {
		replay.SetFinalStats(session.Stats())
		if err := replay.Save(savePath); err != nil {
			return env.EpisodeStats{}, fmt.Errorf("save replay: %w", err)
		}
	}
	return session.Stats(), nil
}

func playReplay(screen tcell.Screen, cfg *config.Config, path string) (env.EpisodeStats, error) {
	replay, err := env.LoadReplay(path)
	if err != nil {
		return env.EpisodeStats{}, err
	}
	game, err := replay.Playback()
	if err != nil {
		return env.EpisodeStats{}, err
	}

	display := tui.NewDisplay(screen, game.Grid)
	display.Draw(game.Board, status(game, "replay", ""))

	_, quit := keys(screen)
	ticker := time.NewTicker(cfg.TickInterval())
	defer ticker.Stop()

	for _, d := range replay.Directions {
		if !game.Alive {
			break
		}
		select {
		case <-quit:
			return game.Stats(replay.Seed), nil
		case <-ticker.C:
		}
		if err := game.Step(d); err != nil {
			return env.EpisodeStats{}, fmt.Errorf("replay tick %d: %w", game.Tick, err)
		}
		display.Draw(game.Board, status(game, "replay", ""))
	}
	if game.Alive && len(replay.Directions) > 0 {
		game.Stop(replay.FinalStats.Death)
	}
	display.Draw(game.Board, status(game, "replay", "")+" | press Esc")
	<-quit
	return game.Stats(replay.Seed), nil
}

func status(game *env.Game, rule, key string) string {
	s := fmt.Sprintf("Tick: %d | Food: %d | Length: %d", game.Tick, game.FoodEaten, game.Board.Snake.Len())
	if rule != "" {
		s += " | " + rule
	}
	if key != "" {
		s += " | key " + key + " ignored"
	}
	if !game.Alive {
		s += " | DEAD: " + game.DeathReason.String()
	}
	return s
}
