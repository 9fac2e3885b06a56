package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-kit/log/level"

	"snakebot/internal/config"
	"snakebot/internal/eval"
	"snakebot/internal/logging"
)

func main() {
	configPath := flag.String("config", "configs/autoplay.yaml", "path to config file")
	episodes := flag.Int("episodes", 0, "number of episodes to play (0 uses the config)")
	workers := flag.Int("workers", 0, "parallel episodes (0 uses the config)")
	archive := flag.Bool("archive", true, "write a parquet turn archive per episode")
	replays := flag.Bool("replays", false, "write a JSON replay per episode")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *episodes > 0 {
		cfg.Eval.Episodes = *episodes
	}
	if *workers > 0 {
		cfg.Eval.Workers = *workers
	}

	logger, err := logging.New(os.Stderr, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Snake autoplay benchmark - Grid: %dx%d\n", cfg.Grid.Width, cfg.Grid.Height)
	fmt.Printf("Config: %s\n", *configPath)
	fmt.Printf("Episodes: %d from seed %d, Tick cap: %d, Stall window: %d\n",
		cfg.Eval.Episodes, cfg.Eval.BaseSeed, cfg.Game.TickCap, cfg.Game.StallWindow)
	fmt.Println("---")

	evaluator, err := eval.NewEvaluator(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating evaluator: %v\n", err)
		os.Exit(1)
	}

	metrics, err := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating metrics logger: %v\n", err)
		os.Exit(1)
	}
	if err := metrics.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing metrics logger: %v\n", err)
		os.Exit(1)
	}
	defer metrics.Close()

	startTime := time.Now()
	results, err := evaluator.RunSeeds(eval.Seeds(cfg.Eval.BaseSeed, cfg.Eval.Episodes))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running episodes: %v\n", err)
		os.Exit(1)
	}

	for _, res := range results {
		if err := metrics.LogEpisode(res.ID, res.Stats); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to log episode: %v\n", err)
		}
		if *archive {
			name := fmt.Sprintf("seed%d_%s", res.Stats.Seed, res.ID)
			path, err := logging.WriteTurns(cfg.Logging.ParquetDir, name, res.Turns)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to archive episode: %v\n", err)
			} else {
				_ = level.Debug(logger).Log("msg", "archived", "path", path, "rows", len(res.Turns))
			}
		}
		if *replays {
			path := filepath.Join(cfg.Logging.ReplayDir, fmt.Sprintf("replay_seed%d.json", res.Stats.Seed))
			if err := res.Replay.Save(path); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save replay: %v\n", err)
			}
		}
	}

	fmt.Println("---")
	metrics.LogSummary(eval.Aggregate(results), cfg.Eval.RobustnessLambda)
	fmt.Printf("Benchmark complete! %d episodes in %v\n", len(results), time.Since(startTime))
}
