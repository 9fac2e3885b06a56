package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"snakebot/internal/env"
	"snakebot/internal/grid"
)

// Config is the root configuration structure
type Config struct {
	Seed    int64        `yaml:"seed"`
	Grid    GridConfig   `yaml:"grid"`
	Game    GameConfig   `yaml:"game"`
	Eval    EvalConfig   `yaml:"eval"`
	Logging LogConfig    `yaml:"logging"`
	Server  ServerConfig `yaml:"server"`
}

// GridConfig is the outer grid size, border included
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// GameConfig defines per-game limits and pacing
type GameConfig struct {
	TickMS       int `yaml:"tick_ms"`       // pause between ticks in interactive and streamed games
	TickCap      int `yaml:"tick_cap"`      // 0 means unlimited
	StallWindow  int `yaml:"stall_window"`  // 0 means unlimited
	FoodAttempts int `yaml:"food_attempts"` // rejection sampling cap
}

// EvalConfig defines batch evaluation parameters
type EvalConfig struct {
	Episodes         int     `yaml:"episodes"`
	BaseSeed         int     `yaml:"base_seed"`
	Workers          int     `yaml:"workers"`
	RobustnessLambda float64 `yaml:"robustness_lambda"`
}

// LogConfig defines logging and artifact paths
type LogConfig struct {
	Level      string `yaml:"level"` // debug|info|warn|error
	LogPath    string `yaml:"log_path"`
	CSVPath    string `yaml:"csv_path"`
	JSONPath   string `yaml:"json_path"`
	ParquetDir string `yaml:"parquet_dir"`
	ReplayDir  string `yaml:"replay_dir"`
}

// ServerConfig defines the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads a YAML config file and returns a Config
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	if cfg.Grid.Width == 0 {
		cfg.Grid.Width = 20
	}
	if cfg.Grid.Height == 0 {
		cfg.Grid.Height = 10
	}
	if cfg.Game.TickMS == 0 {
		cfg.Game.TickMS = 10
	}
	if cfg.Game.FoodAttempts == 0 {
		cfg.Game.FoodAttempts = env.DefaultFoodAttempts
	}
	if cfg.Eval.Episodes == 0 {
		cfg.Eval.Episodes = 20
	}
	if cfg.Eval.BaseSeed == 0 {
		cfg.Eval.BaseSeed = 1000
	}
	if cfg.Eval.RobustnessLambda == 0 {
		cfg.Eval.RobustnessLambda = 0.25
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.LogPath == "" {
		cfg.Logging.LogPath = "runs/snakebot.log"
	}
	if cfg.Logging.CSVPath == "" {
		cfg.Logging.CSVPath = "runs/episodes.csv"
	}
	if cfg.Logging.JSONPath == "" {
		cfg.Logging.JSONPath = "runs/episodes.jsonl"
	}
	if cfg.Logging.ParquetDir == "" {
		cfg.Logging.ParquetDir = "runs/turns"
	}
	if cfg.Logging.ReplayDir == "" {
		cfg.Logging.ReplayDir = "runs/replays"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}

// Validate rejects values no game can be built from.
func (c *Config) Validate() error {
	var errs []error
	if c.Seed < 0 || c.Seed > math.MaxUint32 {
		errs = append(errs, fmt.Errorf("seed must be between 0 and %d, got %d", uint32(math.MaxUint32), c.Seed))
	}
	if c.Eval.BaseSeed < 0 || int64(c.Eval.BaseSeed)+int64(c.Eval.Episodes) > math.MaxUint32+1 {
		errs = append(errs, fmt.Errorf("eval.base_seed %d with %d episodes leaves the seed range", c.Eval.BaseSeed, c.Eval.Episodes))
	}
	if _, err := grid.New(c.Grid.Width, c.Grid.Height); err != nil {
		errs = append(errs, fmt.Errorf("grid %dx%d: %w", c.Grid.Width, c.Grid.Height, err))
	}
	if c.Game.TickMS < 0 {
		errs = append(errs, fmt.Errorf("game.tick_ms must not be negative, got %d", c.Game.TickMS))
	}
	if c.Game.TickCap < 0 || c.Game.StallWindow < 0 {
		errs = append(errs, errors.New("game.tick_cap and game.stall_window must not be negative"))
	}
	if c.Game.FoodAttempts < 0 {
		errs = append(errs, fmt.Errorf("game.food_attempts must not be negative, got %d", c.Game.FoodAttempts))
	}
	if c.Eval.Episodes < 0 || c.Eval.Workers < 0 {
		errs = append(errs, errors.New("eval.episodes and eval.workers must not be negative"))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// GameSeed is the validated seed as used by games.
func (c *Config) GameSeed() uint32 {
	return uint32(c.Seed)
}

// NewGrid builds the configured grid.
func (c *Config) NewGrid() (grid.Grid, error) {
	return grid.New(c.Grid.Width, c.Grid.Height)
}

// GameOptions returns the per-game limits.
func (c *Config) GameOptions() env.Options {
	return env.Options{
		TickCap:      c.Game.TickCap,
		StallWindow:  c.Game.StallWindow,
		FoodAttempts: c.Game.FoodAttempts,
	}
}

// ReplayConfig returns the settings a replay needs to rebuild a game.
func (c *Config) ReplayConfig() env.ReplayConfig {
	return env.ReplayConfig{
		Width:        c.Grid.Width,
		Height:       c.Grid.Height,
		TickCap:      c.Game.TickCap,
		StallWindow:  c.Game.StallWindow,
		FoodAttempts: c.Game.FoodAttempts,
	}
}

// TickInterval is the configured pause between ticks.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Game.TickMS) * time.Millisecond
}
