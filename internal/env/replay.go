package env

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"snakebot/internal/grid"
)

// Replay stores a deterministic direction trace for playback
type Replay struct {
	Seed       uint32           `json:"seed"`
	Directions []grid.Direction `json:"directions"`
	FinalStats EpisodeStats     `json:"final_stats"`
	Config     ReplayConfig     `json:"config"`
}

// ReplayConfig stores environment config for replay
type ReplayConfig struct {
	Width        int `json:"width"`
	Height       int `json:"height"`
	TickCap      int `json:"tick_cap"`
	StallWindow  int `json:"stall_window"`
	FoodAttempts int `json:"food_attempts"`
}

// NewReplay creates a new replay recorder
func NewReplay(seed uint32, config ReplayConfig) *Replay {
	return &Replay{
		Seed:       seed,
		Directions: make([]grid.Direction, 0, 256),
		Config:     config,
	}
}

// Record adds a direction to the replay
func (r *Replay) Record(d grid.Direction) {
	r.Directions = append(r.Directions, d)
}

// SetFinalStats sets the final episode statistics
func (r *Replay) SetFinalStats(stats EpisodeStats) {
	r.FinalStats = stats
}

// Save writes the replay to a file
func (r *Replay) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadReplay loads a replay from a file
func LoadReplay(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Replay
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Playback recreates the game from the replay
func (r *Replay) Playback() (*Game, error) {
	g, err := grid.New(r.Config.Width, r.Config.Height)
	if err != nil {
		return nil, err
	}
	return NewGame(g, Options{
		TickCap:      r.Config.TickCap,
		StallWindow:  r.Config.StallWindow,
		FoodAttempts: r.Config.FoodAttempts,
	}, r.Seed)
}

// PlaybackStep runs the replay up to step n
func (r *Replay) PlaybackStep(g *Game, step int) error {
	if step > len(r.Directions) {
		step = len(r.Directions)
	}
	for i := 0; i < step && g.Alive; i++ {
		if err := g.Step(r.Directions[i]); err != nil {
			return fmt.Errorf("replay step %d: %w", i, err)
		}
	}
	return nil
}
