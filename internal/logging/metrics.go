package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"snakebot/internal/env"
)

// Logger writes per-episode metrics as CSV and JSON lines and prints a
// one-line summary per episode.
type Logger struct {
	csvPath     string
	jsonPath    string
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	out         io.Writer
	initialized bool
}

// NewLogger creates a new metrics logger
func NewLogger(csvPath, jsonPath string) (*Logger, error) {
	l := &Logger{
		csvPath:  csvPath,
		jsonPath: jsonPath,
		out:      os.Stdout,
	}

	// Ensure directories exist
	if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
		return nil, err
	}

	return l, nil
}

// SetOutput redirects the console summary lines.
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
}

// Init initializes the log files
func (l *Logger) Init() error {
	var err error

	l.csvFile, err = os.Create(l.csvPath)
	if err != nil {
		return err
	}
	l.csvWriter = csv.NewWriter(l.csvFile)

	header := []string{
		"episode_id", "seed", "food", "ticks", "length", "death",
	}
	if err := l.csvWriter.Write(header); err != nil {
		return err
	}

	l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	l.initialized = true
	return nil
}

// Close flushes and closes all log files
func (l *Logger) Close() error {
	var firstErr error
	if l.csvWriter != nil {
		l.csvWriter.Flush()
		firstErr = l.csvWriter.Error()
	}
	for _, f := range []*os.File{l.csvFile, l.jsonFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.initialized = false
	return firstErr
}

// EpisodeRecord is one line of the JSONL metrics file.
type EpisodeRecord struct {
	EpisodeID string `json:"episode_id"`
	Seed      uint32 `json:"seed"`
	Food      int    `json:"food"`
	Ticks     int    `json:"ticks"`
	Length    int    `json:"length"`
	Death     string `json:"death"`
}

// LogEpisode appends one finished episode.
func (l *Logger) LogEpisode(id string, stats env.EpisodeStats) error {
	if !l.initialized {
		return nil
	}

	rec := EpisodeRecord{
		EpisodeID: id,
		Seed:      stats.Seed,
		Food:      stats.Food,
		Ticks:     stats.Ticks,
		Length:    stats.Length,
		Death:     stats.Death.String(),
	}

	row := []string{
		rec.EpisodeID,
		strconv.FormatUint(uint64(rec.Seed), 10),
		strconv.Itoa(rec.Food),
		strconv.Itoa(rec.Ticks),
		strconv.Itoa(rec.Length),
		rec.Death,
	}
	if err := l.csvWriter.Write(row); err != nil {
		return err
	}
	l.csvWriter.Flush()
	if err := l.csvWriter.Error(); err != nil {
		return err
	}

	jsonLine, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := l.jsonFile.Write(append(jsonLine, '\n')); err != nil {
		return err
	}

	fmt.Fprintf(l.out, "Seed %6d | Food: %4d | Ticks: %6d | Length: %4d | Death: %s\n",
		rec.Seed, rec.Food, rec.Ticks, rec.Length, rec.Death)
	return nil
}

// LogSummary prints aggregate statistics over a batch.
func (l *Logger) LogSummary(agg env.AggregatedStats, lambda float64) {
	fmt.Fprintf(l.out, "Episodes: %d | Food: %.2f ± %.2f | Ticks: %.1f | Length: %.1f (max %d) | Robust: %.2f\n",
		agg.NumEpisodes, agg.FoodMean, agg.FoodStd, agg.TicksMean, agg.LengthMean, agg.MaxLength,
		agg.RobustnessScore(lambda))

	reasons := []env.DeathReason{
		env.DeathWall, env.DeathSelf, env.DeathNoMove, env.DeathStall, env.DeathTimeout, env.DeathBoardFull,
	}
	fmt.Fprint(l.out, "  Deaths:")
	for _, r := range reasons {
		fmt.Fprintf(l.out, " %s=%d", r, agg.DeathCounts[r])
	}
	fmt.Fprintln(l.out)
}
