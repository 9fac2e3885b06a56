package logging

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snakebot/internal/env"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info")
	require.NoError(t, err)

	_ = level.Debug(logger).Log("msg", "hidden")
	_ = level.Info(logger).Log("msg", "shown", "tick", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "tick=3")
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, "caller=")
	assert.Contains(t, out, "ts=")
}

func TestUnknownLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "chatty")
	assert.Error(t, err)
}

func TestNewFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	logger, f, err := NewFile(path, "debug")
	require.NoError(t, err)
	_ = level.Debug(logger).Log("msg", "first")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=first")
}

func TestMetricsLogger(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out", "episodes.csv")
	jsonPath := filepath.Join(dir, "out", "episodes.jsonl")

	l, err := NewLogger(csvPath, jsonPath)
	require.NoError(t, err)
	var console bytes.Buffer
	l.SetOutput(&console)
	require.NoError(t, l.Init())

	episodes := []env.EpisodeStats{
		{Food: 12, Ticks: 340, Length: 15, Death: env.DeathNoMove, Seed: 1},
		{Food: 30, Ticks: 900, Length: 33, Death: env.DeathTimeout, Seed: 2},
	}
	for i, ep := range episodes {
		require.NoError(t, l.LogEpisode([]string{"a", "b"}[i], ep))
	}
	l.LogSummary(env.Aggregate(episodes), 0.25)
	require.NoError(t, l.Close())

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"episode_id", "seed", "food", "ticks", "length", "death"}, records[0])
	assert.Equal(t, []string{"b", "2", "30", "900", "33", "timeout"}, records[2])

	jf, err := os.Open(jsonPath)
	require.NoError(t, err)
	defer jf.Close()
	var lines []EpisodeRecord
	sc := bufio.NewScanner(jf)
	for sc.Scan() {
		var rec EpisodeRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		lines = append(lines, rec)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "no_move", lines[0].Death)

	assert.Contains(t, console.String(), "Episodes: 2")
	assert.Contains(t, console.String(), "no_move=1")
}

func TestLogEpisodeBeforeInitIsNoop(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(filepath.Join(dir, "a.csv"), filepath.Join(dir, "a.jsonl"))
	require.NoError(t, err)
	assert.NoError(t, l.LogEpisode("x", env.EpisodeStats{}))
	_, err = os.Stat(filepath.Join(dir, "a.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestTurnArchiveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rows := []TurnRow{
		{EpisodeID: "e1", Seed: 4, Tick: 1, Width: 20, Height: 10, Move: "right", Rule: "eat", Body: []int32{47, 46, 45}, Food: 48},
		{EpisodeID: "e1", Seed: 4, Tick: 2, Width: 20, Height: 10, Move: "right", Rule: "eat", Ate: true, Body: []int32{48, 47, 46, 45}, Food: 120},
	}

	path, err := WriteTurns(dir, "e1", rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "e1.parquet"), path)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	got, err := ReadTurns(path)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}
