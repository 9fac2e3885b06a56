package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// TurnRow is one applied tick of an autoplay episode.
//
// Body holds linear cell indexes, head first. Move and Rule use the names
// printed by grid.Direction and ai.Rule.
type TurnRow struct {
	EpisodeID string  `parquet:"episode_id,dict"`
	Seed      int64   `parquet:"seed"`
	Tick      int32   `parquet:"tick"`
	Width     int32   `parquet:"width"`
	Height    int32   `parquet:"height"`
	Move      string  `parquet:"move,dict"`
	Rule      string  `parquet:"rule,dict"`
	Ate       bool    `parquet:"ate"`
	Body      []int32 `parquet:"body"`
	Food      int32   `parquet:"food"` // -1 when the board is full
}

// WriteTurns writes rows to outDir/<name>.parquet through a temp file so a
// partially written archive is never visible. It returns the final path.
func WriteTurns(outDir, name string, rows []TurnRow) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	finalPath := filepath.Join(outDir, name+".parquet")
	tmpPath := finalPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "autoplay_turn_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

// ReadTurns loads an archive written by WriteTurns.
func ReadTurns(path string) ([]TurnRow, error) {
	rows, err := parquet.ReadFile[TurnRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}
