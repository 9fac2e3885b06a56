package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snakebot/internal/env"
	"snakebot/internal/grid"
)

func TestRenderFramesPlayableRegion(t *testing.T) {
	g, err := grid.New(20, 10)
	require.NoError(t, err)
	snake := env.SeedSnake(g)
	b := env.Board{Snake: snake, Food: env.Food{Cell: g.CellAt(1, 0), Exists: true}}

	lines := Render(g, b)
	require.Len(t, lines, 10)
	for _, line := range lines {
		require.Len(t, line, 20)
	}

	assert.Equal(t, tcell.RuneULCorner, lines[0][0])
	assert.Equal(t, tcell.RuneLRCorner, lines[9][19])
	assert.Equal(t, tcell.RuneVLine, lines[4][0])
	assert.Equal(t, tcell.RuneVLine, lines[4][19])

	assert.Equal(t, '@', lines[1][1])
	assert.Equal(t, '*', lines[2][7])
	assert.Equal(t, '#', lines[2][6])
	assert.Equal(t, '#', lines[2][5])
	assert.Equal(t, ' ', lines[2][4])
}

func TestEveryPlayableCellIsInsideBorder(t *testing.T) {
	g, err := grid.New(9, 7)
	require.NoError(t, err)
	for c := grid.Cell(0); int(c) < g.Size(); c++ {
		if !g.InPlay(c) {
			continue
		}
		x, y := Position(g, c)
		assert.True(t, x > 0 && x < g.Width-1, "cell %d x=%d", c, x)
		assert.True(t, y > 0 && y < g.Height-1, "cell %d y=%d", c, y)
	}
}

func TestRenderFullBoardHasNoFood(t *testing.T) {
	g, err := grid.New(20, 10)
	require.NoError(t, err)
	lines := Render(g, env.Board{Snake: env.SeedSnake(g)})
	for _, line := range lines {
		assert.NotContains(t, string(line), "@")
	}
}

func TestDrawOnSimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 20)

	g, err := grid.New(20, 10)
	require.NoError(t, err)
	d := NewDisplay(screen, g)
	d.Draw(env.Board{Snake: env.SeedSnake(g)}, "tick 0")
}

func TestKeys(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		want grid.Direction
		ok   bool
	}{
		{tcell.KeyDown, grid.Down, true},
		{tcell.KeyUp, grid.Up, true},
		{tcell.KeyRight, grid.Right, true},
		{tcell.KeyLeft, grid.Left, true},
		{tcell.KeyEnter, 0, false},
	}
	for _, tt := range tests {
		d, ok := KeyDirection(tt.key)
		assert.Equal(t, tt.ok, ok)
		if ok {
			assert.Equal(t, tt.want, d)
		}
	}

	assert.True(t, IsQuit(tcell.KeyEscape))
	assert.True(t, IsQuit(tcell.KeyCtrlC))
	assert.False(t, IsQuit(tcell.KeyUp))
}
