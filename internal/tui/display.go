// Package tui draws a board on a terminal with tcell.
package tui

import (
	"github.com/gdamore/tcell/v2"

	"snakebot/internal/env"
	"snakebot/internal/grid"
)

const (
	iconFood = '@'
	iconHead = '*'
	iconBody = '#'
	iconNone = ' '
)

var (
	styleBorder = tcell.StyleDefault
	styleFood   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHead   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBody   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Display renders boards of one grid onto a screen.
type Display struct {
	screen tcell.Screen
	grid   grid.Grid
}

// NewDisplay wraps an initialised screen.
func NewDisplay(screen tcell.Screen, g grid.Grid) *Display {
	return &Display{screen: screen, grid: g}
}

// Position maps a cell to screen coordinates. Cells are drawn one column to
// the right of their index so the border frames the playable region evenly.
func Position(g grid.Grid, c grid.Cell) (x, y int) {
	row, col := g.RowCol(c)
	return col + 1, row
}

// Render returns the framed board as Height lines of Width runes.
func Render(g grid.Grid, b env.Board) [][]rune {
	lines := make([][]rune, g.Height)
	for y := range lines {
		line := make([]rune, g.Width)
		for x := range line {
			line[x] = borderRune(g, x, y)
		}
		lines[y] = line
	}

	put := func(c grid.Cell, r rune) {
		x, y := Position(g, c)
		if y >= 0 && y < g.Height && x >= 0 && x < g.Width {
			lines[y][x] = r
		}
	}
	if b.Food.Exists {
		put(b.Food.Cell, iconFood)
	}
	for i, c := range b.Snake.Body {
		if i == 0 {
			put(c, iconHead)
		} else {
			put(c, iconBody)
		}
	}
	return lines
}

func borderRune(g grid.Grid, x, y int) rune {
	top, bottom := y == 0, y == g.Height-1
	left, right := x == 0, x == g.Width-1
	switch {
	case top && left:
		return tcell.RuneULCorner
	case top && right:
		return tcell.RuneURCorner
	case bottom && left:
		return tcell.RuneLLCorner
	case bottom && right:
		return tcell.RuneLRCorner
	case top || bottom:
		return tcell.RuneHLine
	case left || right:
		return tcell.RuneVLine
	default:
		return iconNone
	}
}

func styleFor(r rune) tcell.Style {
	switch r {
	case iconFood:
		return styleFood
	case iconHead:
		return styleHead
	case iconBody:
		return styleBody
	default:
		return styleBorder
	}
}

// Draw paints b and a status line below it, then shows the frame.
func (d *Display) Draw(b env.Board, status string) {
	d.screen.Clear()
	lines := Render(d.grid, b)
	for y, line := range lines {
		for x, r := range line {
			d.screen.SetContent(x, y, r, nil, styleFor(r))
		}
	}
	for i, r := range []rune(status) {
		d.screen.SetContent(i, len(lines), r, nil, styleStatus)
	}
	d.screen.Show()
}

// KeyDirection maps arrow keys to directions.
func KeyDirection(k tcell.Key) (grid.Direction, bool) {
	switch k {
	case tcell.KeyDown:
		return grid.Down, true
	case tcell.KeyUp:
		return grid.Up, true
	case tcell.KeyRight:
		return grid.Right, true
	case tcell.KeyLeft:
		return grid.Left, true
	}
	return 0, false
}

// IsQuit reports whether k ends the game.
func IsQuit(k tcell.Key) bool {
	return k == tcell.KeyEscape || k == tcell.KeyCtrlC
}
