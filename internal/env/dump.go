package env

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"snakebot/internal/grid"
)

// Dump writes a framed text view of the board, three columns per cell:
// '@' food, '*' head, '#' body. Other cells show label(c) when it reports a
// value and 0 otherwise, which makes it handy for printing distance fields.
func Dump(w io.Writer, g grid.Grid, b Board, label func(grid.Cell) (int, bool)) error {
	bw := bufio.NewWriter(w)
	rule := strings.Repeat("=", 3*g.Width) + "\n"
	bw.WriteString(rule)

	var head grid.Cell = -1
	if b.Snake.Len() > 0 {
		head = b.Snake.Head()
	}
	for i := 0; i < g.Size(); i++ {
		c := grid.Cell(i)
		var cell string
		switch {
		case b.Food.Exists && c == b.Food.Cell:
			cell = "@"
		case c == head:
			cell = "*"
		case b.Snake.Contains(c):
			cell = "#"
		default:
			v := 0
			if label != nil {
				if d, ok := label(c); ok {
					v = d
				}
			}
			cell = fmt.Sprint(v)
		}
		fmt.Fprintf(bw, "%3s", cell)
		if (i+1)%g.Width == 0 {
			bw.WriteByte('\n')
		}
	}
	bw.WriteString(rule)
	return bw.Flush()
}
