// Package layout maps grid coordinates onto the strip. A strip wound around
// a pole reads as rows of Columns pixels; a plain strip is one row.
package layout

import "fmt"

type Grid struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
	// Serpentine reverses every odd row, as when the strip snakes back.
	Serpentine bool `yaml:"serpentine"`
}

// Strip is a single row of n pixels.
func Strip(n int) Grid { return Grid{Columns: n, Rows: 1} }

// Fit returns g sized for n pixels: a zero Columns becomes a strip, a zero
// Rows is derived from Columns.
func (g Grid) Fit(n int) Grid {
	if g.Columns <= 0 || g.Columns > n {
		return Strip(n)
	}
	if g.Rows <= 0 || g.Rows*g.Columns > n {
		g.Rows = n / g.Columns
	}
	return g
}

func (g Grid) Validate(n int) error {
	if g.Columns < 0 || g.Rows < 0 {
		return fmt.Errorf("grid %dx%d: negative size", g.Columns, g.Rows)
	}
	if g.Columns*g.Rows > n {
		return fmt.Errorf("grid %dx%d needs %d leds, strip has %d", g.Columns, g.Rows, g.Count(), n)
	}
	return nil
}

// Index maps column, row to the strip index, or -1 when outside the grid.
func (g Grid) Index(col, row int) int {
	if col < 0 || row < 0 || col >= g.Columns || row >= g.Rows {
		return -1
	}
	if g.Serpentine && row%2 == 1 {
		col = g.Columns - 1 - col
	}
	return row*g.Columns + col
}

func (g Grid) Count() int {
	return g.Columns * g.Rows
}
