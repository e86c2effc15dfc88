package animation

import (
	"time"

	"github.com/coreman2200/lumistrip/internal/pixel"
)

const (
	gridBPM          = 30
	vortexRowStep    = 30 * time.Millisecond
	vortexColumnStep = 60 * time.Millisecond
)

// gridState is the cursor the grid patterns walk.
type gridState struct {
	row, col     int
	rowAt, colAt time.Duration
}

func setPixel(ctx *Context, f pixel.Frame, col, row int, c pixel.RGB) {
	if i := ctx.Grid.Index(col, row); i >= 0 && i < len(f) {
		f[i] = c
	}
}

func setRow(ctx *Context, f pixel.Frame, row int, c pixel.RGB) {
	for col := 0; col < ctx.Grid.Columns; col++ {
		setPixel(ctx, f, col, row, c)
	}
}

func orColumn(ctx *Context, f pixel.Frame, col int, c pixel.RGB) {
	for row := 0; row < ctx.Grid.Rows; row++ {
		if i := ctx.Grid.Index(col, row); i >= 0 && i < len(f) {
			f[i] = f[i].Or(c)
		}
	}
}

// ringPulse lights each ring in turn, always travelling the same way.
func ringPulse(ctx *Context, f pixel.Frame) {
	f.FadeToBlackBy(15)
	rows := ctx.Grid.Rows
	row := ctx.beat(gridBPM, 0, rows)
	if row != rows && row >= ctx.grid.row {
		return
	}
	ctx.grid.row = row
	setRow(ctx, f, row, ctx.Color.RGB())
}

// columnPulse lights each column in turn, always rotating the same way.
func columnPulse(ctx *Context, f pixel.Frame) {
	f.FadeToBlackBy(15)
	cols := ctx.Grid.Columns
	col := ctx.beat(gridBPM, 0, cols)
	if col != cols && col >= ctx.grid.col {
		return
	}
	ctx.grid.col = col
	orColumn(ctx, f, col, ctx.Color.RGB())
}

// alternatingColumns runs every column the opposite way to its neighbour.
func alternatingColumns(ctx *Context, f pixel.Frame) {
	f.FadeToBlackBy(15)
	rows := ctx.Grid.Rows
	up := ctx.beat(gridBPM/2, 0, rows)
	down := rows - up
	c := ctx.Color.RGB()
	for col := 0; col < ctx.Grid.Columns; col++ {
		if col%2 == 0 {
			setPixel(ctx, f, col, up, c)
		} else {
			setPixel(ctx, f, col, down, c)
		}
	}
}

// vortex spirals a single dot by stepping rows faster than columns.
func vortex(ctx *Context, f pixel.Frame) {
	f.FadeToBlackBy(15)
	g := &ctx.grid
	if ctx.T-g.rowAt >= vortexRowStep {
		g.row = (g.row + 1) % max(ctx.Grid.Rows, 1)
		g.rowAt = ctx.T
	}
	if ctx.T-g.colAt >= vortexColumnStep {
		g.col = (g.col + 1) % max(ctx.Grid.Columns, 1)
		g.colAt = ctx.T
	}
	setPixel(ctx, f, g.col, g.row, ctx.Color.RGB())
}
