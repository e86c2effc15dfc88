package animation

import "github.com/coreman2200/lumistrip/internal/pixel"

func paletteFlow(ctx *Context, f pixel.Frame) {
	f.FillPalette(&ctx.Palette, ctx.Hue, 15, 240, true)
}

func paletteFlowWithGlitter(ctx *Context, f pixel.Frame) {
	paletteFlow(ctx, f)
	addGlitter(ctx, f, pixel.White)
}

func paletteGlitter(ctx *Context, f pixel.Frame) {
	f.FadeToBlackBy(3)
	addGlitter(ctx, f, ctx.Palette.At(ctx.random8(), 255, true))
}

const (
	noiseScale = 0.08
	noiseSpeed = 0.25
)

// paletteNoise looks the palette up through a drifting simplex field laid
// over the grid.
func paletteNoise(ctx *Context, f pixel.Frame) {
	g := ctx.Grid
	if g.Count() == 0 {
		g.Columns, g.Rows = len(f), 1
	}
	z := ctx.T.Seconds() * noiseSpeed
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Columns; col++ {
			i := g.Index(col, row)
			if i < 0 || i >= len(f) {
				continue
			}
			v := ctx.Noise.Eval3(float64(col)*noiseScale, float64(row)*noiseScale, z)
			f[i] = ctx.Palette.At(uint8(v*255)+ctx.Hue, 255, true)
		}
	}
}
