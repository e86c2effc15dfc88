package animation

import "github.com/coreman2200/lumistrip/internal/pixel"

func solid(ctx *Context, f pixel.Frame) {
	f.Fill(ctx.Solid)
}

// three dots of the selected colour weaving in and out of sync
func monochromeJuggle(ctx *Context, f pixel.Frame) {
	f.FadeToBlackBy(20)
	if len(f) == 0 {
		return
	}
	c := ctx.Color.RGB()
	for i := 0; i < 3; i++ {
		p := ctx.beat(float64(i+4), 0, len(f)-1)
		f[p] = f[p].Or(c)
	}
}

func monochromeGlitter(ctx *Context, f pixel.Frame) {
	f.FadeToBlackBy(3)
	addGlitter(ctx, f, ctx.Color.RGB())
}

// a dim base glow with one bright flier sweeping over it
func monochromeSinelon(ctx *Context, f pixel.Frame) {
	f.FadeToBlackBy(5)
	if len(f) == 0 {
		return
	}
	base := ctx.Color.WithValue(60).RGB()
	for i := range f {
		f[i] = f[i].Or(base)
	}
	p := ctx.beat(3, 0, len(f)-1)
	f[p] = f[p].Or(ctx.Color.RGB())
}

func monochromePulse(ctx *Context, f pixel.Frame) {
	f.Fill(ctx.Color.WithValue(pixel.BeatSin8(30, 120, 255, ctx.T)).RGB())
}

// every pixel the same colour, cycling through the hue wheel over time
func monochromeRainbow(ctx *Context, f pixel.Frame) {
	f.Fill(pixel.HSV{H: ctx.Hue, S: 240, V: 255}.RGB())
}

// deactivate fades whatever is showing to black.
func deactivate(_ *Context, f pixel.Frame) {
	f.FadeToBlackBy(10)
}
