package animation

import "github.com/coreman2200/lumistrip/internal/pixel"

// chanceOfGlitter is out of 256.
const chanceOfGlitter = 80

func addGlitter(ctx *Context, f pixel.Frame, c pixel.RGB) {
	if len(f) == 0 {
		return
	}
	if ctx.random8() < chanceOfGlitter {
		i := ctx.random16(len(f))
		f[i] = f[i].Add(c)
	}
}

func polychromeRainbow(ctx *Context, f pixel.Frame) {
	f.FillRainbow(ctx.Hue, 7)
}

func polychromeRainbowWithGlitter(ctx *Context, f pixel.Frame) {
	polychromeRainbow(ctx, f)
	addGlitter(ctx, f, pixel.White)
}

// random coloured speckles that blink in and fade
func polychromeConfetti(ctx *Context, f pixel.Frame) {
	f.FadeToBlackBy(10)
	if len(f) == 0 {
		return
	}
	i := ctx.random16(len(f))
	f[i] = f[i].Add(pixel.HSV{H: ctx.Hue + uint8(ctx.random16(64)), S: 200, V: 255}.RGB())
}

// a dot sweeping back and forth with a fading trail
func polychromeSinelon(ctx *Context, f pixel.Frame) {
	f.FadeToBlackBy(20)
	if len(f) == 0 {
		return
	}
	i := ctx.beat(13, 0, len(f)-1)
	f[i] = f[i].Add(pixel.HSV{H: ctx.Hue, S: 255, V: 192}.RGB())
}

var party = func() pixel.Palette {
	p, _ := pixel.PaletteByName("party")
	return p
}()

// stripes pulsing at 62 bpm
func polychromeBpm(ctx *Context, f pixel.Frame) {
	beat := pixel.BeatSin8(62, 64, 255, ctx.T)
	for i := range f {
		f[i] = party.At(ctx.Hue+uint8(i*2), beat-ctx.Hue+uint8(i*10), true)
	}
}

// eight dots weaving in and out of sync
func polychromeJuggle(ctx *Context, f pixel.Frame) {
	f.FadeToBlackBy(20)
	if len(f) == 0 {
		return
	}
	var dotHue uint8
	for i := 0; i < 8; i++ {
		p := ctx.beat(float64(i+7), 0, len(f)-1)
		f[p] = f[p].Or(pixel.HSV{H: dotHue, S: 200, V: 255}.RGB())
		dotHue += 32
	}
}
