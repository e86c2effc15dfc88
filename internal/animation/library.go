// Package animation renders the current selection into the frame buffer.
//
// Renderers take the shared Context and the frame; many read what the frame
// held last tick (fades and trails), so each is called exactly once per tick.
package animation

import (
	"github.com/coreman2200/lumistrip/internal/mathx"
	"github.com/coreman2200/lumistrip/internal/pixel"
)

// RenderFunc draws one tick into f.
type RenderFunc func(ctx *Context, f pixel.Frame)

type Pattern struct {
	Name   string
	Render RenderFunc
}

// Counts is how many entries each cycling dimension has.
type Counts struct {
	Patterns           int
	MonochromePatterns int
	PalettePatterns    int
	StaticColors       int
	Palettes           int
}

// Library maps a selection to its renderer. Every index is taken modulo its
// table size, so any selection renders.
type Library struct {
	staticColors []pixel.RGB
	palettes     []pixel.NamedPalette
	tables       [ModeCount][]Pattern
	standby      Pattern
}

// DefaultStaticColors starts at red.
func DefaultStaticColors() []pixel.RGB {
	return []pixel.RGB{
		pixel.Red,
		{R: 255, G: 96, B: 0},
		{R: 255, G: 200, B: 0},
		pixel.Green,
		{R: 0, G: 255, B: 200},
		pixel.Blue,
		{R: 150, G: 0, B: 255},
		pixel.Pink,
		pixel.White,
	}
}

// NewLibrary registers the built-in patterns. Empty colours or palettes
// fall back to the defaults.
func NewLibrary(colors []pixel.RGB, palettes []pixel.NamedPalette) *Library {
	if len(colors) == 0 {
		colors = DefaultStaticColors()
	}
	if len(palettes) == 0 {
		palettes = pixel.Palettes()
	}
	l := &Library{
		staticColors: colors,
		palettes:     palettes,
		standby:      Pattern{"deactivate", deactivate},
	}
	l.Register(Static, Pattern{"solid", solid})

	l.Register(MonochromeAnimated, Pattern{"juggle", monochromeJuggle})
	l.Register(MonochromeAnimated, Pattern{"glitter", monochromeGlitter})
	l.Register(MonochromeAnimated, Pattern{"sinelon", monochromeSinelon})
	l.Register(MonochromeAnimated, Pattern{"pulse", monochromePulse})
	l.Register(MonochromeAnimated, Pattern{"rainbow", monochromeRainbow})
	l.Register(MonochromeAnimated, Pattern{"ring_pulse", ringPulse})
	l.Register(MonochromeAnimated, Pattern{"column_pulse", columnPulse})
	l.Register(MonochromeAnimated, Pattern{"alternating_columns", alternatingColumns})
	l.Register(MonochromeAnimated, Pattern{"vortex", vortex})

	l.Register(PaletteAnimated, Pattern{"flow", paletteFlow})
	l.Register(PaletteAnimated, Pattern{"flow_glitter", paletteFlowWithGlitter})
	l.Register(PaletteAnimated, Pattern{"glitter", paletteGlitter})
	l.Register(PaletteAnimated, Pattern{"noise", paletteNoise})

	l.Register(Animated, Pattern{"rainbow", polychromeRainbow})
	l.Register(Animated, Pattern{"rainbow_glitter", polychromeRainbowWithGlitter})
	l.Register(Animated, Pattern{"confetti", polychromeConfetti})
	l.Register(Animated, Pattern{"sinelon", polychromeSinelon})
	l.Register(Animated, Pattern{"bpm", polychromeBpm})
	l.Register(Animated, Pattern{"juggle", polychromeJuggle})
	return l
}

// Register appends p to the table of mode m.
func (l *Library) Register(m Mode, p Pattern) {
	if p.Render == nil || int(m) >= ModeCount {
		return
	}
	l.tables[m] = append(l.tables[m], p)
}

// Patterns lists the pattern names of mode m in cycling order.
func (l *Library) Patterns(m Mode) []string {
	if int(m) >= ModeCount {
		return nil
	}
	out := make([]string, 0, len(l.tables[m]))
	for _, p := range l.tables[m] {
		out = append(out, p.Name)
	}
	return out
}

func (l *Library) Counts() Counts {
	return Counts{
		Patterns:           len(l.tables[Animated]),
		MonochromePatterns: len(l.tables[MonochromeAnimated]),
		PalettePatterns:    len(l.tables[PaletteAnimated]),
		StaticColors:       len(l.staticColors),
		Palettes:           len(l.palettes),
	}
}

func (l *Library) StaticColor(i int) pixel.RGB {
	return l.staticColors[mathx.Wrap(i, len(l.staticColors))]
}

func (l *Library) Palette(i int) pixel.NamedPalette {
	return l.palettes[mathx.Wrap(i, len(l.palettes))]
}

// Pattern resolves the renderer for sel.
func (l *Library) Pattern(sel Selection) Pattern {
	if sel.Standby {
		return l.standby
	}
	m := Mode(mathx.Wrap(int(sel.Mode), ModeCount))
	table := l.tables[m]
	if len(table) == 0 {
		return Pattern{"solid", solid}
	}
	var i int
	switch m {
	case MonochromeAnimated:
		i = sel.MonochromePatternIndex
	case PaletteAnimated:
		i = sel.PalettePatternIndex
	case Animated:
		i = sel.PatternIndex
	}
	return table[mathx.Wrap(i, len(table))]
}

// Prepare loads the colours of sel into ctx.
func (l *Library) Prepare(sel Selection, ctx *Context) {
	ctx.Solid = l.StaticColor(sel.StaticColorIndex)
	ctx.Color = ctx.Solid.HSV()
	ctx.Palette = l.Palette(sel.PaletteIndex).Palette
}

// Render draws one tick of sel into f.
func (l *Library) Render(sel Selection, ctx *Context, f pixel.Frame) {
	l.Prepare(sel, ctx)
	l.Pattern(sel).Render(ctx, f)
}

// Representative is the solid colour a transition into sel aims for: what
// the first pixel of the new pattern would show.
func (l *Library) Representative(sel Selection, ctx *Context) pixel.RGB {
	switch Mode(mathx.Wrap(int(sel.Mode), ModeCount)) {
	case PaletteAnimated:
		p := l.Palette(sel.PaletteIndex).Palette
		return p.At(ctx.Hue, 240, true)
	case Animated:
		return pixel.HSV{H: ctx.Hue, S: 240, V: 255}.RGB()
	}
	return l.StaticColor(sel.StaticColorIndex)
}
