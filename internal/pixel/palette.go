package pixel

import (
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette is a 16 entry colour table indexed by a 0..255 position.
type Palette [16]RGB

// Stop is one keyed colour of a gradient, Pos in [0,1].
type Stop struct {
	Pos   float64
	Color colorful.Color
}

// Gradient is a sorted list of stops.
type Gradient []Stop

// At interpolates the gradient at t in [0,1].
func (g Gradient) At(t float64) colorful.Color {
	if len(g) == 0 {
		return colorful.Color{}
	}
	if t <= g[0].Pos {
		return g[0].Color
	}
	for i := 0; i < len(g)-1; i++ {
		a, b := g[i], g[i+1]
		if t >= a.Pos && t <= b.Pos {
			if b.Pos == a.Pos {
				return b.Color
			}
			return a.Color.BlendRgb(b.Color, (t-a.Pos)/(b.Pos-a.Pos))
		}
	}
	return g[len(g)-1].Color
}

// PaletteFromGradient samples g at 16 evenly spaced points.
func PaletteFromGradient(g Gradient) Palette {
	sort.Slice(g, func(i, j int) bool { return g[i].Pos < g[j].Pos })
	var p Palette
	for i := range p {
		p[i] = FromColorful(g.At(float64(i) / 15.0))
	}
	return p
}

// At returns the palette colour at index, blending between neighbouring
// entries when blend is set, scaled by brightness.
func (p *Palette) At(index, brightness uint8, blend bool) RGB {
	hi := index >> 4
	lo := index & 0x0F
	c := p[hi]
	if blend && lo != 0 {
		next := p[(hi+1)&0x0F]
		c = Blend(c, next, lo<<4)
	}
	if brightness != 255 {
		c = c.Scale(brightness)
	}
	return c
}

// FillPalette paints f from the palette starting at index, stepping inc.
func (f Frame) FillPalette(p *Palette, index, inc, brightness uint8, blend bool) {
	for i := range f {
		f[i] = p.At(index, brightness, blend)
		index += inc
	}
}

// NamedPalette pairs a palette with its config name.
type NamedPalette struct {
	Name    string
	Palette Palette
}

func hex(s string) colorful.Color {
	c, _ := colorful.Hex(s)
	return c
}

// Palettes returns the built-in palettes in cycling order.
func Palettes() []NamedPalette {
	return []NamedPalette{
		{"rainbow", PaletteFromGradient(Gradient{
			{0, hex("#ff0000")}, {0.17, hex("#ffaa00")}, {0.33, hex("#aaff00")},
			{0.5, hex("#00ff55")}, {0.67, hex("#0055ff")}, {0.83, hex("#aa00ff")}, {1, hex("#ff0055")},
		})},
		{"party", PaletteFromGradient(Gradient{
			{0, hex("#5500ab")}, {0.25, hex("#b8000e")}, {0.5, hex("#ff8400")},
			{0.75, hex("#ab0055")}, {1, hex("#2a00d5")},
		})},
		{"ocean", PaletteFromGradient(Gradient{
			{0, hex("#191970")}, {0.3, hex("#00008b")}, {0.55, hex("#008080")},
			{0.8, hex("#7fffd4")}, {1, hex("#0000cd")},
		})},
		{"forest", PaletteFromGradient(Gradient{
			{0, hex("#006400")}, {0.35, hex("#556b2f")}, {0.6, hex("#228b22")},
			{0.85, hex("#90ee90")}, {1, hex("#2e8b57")},
		})},
		{"lava", PaletteFromGradient(Gradient{
			{0, hex("#000000")}, {0.3, hex("#800000")}, {0.6, hex("#ff0000")},
			{0.85, hex("#ffa500")}, {1, hex("#ffffff")},
		})},
		{"cloud", PaletteFromGradient(Gradient{
			{0, hex("#0000ff")}, {0.4, hex("#87ceeb")}, {0.7, hex("#ffffff")}, {1, hex("#4682b4")},
		})},
		{"heat", PaletteFromGradient(Gradient{
			{0, hex("#000000")}, {0.33, hex("#ff0000")}, {0.66, hex("#ffff00")}, {1, hex("#ffffff")},
		})},
	}
}

// PaletteByName looks up a built-in palette.
func PaletteByName(name string) (Palette, bool) {
	for _, p := range Palettes() {
		if p.Name == name {
			return p.Palette, true
		}
	}
	return Palette{}, false
}
