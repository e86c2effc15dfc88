// Package pixel is the colour layer: 8-bit RGB/HSV values, the frame buffer
// and the FastLED-style helpers (fade, blend, saturating add) the animations
// are written against.
package pixel

import (
	"image/color"

	"github.com/coreman2200/lumistrip/internal/mathx"
)

// RGB is one pixel, 8 bits per channel.
type RGB struct {
	R, G, B uint8
}

var (
	Black = RGB{}
	White = RGB{255, 255, 255}
	Red   = RGB{R: 255}
	Green = RGB{G: 255}
	Blue  = RGB{B: 255}
	Pink  = RGB{255, 192, 203}
)

// Add is a per-channel saturating add.
func (c RGB) Add(o RGB) RGB {
	return RGB{mathx.QAdd8(c.R, o.R), mathx.QAdd8(c.G, o.G), mathx.QAdd8(c.B, o.B)}
}

// Or keeps the brighter of each channel.
func (c RGB) Or(o RGB) RGB {
	return RGB{max(c.R, o.R), max(c.G, o.G), max(c.B, o.B)}
}

// Scale multiplies every channel by s/256 with the scale8 convention:
// 255 leaves the colour untouched.
func (c RGB) Scale(s uint8) RGB {
	return RGB{Scale8(c.R, s), Scale8(c.G, s), Scale8(c.B, s)}
}

// NRGBA converts for image based drawers.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Scale8 returns i*(scale+1)/256.
func Scale8(i, scale uint8) uint8 {
	return uint8((uint16(i) * (1 + uint16(scale))) >> 8)
}

// Lerp8 moves a toward b by amount/255. amount 0 is a, 255 is exactly b.
func Lerp8(a, b, amount uint8) uint8 {
	return uint8(int(a) + (int(b)-int(a))*int(amount)/255)
}

// Blend moves a toward b by amount/255 per channel.
func Blend(a, b RGB, amount uint8) RGB {
	return RGB{Lerp8(a.R, b.R, amount), Lerp8(a.G, b.G, amount), Lerp8(a.B, b.B, amount)}
}

// Frame is the ordered pixel buffer handed to the output driver each tick.
type Frame []RGB

func NewFrame(n int) Frame { return make(Frame, n) }

// Fill sets every pixel to c.
func (f Frame) Fill(c RGB) {
	for i := range f {
		f[i] = c
	}
}

// FadeToBlackBy dims every pixel by amount/256.
func (f Frame) FadeToBlackBy(amount uint8) {
	keep := 255 - amount
	for i := range f {
		f[i] = f[i].Scale(keep)
	}
}

// FillRainbow paints a hue ramp starting at hue, stepping delta per pixel.
func (f Frame) FillRainbow(hue, delta uint8) {
	h := HSV{H: hue, S: 240, V: 255}
	for i := range f {
		f[i] = h.RGB()
		h.H += delta
	}
}

// Equal reports whether every pixel of f equals c.
func (f Frame) Equal(c RGB) bool {
	for _, p := range f {
		if p != c {
			return false
		}
	}
	return true
}

// Bytes flattens the frame into dst as R,G,B triples.
func (f Frame) Bytes(dst []byte) []byte {
	dst = dst[:0]
	for _, p := range f {
		dst = append(dst, p.R, p.G, p.B)
	}
	return dst
}
