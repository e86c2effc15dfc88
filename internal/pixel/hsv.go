package pixel

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSV uses the 0..255 hue wheel of the animation clock.
type HSV struct {
	H, S, V uint8
}

// RGB converts through go-colorful.
func (h HSV) RGB() RGB {
	c := colorful.Hsv(float64(h.H)*360.0/256.0, float64(h.S)/255.0, float64(h.V)/255.0)
	return FromColorful(c)
}

// WithValue returns h with a different brightness.
func (h HSV) WithValue(v uint8) HSV {
	h.V = v
	return h
}

// FromColorful clamps c into the 8-bit space.
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// Colorful converts to a go-colorful colour for blending/gradients.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
}

// HSV converts back to the 0..255 hue wheel.
func (c RGB) HSV() HSV {
	h, s, v := c.Colorful().Hsv()
	return HSV{H: uint8(int(h*256.0/360.0) & 0xFF), S: uint8(s*255.0 + 0.5), V: uint8(v*255.0 + 0.5)}
}

// Hex formats as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex accepts "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return FromColorful(c), nil
}
