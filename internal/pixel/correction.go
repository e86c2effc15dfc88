package pixel

import "math"

// Correction is the output stage applied after the frame is final: white
// balance of the strip, colour temperature of the light, then gamma.
type Correction struct {
	Strip       RGB // per-channel scale, White = uncorrected
	Temperature RGB // per-channel scale, White = uncorrected
	Gamma       float64

	lut     [256]uint8
	lutFor  float64
	lutInit bool
}

// Uncorrected leaves colours untouched.
func Uncorrected() *Correction {
	return &Correction{Strip: White, Temperature: White, Gamma: 1}
}

// TypicalLEDStrip is the common WS2812 white balance.
var TypicalLEDStrip = RGB{255, 176, 240}

// Kelvin approximates the RGB white point of a black body at k kelvin
// (Tanner Helland's fit). Inputs are clamped to [1000, 40000].
func Kelvin(k int) RGB {
	t := float64(min(max(k, 1000), 40000)) / 100.0
	var r, g, b float64
	if t <= 66 {
		r = 255
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}
	switch {
	case t >= 66:
		b = 255
	case t <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}
	clamp := func(x float64) uint8 { return uint8(math.Max(0, math.Min(255, math.Round(x)))) }
	return RGB{clamp(r), clamp(g), clamp(b)}
}

func (c *Correction) table() *[256]uint8 {
	if c.lutInit && c.lutFor == c.Gamma {
		return &c.lut
	}
	g := c.Gamma
	if g <= 0 {
		g = 1
	}
	for i := range c.lut {
		c.lut[i] = uint8(math.Round(math.Pow(float64(i)/255.0, g) * 255.0))
	}
	c.lutFor = c.Gamma
	c.lutInit = true
	return &c.lut
}

// Apply returns the corrected colour at the given master brightness.
func (c *Correction) Apply(p RGB, brightness uint8) RGB {
	lut := c.table()
	scale := func(v, strip, temp uint8) uint8 {
		v = Scale8(v, brightness)
		v = Scale8(v, strip)
		v = Scale8(v, temp)
		return lut[v]
	}
	return RGB{
		scale(p.R, c.Strip.R, c.Temperature.R),
		scale(p.G, c.Strip.G, c.Temperature.G),
		scale(p.B, c.Strip.B, c.Temperature.B),
	}
}
