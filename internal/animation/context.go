package animation

import (
	"math"
	"math/rand"
	"time"

	"github.com/ojrac/opensimplex-go"

	"github.com/coreman2200/lumistrip/internal/layout"
	"github.com/coreman2200/lumistrip/internal/pixel"
)

// Context is the shared animation clock and the inputs every renderer reads.
// One instance lives for the whole process; the engine advances it once per
// tick before rendering.
type Context struct {
	// Now is the tick timestamp.
	Now time.Duration
	// T is animation time: Now scaled by the speed multiplier, so changing
	// speed never jumps a running wave.
	T     time.Duration
	Frame uint64
	// Hue advances by the speed multiplier every tick and wraps at 256.
	Hue   uint8
	Speed float64

	// Solid is the selected static colour, Color the same colour as HSV for
	// the monochrome patterns.
	Solid   pixel.RGB
	Color   pixel.HSV
	Palette pixel.Palette

	Rand  *rand.Rand
	Noise opensimplex.Noise
	Grid  layout.Grid

	hue     float64
	last    time.Duration
	started bool
	grid    gridState
}

func NewContext(seed int64, grid layout.Grid) *Context {
	return &Context{
		Speed: 1,
		Rand:  rand.New(rand.NewSource(seed)),
		Noise: opensimplex.NewNormalized(seed),
		Grid:  grid,
	}
}

// Advance moves the clock to now. Speeds below zero count as zero.
func (c *Context) Advance(now time.Duration, speed float64) {
	speed = math.Max(speed, 0)
	if c.started && now > c.last {
		c.T += time.Duration(float64(now-c.last) * speed)
	}
	c.started = true
	c.last = now
	c.Now = now
	c.Speed = speed
	c.Frame++
	c.hue = math.Mod(c.hue+speed, 256)
	c.Hue = uint8(c.hue)
}

func (c *Context) random8() uint8 { return uint8(c.Rand.Intn(256)) }

func (c *Context) random16(n int) int {
	if n <= 0 {
		return 0
	}
	return c.Rand.Intn(n)
}

// beat is a BeatSin16 over [lo, hi] on animation time.
func (c *Context) beat(bpm float64, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return int(pixel.BeatSin16(bpm, uint16(lo), uint16(hi), c.T))
}
