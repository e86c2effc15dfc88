package input

import (
	"math"

	"github.com/coreman2200/lumistrip/internal/mathx"
)

const (
	DefaultNoiseFloor = 5
	// DefaultPotInitial is mid-scale of a 10-bit ADC.
	DefaultPotInitial = 512
)

// PotConfig tunes the potentiometer filter. Alpha is the weight of a new
// reading in the moving average; 1 reports raw readings.
type PotConfig struct {
	NoiseFloor int
	Alpha      float64
	Initial    int
}

func DefaultPotConfig() PotConfig {
	return PotConfig{NoiseFloor: DefaultNoiseFloor, Alpha: 0.5, Initial: DefaultPotInitial}
}

// Potentiometer filters an analog reading into value-changed events.
//
// Readings go through an exponential moving average seeded with the first
// sample. The filtered value is reported when it differs from the last
// reported value by more than NoiseFloor, so slow drifts still surface once
// they add up.
type Potentiometer struct {
	cfg PotConfig

	previous int
	current  int
	raw      int
	filtered float64
	seeded   bool
}

func NewPotentiometer(cfg PotConfig) *Potentiometer {
	if cfg.NoiseFloor < 0 {
		cfg.NoiseFloor = 0
	}
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		cfg.Alpha = 1
	}
	return &Potentiometer{cfg: cfg, previous: cfg.Initial, current: cfg.Initial}
}

// Value is the last reported value.
func (p *Potentiometer) Value() int { return p.previous }

// Filtered is the current smoothed reading, reported or not.
func (p *Potentiometer) Filtered() int { return p.current }

// Update returns the new value and true when the change clears the noise
// floor. At most one change is reported per call.
func (p *Potentiometer) Update(s Sample) (int, bool) {
	p.raw = s.Value
	if !p.seeded {
		p.filtered = float64(s.Value)
		p.seeded = true
	} else {
		p.filtered += p.cfg.Alpha * (float64(s.Value) - p.filtered)
	}
	p.current = int(math.Round(p.filtered))

	if mathx.Abs(p.current-p.previous) <= p.cfg.NoiseFloor {
		return p.previous, false
	}
	p.previous = p.current
	return p.current, true
}

// Settle jumps the filter to the last raw reading and marks it reported, so
// the moving average has no tail left to report. It returns that reading.
func (p *Potentiometer) Settle() int {
	if !p.seeded {
		return p.previous
	}
	p.filtered = float64(p.raw)
	p.current = p.raw
	p.previous = p.raw
	return p.raw
}
