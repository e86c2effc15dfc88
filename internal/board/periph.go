//go:build !tinygo

package board

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/coreman2200/lumistrip/internal/mathx"
)

// Init loads the periph host drivers.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}
	return nil
}

// Periph is an input.Source over periph pins. Read errors are logged and
// the last good value is returned.
type Periph struct {
	start   time.Time
	digital map[int]gpio.PinIO
	analog  map[int]analog.PinADC
	last    map[int]int
	warn    zerolog.Logger
}

func NewPeriph() *Periph {
	return &Periph{
		start:   time.Now(),
		digital: map[int]gpio.PinIO{},
		analog:  map[int]analog.PinADC{},
		last:    map[int]int{},
		warn:    log.Sample(&zerolog.BasicSampler{N: 500}),
	}
}

// AddDigital binds pin to the GPIO registered as name (a number or alias
// such as "GPIO9") as a floating input.
func (p *Periph) AddDigital(pin int, name string) error {
	g := gpioreg.ByName(name)
	if g == nil {
		return fmt.Errorf("gpio %q not found", name)
	}
	return p.addPin(pin, g)
}

func (p *Periph) addPin(pin int, g gpio.PinIO) error {
	if err := g.In(gpio.Float, gpio.NoEdge); err != nil {
		return fmt.Errorf("gpio %s: %w", g, err)
	}
	p.digital[pin] = g
	return nil
}

// AddAnalog binds pin to an ADC channel. Readings are rescaled from the
// channel's range to 0..AnalogMax.
func (p *Periph) AddAnalog(pin int, adc analog.PinADC) {
	p.analog[pin] = adc
	p.last[pin] = AnalogMax / 2
}

// PullUp reconfigures pin with its internal pull-up, as active-low buttons
// need.
func (p *Periph) PullUp(pin int) {
	g, ok := p.digital[pin]
	if !ok {
		return
	}
	if err := g.In(gpio.PullUp, gpio.NoEdge); err != nil {
		log.Warn().Err(err).Str("pin", g.Name()).Msg("pull-up not available")
	}
}

func (p *Periph) ReadDigital(pin int) bool {
	g, ok := p.digital[pin]
	if !ok {
		return false
	}
	return g.Read() == gpio.High
}

func (p *Periph) ReadAnalog(pin int) int {
	adc, ok := p.analog[pin]
	if !ok {
		return p.last[pin]
	}
	s, err := adc.Read()
	if err != nil {
		p.warn.Warn().Err(err).Int("pin", pin).Msg("adc read failed")
		return p.last[pin]
	}
	lo, hi := adc.Range()
	v := AnalogMax / 2
	if hi.Raw > lo.Raw {
		v = mathx.Map(int(s.Raw), int(lo.Raw), int(hi.Raw), 0, AnalogMax)
	}
	p.last[pin] = v
	return v
}

func (p *Periph) Now() time.Duration {
	return time.Since(p.start).Truncate(time.Millisecond)
}

// Close halts the bound pins.
func (p *Periph) Close() error {
	var first error
	for _, adc := range p.analog {
		if err := adc.Halt(); err != nil && first == nil {
			first = err
		}
	}
	for _, g := range p.digital {
		if err := g.Halt(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
