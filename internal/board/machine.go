//go:build tinygo

package board

import (
	"machine"
	"time"
)

// Machine is an input.Source for microcontroller pins.
type Machine struct {
	start   time.Time
	digital map[int]machine.Pin
	analog  map[int]machine.ADC
}

func NewMachine() *Machine {
	machine.InitADC()
	return &Machine{start: time.Now(), digital: map[int]machine.Pin{}, analog: map[int]machine.ADC{}}
}

func (m *Machine) AddDigital(pin int, p machine.Pin) {
	p.Configure(machine.PinConfig{Mode: machine.PinInput})
	m.digital[pin] = p
}

func (m *Machine) AddAnalog(pin int, p machine.Pin) {
	adc := machine.ADC{Pin: p}
	adc.Configure(machine.ADCConfig{Samples: 4})
	m.analog[pin] = adc
}

func (m *Machine) PullUp(pin int) {
	if p, ok := m.digital[pin]; ok {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
}

func (m *Machine) ReadDigital(pin int) bool {
	p, ok := m.digital[pin]
	return ok && p.Get()
}

// ReadAnalog scales the 16-bit reading down to 10 bits.
func (m *Machine) ReadAnalog(pin int) int {
	adc, ok := m.analog[pin]
	if !ok {
		return AnalogMax / 2
	}
	return int(adc.Get() >> 6)
}

func (m *Machine) Now() time.Duration {
	return time.Since(m.start).Truncate(time.Millisecond)
}
