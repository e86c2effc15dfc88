//go:build !tinygo

package board

import (
	"fmt"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
)

// ADC is an opened dial channel and the bus behind it.
type ADC struct {
	analog.PinADC
	bus i2c.BusCloser
}

var channels = [...]ads1x15.Channel{ads1x15.Channel0, ads1x15.Channel1, ads1x15.Channel2, ads1x15.Channel3}

// OpenADS1115 opens single-ended channel ch (0-3) of an ADS1115 on the named
// I2C bus ("" for the first one). maxVolts is the dial's supply voltage.
func OpenADS1115(busName string, ch int, maxVolts float64) (*ADC, error) {
	if ch < 0 || ch >= len(channels) {
		return nil, fmt.Errorf("ads1115 channel %d out of range", ch)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c %q: %w", busName, err)
	}
	dev, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("ads1115: %w", err)
	}
	maxV := physic.ElectricPotential(maxVolts * float64(physic.Volt))
	pin, err := dev.PinForChannel(channels[ch], maxV, 860*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("ads1115 channel %d: %w", ch, err)
	}
	return &ADC{PinADC: pin, bus: bus}, nil
}

// Halt stops the channel and closes the bus.
func (a *ADC) Halt() error {
	err := a.PinADC.Halt()
	if cerr := a.bus.Close(); err == nil {
		err = cerr
	}
	return err
}
