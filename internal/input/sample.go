// Package input turns polled pin levels into semantic events: button
// presses, potentiometer changes and motion. Nothing here blocks; every
// state machine is advanced once per tick with a fresh Sample.
package input

import "time"

// Sample is one raw reading of a pin. At is a monotonic offset from process
// start with millisecond resolution.
type Sample struct {
	Pin   int
	Level bool
	Value int
	At    time.Duration
}

// Source is the raw input collaborator. Reads are assumed infallible; a
// failing board reports stale values instead of errors.
type Source interface {
	ReadDigital(pin int) bool
	ReadAnalog(pin int) int
	Now() time.Duration
}

// PullUpper is implemented by sources that can enable a pin's internal
// pull-up. Buttons wired active-low ask for it during Setup.
type PullUpper interface {
	PullUp(pin int)
}

// DigitalSample reads pin from src.
func DigitalSample(src Source, pin int) Sample {
	return Sample{Pin: pin, Level: src.ReadDigital(pin), At: src.Now()}
}

// AnalogSample reads pin from src.
func AnalogSample(src Source, pin int) Sample {
	return Sample{Pin: pin, Value: src.ReadAnalog(pin), At: src.Now()}
}
