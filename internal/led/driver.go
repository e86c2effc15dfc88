// Package led holds the output drivers the engine hands finished frames to.
package led

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrClosed    = errors.New("led: driver closed")
	ErrFrameSize = errors.New("led: frame size mismatch")
)

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes an RGB frame to hardware. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

func checkSize(rgb []byte, count int) error {
	if len(rgb) != count*3 {
		return fmt.Errorf("%w: %d bytes for %d leds", ErrFrameSize, len(rgb), count)
	}
	return nil
}

// Kind names a driver in config files and flags.
type Kind string

const (
	KindAuto    Kind = "auto"
	KindSPI     Kind = "spi"
	KindConsole Kind = "console"
	KindSim     Kind = "sim"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindAuto, nil
	case KindAuto, KindSPI, KindConsole, KindSim:
		return k, nil
	}
	return "", fmt.Errorf("unknown led driver %q", s)
}
