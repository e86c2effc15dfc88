//go:build !tinygo

package led

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
)

// DefaultSPIFreq clocks three SPI bits per NRZ bit for an 800kHz strip.
const DefaultSPIFreq = 2500 * physic.KiloHertz

// SPI drives a WS2812 strip through an SPI port with nrzled.
type SPI struct {
	mu     sync.Mutex
	closer func() error
	dev    *nrzled.Dev
	count  int
}

// OpenSPI opens the named port ("" for the first one) from the periph
// registry. host.Init must have run.
func OpenSPI(name string, count int, freq physic.Frequency) (*SPI, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", name, err)
	}
	s, err := NewSPI(p, count, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	s.closer = p.Close
	return s, nil
}

// NewSPI wraps an already open port.
func NewSPI(p spi.Port, count int, freq physic.Frequency) (*SPI, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if freq <= 0 {
		freq = DefaultSPIFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{NumPixels: count, Channels: 3, Freq: freq})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &SPI{dev: d, count: count}, nil
}

func (s *SPI) String() string { return s.dev.String() }

func (s *SPI) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return ErrClosed
	}
	if err := checkSize(rgb, s.count); err != nil {
		return err
	}
	if _, err := s.dev.Write(rgb); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the port.
func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return nil
	}
	err := s.dev.Halt()
	s.dev = nil
	if s.closer != nil {
		if cerr := s.closer(); err == nil {
			err = cerr
		}
	}
	return err
}
