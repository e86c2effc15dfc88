//go:build !tinygo

package led

import (
	"time"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
)

type Options struct {
	Kind     Kind
	Count    int
	Port     string
	Freq     physic.Frequency
	Interval time.Duration
	// Fallback is told when auto could not open SPI.
	Fallback func(err error)
}

// Open builds the driver for opts. Auto tries SPI first and falls back to
// the console when no port can be opened.
func Open(opts Options) (Driver, error) {
	switch opts.Kind {
	case KindSPI:
		return OpenSPI(opts.Port, opts.Count, opts.Freq)
	case KindConsole:
		return NewConsole(opts.Count, opts.Interval), nil
	case KindSim:
		return NewSim(opts.Count), nil
	}
	d, err := OpenSPI(opts.Port, opts.Count, opts.Freq)
	if err != nil {
		log.Warn().Err(err).Msg("no SPI port, printing at the console")
		if opts.Fallback != nil {
			opts.Fallback(err)
		}
		return NewConsole(opts.Count, opts.Interval), nil
	}
	return d, nil
}
