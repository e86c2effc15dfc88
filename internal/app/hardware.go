//go:build !tinygo

package app

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/lumistrip/internal/board"
	"github.com/coreman2200/lumistrip/internal/config"
	diag "github.com/coreman2200/lumistrip/internal/diagnostics"
	"github.com/coreman2200/lumistrip/internal/led"
)

// OpenBoard binds the configured pins on the host. The dial needs an
// ADS1115, since a Pi has no analog inputs.
func OpenBoard(cfg *config.Config) (*board.Periph, error) {
	if err := board.Init(); err != nil {
		return nil, err
	}
	p := board.NewPeriph()
	name := func(pin int) string { return cfg.Board.GPIOPrefix + strconv.Itoa(pin) }
	pins := []int{cfg.Pins.Mode, cfg.Pins.Option}
	if cfg.Pins.Motion >= 0 {
		pins = append(pins, cfg.Pins.Motion)
	}
	for _, pin := range pins {
		if err := p.AddDigital(pin, name(pin)); err != nil {
			_ = p.Close()
			return nil, err
		}
	}
	adc, err := board.OpenADS1115(cfg.Board.ADCBus, cfg.Pins.Dial, cfg.Board.MaxVolts)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("dial: %w", err)
	}
	p.AddAnalog(cfg.Pins.Dial, adc)
	log.Info().Ints("digital", pins).Int("dial", cfg.Pins.Dial).Msg("board ready")
	return p, nil
}

// OpenOutput opens the configured driver. Diagnostics raised on the way
// are returned for the caller to report once the core exists.
func OpenOutput(cfg *config.Config) (led.Driver, string, []diag.Diagnostic, error) {
	var diags []diag.Diagnostic
	opts := cfg.LEDOptions()
	used := string(opts.Kind)
	opts.Fallback = func(err error) {
		used = string(led.KindConsole)
		diags = append(diags, diag.DriverFallback(string(led.KindSPI), used, err))
	}
	drv, err := led.Open(opts)
	if err != nil {
		return nil, "", diags, err
	}
	if used == string(led.KindAuto) {
		used = string(led.KindSPI)
	}
	return drv, used, diags, nil
}
