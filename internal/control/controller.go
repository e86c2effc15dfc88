// Package control owns the live Selection and turns input events into
// changes of it.
package control

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/lumistrip/internal/animation"
	"github.com/coreman2200/lumistrip/internal/input"
	"github.com/coreman2200/lumistrip/internal/mathx"
	"github.com/coreman2200/lumistrip/internal/transition"
)

type Config struct {
	// QuickMode is the long-press target of the Mode button.
	QuickMode        animation.Mode
	QuickModeEnabled bool

	ModeStrategy  transition.Strategy
	ModeStep      uint8
	ColorStrategy transition.Strategy
	ColorStep     uint8

	AnalogMax     int
	MinBrightness uint8
	MaxBrightness uint8
	SpeedMin      float64
	SpeedMax      float64

	// Temperature enables the Option+dial colour temperature adjustment.
	Temperature bool
	KelvinMin   int
	KelvinMax   int

	// IdleTimeout puts the strip in standby after that long without motion.
	// Zero never sleeps.
	IdleTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		QuickMode:        animation.PaletteAnimated,
		QuickModeEnabled: true,
		ModeStrategy:     transition.Linear,
		ColorStrategy:    transition.Fade,
		AnalogMax:        1023,
		MinBrightness:    5,
		MaxBrightness:    255,
		SpeedMin:         0.1,
		SpeedMax:         4,
		KelvinMin:        1900,
		KelvinMax:        9000,
	}
}

type roleFunc func(c *Controller)

// Controller applies button, dial and motion events to the selection. It is
// not safe for concurrent use; the render loop is its only caller.
type Controller struct {
	cfg Config
	lib *animation.Library
	ctx *animation.Context
	sel animation.Selection

	held     map[input.Role]bool
	consumed map[input.Role]bool
	// long marks a hold that reached LongPress; its action runs on release
	long map[input.Role]bool

	// SettleDial snaps the dial filter to its raw reading and returns it.
	// It is called when a modifier that moved the dial is released.
	SettleDial func() (int, bool)
	settledAt  time.Duration
	settled    bool

	pending    *transition.State
	lastMotion time.Duration

	optionPress [animation.ModeCount]roleFunc
	optionLong  [animation.ModeCount]roleFunc
}

// New creates a controller starting at sel. ctx is read for the hue when
// picking transition targets.
func New(cfg Config, lib *animation.Library, ctx *animation.Context, sel animation.Selection) *Controller {
	if cfg.AnalogMax <= 0 {
		cfg.AnalogMax = 1023
	}
	if cfg.MaxBrightness < cfg.MinBrightness {
		cfg.MinBrightness, cfg.MaxBrightness = cfg.MaxBrightness, cfg.MinBrightness
	}
	c := &Controller{
		cfg:      cfg,
		lib:      lib,
		ctx:      ctx,
		sel:      sel,
		held:     map[input.Role]bool{},
		consumed: map[input.Role]bool{},
		long:     map[input.Role]bool{},
	}
	c.sel.Mode = animation.Mode(mathx.Wrap(int(sel.Mode), animation.ModeCount))
	c.sel.Hue = lib.StaticColor(sel.StaticColorIndex).HSV().H

	c.optionPress = [animation.ModeCount]roleFunc{
		animation.Static:             (*Controller).nextStaticColor,
		animation.MonochromeAnimated: (*Controller).nextMonochromePattern,
		animation.PaletteAnimated:    (*Controller).nextPalette,
		animation.Animated:           (*Controller).nextPattern,
	}
	c.optionLong = [animation.ModeCount]roleFunc{
		animation.MonochromeAnimated: (*Controller).nextMonochromeColor,
		animation.PaletteAnimated:    (*Controller).nextPalettePattern,
	}
	return c
}

// Selection returns a copy of the live selection.
func (c *Controller) Selection() animation.Selection { return c.sel }

// TakeTransition hands over the transition armed since the last call.
func (c *Controller) TakeTransition() (*transition.State, bool) {
	t := c.pending
	c.pending = nil
	return t, t != nil
}

// Held reports whether the button with role r is down.
func (c *Controller) Held(r input.Role) bool { return c.held[r] }

// Handle applies one event.
func (c *Controller) Handle(ev input.Event) {
	switch ev.Kind {
	case input.KindButton:
		c.handleButton(ev)
	case input.KindPotentiometer:
		c.handleDial(ev)
	case input.KindMotion:
		c.handleMotion(ev)
	}
}

func (c *Controller) handleButton(ev input.Event) {
	switch ev.Button {
	case input.Down:
		c.held[ev.Role] = true
		c.consumed[ev.Role] = false
		c.long[ev.Role] = false
		if c.sel.Standby {
			c.wake(ev.At)
		}
	case input.Up:
		c.held[ev.Role] = false
		if c.consumed[ev.Role] {
			c.settle(ev)
			return
		}
		if c.long[ev.Role] {
			c.long[ev.Role] = false
			c.longAction(ev.Role)
		}
	case input.Pressed:
		if c.consumed[ev.Role] {
			return
		}
		switch ev.Role {
		case input.RoleMode:
			c.nextMode()
		case input.RoleOption:
			if f := c.optionPress[c.sel.Mode]; f != nil {
				f(c)
			}
		}
	case input.LongPress:
		// the dial may still turn this hold into a modifier, so the
		// action waits for the release
		c.long[ev.Role] = true
	}
}

func (c *Controller) longAction(r input.Role) {
	switch r {
	case input.RoleMode:
		c.quickMode()
	case input.RoleOption:
		if f := c.optionLong[c.sel.Mode]; f != nil {
			f(c)
		}
	}
}

// settle ends a modifier hold: the dial lands on its raw reading for the
// released modifier, and the smoothing tail of this tick is dropped so it
// does not spill into brightness.
func (c *Controller) settle(ev input.Event) {
	if c.SettleDial == nil {
		return
	}
	v, ok := c.SettleDial()
	if !ok {
		return
	}
	c.settled, c.settledAt = true, ev.At
	switch ev.Role {
	case input.RoleMode:
		c.setSpeed(v)
	case input.RoleOption:
		c.setTemperature(v)
	}
}

// handleDial picks one meaning for the dial from the buttons held right now:
// Mode sets speed, Option sets temperature, neither sets brightness.
func (c *Controller) handleDial(ev input.Event) {
	if c.settled && ev.At == c.settledAt {
		return
	}
	c.settled = false
	switch {
	case c.held[input.RoleMode]:
		c.consumed[input.RoleMode] = true
		c.setSpeed(ev.Value)
	case c.held[input.RoleOption]:
		if !c.cfg.Temperature {
			return
		}
		c.consumed[input.RoleOption] = true
		c.setTemperature(ev.Value)
	default:
		c.sel.Brightness = uint8(mathx.Map(ev.Value, 0, c.cfg.AnalogMax, int(c.cfg.MinBrightness), int(c.cfg.MaxBrightness)))
		log.Debug().Uint8("brightness", c.sel.Brightness).Int("raw", ev.Value).Msg("brightness")
	}
}

func (c *Controller) setSpeed(v int) {
	c.sel.SpeedMultiplier = mathx.MapFloat(v, 0, c.cfg.AnalogMax, c.cfg.SpeedMin, c.cfg.SpeedMax)
	log.Debug().Float64("speed", c.sel.SpeedMultiplier).Int("raw", v).Msg("speed")
}

func (c *Controller) setTemperature(v int) {
	c.sel.Temperature = mathx.Map(v, 0, c.cfg.AnalogMax, c.cfg.KelvinMin, c.cfg.KelvinMax)
	log.Debug().Int("kelvin", c.sel.Temperature).Int("raw", v).Msg("temperature")
}

func (c *Controller) handleMotion(ev input.Event) {
	switch ev.Motion {
	case input.MotionStart:
		c.lastMotion = ev.At
		if c.sel.Standby {
			c.wake(ev.At)
		}
	case input.MotionContinued:
		c.lastMotion = ev.At
	case input.MotionIdle:
		if c.cfg.IdleTimeout > 0 && !c.sel.Standby && ev.At-c.lastMotion >= c.cfg.IdleTimeout {
			c.sel.Standby = true
			c.pending = nil
			log.Debug().Dur("idle", ev.At-c.lastMotion).Msg("standby")
		}
	}
}

func (c *Controller) wake(at time.Duration) {
	c.lastMotion = at
	c.sel.Standby = false
	c.arm(c.cfg.ModeStrategy, c.cfg.ModeStep)
	log.Debug().Msg("wake")
}

func (c *Controller) arm(s transition.Strategy, step uint8) {
	st := transition.New(c.lib.Representative(c.sel, c.ctx), s)
	st.Step = step
	c.pending = st
}

// enter switches to m with its pattern back at the start.
func (c *Controller) enter(m animation.Mode) {
	c.sel.Mode = m
	switch m {
	case animation.MonochromeAnimated:
		c.sel.MonochromePatternIndex = 0
	case animation.PaletteAnimated:
		c.sel.PalettePatternIndex = 0
	case animation.Animated:
		c.sel.PatternIndex = 0
	}
	c.arm(c.cfg.ModeStrategy, c.cfg.ModeStep)
	log.Debug().Stringer("mode", m).Str("pattern", c.lib.Pattern(c.sel).Name).Msg("mode")
}

func (c *Controller) nextMode() {
	c.enter(c.sel.Mode.Next())
}

func (c *Controller) quickMode() {
	if !c.cfg.QuickModeEnabled || c.sel.Mode == c.cfg.QuickMode {
		return
	}
	c.enter(c.cfg.QuickMode)
}

func (c *Controller) nextStaticColor() {
	c.stepStaticColor()
	c.arm(c.cfg.ColorStrategy, c.cfg.ColorStep)
}

// nextMonochromeColor changes the hue of the monochrome patterns. The
// pattern keeps running, so nothing is armed.
func (c *Controller) nextMonochromeColor() {
	c.stepStaticColor()
}

func (c *Controller) stepStaticColor() {
	c.sel.StaticColorIndex = mathx.Wrap(c.sel.StaticColorIndex+1, c.lib.Counts().StaticColors)
	col := c.lib.StaticColor(c.sel.StaticColorIndex)
	c.sel.Hue = col.HSV().H
	log.Debug().Int("index", c.sel.StaticColorIndex).Str("color", col.Hex()).Msg("static color")
}

func (c *Controller) nextMonochromePattern() {
	c.sel.MonochromePatternIndex = mathx.Wrap(c.sel.MonochromePatternIndex+1, c.lib.Counts().MonochromePatterns)
	log.Debug().Str("pattern", c.lib.Pattern(c.sel).Name).Msg("monochrome pattern")
}

func (c *Controller) nextPalette() {
	c.sel.PaletteIndex = mathx.Wrap(c.sel.PaletteIndex+1, c.lib.Counts().Palettes)
	log.Debug().Str("palette", c.lib.Palette(c.sel.PaletteIndex).Name).Msg("palette")
}

func (c *Controller) nextPalettePattern() {
	c.sel.PalettePatternIndex = mathx.Wrap(c.sel.PalettePatternIndex+1, c.lib.Counts().PalettePatterns)
	log.Debug().Str("pattern", c.lib.Pattern(c.sel).Name).Msg("palette pattern")
}

func (c *Controller) nextPattern() {
	c.sel.PatternIndex = mathx.Wrap(c.sel.PatternIndex+1, c.lib.Counts().Patterns)
	log.Debug().Str("pattern", c.lib.Pattern(c.sel).Name).Msg("pattern")
}
