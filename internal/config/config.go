// Package config loads config.yaml. Every field has a default, so a file
// only needs the values it changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/lumistrip/internal/animation"
	"github.com/coreman2200/lumistrip/internal/control"
	"github.com/coreman2200/lumistrip/internal/input"
	"github.com/coreman2200/lumistrip/internal/layout"
	"github.com/coreman2200/lumistrip/internal/led"
	"github.com/coreman2200/lumistrip/internal/pixel"
	"github.com/coreman2200/lumistrip/internal/transition"
)

var ErrInvalidConfig = errors.New("invalid config")

// Pins are logical pin numbers. The dial is an analog channel; a negative
// motion pin means no sensor is fitted.
type Pins struct {
	Mode   int `yaml:"mode"`
	Option int `yaml:"option"`
	Dial   int `yaml:"dial"`
	Motion int `yaml:"motion"`
}

// Board maps logical pins onto the host.
type Board struct {
	// GPIOPrefix + pin number is the periph pin name, e.g. GPIO9.
	GPIOPrefix string  `yaml:"gpio_prefix"`
	ADCBus     string  `yaml:"adc_bus"` // I2C bus of the ADS1115, "" = first
	MaxVolts   float64 `yaml:"max_volts"`
}

type Buttons struct {
	MinPress  time.Duration `yaml:"min_press"`
	LongPress time.Duration `yaml:"long_press"`
	ActiveLow bool          `yaml:"active_low"`
}

type Dial struct {
	NoiseFloor int     `yaml:"noise_floor"`
	Alpha      float64 `yaml:"alpha"`
	Initial    int     `yaml:"initial"`
	Max        int     `yaml:"max"`
}

type Brightness struct {
	Min     uint8 `yaml:"min"`
	Max     uint8 `yaml:"max"`
	Initial uint8 `yaml:"initial"`
}

type Speed struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type Transitions struct {
	Mode      transition.Strategy `yaml:"mode"`
	ModeStep  uint8               `yaml:"mode_step"`
	Color     transition.Strategy `yaml:"color"`
	ColorStep uint8               `yaml:"color_step"`
}

type Output struct {
	Driver   led.Kind      `yaml:"driver"`
	Port     string        `yaml:"port"`
	FreqHz   int64         `yaml:"freq_hz"`
	Interval time.Duration `yaml:"console_interval"`
}

type Correction struct {
	Strip       string  `yaml:"strip"` // hex white balance
	Gamma       float64 `yaml:"gamma"`
	Temperature bool    `yaml:"temperature"`
	KelvinMin   int     `yaml:"kelvin_min"`
	KelvinMax   int     `yaml:"kelvin_max"`
}

type Power struct {
	BudgetMA float64 `yaml:"budget_ma"` // 0 = unlimited
	WhiteCap int     `yaml:"white_cap"` // max R+G+B per LED, 765 = none
}

type Config struct {
	LEDs int `yaml:"leds"`
	FPS  int `yaml:"fps"`
	// Grid folds the strip for the 2D patterns; empty is one row.
	Grid layout.Grid `yaml:"grid,omitempty"`

	Pins    Pins    `yaml:"pins"`
	Board   Board   `yaml:"board"`
	Buttons Buttons `yaml:"buttons"`
	Dial    Dial    `yaml:"dial"`

	Brightness       Brightness     `yaml:"brightness"`
	Speed            Speed          `yaml:"speed"`
	QuickMode        animation.Mode `yaml:"quick_mode"`
	QuickModeEnabled bool           `yaml:"quick_mode_enabled"`
	Transitions      Transitions    `yaml:"transitions"`
	StaticColors     []string       `yaml:"static_colors"`
	IdleTimeout      time.Duration  `yaml:"idle_timeout"`

	Output     Output     `yaml:"output"`
	Correction Correction `yaml:"correction"`
	Power      Power      `yaml:"power"`

	PreviewAddr  string `yaml:"preview_addr"` // "" disables the preview server
	MetricsEvery uint64 `yaml:"metrics_every"`
}

func Default() *Config {
	colors := make([]string, 0, len(animation.DefaultStaticColors()))
	for _, c := range animation.DefaultStaticColors() {
		colors = append(colors, c.Hex())
	}
	return &Config{
		LEDs:    150,
		FPS:     60,
		Pins:    Pins{Mode: 9, Option: 8, Dial: 0, Motion: -1},
		Board:   Board{GPIOPrefix: "GPIO", MaxVolts: 3.3},
		Buttons: Buttons{MinPress: input.DefaultMinPress, LongPress: input.DefaultLongPress, ActiveLow: true},
		Dial: Dial{
			NoiseFloor: input.DefaultNoiseFloor,
			Alpha:      0.5,
			Initial:    input.DefaultPotInitial,
			Max:        1023,
		},
		Brightness:       Brightness{Min: 5, Max: 255, Initial: 255},
		Speed:            Speed{Min: 0.1, Max: 4},
		QuickMode:        animation.PaletteAnimated,
		QuickModeEnabled: true,
		Transitions: Transitions{
			Mode:      transition.Linear,
			ModeStep:  transition.DefaultLinearStep,
			Color:     transition.Fade,
			ColorStep: transition.DefaultFadeStep,
		},
		StaticColors: colors,
		Output:       Output{Driver: led.KindAuto, FreqHz: 2_500_000, Interval: 100 * time.Millisecond},
		Correction:   Correction{Strip: "#ffffff", Gamma: 1, KelvinMin: 1900, KelvinMax: 9000},
		Power:        Power{WhiteCap: 765},
		PreviewAddr:  ":8080",
		MetricsEvery: 600,
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

func (c *Config) Validate() error {
	switch {
	case c.LEDs <= 0:
		return invalid("leds must be positive, got %d", c.LEDs)
	case c.FPS <= 0:
		return invalid("fps must be positive, got %d", c.FPS)
	case c.Pins.Mode == c.Pins.Option:
		return invalid("mode and option share pin %d", c.Pins.Mode)
	case c.Buttons.MinPress <= 0 || c.Buttons.LongPress <= c.Buttons.MinPress:
		return invalid("need 0 < min_press < long_press, got %v and %v", c.Buttons.MinPress, c.Buttons.LongPress)
	case c.Dial.NoiseFloor < 0:
		return invalid("noise_floor must not be negative")
	case c.Dial.Max <= 0:
		return invalid("dial max must be positive")
	case c.Brightness.Min > c.Brightness.Max:
		return invalid("brightness min %d above max %d", c.Brightness.Min, c.Brightness.Max)
	case c.Speed.Min < 0 || c.Speed.Min > c.Speed.Max:
		return invalid("speed range %v..%v", c.Speed.Min, c.Speed.Max)
	case c.Correction.KelvinMin > c.Correction.KelvinMax:
		return invalid("kelvin range %d..%d", c.Correction.KelvinMin, c.Correction.KelvinMax)
	case c.Power.WhiteCap < 0 || c.Power.WhiteCap > 765:
		return invalid("white_cap must be in 0..765")
	}
	if err := c.Grid.Validate(c.LEDs); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Colors(); err != nil {
		return err
	}
	if _, err := pixel.ParseHex(c.Correction.Strip); err != nil {
		return invalid("strip balance: %v", err)
	}
	return nil
}

// Colors parses the static colour list. An empty list is the built-in one.
func (c *Config) Colors() ([]pixel.RGB, error) {
	out := make([]pixel.RGB, 0, len(c.StaticColors))
	for i, s := range c.StaticColors {
		rgb, err := pixel.ParseHex(s)
		if err != nil {
			return nil, invalid("static_colors[%d]: %v", i, err)
		}
		out = append(out, rgb)
	}
	return out, nil
}

// Layout is the grid the patterns draw on.
func (c *Config) Layout() layout.Grid { return c.Grid.Fit(c.LEDs) }

func (c *Config) ButtonConfig() input.ButtonConfig {
	return input.ButtonConfig{MinPress: c.Buttons.MinPress, LongPress: c.Buttons.LongPress, Invert: c.Buttons.ActiveLow}
}

func (c *Config) PotConfig() input.PotConfig {
	return input.PotConfig{NoiseFloor: c.Dial.NoiseFloor, Alpha: c.Dial.Alpha, Initial: c.Dial.Initial}
}

// Inputs builds the handler set: mode and option buttons, the dial, and the
// motion sensor when one is fitted.
func (c *Config) Inputs() *input.Set {
	set := input.NewSet(
		input.NewButtonHandler(input.RoleMode, c.Pins.Mode, c.ButtonConfig()),
		input.NewButtonHandler(input.RoleOption, c.Pins.Option, c.ButtonConfig()),
		input.NewPotHandler(input.RoleDial, c.Pins.Dial, c.PotConfig()),
	)
	if c.Pins.Motion >= 0 {
		set.Add(input.NewMotionHandler(input.RoleMotion, c.Pins.Motion))
	}
	return set
}

func (c *Config) Control() control.Config {
	cc := control.DefaultConfig()
	cc.QuickMode = c.QuickMode
	cc.QuickModeEnabled = c.QuickModeEnabled
	cc.ModeStrategy = c.Transitions.Mode
	cc.ModeStep = c.Transitions.ModeStep
	cc.ColorStrategy = c.Transitions.Color
	cc.ColorStep = c.Transitions.ColorStep
	cc.AnalogMax = c.Dial.Max
	cc.MinBrightness = c.Brightness.Min
	cc.MaxBrightness = c.Brightness.Max
	cc.SpeedMin = c.Speed.Min
	cc.SpeedMax = c.Speed.Max
	cc.Temperature = c.Correction.Temperature
	cc.KelvinMin = c.Correction.KelvinMin
	cc.KelvinMax = c.Correction.KelvinMax
	cc.IdleTimeout = c.IdleTimeout
	return cc
}

// Selection is the power-on selection.
func (c *Config) Selection() animation.Selection {
	sel := animation.DefaultSelection()
	sel.Brightness = c.Brightness.Initial
	return sel
}

func (c *Config) LEDOptions() led.Options {
	return led.Options{
		Kind:     c.Output.Driver,
		Count:    c.LEDs,
		Port:     c.Output.Port,
		Freq:     physic.Frequency(c.Output.FreqHz) * physic.Hertz,
		Interval: c.Output.Interval,
	}
}

// PixelCorrection builds the output colour stage. Validate has already
// checked the strip colour.
func (c *Config) PixelCorrection() *pixel.Correction {
	corr := pixel.Uncorrected()
	if rgb, err := pixel.ParseHex(c.Correction.Strip); err == nil {
		corr.Strip = rgb
	}
	if c.Correction.Gamma > 0 {
		corr.Gamma = c.Correction.Gamma
	}
	return corr
}
