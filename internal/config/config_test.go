package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/lumistrip/internal/animation"
	"github.com/coreman2200/lumistrip/internal/input"
	"github.com/coreman2200/lumistrip/internal/led"
	"github.com/coreman2200/lumistrip/internal/pixel"
	"github.com/coreman2200/lumistrip/internal/transition"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 150, c.LEDs)
	assert.Equal(t, Pins{Mode: 9, Option: 8, Dial: 0, Motion: -1}, c.Pins)
	assert.Equal(t, 50*time.Millisecond, c.Buttons.MinPress)
	assert.Equal(t, 600*time.Millisecond, c.Buttons.LongPress)
	assert.Equal(t, 5, c.Dial.NoiseFloor)
	assert.Equal(t, 150, c.Layout().Count())

	colors, err := c.Colors()
	require.NoError(t, err)
	assert.Equal(t, animation.DefaultStaticColors(), colors)
	assert.Len(t, c.Inputs().Handlers(), 3)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
leds: 60
grid: {columns: 10}
pins: {motion: 4}
buttons: {long_press: 1s}
quick_mode: animated
transitions: {mode: fade, mode_step: 3}
static_colors: ["#ff0000", "00ff00"]
output: {driver: console}
correction: {temperature: true, gamma: 2.2}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 60, c.LEDs)
	assert.Equal(t, 9, c.Pins.Mode, "unset fields keep defaults")
	assert.Equal(t, time.Second, c.Buttons.LongPress)
	assert.Equal(t, animation.Animated, c.QuickMode)
	assert.Equal(t, transition.Fade, c.Transitions.Mode)
	assert.Equal(t, led.KindConsole, c.Output.Driver)

	g := c.Layout()
	assert.Equal(t, 10, g.Columns)
	assert.Equal(t, 6, g.Rows)

	colors, err := c.Colors()
	require.NoError(t, err)
	assert.Equal(t, []pixel.RGB{pixel.Red, pixel.Green}, colors)

	assert.Len(t, c.Inputs().Handlers(), 4)
	assert.NotNil(t, c.Inputs().Button(input.RoleOption))

	cc := c.Control()
	assert.True(t, cc.Temperature)
	assert.Equal(t, uint8(3), cc.ModeStep)
	assert.Equal(t, 2.2, c.PixelCorrection().Gamma)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Default()
	c.LEDs = 30
	c.IdleTimeout = 5 * time.Minute
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"no leds":         func(c *Config) { c.LEDs = 0 },
		"shared pin":      func(c *Config) { c.Pins.Option = c.Pins.Mode },
		"long before min": func(c *Config) { c.Buttons.LongPress = 10 * time.Millisecond },
		"brightness":      func(c *Config) { c.Brightness.Min = 200; c.Brightness.Max = 100 },
		"colour":          func(c *Config) { c.StaticColors = []string{"nope"} },
		"grid too big":    func(c *Config) { c.Grid.Columns = 20; c.Grid.Rows = 20 },
		"white cap":       func(c *Config) { c.Power.WhiteCap = 800 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("leds: [1"), 0o644))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
