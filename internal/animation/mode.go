package animation

import (
	"fmt"
	"strings"

	"github.com/coreman2200/lumistrip/internal/mathx"
)

// Mode is the top level lighting mode. Cycling wraps through all of them.
type Mode uint8

const (
	Static Mode = iota
	MonochromeAnimated
	PaletteAnimated
	Animated

	ModeCount = 4
)

var modeNames = [ModeCount]string{"static", "monochrome", "palette", "animated"}

func (m Mode) String() string {
	if int(m) < ModeCount {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Next is the mode after m, wrapping.
func (m Mode) Next() Mode {
	return Mode(mathx.Wrap(int(m)+1, ModeCount))
}

func ParseMode(name string) (Mode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range modeNames {
		if s == n {
			return Mode(i), nil
		}
	}
	switch n {
	case "monochrome_animated", "mono":
		return MonochromeAnimated, nil
	case "palette_animated":
		return PaletteAnimated, nil
	case "polychrome":
		return Animated, nil
	}
	return Static, fmt.Errorf("unknown mode %q", name)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Selection is everything the user has dialled in. The controller owns the
// single live instance; the engine and renderers read copies of it.
type Selection struct {
	Mode                   Mode    `json:"mode"`
	PatternIndex           int     `json:"pattern"`
	MonochromePatternIndex int     `json:"mono_pattern"`
	StaticColorIndex       int     `json:"static_color"`
	PaletteIndex           int     `json:"palette"`
	PalettePatternIndex    int     `json:"palette_pattern"`
	Hue                    uint8   `json:"hue"`
	SpeedMultiplier        float64 `json:"speed"`
	Brightness             uint8   `json:"brightness"`
	// Temperature in kelvin, 0 for uncorrected.
	Temperature int  `json:"temperature"`
	Standby     bool `json:"standby"`
}

// DefaultSelection starts on the first static colour at full brightness.
func DefaultSelection() Selection {
	return Selection{Mode: Static, SpeedMultiplier: 1, Brightness: 255}
}
