// Package transition blends the frame buffer toward a solid target colour
// over several ticks.
package transition

import (
	"fmt"
	"strings"

	"github.com/coreman2200/lumistrip/internal/mathx"
	"github.com/coreman2200/lumistrip/internal/pixel"
)

// Strategy selects how pixels move toward the target.
type Strategy uint8

const (
	// Linear wipes the target in from the first pixel.
	Linear Strategy = iota
	// Fade cross-fades every pixel by the same amount.
	Fade
)

const (
	DefaultLinearStep uint8 = 5
	DefaultFadeStep   uint8 = 1
)

func (s Strategy) String() string {
	switch s {
	case Linear:
		return "linear"
	case Fade:
		return "fade"
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// DefaultStep is the per-tick progress increment of s.
func (s Strategy) DefaultStep() uint8 {
	if s == Fade {
		return DefaultFadeStep
	}
	return DefaultLinearStep
}

// ParseStrategy accepts the names used in config files.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return Linear, nil
	case "fade":
		return Fade, nil
	}
	return Linear, fmt.Errorf("unknown transition strategy %q", name)
}

func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// State is one in-flight transition. Progress only grows; at 255 the frame
// equals Target on every pixel.
type State struct {
	Progress uint8
	Target   pixel.RGB
	Strategy Strategy
	// Step overrides the strategy's default increment when non-zero.
	Step uint8
}

// New arms a transition toward target.
func New(target pixel.RGB, s Strategy) *State {
	return &State{Target: target, Strategy: s}
}

func (s *State) Done() bool { return s.Progress == 255 }

func (s *State) step() uint8 {
	if s.Step > 0 {
		return s.Step
	}
	return s.Strategy.DefaultStep()
}

// Apply advances st by one step and blends f toward the target. It returns
// true once the transition is complete; a completed state leaves f alone.
func Apply(f pixel.Frame, st *State) bool {
	if st == nil || st.Done() {
		return true
	}
	st.Progress = mathx.QAdd8(st.Progress, st.step())

	switch st.Strategy {
	case Fade:
		for i := range f {
			f[i] = pixel.Blend(f[i], st.Target, st.Progress)
		}
	default:
		limit := mathx.Map(int(st.Progress), 0, 255, 0, len(f))
		for i := range f {
			if i > limit {
				break
			}
			f[i] = st.Target
		}
	}
	return st.Done()
}
