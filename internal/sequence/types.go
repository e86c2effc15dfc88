// Package sequence plays input scripts: timed button holds, dial sweeps and
// motion levels fed into a virtual source, so demos and tests can drive the
// controller without hardware.
package sequence

import "time"

// Keyframe is a value at time T. Ease shapes the segment that starts here.
type Keyframe struct {
	T    time.Duration `yaml:"t"`
	V    float64       `yaml:"v"`
	Ease string        `yaml:"ease,omitempty"` // "linear","smooth","cubic"
}

// Envelope is a list of keyframes sorted by T; Eval interpolates between them.
type Envelope struct {
	Keys []Keyframe `yaml:"keys"`
}

// Step is one span of a script. Buttons and Motion are levels applied when
// the step starts and held until a later step changes them; Dial is sampled
// on every tick of the step.
type Step struct {
	Name     string          `yaml:"name,omitempty"`
	Duration time.Duration   `yaml:"duration"`
	Buttons  map[string]bool `yaml:"buttons,omitempty"` // role name -> down
	Dial     *Envelope       `yaml:"dial,omitempty"`
	Motion   *bool           `yaml:"motion,omitempty"`
}

// Script is a full sequence of steps.
type Script struct {
	Version string `yaml:"version"` // e.g. "script.v1"
	Loop    bool   `yaml:"loop,omitempty"`
	Steps   []Step `yaml:"steps"`
}

// PlayerState enumerates player states.
type PlayerState string

const (
	Idle    PlayerState = "idle"
	Running PlayerState = "running"
	Paused  PlayerState = "paused"
)

// Hooks are where the player's output goes.
type Hooks struct {
	SetButton func(role string, down bool)
	SetDial   func(v int)
	SetMotion func(active bool)
	// OnStep is told the name of every step as it starts.
	OnStep func(index int, name string)
}

// Player owns the script timeline and drives Hooks from it.
type Player struct {
	State PlayerState

	script Script
	now    time.Duration // position within the script
	idx    int
	last   time.Duration // clock reading of the previous Follow
	follow bool

	hooks Hooks
}
