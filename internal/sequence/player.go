package sequence

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/lumistrip/internal/input"
)

var ErrEmptyScript = errors.New("script has no steps")

// Load reads a YAML script and sorts every envelope by time.
func Load(path string) (Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	var s Script
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	for i := range s.Steps {
		if d := s.Steps[i].Dial; d != nil {
			sort.SliceStable(d.Keys, func(a, b int) bool { return d.Keys[a].T < d.Keys[b].T })
		}
	}
	return s, s.Validate()
}

func (s Script) Validate() error {
	if len(s.Steps) == 0 {
		return ErrEmptyScript
	}
	for i, st := range s.Steps {
		if st.Duration <= 0 {
			return fmt.Errorf("step %d (%s): duration must be positive", i, st.Name)
		}
		for role := range st.Buttons {
			if _, err := input.ParseRole(role); err != nil {
				return fmt.Errorf("step %d (%s): %w", i, st.Name, err)
			}
		}
	}
	return nil
}

// Duration is the length of one pass.
func (s Script) Duration() time.Duration {
	var total time.Duration
	for _, st := range s.Steps {
		total += st.Duration
	}
	return total
}

func NewPlayer(h Hooks) *Player {
	return &Player{State: Idle, hooks: h}
}

// Load replaces the script and rewinds to Idle.
func (p *Player) Load(s Script) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.script = s
	p.Stop()
	return nil
}

// Start runs from the current position and applies the current step.
func (p *Player) Start() {
	if p.State == Running || len(p.script.Steps) == 0 {
		return
	}
	p.State = Running
	p.enter(p.idx)
}

func (p *Player) Pause() { p.State = Paused }

func (p *Player) Resume() {
	if p.State == Paused {
		p.State = Running
	}
}

// Stop rewinds to the first step.
func (p *Player) Stop() {
	p.State = Idle
	p.now = 0
	p.idx = 0
	p.follow = false
}

// Position is the time into the current pass.
func (p *Player) Position() time.Duration { return p.now }

// Step is the index of the current step.
func (p *Player) Step() int { return p.idx }

// Follow advances by the time since the previous call. It has the shape of
// the engine's BeforeTick hook.
func (p *Player) Follow(now time.Duration) {
	if !p.follow {
		p.follow = true
		p.last = now
		return
	}
	dt := now - p.last
	p.last = now
	p.Tick(dt)
}

// Tick advances by dt, entering every step it crosses so no button level is
// skipped, and samples the dial of the step it lands in.
func (p *Player) Tick(dt time.Duration) {
	if p.State != Running || dt <= 0 {
		return
	}
	p.now += dt
	for {
		start := p.stepStart(p.idx)
		st := p.script.Steps[p.idx]
		if p.now < start+st.Duration {
			break
		}
		next := p.idx + 1
		if next >= len(p.script.Steps) {
			if !p.script.Loop {
				p.State = Idle
				return
			}
			next = 0
			p.now -= p.script.Duration()
		}
		p.enter(next)
	}
	p.sampleDial()
}

func (p *Player) stepStart(i int) time.Duration {
	var acc time.Duration
	for j := 0; j < i; j++ {
		acc += p.script.Steps[j].Duration
	}
	return acc
}

func (p *Player) enter(i int) {
	p.idx = i
	st := p.script.Steps[i]
	if p.hooks.OnStep != nil {
		p.hooks.OnStep(i, st.Name)
	}
	if p.hooks.SetButton != nil {
		// map order is random; apply in a fixed order so hooks see a stable sequence
		roles := make([]string, 0, len(st.Buttons))
		for r := range st.Buttons {
			roles = append(roles, r)
		}
		sort.Strings(roles)
		for _, r := range roles {
			p.hooks.SetButton(r, st.Buttons[r])
		}
	}
	if st.Motion != nil && p.hooks.SetMotion != nil {
		p.hooks.SetMotion(*st.Motion)
	}
	p.sampleDial()
}

func (p *Player) sampleDial() {
	st := p.script.Steps[p.idx]
	if st.Dial == nil || p.hooks.SetDial == nil {
		return
	}
	p.hooks.SetDial(int(math.Round(st.Dial.Eval(p.now - p.stepStart(p.idx)))))
}

// VirtualHooks point a player at the pins of set inside v. Button levels
// follow each handler's polarity.
func VirtualHooks(v *input.Virtual, set *input.Set) Hooks {
	pinOf := func(k input.Kind) (int, bool) {
		for _, h := range set.Handlers() {
			if h.Kind() == k {
				return h.Pin(), true
			}
		}
		return 0, false
	}
	h := Hooks{
		SetButton: func(role string, down bool) {
			r, err := input.ParseRole(role)
			if err != nil {
				return
			}
			if b := set.Button(r); b != nil {
				v.SetLevel(b.Pin(), down != b.Config().Invert)
			}
		},
	}
	if pin, ok := pinOf(input.KindPotentiometer); ok {
		h.SetDial = func(val int) { v.SetValue(pin, val) }
	}
	if pin, ok := pinOf(input.KindMotion); ok {
		h.SetMotion = func(active bool) { v.SetLevel(pin, active) }
	}
	return h
}
