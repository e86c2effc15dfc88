package input

import "time"

// ButtonEvent is one semantic button event.
type ButtonEvent uint8

const (
	Toggle ButtonEvent = iota + 1
	Down
	Up
	Pressed
	LongPress
	LongPressHeld
)

func (e ButtonEvent) String() string {
	switch e {
	case Toggle:
		return "toggle"
	case Down:
		return "down"
	case Up:
		return "up"
	case Pressed:
		return "pressed"
	case LongPress:
		return "long_press"
	case LongPressHeld:
		return "long_press_held"
	}
	return "unknown"
}

// ButtonState is the externally visible phase of a hold.
type ButtonState uint8

const (
	Idle ButtonState = iota
	Debouncing
	Pressing
	LongPressing
)

func (s ButtonState) String() string {
	return [...]string{"idle", "debouncing", "pressed", "long_pressing"}[s]
}

type action uint8

const (
	actionNone action = iota
	actionPress
	actionLongPress
)

const (
	DefaultMinPress  = 50 * time.Millisecond
	DefaultLongPress = 600 * time.Millisecond
)

// ButtonConfig holds the timing of one button. Invert treats a low level as
// pressed, which is how buttons wired to a pull-up read.
type ButtonConfig struct {
	MinPress  time.Duration
	LongPress time.Duration
	Invert    bool
}

// DefaultButtonConfig is an active-low button with the stock timings.
func DefaultButtonConfig() ButtonConfig {
	return ButtonConfig{MinPress: DefaultMinPress, LongPress: DefaultLongPress, Invert: true}
}

// Button debounces a digital level into press, long press and held events.
//
// A hold shorter than MinPress is noise and yields no Pressed. A hold that
// reaches LongPress yields exactly one LongPress, then LongPressHeld on every
// later tick until release, and never a Pressed.
type Button struct {
	cfg ButtonConfig

	previous bool
	current  bool
	action   action
	started  time.Duration
	down     bool

	events []ButtonEvent
}

func NewButton(cfg ButtonConfig) *Button {
	if cfg.MinPress <= 0 {
		cfg.MinPress = DefaultMinPress
	}
	if cfg.LongPress <= 0 {
		cfg.LongPress = DefaultLongPress
	}
	return &Button{cfg: cfg, events: make([]ButtonEvent, 0, 3)}
}

func (b *Button) Config() ButtonConfig { return b.cfg }

// IsDown reports whether a hold is in progress.
func (b *Button) IsDown() bool { return b.down }

// HeldFor is the age of the current hold at now, zero when released.
func (b *Button) HeldFor(now time.Duration) time.Duration {
	if !b.down {
		return 0
	}
	return now - b.started
}

func (b *Button) State() ButtonState {
	switch {
	case !b.down:
		return Idle
	case b.action == actionLongPress:
		return LongPressing
	case b.action == actionPress:
		return Pressing
	}
	return Debouncing
}

// Update advances the machine with one sample and returns the events of this
// tick in firing order. The returned slice is reused by the next call.
func (b *Button) Update(s Sample) []ButtonEvent {
	b.events = b.events[:0]
	b.current = s.Level != b.cfg.Invert

	if b.current != b.previous {
		b.events = append(b.events, Toggle)
		if b.current {
			b.started = s.At
			b.down = true
			b.events = append(b.events, Down)
		} else {
			held := s.At - b.started
			switch {
			case b.action == actionLongPress:
			case held >= b.cfg.LongPress:
				// released on the first sample past the threshold
				b.events = append(b.events, LongPress)
			case held >= b.cfg.MinPress:
				b.events = append(b.events, Pressed)
			}
			b.events = append(b.events, Up)
			b.action = actionNone
			b.started = 0
			b.down = false
		}
	} else if b.down {
		held := s.At - b.started
		switch {
		case held >= b.cfg.LongPress:
			if b.action == actionLongPress {
				b.events = append(b.events, LongPressHeld)
			} else {
				b.action = actionLongPress
				b.events = append(b.events, LongPress)
			}
		case held >= b.cfg.MinPress:
			b.action = actionPress
		}
	}

	b.previous = b.current
	return b.events
}
