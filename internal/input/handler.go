package input

import (
	"fmt"
	"time"
)

// Kind is the closed set of handler types.
type Kind uint8

const (
	KindButton Kind = iota + 1
	KindPotentiometer
	KindMotion
)

func (k Kind) String() string {
	switch k {
	case KindButton:
		return "button"
	case KindPotentiometer:
		return "potentiometer"
	case KindMotion:
		return "motion"
	}
	return "unknown"
}

// Role names what a physical input is for. The controller dispatches on it.
type Role uint8

const (
	RoleMode Role = iota + 1
	RoleOption
	RoleDial
	RoleMotion
)

func (r Role) String() string {
	switch r {
	case RoleMode:
		return "mode"
	case RoleOption:
		return "option"
	case RoleDial:
		return "dial"
	case RoleMotion:
		return "motion"
	}
	return "unknown"
}

// ParseRole is the inverse of Role.String.
func ParseRole(name string) (Role, error) {
	for r := RoleMode; r <= RoleMotion; r++ {
		if r.String() == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", name)
}

// Event is one semantic event produced by a handler. Only the field that
// matches Kind is meaningful.
type Event struct {
	Kind   Kind
	Role   Role
	Pin    int
	At     time.Duration
	Button ButtonEvent
	Value  int
	Motion MotionEvent
}

func (e Event) String() string {
	switch e.Kind {
	case KindButton:
		return fmt.Sprintf("%s:%s", e.Role, e.Button)
	case KindPotentiometer:
		return fmt.Sprintf("%s:%d", e.Role, e.Value)
	case KindMotion:
		return fmt.Sprintf("%s:%s", e.Role, e.Motion)
	}
	return "unknown"
}

// Handler is a polled input. Poll appends this tick's events to dst.
type Handler interface {
	Kind() Kind
	Role() Role
	Pin() int
	Setup(src Source)
	Poll(src Source, dst []Event) []Event
}

type ButtonHandler struct {
	*Button
	role Role
	pin  int
}

func NewButtonHandler(role Role, pin int, cfg ButtonConfig) *ButtonHandler {
	return &ButtonHandler{Button: NewButton(cfg), role: role, pin: pin}
}

func (h *ButtonHandler) Kind() Kind { return KindButton }
func (h *ButtonHandler) Role() Role { return h.role }
func (h *ButtonHandler) Pin() int   { return h.pin }

func (h *ButtonHandler) Setup(src Source) {
	if pu, ok := src.(PullUpper); ok && h.cfg.Invert {
		pu.PullUp(h.pin)
	}
}

func (h *ButtonHandler) Poll(src Source, dst []Event) []Event {
	s := DigitalSample(src, h.pin)
	for _, ev := range h.Update(s) {
		dst = append(dst, Event{Kind: KindButton, Role: h.role, Pin: h.pin, At: s.At, Button: ev})
	}
	return dst
}

type PotHandler struct {
	*Potentiometer
	role Role
	pin  int
}

func NewPotHandler(role Role, pin int, cfg PotConfig) *PotHandler {
	return &PotHandler{Potentiometer: NewPotentiometer(cfg), role: role, pin: pin}
}

func (h *PotHandler) Kind() Kind     { return KindPotentiometer }
func (h *PotHandler) Role() Role     { return h.role }
func (h *PotHandler) Pin() int       { return h.pin }
func (h *PotHandler) Setup(_ Source) {}

func (h *PotHandler) Poll(src Source, dst []Event) []Event {
	s := AnalogSample(src, h.pin)
	if v, ok := h.Update(s); ok {
		dst = append(dst, Event{Kind: KindPotentiometer, Role: h.role, Pin: h.pin, At: s.At, Value: v})
	}
	return dst
}

type MotionHandler struct {
	*MotionSensor
	role Role
	pin  int
}

func NewMotionHandler(role Role, pin int) *MotionHandler {
	return &MotionHandler{MotionSensor: NewMotionSensor(), role: role, pin: pin}
}

func (h *MotionHandler) Kind() Kind     { return KindMotion }
func (h *MotionHandler) Role() Role     { return h.role }
func (h *MotionHandler) Pin() int       { return h.pin }
func (h *MotionHandler) Setup(_ Source) {}

func (h *MotionHandler) Poll(src Source, dst []Event) []Event {
	s := DigitalSample(src, h.pin)
	for _, ev := range h.Update(s) {
		dst = append(dst, Event{Kind: KindMotion, Role: h.role, Pin: h.pin, At: s.At, Motion: ev})
	}
	return dst
}

// Set polls its handlers in registration order, so the events of one tick
// always come out in the same order.
type Set struct {
	handlers []Handler
	events   []Event
}

func NewSet(hs ...Handler) *Set {
	return &Set{handlers: hs, events: make([]Event, 0, 8)}
}

func (s *Set) Add(h Handler) { s.handlers = append(s.handlers, h) }

func (s *Set) Handlers() []Handler { return s.handlers }

// Button returns the button registered for role, or nil.
func (s *Set) Button(role Role) *ButtonHandler {
	for _, h := range s.handlers {
		if b, ok := h.(*ButtonHandler); ok && b.role == role {
			return b
		}
	}
	return nil
}

// SettleDial settles the first potentiometer and returns its reading.
func (s *Set) SettleDial() (int, bool) {
	for _, h := range s.handlers {
		if p, ok := h.(*PotHandler); ok {
			return p.Settle(), true
		}
	}
	return 0, false
}

func (s *Set) Setup(src Source) {
	for _, h := range s.handlers {
		h.Setup(src)
	}
}

// Poll samples every handler once. The returned slice is reused.
func (s *Set) Poll(src Source) []Event {
	s.events = s.events[:0]
	for _, h := range s.handlers {
		s.events = h.Poll(src, s.events)
	}
	return s.events
}
