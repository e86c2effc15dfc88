package preview

import (
	"errors"
	"fmt"

	"github.com/coreman2200/lumistrip/internal/input"
)

var ErrUnknownInput = errors.New("unknown input")

// apply writes msg into the virtual source. The engine picks the change up
// on its next tick, exactly as it would a physical pin.
func (s *Server) apply(msg ControlMsg) error {
	switch {
	case msg.Button != "":
		role, err := input.ParseRole(msg.Button)
		if err != nil {
			return err
		}
		h := s.Inputs.Button(role)
		if h == nil {
			return fmt.Errorf("%w: no %s button", ErrUnknownInput, role)
		}
		level := msg.Down
		if h.Config().Invert {
			level = !level
		}
		s.Virtual.SetLevel(h.Pin(), level)
	case msg.Dial != nil:
		pin, ok := s.pinFor(input.KindPotentiometer)
		if !ok {
			return fmt.Errorf("%w: no dial", ErrUnknownInput)
		}
		s.Virtual.SetValue(pin, *msg.Dial)
	case msg.Motion != nil:
		pin, ok := s.pinFor(input.KindMotion)
		if !ok {
			return fmt.Errorf("%w: no motion sensor", ErrUnknownInput)
		}
		s.Virtual.SetLevel(pin, *msg.Motion)
	case msg.Pin != nil && msg.Level != nil:
		s.Virtual.SetLevel(*msg.Pin, *msg.Level)
	case msg.Pin != nil && msg.Value != nil:
		s.Virtual.SetValue(*msg.Pin, *msg.Value)
	default:
		return fmt.Errorf("%w: empty message", ErrUnknownInput)
	}
	return nil
}

func (s *Server) pinFor(k input.Kind) (int, bool) {
	for _, h := range s.Inputs.Handlers() {
		if h.Kind() == k {
			return h.Pin(), true
		}
	}
	return 0, false
}
