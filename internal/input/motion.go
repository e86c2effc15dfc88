package input

// MotionEvent is one event of a passive infra-red sensor.
type MotionEvent uint8

const (
	MotionChange MotionEvent = iota + 1
	MotionStart
	MotionContinued
	MotionEnd
	MotionIdle
)

func (e MotionEvent) String() string {
	switch e {
	case MotionChange:
		return "change"
	case MotionStart:
		return "motion_start"
	case MotionContinued:
		return "motion_continued"
	case MotionEnd:
		return "motion_end"
	case MotionIdle:
		return "idle"
	}
	return "unknown"
}

// MotionSensor tracks an active-high PIR output.
type MotionSensor struct {
	previous bool
	events   []MotionEvent
}

func NewMotionSensor() *MotionSensor {
	return &MotionSensor{events: make([]MotionEvent, 0, 2)}
}

// Active reports whether motion was seen on the last update.
func (m *MotionSensor) Active() bool { return m.previous }

// Update returns the events of this tick. The slice is reused.
func (m *MotionSensor) Update(s Sample) []MotionEvent {
	m.events = m.events[:0]
	switch {
	case s.Level != m.previous:
		m.events = append(m.events, MotionChange)
		if s.Level {
			m.events = append(m.events, MotionStart)
		} else {
			m.events = append(m.events, MotionEnd)
		}
	case s.Level:
		m.events = append(m.events, MotionContinued)
	default:
		m.events = append(m.events, MotionIdle)
	}
	m.previous = s.Level
	return m.events
}
