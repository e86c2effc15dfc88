package input

import (
	"sync"
	"time"
)

// Virtual is an in-memory Source. Tests, the simulator, scripts and the
// preview control socket write levels into it; the engine reads them at the
// start of the next tick.
type Virtual struct {
	mu      sync.Mutex
	digital map[int]bool
	analog  map[int]int
	now     time.Duration
}

func NewVirtual() *Virtual {
	return &Virtual{digital: map[int]bool{}, analog: map[int]int{}}
}

func (v *Virtual) ReadDigital(pin int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.digital[pin]
}

func (v *Virtual) ReadAnalog(pin int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.analog[pin]
}

func (v *Virtual) Now() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// PullUp makes an unset pin rest high.
func (v *Virtual) PullUp(pin int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.digital[pin]; !ok {
		v.digital[pin] = true
	}
}

func (v *Virtual) SetLevel(pin int, level bool) {
	v.mu.Lock()
	v.digital[pin] = level
	v.mu.Unlock()
}

func (v *Virtual) SetValue(pin, value int) {
	v.mu.Lock()
	v.analog[pin] = value
	v.mu.Unlock()
}

// SetNow moves the clock. Time never runs backwards; earlier values are ignored.
func (v *Virtual) SetNow(t time.Duration) {
	v.mu.Lock()
	if t > v.now {
		v.now = t
	}
	v.mu.Unlock()
}

func (v *Virtual) Advance(d time.Duration) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	if d > 0 {
		v.now += d
	}
	return v.now
}

// Wall drives a Virtual's clock from real time. Used when the virtual pins
// feed a live loop instead of a test.
type Wall struct {
	*Virtual
	start time.Time
}

func NewWall(v *Virtual) *Wall { return &Wall{Virtual: v, start: time.Now()} }

func (w *Wall) Now() time.Duration {
	t := time.Since(w.start).Truncate(time.Millisecond)
	w.Virtual.SetNow(t)
	return w.Virtual.Now()
}
