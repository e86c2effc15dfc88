package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 10 * time.Millisecond

// hold drives b through a press of length d sampled every tick, then a
// release, and returns every event in order.
func hold(b *Button, start, d time.Duration) []ButtonEvent {
	var out []ButtonEvent
	t := start
	out = append(out, b.Update(Sample{Level: true, At: t})...)
	for t+tick < start+d {
		t += tick
		out = append(out, b.Update(Sample{Level: true, At: t})...)
	}
	out = append(out, b.Update(Sample{Level: false, At: start + d})...)
	return out
}

func count(evs []ButtonEvent, want ButtonEvent) int {
	n := 0
	for _, e := range evs {
		if e == want {
			n++
		}
	}
	return n
}

func activeHigh() *Button {
	return NewButton(ButtonConfig{MinPress: DefaultMinPress, LongPress: DefaultLongPress})
}

func TestShortHoldIsPress(t *testing.T) {
	for _, d := range []time.Duration{50 * time.Millisecond, 120 * time.Millisecond, 590 * time.Millisecond} {
		b := activeHigh()
		evs := hold(b, time.Second, d)
		assert.Equal(t, 1, count(evs, Pressed), "hold %v", d)
		assert.Zero(t, count(evs, LongPress), "hold %v", d)
		assert.Zero(t, count(evs, LongPressHeld), "hold %v", d)
		assert.Equal(t, Idle, b.State())
		assert.False(t, b.IsDown())
	}
}

func TestBounceIsIgnored(t *testing.T) {
	b := activeHigh()
	evs := hold(b, time.Second, 30*time.Millisecond)
	assert.Zero(t, count(evs, Pressed))
	assert.Equal(t, []ButtonEvent{Toggle, Down, Toggle, Up}, evs)
}

func TestLongHold(t *testing.T) {
	for _, d := range []time.Duration{610 * time.Millisecond, 650 * time.Millisecond, 2 * time.Second} {
		b := activeHigh()
		evs := hold(b, time.Second, d)
		require.Equal(t, 1, count(evs, LongPress), "hold %v", d)
		assert.Zero(t, count(evs, Pressed), "hold %v", d)

		// LongPress at the first tick at or past the threshold, then one
		// LongPressHeld per held tick after it.
		heldTicks := int((d-1)/tick) - int(DefaultLongPress/tick)
		assert.Equal(t, heldTicks, count(evs, LongPressHeld), "hold %v", d)

		idx := -1
		for i, e := range evs {
			if e == LongPress {
				idx = i
			}
		}
		for _, e := range evs[:idx] {
			assert.NotEqual(t, LongPressHeld, e)
		}
	}
}

func TestReleaseOnThresholdTick(t *testing.T) {
	// no held sample crossed LongPress; the release still counts as one
	for _, at := range []time.Duration{DefaultLongPress, DefaultLongPress + 8*time.Millisecond} {
		b := activeHigh()
		b.Update(Sample{Level: true, At: 0})
		b.Update(Sample{Level: true, At: DefaultLongPress - 8*time.Millisecond})
		evs := b.Update(Sample{Level: false, At: at})
		assert.Equal(t, []ButtonEvent{Toggle, LongPress, Up}, evs, "release at %v", at)
	}
}

func TestLongHoldAtSixtyFPS(t *testing.T) {
	const frame = 16 * time.Millisecond
	b := activeHigh()
	var evs []ButtonEvent
	at := time.Duration(0)
	for ; at <= 592*time.Millisecond; at += frame {
		evs = append(evs, b.Update(Sample{Level: true, At: at})...)
	}
	evs = append(evs, b.Update(Sample{Level: false, At: at})...)
	assert.Equal(t, 608*time.Millisecond, at)
	assert.Equal(t, 1, count(evs, LongPress))
	assert.Zero(t, count(evs, Pressed))
	assert.Zero(t, count(evs, LongPressHeld))
}

func TestToggleComesFirst(t *testing.T) {
	b := activeHigh()
	assert.Equal(t, []ButtonEvent{Toggle, Down}, b.Update(Sample{Level: true, At: 0}))
	b.Update(Sample{Level: true, At: 60 * time.Millisecond})
	assert.Equal(t, []ButtonEvent{Toggle, Pressed, Up}, b.Update(Sample{Level: false, At: 100 * time.Millisecond}))
}

func TestButtonStates(t *testing.T) {
	b := activeHigh()
	assert.Equal(t, Idle, b.State())
	b.Update(Sample{Level: true, At: 0})
	assert.Equal(t, Debouncing, b.State())
	assert.True(t, b.IsDown())
	b.Update(Sample{Level: true, At: 60 * time.Millisecond})
	assert.Equal(t, Pressing, b.State())
	assert.Equal(t, 60*time.Millisecond, b.HeldFor(60*time.Millisecond))
	b.Update(Sample{Level: true, At: 700 * time.Millisecond})
	assert.Equal(t, LongPressing, b.State())
	b.Update(Sample{Level: false, At: 710 * time.Millisecond})
	assert.Equal(t, Idle, b.State())
	assert.Zero(t, b.HeldFor(800*time.Millisecond))
}

func TestInvertedButton(t *testing.T) {
	b := NewButton(DefaultButtonConfig())
	assert.Empty(t, b.Update(Sample{Level: true, At: 0}))
	assert.Equal(t, []ButtonEvent{Toggle, Down}, b.Update(Sample{Level: false, At: tick}))
}

func TestZeroConfigUsesDefaults(t *testing.T) {
	b := NewButton(ButtonConfig{})
	assert.Equal(t, DefaultMinPress, b.Config().MinPress)
	assert.Equal(t, DefaultLongPress, b.Config().LongPress)
}

func TestCustomTimings(t *testing.T) {
	b := NewButton(ButtonConfig{MinPress: 20 * time.Millisecond, LongPress: 200 * time.Millisecond})
	evs := hold(b, 0, 250*time.Millisecond)
	assert.Equal(t, 1, count(evs, LongPress))
	evs = hold(b, time.Second, 30*time.Millisecond)
	assert.Equal(t, 1, count(evs, Pressed))
}
