package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMotionSensor(t *testing.T) {
	m := NewMotionSensor()
	assert.Equal(t, []MotionEvent{MotionIdle}, m.Update(Sample{Level: false}))
	assert.Equal(t, []MotionEvent{MotionChange, MotionStart}, m.Update(Sample{Level: true}))
	assert.True(t, m.Active())
	assert.Equal(t, []MotionEvent{MotionContinued}, m.Update(Sample{Level: true}))
	assert.Equal(t, []MotionEvent{MotionChange, MotionEnd}, m.Update(Sample{Level: false}))
	assert.False(t, m.Active())
}

func TestSetPollsInOrder(t *testing.T) {
	src := NewVirtual()
	set := NewSet(
		NewButtonHandler(RoleMode, 9, DefaultButtonConfig()),
		NewButtonHandler(RoleOption, 8, DefaultButtonConfig()),
		NewPotHandler(RoleDial, 0, PotConfig{NoiseFloor: 5, Alpha: 1, Initial: 512}),
	)
	set.Setup(src)
	src.SetValue(0, 512)

	assert.True(t, src.ReadDigital(9), "pull-up rests high")
	assert.Empty(t, set.Poll(src))

	src.Advance(10 * time.Millisecond)
	src.SetLevel(9, false)
	src.SetLevel(8, false)
	src.SetValue(0, 600)
	evs := set.Poll(src)
	require.Len(t, evs, 5)
	assert.Equal(t, "mode:toggle", evs[0].String())
	assert.Equal(t, "mode:down", evs[1].String())
	assert.Equal(t, "option:toggle", evs[2].String())
	assert.Equal(t, "option:down", evs[3].String())
	assert.Equal(t, KindPotentiometer, evs[4].Kind)
	assert.Equal(t, 600, evs[4].Value)
	assert.Equal(t, 10*time.Millisecond, evs[4].At)

	assert.True(t, set.Button(RoleMode).IsDown())
	assert.Nil(t, set.Button(RoleMotion))
}

func TestMotionHandler(t *testing.T) {
	src := NewVirtual()
	h := NewMotionHandler(RoleMotion, 3)
	set := NewSet(h)
	set.Setup(src)
	src.SetLevel(3, true)
	evs := set.Poll(src)
	require.Len(t, evs, 2)
	assert.Equal(t, MotionStart, evs[1].Motion)
	assert.Equal(t, RoleMotion, evs[1].Role)
}

func TestVirtualClock(t *testing.T) {
	v := NewVirtual()
	assert.Equal(t, 5*time.Millisecond, v.Advance(5*time.Millisecond))
	v.SetNow(time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, v.Now(), "clock is monotonic")
	v.SetNow(time.Second)
	assert.Equal(t, time.Second, v.Now())
	v.Advance(-time.Second)
	assert.Equal(t, time.Second, v.Now())
}

func TestWallClockIsMonotonic(t *testing.T) {
	w := NewWall(NewVirtual())
	a := w.Now()
	b := w.Now()
	assert.GreaterOrEqual(t, b, a)
}

func TestParseRole(t *testing.T) {
	for r := RoleMode; r <= RoleMotion; r++ {
		got, err := ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseRole("volume")
	assert.Error(t, err)
}
