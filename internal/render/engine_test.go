package render

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/coreman2200/lumistrip/internal/animation"
	"github.com/coreman2200/lumistrip/internal/control"
	"github.com/coreman2200/lumistrip/internal/diagnostics"
	"github.com/coreman2200/lumistrip/internal/input"
	"github.com/coreman2200/lumistrip/internal/layout"
	"github.com/coreman2200/lumistrip/internal/led"
	"github.com/coreman2200/lumistrip/internal/mathx"
	"github.com/coreman2200/lumistrip/internal/pixel"
)

const (
	modePin   = 9
	optionPin = 8
	dialPin   = 0
	tick      = 10 * time.Millisecond
)

type rig struct {
	t   *testing.T
	src *input.Virtual
	eng *Engine
	sim *led.Sim
}

func newRig(t *testing.T, n int, cfg control.Config) *rig {
	t.Helper()
	return newRigWithDial(t, n, cfg, input.PotConfig{NoiseFloor: 5, Alpha: 1, Initial: 512})
}

func newRigWithDial(t *testing.T, n int, cfg control.Config, pot input.PotConfig) *rig {
	t.Helper()
	src := input.NewVirtual()
	src.SetValue(dialPin, 512)
	set := input.NewSet(
		input.NewButtonHandler(input.RoleMode, modePin, input.DefaultButtonConfig()),
		input.NewButtonHandler(input.RoleOption, optionPin, input.DefaultButtonConfig()),
		input.NewPotHandler(input.RoleDial, dialPin, pot),
	)
	lib := animation.NewLibrary(nil, nil)
	actx := animation.NewContext(1, layout.Strip(n))
	ctl := control.New(cfg, lib, actx, animation.DefaultSelection())
	sim := led.NewSim(n)
	e, err := NewEngine(n, src, set, ctl, lib, actx, sim)
	require.NoError(t, err)
	return &rig{t: t, src: src, eng: e, sim: sim}
}

func (r *rig) step() {
	r.t.Helper()
	r.src.Advance(tick)
	require.NoError(r.t, r.eng.Tick())
}

func (r *rig) steps(n int) {
	r.t.Helper()
	for i := 0; i < n; i++ {
		r.step()
	}
}

// press holds an active-low button for d, then releases it.
func (r *rig) press(pin int, d time.Duration) {
	r.t.Helper()
	r.src.SetLevel(pin, false)
	r.step()
	r.steps(int(d/tick) - 1)
	r.src.SetLevel(pin, true)
	r.step()
}

func TestStaticRedFrame(t *testing.T) {
	r := newRig(t, 10, control.DefaultConfig())
	r.step()
	assert.True(t, r.eng.Frame().Equal(pixel.Red))

	want := make([]byte, 0, 30)
	for i := 0; i < 10; i++ {
		want = append(want, 255, 0, 0)
	}
	assert.Equal(t, want, r.sim.Last())
	assert.Equal(t, 1, r.sim.Frames())
}

func TestOptionPressBlendsWithoutJump(t *testing.T) {
	r := newRig(t, 10, control.DefaultConfig())
	r.step()
	r.press(optionPin, 100*time.Millisecond)
	require.True(t, r.eng.InTransition())

	next := animation.DefaultStaticColors()[1]
	prev := r.eng.Frame()[0]
	for i := 0; r.eng.InTransition(); i++ {
		require.Less(t, i, 300)
		r.step()
		cur := r.eng.Frame()[0]
		assert.LessOrEqual(t, absDiff(cur.G, prev.G), 16, "tick %d", i)
		assert.LessOrEqual(t, absDiff(cur.B, prev.B), 16, "tick %d", i)
		assert.True(t, r.eng.Frame().Equal(cur), "fade moves every pixel together")
		prev = cur
	}
	assert.True(t, r.eng.Frame().Equal(next), "lands on the target exactly")
	r.step()
	assert.True(t, r.eng.Frame().Equal(next))
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestTransitionOwnsFrame(t *testing.T) {
	r := newRig(t, 100, control.DefaultConfig())
	r.step()
	r.press(modePin, 100*time.Millisecond)
	require.True(t, r.eng.InTransition())

	snap := r.eng.Snapshot()
	assert.Equal(t, animation.MonochromeAnimated, snap.Selection.Mode)
	assert.Equal(t, "transition:linear", snap.Pattern)

	// the linear wipe fills from the start; the tail still shows red
	f := r.eng.Frame()
	assert.Equal(t, pixel.Red, f[99])

	hue := r.eng.Ctx.Hue
	r.step()
	assert.Equal(t, hue+1, r.eng.Ctx.Hue, "clock runs during transitions")

	for r.eng.InTransition() {
		r.step()
	}
	assert.True(t, r.eng.Frame().Equal(pixel.Red), "monochrome aims at the selected colour")
	r.step()
	assert.Equal(t, "juggle", r.eng.Snapshot().Pattern)
}

func TestModeHeldDialSetsSpeed(t *testing.T) {
	r := newRig(t, 10, control.DefaultConfig())
	r.src.SetValue(dialPin, 300)
	r.step()
	before := r.eng.Ctl.Selection()

	r.src.SetLevel(modePin, false)
	r.step()
	r.src.SetValue(dialPin, 400)
	r.step()
	held := r.eng.Ctl.Selection()
	assert.NotEqual(t, before.SpeedMultiplier, held.SpeedMultiplier)
	assert.Equal(t, before.Brightness, held.Brightness)

	r.src.SetLevel(modePin, true)
	r.step()
	assert.Equal(t, animation.Static, r.eng.Ctl.Selection().Mode, "speed hold is not a press")

	r.src.SetValue(dialPin, 700)
	r.step()
	after := r.eng.Ctl.Selection()
	assert.NotEqual(t, held.Brightness, after.Brightness)
	assert.Equal(t, held.SpeedMultiplier, after.SpeedMultiplier)
}

func TestSmoothedDialTailStaysOnSpeed(t *testing.T) {
	cfg := control.DefaultConfig()
	r := newRigWithDial(t, 10, cfg, input.DefaultPotConfig())
	r.src.SetValue(dialPin, 300)
	r.step()
	before := r.eng.Ctl.Selection()

	r.src.SetLevel(modePin, false)
	r.step()
	r.src.SetValue(dialPin, 400)
	r.step()
	r.src.SetLevel(modePin, true)
	r.step()

	for i := 0; i < 10; i++ {
		r.step()
		sel := r.eng.Ctl.Selection()
		require.Equal(t, before.Brightness, sel.Brightness, "tick %d", i)
	}
	sel := r.eng.Ctl.Selection()
	assert.Equal(t, mathx.MapFloat(400, 0, cfg.AnalogMax, cfg.SpeedMin, cfg.SpeedMax), sel.SpeedMultiplier)
	assert.Equal(t, animation.Static, sel.Mode)

	r.src.SetValue(dialPin, 700)
	r.steps(3)
	assert.NotEqual(t, before.Brightness, r.eng.Ctl.Selection().Brightness, "dial works again after the hold")
}

func TestLongSpeedHoldSkipsQuickMode(t *testing.T) {
	r := newRigWithDial(t, 10, control.DefaultConfig(), input.DefaultPotConfig())
	r.src.SetValue(dialPin, 300)
	r.step()
	r.src.SetLevel(modePin, false)
	r.steps(70)
	r.src.SetValue(dialPin, 600)
	r.steps(3)
	r.src.SetLevel(modePin, true)
	r.step()
	assert.Equal(t, animation.Static, r.eng.Ctl.Selection().Mode)
}

func TestBrightnessAppliedInPost(t *testing.T) {
	r := newRig(t, 4, control.DefaultConfig())
	r.src.SetValue(dialPin, 0)
	r.step()
	assert.True(t, r.eng.Frame().Equal(pixel.Red), "pattern buffer is unscaled")
	out := r.sim.Last()
	assert.Equal(t, pixel.Scale8(255, 5), out[0])
	assert.Zero(t, out[1])
}

func TestModeCycleThroughEngine(t *testing.T) {
	r := newRig(t, 10, control.DefaultConfig())
	r.step()
	for i := 0; i < animation.ModeCount; i++ {
		r.press(modePin, 80*time.Millisecond)
	}
	sel := r.eng.Ctl.Selection()
	assert.Equal(t, animation.Static, sel.Mode)
	assert.Zero(t, sel.PatternIndex)
	assert.Zero(t, sel.MonochromePatternIndex)
	assert.Zero(t, sel.PalettePatternIndex)
}

func TestLongPressJumpsToQuickMode(t *testing.T) {
	r := newRig(t, 10, control.DefaultConfig())
	r.step()
	r.press(modePin, 900*time.Millisecond)
	assert.Equal(t, animation.PaletteAnimated, r.eng.Ctl.Selection().Mode)
}

type failingDriver struct{ n int }

func (d *failingDriver) Write([]byte) error { d.n++; return errors.New("bus gone") }
func (d *failingDriver) Close() error       { return nil }

func TestDriverErrorIsCounted(t *testing.T) {
	r := newRig(t, 3, control.DefaultConfig())
	drv := &failingDriver{}
	r.eng.Drv = drv
	var got []diagnostics.Diagnostic
	r.eng.Diag = func(d diagnostics.Diagnostic) { got = append(got, d) }
	r.src.Advance(tick)
	assert.Error(t, r.eng.Tick())
	assert.Equal(t, int64(1), r.eng.writeErrors.Count())
	r.src.Advance(tick)
	assert.Error(t, r.eng.Tick())
	if assert.Len(t, got, 1, "repeats are not reported") {
		assert.Equal(t, "DRIVER.WRITE", got[0].Code)
	}
	assert.Len(t, r.eng.Snapshot().RGB, 9, "frame still published")
}

func TestSnapshotIsACopy(t *testing.T) {
	r := newRig(t, 3, control.DefaultConfig())
	r.step()
	s := r.eng.Snapshot()
	s.RGB[0] = 7
	assert.Equal(t, byte(255), r.eng.Snapshot().RGB[0])
	assert.Equal(t, uint64(1), s.Frame)
}

func TestSnapshotListsHeldButtons(t *testing.T) {
	r := newRig(t, 3, control.DefaultConfig())
	r.step()
	assert.Empty(t, r.eng.Snapshot().Held)
	r.src.SetLevel(optionPin, false)
	r.step()
	assert.Equal(t, []string{"option"}, r.eng.Snapshot().Held)
	r.src.SetLevel(optionPin, true)
	r.step()
	assert.Empty(t, r.eng.Snapshot().Held)
}

func TestBeforeTickRunsFirst(t *testing.T) {
	r := newRig(t, 3, control.DefaultConfig())
	r.eng.BeforeTick = func(time.Duration) { r.src.SetValue(dialPin, 0) }
	r.step()
	assert.Equal(t, uint8(5), r.eng.Ctl.Selection().Brightness)
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := newRig(t, 3, control.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- r.eng.Run(ctx, 200) }()
	require.Eventually(t, func() bool { return r.sim.Frames() > 2 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestNewEngineValidates(t *testing.T) {
	_, err := NewEngine(0, nil, nil, nil, nil, nil, nil)
	assert.Error(t, err)
	_, err = NewEngine(5, input.NewVirtual(), nil, nil, nil, nil, nil)
	assert.Error(t, err)
}
