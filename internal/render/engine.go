// Package render runs the per-tick pipeline: sample inputs, apply events,
// render or blend the frame, post-process, write to the strip.
package render

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/lumistrip/internal/animation"
	"github.com/coreman2200/lumistrip/internal/control"
	"github.com/coreman2200/lumistrip/internal/diagnostics"
	"github.com/coreman2200/lumistrip/internal/input"
	"github.com/coreman2200/lumistrip/internal/led"
	"github.com/coreman2200/lumistrip/internal/pixel"
	"github.com/coreman2200/lumistrip/internal/transition"
)

// Snapshot is a copy of the last tick for readers outside the loop.
type Snapshot struct {
	Frame      uint64              `json:"frame_id"`
	At         time.Duration       `json:"t"`
	RGB        []byte              `json:"rgb"`
	Selection  animation.Selection `json:"selection"`
	Pattern    string              `json:"pattern"`
	Transition bool                `json:"transition"`
	Events     []string            `json:"events,omitempty"`
	// Held lists the buttons down at the end of the tick.
	Held []string `json:"held,omitempty"`
}

// Engine owns every piece of core state. Tick must only be called from one
// goroutine; Snapshot is safe from any.
type Engine struct {
	Src    input.Source
	Inputs *input.Set
	Ctl    *control.Controller
	Lib    *animation.Library
	Ctx    *animation.Context
	Drv    led.Driver
	Post   PostPipeline

	// BeforeTick runs at the start of every tick, before inputs are
	// sampled. Scripts use it to move virtual pins.
	BeforeTick func(now time.Duration)
	// Diag receives the first driver write failure and every hundredth
	// after it.
	Diag func(diagnostics.Diagnostic)

	frame pixel.Frame // pattern buffer, kept between ticks
	out   pixel.Frame // post-processed
	rgb   []byte
	trans *transition.State

	mu     sync.Mutex
	snap   Snapshot
	events []string

	Metrics      metrics.Registry
	tickTime     metrics.Histogram
	ticks        metrics.Counter
	writeErrors  metrics.Counter
	MetricsEvery uint64

	warn zerolog.Logger

	// last durations in ms
	Last struct {
		RenderMS float64
		PostMS   float64
		TotalMS  float64
	}
}

// NewEngine allocates buffers for n LEDs and registers the tick metrics.
func NewEngine(n int, src input.Source, inputs *input.Set, ctl *control.Controller, lib *animation.Library, actx *animation.Context, drv led.Driver) (*Engine, error) {
	if n <= 0 {
		return nil, errors.New("invalid led count")
	}
	if src == nil || inputs == nil || ctl == nil || lib == nil || actx == nil {
		return nil, errors.New("engine needs a source, inputs, controller, library and context")
	}
	reg := metrics.NewRegistry()
	e := &Engine{
		Src:         src,
		Inputs:      inputs,
		Ctl:         ctl,
		Lib:         lib,
		Ctx:         actx,
		Drv:         drv,
		Post:        PostPipeline{Correction: pixel.Uncorrected()},
		frame:       pixel.NewFrame(n),
		out:         pixel.NewFrame(n),
		rgb:         make([]byte, 0, n*3),
		Metrics:     reg,
		tickTime:    metrics.NewHistogram(metrics.NewExpDecaySample(1028, 0.015)),
		ticks:       metrics.NewCounter(),
		writeErrors: metrics.NewCounter(),
		warn:        log.Sample(&zerolog.BasicSampler{N: 100}),
	}
	_ = reg.Register("tick.us", e.tickTime)
	_ = reg.Register("tick.count", e.ticks)
	_ = reg.Register("driver.write_errors", e.writeErrors)
	inputs.Setup(src)
	if ctl.SettleDial == nil {
		ctl.SettleDial = inputs.SettleDial
	}
	return e, nil
}

// Frame is the pattern buffer. Only touch it from the loop goroutine.
func (e *Engine) Frame() pixel.Frame { return e.frame }

// InTransition reports whether a blend owns the frame.
func (e *Engine) InTransition() bool { return e.trans != nil }

// Tick runs one pass of the pipeline. The only error is a failed driver
// write; the frame is still rendered and snapshotted.
func (e *Engine) Tick() error {
	start := time.Now()
	now := e.Src.Now()
	if e.BeforeTick != nil {
		e.BeforeTick(now)
		now = e.Src.Now()
	}

	e.events = e.events[:0]
	for _, ev := range e.Inputs.Poll(e.Src) {
		e.Ctl.Handle(ev)
		e.events = append(e.events, ev.String())
		log.Debug().Stringer("event", ev).Dur("at", ev.At).Msg("input")
	}
	if st, ok := e.Ctl.TakeTransition(); ok {
		e.trans = st
	}

	sel := e.Ctl.Selection()
	if sel.Standby {
		e.trans = nil
	}
	e.Ctx.Advance(now, sel.SpeedMultiplier)

	// a transition owns the frame until it completes; it blends from what
	// was last shown, so the pattern does not draw underneath it
	pattern := e.Lib.Pattern(sel).Name
	if e.trans != nil {
		pattern = "transition:" + e.trans.Strategy.String()
		if transition.Apply(e.frame, e.trans) {
			e.trans = nil
		}
	} else {
		e.Lib.Render(sel, e.Ctx, e.frame)
	}
	renderDone := time.Now()

	e.Post.Apply(e.out, e.frame, sel.Brightness, sel.Temperature)
	e.rgb = e.out.Bytes(e.rgb)
	postDone := time.Now()

	var err error
	if e.Drv != nil {
		if err = e.Drv.Write(e.rgb); err != nil {
			e.writeErrors.Inc(1)
			e.warn.Warn().Err(err).Msg("driver write failed")
			if n := e.writeErrors.Count(); e.Diag != nil && n%100 == 1 {
				e.Diag(diagnostics.WriteFailed(err, n))
			}
		}
	}

	e.publish(now, sel, pattern)

	total := time.Since(start)
	e.tickTime.Update(total.Microseconds())
	e.ticks.Inc(1)
	e.Last.RenderMS = float64(renderDone.Sub(start).Microseconds()) / 1000.0
	e.Last.PostMS = float64(postDone.Sub(renderDone).Microseconds()) / 1000.0
	e.Last.TotalMS = float64(total.Microseconds()) / 1000.0
	if e.MetricsEvery > 0 && uint64(e.ticks.Count())%e.MetricsEvery == 0 {
		e.logMetrics()
	}
	return err
}

func (e *Engine) publish(now time.Duration, sel animation.Selection, pattern string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap.Frame = e.Ctx.Frame
	e.snap.At = now
	e.snap.RGB = append(e.snap.RGB[:0], e.rgb...)
	e.snap.Selection = sel
	e.snap.Pattern = pattern
	e.snap.Transition = e.trans != nil
	e.snap.Events = append(e.snap.Events[:0], e.events...)
	e.snap.Held = e.snap.Held[:0]
	for _, r := range []input.Role{input.RoleMode, input.RoleOption} {
		if e.Ctl.Held(r) {
			e.snap.Held = append(e.snap.Held, r.String())
		}
	}
}

// Snapshot copies the last tick's output.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.snap
	s.RGB = append([]byte(nil), e.snap.RGB...)
	s.Events = append([]string(nil), e.snap.Events...)
	s.Held = append([]string(nil), e.snap.Held...)
	return s
}

func (e *Engine) logMetrics() {
	h := e.tickTime.Snapshot()
	log.Info().
		Int64("ticks", e.ticks.Count()).
		Float64("tick_mean_us", h.Mean()).
		Float64("tick_p99_us", h.Percentile(0.99)).
		Int64("tick_max_us", h.Max()).
		Int64("write_errors", e.writeErrors.Count()).
		Msg("render")
}

// Run ticks at fps until ctx is done.
func (e *Engine) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	dt := time.Second / time.Duration(fps)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_ = e.Tick()
		}
	}
}
