// Package app wires a config into a running strip: controller, engine,
// output and the optional preview server.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/coreman2200/lumistrip/internal/animation"
	"github.com/coreman2200/lumistrip/internal/config"
	"github.com/coreman2200/lumistrip/internal/control"
	diag "github.com/coreman2200/lumistrip/internal/diagnostics"
	"github.com/coreman2200/lumistrip/internal/input"
	"github.com/coreman2200/lumistrip/internal/led"
	"github.com/coreman2200/lumistrip/internal/preview"
	"github.com/coreman2200/lumistrip/internal/render"
	"github.com/coreman2200/lumistrip/internal/sequence"
)

type Core struct {
	Cfg    *config.Config
	Eng    *render.Engine
	Lib    *animation.Library
	Ctl    *control.Controller
	Inputs *input.Set
	Drv    led.Driver

	// Virtual is the source when the inputs are simulated, else nil.
	Virtual *input.Virtual
	// Seq plays a loaded input script.
	Seq *sequence.Player
	// Preview is nil when no preview address is configured.
	Preview *preview.Server
}

// Build assembles a core reading src and writing drv. driverName is only
// reported to preview clients.
func Build(cfg *config.Config, src input.Source, drv led.Driver, driverName string) (*Core, error) {
	colors, err := cfg.Colors()
	if err != nil {
		return nil, err
	}
	lib := animation.NewLibrary(colors, nil)
	actx := animation.NewContext(time.Now().UnixNano(), cfg.Layout())
	inputs := cfg.Inputs()
	ctl := control.New(cfg.Control(), lib, actx, cfg.Selection())

	eng, err := render.NewEngine(cfg.LEDs, src, inputs, ctl, lib, actx, drv)
	if err != nil {
		return nil, err
	}
	eng.Post = render.PostPipeline{Correction: cfg.PixelCorrection()}
	if cfg.Power.BudgetMA > 0 || cfg.Power.WhiteCap < 765 {
		lim := render.DefaultLimiter(cfg.Power.BudgetMA)
		lim.WhiteCap = cfg.Power.WhiteCap
		eng.Post.Limiter = lim
	}
	eng.MetricsEvery = cfg.MetricsEvery

	c := &Core{Cfg: cfg, Eng: eng, Lib: lib, Ctl: ctl, Inputs: inputs, Drv: drv}
	switch s := src.(type) {
	case *input.Virtual:
		c.Virtual = s
	case *input.Wall:
		c.Virtual = s.Virtual
	}

	if cfg.PreviewAddr != "" {
		top := preview.Topology{LEDs: cfg.LEDs, Grid: cfg.Layout(), Driver: driverName, FPS: cfg.FPS}
		c.Preview = preview.New(eng, top, min(cfg.FPS, 30))
		c.Preview.Virtual = c.Virtual
		c.Preview.Inputs = inputs
		eng.Diag = c.Preview.Push
	}
	return c, nil
}

// Report logs d and forwards it to preview clients.
func (c *Core) Report(d diag.Diagnostic) {
	diag.Log(log.Logger, d)
	if c.Preview != nil {
		c.Preview.Push(d)
	}
}

var ErrNoVirtual = errors.New("scripts need simulated inputs")

// Play runs s against the virtual inputs, starting on the next tick.
func (c *Core) Play(s sequence.Script) error {
	if c.Virtual == nil {
		return ErrNoVirtual
	}
	h := sequence.VirtualHooks(c.Virtual, c.Inputs)
	h.OnStep = func(i int, name string) {
		log.Info().Int("step", i).Str("name", name).Msg("script")
	}
	p := sequence.NewPlayer(h)
	if err := p.Load(s); err != nil {
		return err
	}
	p.Start()
	c.Seq = p
	c.Eng.BeforeTick = p.Follow
	return nil
}

// Run drives the engine, and the preview server when configured, until ctx
// is done or one of them fails.
func (c *Core) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Eng.Run(ctx, c.Cfg.FPS) })

	if c.Preview != nil {
		srv := &http.Server{
			Addr:         c.Cfg.PreviewAddr,
			Handler:      c.Preview.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		g.Go(func() error { return c.Preview.Run(ctx) })
		g.Go(func() error {
			log.Info().Str("addr", srv.Addr).Msg("preview server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			// Close, not Shutdown: hijacked websockets are closed by Preview.Run
			return srv.Close()
		})
	}
	return g.Wait()
}

// Close blanks the strip and releases the driver.
func (c *Core) Close() error {
	if c.Drv == nil {
		return nil
	}
	_ = c.Drv.Write(make([]byte, c.Cfg.LEDs*3))
	return c.Drv.Close()
}
