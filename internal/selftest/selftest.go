// Package selftest lights known patterns on the strip so wiring, colour
// order and dead pixels can be checked by eye.
package selftest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/lumistrip/internal/layout"
	"github.com/coreman2200/lumistrip/internal/led"
	"github.com/coreman2200/lumistrip/internal/pixel"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	RGBTest    Kind = "rgb_channels"
	RowSweep   Kind = "row_sweep"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case None, IndexSweep, RGBTest, RowSweep:
		return k, nil
	}
	return None, fmt.Errorf("unknown self test %q", s)
}

type Plan struct{ Kind Kind }

type Runner struct {
	plan Plan
	step int
}

func NewRunner(plan Plan) *Runner { return &Runner{plan: plan} }
func (r *Runner) Kind() Kind      { return r.plan.Kind }

// Step fills f with the next frame; returns false when complete.
func (r *Runner) Step(g layout.Grid, f pixel.Frame) bool {
	f.Fill(pixel.Black)
	n := len(f)

	switch r.plan.Kind {
	case IndexSweep:
		if r.step >= n {
			return false
		}
		f[r.step] = pixel.White
	case RGBTest:
		// red, green, blue: a wrong colour order shows up as a swapped phase
		phases := [...]pixel.RGB{pixel.Red, pixel.Green, pixel.Blue}
		if r.step >= len(phases) {
			return false
		}
		f.Fill(phases[r.step])
	case RowSweep:
		if r.step >= g.Rows {
			return false
		}
		for col := 0; col < g.Columns; col++ {
			if i := g.Index(col, r.step); i >= 0 && i < n {
				f[i] = pixel.RGB{G: 255, B: 255}
			}
		}
	default:
		return false
	}
	r.step++
	return true
}

// Run plays each plan on drv, holding every frame for hold, and blanks the
// strip when done or cancelled.
func Run(ctx context.Context, drv led.Driver, g layout.Grid, n int, hold time.Duration, plans ...Plan) error {
	f := pixel.NewFrame(n)
	buf := make([]byte, 0, n*3)
	defer func() {
		f.Fill(pixel.Black)
		_ = drv.Write(f.Bytes(buf[:0]))
	}()
	for _, p := range plans {
		r := NewRunner(p)
		log.Info().Str("test", string(p.Kind)).Msg("self test")
		for r.Step(g, f) {
			if err := drv.Write(f.Bytes(buf[:0])); err != nil {
				return fmt.Errorf("self test %s: %w", p.Kind, err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(hold):
			}
		}
	}
	return nil
}
