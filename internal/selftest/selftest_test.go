package selftest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/lumistrip/internal/layout"
	"github.com/coreman2200/lumistrip/internal/led"
	"github.com/coreman2200/lumistrip/internal/pixel"
)

func TestIndexSweep(t *testing.T) {
	f := pixel.NewFrame(3)
	r := NewRunner(Plan{Kind: IndexSweep})
	for i := 0; i < 3; i++ {
		require.True(t, r.Step(layout.Strip(3), f))
		for j, c := range f {
			if j == i {
				assert.Equal(t, pixel.White, c)
			} else {
				assert.Equal(t, pixel.Black, c)
			}
		}
	}
	assert.False(t, r.Step(layout.Strip(3), f))
}

func TestRGBPhases(t *testing.T) {
	f := pixel.NewFrame(2)
	r := NewRunner(Plan{Kind: RGBTest})
	var got []pixel.RGB
	for r.Step(layout.Strip(2), f) {
		got = append(got, f[1])
	}
	assert.Equal(t, []pixel.RGB{pixel.Red, pixel.Green, pixel.Blue}, got)
}

func TestRowSweepFollowsSerpentine(t *testing.T) {
	g := layout.Grid{Columns: 3, Rows: 2, Serpentine: true}
	f := pixel.NewFrame(6)
	r := NewRunner(Plan{Kind: RowSweep})
	require.True(t, r.Step(g, f))
	require.True(t, r.Step(g, f))
	lit := 0
	for i := 3; i < 6; i++ {
		if f[i] != pixel.Black {
			lit++
		}
	}
	assert.Equal(t, 3, lit, "second row lit")
	assert.False(t, r.Step(g, f))
}

func TestRunWritesAndBlanks(t *testing.T) {
	sim := led.NewSim(4)
	err := Run(context.Background(), sim, layout.Strip(4), 4, time.Millisecond, Plan{Kind: RGBTest}, Plan{Kind: IndexSweep})
	require.NoError(t, err)
	assert.Equal(t, 3+4+1, sim.Frames())
	assert.Equal(t, make([]byte, 12), sim.Last())
}

func TestRunCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sim := led.NewSim(2)
	err := Run(ctx, sim, layout.Strip(2), 2, time.Hour, Plan{Kind: IndexSweep})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, make([]byte, 6), sim.Last())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("row_sweep")
	require.NoError(t, err)
	assert.Equal(t, RowSweep, k)
	_, err = ParseKind("plane_z")
	assert.Error(t, err)
}
