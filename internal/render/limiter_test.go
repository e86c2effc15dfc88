package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/lumistrip/internal/pixel"
)

func TestLimiterBudgetClamp(t *testing.T) {
	// 10 white pixels draw 600mA at 20mA per channel
	f := pixel.NewFrame(10)
	f.Fill(pixel.White)
	l := DefaultLimiter(300)
	assert.InDelta(t, 600, l.Current(f), 0.01)

	l.Apply(f)
	if cur := l.Current(f); cur > 300.1 {
		t.Fatalf("expected <= 300mA after limit, got %.2f mA", cur)
	}
}

func TestLimiterKnee(t *testing.T) {
	f := pixel.NewFrame(10)
	f.Fill(pixel.RGB{R: 255})
	l := DefaultLimiter(300)
	l.Apply(f)
	assert.Equal(t, uint8(255), f[0].R, "200mA is under the knee")

	f.Fill(pixel.RGB{R: 255, G: 255, B: 100})
	before := l.Current(f)
	l.Apply(f)
	assert.Less(t, l.Current(f), before)
}

func TestWhiteCap(t *testing.T) {
	f := pixel.Frame{pixel.White}
	l := &Limiter{WhiteCap: 382}
	l.Apply(f)
	sum := int(f[0].R) + int(f[0].G) + int(f[0].B)
	if sum > 382 {
		t.Fatalf("expected sum <= 382, got %d", sum)
	}
}

func TestPostKeepsSourceAndScales(t *testing.T) {
	src := pixel.Frame{pixel.White, pixel.Red}
	dst := pixel.NewFrame(2)
	PostPipeline{Correction: pixel.Uncorrected()}.Apply(dst, src, 128, 0)
	assert.Equal(t, pixel.White, src[0])
	assert.Equal(t, pixel.RGB{R: 128, G: 128, B: 128}, dst[0])

	PostPipeline{}.Apply(dst, src, 255, 2700)
	assert.Equal(t, uint8(255), dst[0].R)
	assert.Less(t, dst[0].B, dst[0].R, "warm white")
}
