package render

import (
	"github.com/coreman2200/lumistrip/internal/pixel"
)

// PostPipeline turns the pattern frame into what the strip receives. Every
// stage is optional; the pattern frame itself is never modified.
type PostPipeline struct {
	Correction *pixel.Correction
	Limiter    *Limiter
}

// Apply writes the output of src at brightness into dst.
func (p PostPipeline) Apply(dst, src pixel.Frame, brightness uint8, kelvin int) {
	corr := p.Correction
	if corr == nil {
		corr = pixel.Uncorrected()
	}
	if kelvin > 0 {
		corr.Temperature = pixel.Kelvin(kelvin)
	} else {
		corr.Temperature = pixel.White
	}
	for i := range src {
		dst[i] = corr.Apply(src[i], brightness)
	}
	if p.Limiter != nil {
		p.Limiter.Apply(dst)
	}
}

// Limiter caps strip current in two stages:
//  1. per LED: scales a pixel so R+G+B <= WhiteCap (765 = no cap)
//  2. global: estimates the frame's current and scales it to stay under
//     BudgetMA, easing in from Knee*BudgetMA
type Limiter struct {
	WhiteCap int
	// ChanMA is the draw of one channel at full scale; WS2812 is about 20.
	ChanMA   float64
	BudgetMA float64
	Knee     float64
}

func DefaultLimiter(budgetMA float64) *Limiter {
	return &Limiter{WhiteCap: 765, ChanMA: 20, BudgetMA: budgetMA, Knee: 0.9}
}

// Current estimates the draw of f in milliamps.
func (l *Limiter) Current(f pixel.Frame) float64 {
	var total float64
	for _, c := range f {
		total += float64(int(c.R)+int(c.G)+int(c.B)) / 255.0 * l.chanMA()
	}
	return total
}

func (l *Limiter) chanMA() float64 {
	if l.ChanMA > 0 {
		return l.ChanMA
	}
	return 20
}

func (l *Limiter) Apply(f pixel.Frame) {
	if l.WhiteCap > 0 && l.WhiteCap < 765 {
		for i, c := range f {
			s := int(c.R) + int(c.G) + int(c.B)
			if s > l.WhiteCap {
				f[i] = scaleBy(c, float64(l.WhiteCap)/float64(s))
			}
		}
	}

	if l.BudgetMA <= 0 {
		return
	}
	total := l.Current(f)
	if total <= 0 {
		return
	}
	knee := l.Knee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}
	ratio := total / l.BudgetMA
	var s float64
	switch {
	case ratio <= knee:
		return
	case ratio <= 1:
		// ease from 1 at the knee down to budget/total at the budget
		minS := l.BudgetMA / total
		t := (ratio - knee) / (1 - knee)
		s = 1 - t*(1-minS)
	default:
		s = l.BudgetMA / total
	}
	if s >= 1 {
		return
	}
	for i, c := range f {
		f[i] = scaleBy(c, s)
	}
}

// scaleBy rounds down so a scaled frame never exceeds the estimate.
func scaleBy(c pixel.RGB, s float64) pixel.RGB {
	return pixel.RGB{R: uint8(float64(c.R) * s), G: uint8(float64(c.G) * s), B: uint8(float64(c.B) * s)}
}
