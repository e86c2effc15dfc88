package pixel

import (
	"math"
	"time"
)

// beat returns sin of the beat phase at now for bpm, in [-1,1].
func beat(bpm float64, now time.Duration) float64 {
	return math.Sin(2 * math.Pi * bpm * now.Minutes())
}

// BeatSin16 oscillates between lo and hi (inclusive) bpm times a minute.
func BeatSin16(bpm float64, lo, hi uint16, now time.Duration) uint16 {
	if hi <= lo {
		return lo
	}
	s := (beat(bpm, now) + 1) / 2
	return lo + uint16(math.Round(s*float64(hi-lo)))
}

// BeatSin8 is BeatSin16 for byte ranges.
func BeatSin8(bpm float64, lo, hi uint8, now time.Duration) uint8 {
	return uint8(BeatSin16(bpm, uint16(lo), uint16(hi), now))
}
