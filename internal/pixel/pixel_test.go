package pixel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlendEndpoints(t *testing.T) {
	a := RGB{10, 200, 30}
	b := RGB{250, 0, 99}
	assert.Equal(t, a, Blend(a, b, 0))
	assert.Equal(t, b, Blend(a, b, 255))
	mid := Blend(a, b, 128)
	assert.InDelta(t, 130, int(mid.R), 1)
}

func TestFadeToBlackBy(t *testing.T) {
	f := NewFrame(3)
	f.Fill(White)
	f.FadeToBlackBy(0)
	assert.True(t, f.Equal(White), "fade by 0 keeps the frame")
	f.FadeToBlackBy(255)
	assert.True(t, f.Equal(Black))
}

func TestAddSaturates(t *testing.T) {
	assert.Equal(t, RGB{255, 255, 20}, RGB{200, 100, 10}.Add(RGB{100, 200, 10}))
	assert.Equal(t, RGB{200, 200, 10}, RGB{200, 100, 10}.Or(RGB{100, 200, 5}))
}

func TestHSVPrimaries(t *testing.T) {
	assert.Equal(t, Red, HSV{0, 255, 255}.RGB())
	assert.Equal(t, Black, HSV{77, 255, 0}.RGB())
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("ff8000")
	require.NoError(t, err)
	assert.Equal(t, RGB{255, 128, 0}, c)
	assert.Equal(t, "#ff8000", c.Hex())

	_, err = ParseHex("nope")
	assert.Error(t, err)
}

func TestPaletteBlendAndBuiltins(t *testing.T) {
	p, ok := PaletteByName("heat")
	require.True(t, ok)
	assert.Equal(t, Black, p.At(0, 255, true))
	assert.Equal(t, p[1], p.At(16, 255, true))
	assert.Len(t, Palettes(), 7)

	f := NewFrame(4)
	f.FillPalette(&p, 0, 16, 255, false)
	assert.Equal(t, p[3], f[3])
}

func TestBeatSinStaysInRange(t *testing.T) {
	for ms := 0; ms < 5000; ms += 7 {
		v := BeatSin16(13, 0, 149, time.Duration(ms)*time.Millisecond)
		require.LessOrEqual(t, v, uint16(149))
	}
	assert.Equal(t, uint16(75), BeatSin16(60, 0, 150, 0))
	assert.Equal(t, uint16(4), BeatSin16(60, 4, 4, time.Second))
}

func TestFrameBytes(t *testing.T) {
	f := Frame{{1, 2, 3}, {4, 5, 6}}
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, f.Bytes(nil))
}

func TestUncorrectedIsIdentity(t *testing.T) {
	c := Uncorrected()
	for _, p := range []RGB{Red, White, {12, 34, 56}} {
		assert.Equal(t, p, c.Apply(p, 255))
	}
	assert.Equal(t, Black, c.Apply(White, 0))
}

func TestGammaDarkensMidtones(t *testing.T) {
	c := &Correction{Strip: White, Temperature: White, Gamma: 2.2}
	out := c.Apply(RGB{128, 128, 128}, 255)
	assert.Less(t, out.R, uint8(128))
	assert.Equal(t, White, c.Apply(White, 255))
}

func TestKelvin(t *testing.T) {
	assert.Equal(t, uint8(255), Kelvin(6600).R)
	warm := Kelvin(2700)
	assert.Equal(t, uint8(255), warm.R)
	assert.Less(t, warm.B, warm.G)
	assert.Equal(t, Kelvin(1000), Kelvin(10))
}
