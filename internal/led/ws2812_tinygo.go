//go:build tinygo

package led

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

// Strip bit-bangs a WS2812 strip from a microcontroller pin.
type Strip struct {
	dev   ws2812.Device
	buf   []color.RGBA
	count int
}

func NewStrip(pin machine.Pin, count int) *Strip {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Strip{dev: ws2812.New(pin), buf: make([]color.RGBA, count), count: count}
}

func (s *Strip) Write(rgb []byte) error {
	if err := checkSize(rgb, s.count); err != nil {
		return err
	}
	for i := range s.buf {
		s.buf[i] = color.RGBA{R: rgb[i*3], G: rgb[i*3+1], B: rgb[i*3+2], A: 255}
	}
	return s.dev.WriteColors(s.buf)
}

func (s *Strip) Close() error {
	for i := range s.buf {
		s.buf[i] = color.RGBA{}
	}
	return s.dev.WriteColors(s.buf)
}
