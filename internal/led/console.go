//go:build !tinygo

package led

import (
	"image"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"
)

// Console draws the strip as a line of ANSI blocks on stdout. Used when no
// SPI port is available.
type Console struct {
	mu     sync.Mutex
	drawer display.Drawer
	img    *image.NRGBA
	count  int
	every  rate.Sometimes
	closed bool
}

// NewConsole redraws at most once per interval; 0 draws every frame.
func NewConsole(count int, interval time.Duration) *Console {
	return newConsole(screen.New(count), count, interval)
}

func newConsole(d display.Drawer, count int, interval time.Duration) *Console {
	c := &Console{
		drawer: d,
		img:    image.NewNRGBA(image.Rect(0, 0, count, 1)),
		count:  count,
	}
	if interval > 0 {
		c.every.Interval = interval
	} else {
		c.every.Every = 1
	}
	return c
}

func (c *Console) Write(rgb []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := checkSize(rgb, c.count); err != nil {
		return err
	}
	var err error
	c.every.Do(func() {
		for i := 0; i < c.count; i++ {
			o := i * 4
			c.img.Pix[o], c.img.Pix[o+1], c.img.Pix[o+2], c.img.Pix[o+3] = rgb[i*3], rgb[i*3+1], rgb[i*3+2], 255
		}
		err = c.drawer.Draw(c.drawer.Bounds(), c.img, image.Point{})
	})
	return err
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.drawer.Halt()
}
