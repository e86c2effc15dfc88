//go:build tinygo

// Command firmware runs the controller on an Arduino-style board: buttons
// on D9 and D8, the dial on A0, the strip on D6.
package main

import (
	"machine"
	"time"

	"github.com/coreman2200/lumistrip/internal/animation"
	"github.com/coreman2200/lumistrip/internal/board"
	"github.com/coreman2200/lumistrip/internal/control"
	"github.com/coreman2200/lumistrip/internal/input"
	"github.com/coreman2200/lumistrip/internal/layout"
	"github.com/coreman2200/lumistrip/internal/led"
	"github.com/coreman2200/lumistrip/internal/render"
)

const (
	numLEDs   = 150
	modePin   = 9
	optionPin = 8
	dialPin   = 0
	frame     = 16 * time.Millisecond
)

func main() {
	src := board.NewMachine()
	src.AddDigital(modePin, machine.D9)
	src.AddDigital(optionPin, machine.D8)
	src.AddAnalog(dialPin, machine.A0)

	inputs := input.NewSet(
		input.NewButtonHandler(input.RoleMode, modePin, input.DefaultButtonConfig()),
		input.NewButtonHandler(input.RoleOption, optionPin, input.DefaultButtonConfig()),
		input.NewPotHandler(input.RoleDial, dialPin, input.DefaultPotConfig()),
	)
	lib := animation.NewLibrary(nil, nil)
	actx := animation.NewContext(int64(src.ReadAnalog(dialPin)), layout.Strip(numLEDs))
	ctl := control.New(control.DefaultConfig(), lib, actx, animation.DefaultSelection())
	eng, err := render.NewEngine(numLEDs, src, inputs, ctl, lib, actx, led.NewStrip(machine.D6, numLEDs))
	if err != nil {
		println("engine:", err.Error())
		return
	}
	for {
		start := time.Now()
		_ = eng.Tick()
		if d := frame - time.Since(start); d > 0 {
			time.Sleep(d)
		}
	}
}
