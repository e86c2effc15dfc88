package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/lumistrip/internal/app"
	"github.com/coreman2200/lumistrip/internal/config"
	"github.com/coreman2200/lumistrip/internal/input"
	"github.com/coreman2200/lumistrip/internal/led"
	"github.com/coreman2200/lumistrip/internal/sequence"
)

// seqsim plays an input script against a simulated strip on a virtual
// clock and prints what the controller did. It runs as fast as it can, so
// a long script finishes in moments and two runs print the same thing.
func main() {
	var (
		scriptPath = flag.String("script", "", "path to an input script (YAML)")
		configPath = flag.String("config", "", "optional config.yaml")
		fps        = flag.Int("fps", 60, "simulated frames per second")
		maxTime    = flag.Duration("max", 10*time.Minute, "stop a looping script after this much simulated time")
		verbose    = flag.Bool("v", false, "log every input event")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *scriptPath == "" {
		log.Fatal().Msg("provide -script path to an input script")
	}
	script, err := sequence.Load(*scriptPath)
	if err != nil {
		log.Fatal().Err(err).Msg("script")
	}

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("config")
		}
	}
	cfg.PreviewAddr = ""
	cfg.MetricsEvery = 0
	if *fps > 0 {
		cfg.FPS = *fps
	}

	v := input.NewVirtual()
	v.SetValue(cfg.Pins.Dial, cfg.Dial.Initial)
	core, err := app.Build(cfg, v, led.NewSim(cfg.LEDs), string(led.KindSim))
	if err != nil {
		log.Fatal().Err(err).Msg("build")
	}
	if err := core.Play(script); err != nil {
		log.Fatal().Err(err).Msg("play")
	}

	dt := time.Second / time.Duration(cfg.FPS)
	var last string
	for v.Now() < *maxTime && core.Seq.State == sequence.Running {
		v.Advance(dt)
		_ = core.Eng.Tick()
		snap := core.Eng.Snapshot()
		line := fmt.Sprintf("mode=%s pattern=%s brightness=%d speed=%.2f standby=%v",
			snap.Selection.Mode, snap.Pattern, snap.Selection.Brightness, snap.Selection.SpeedMultiplier, snap.Selection.Standby)
		if line != last {
			fmt.Printf("%8s  %s\n", snap.At, line)
			last = line
		}
	}
	fmt.Println("done at", v.Now())
}
