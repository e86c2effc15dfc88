package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/lumistrip/internal/app"
	"github.com/coreman2200/lumistrip/internal/config"
	diag "github.com/coreman2200/lumistrip/internal/diagnostics"
	"github.com/coreman2200/lumistrip/internal/input"
	"github.com/coreman2200/lumistrip/internal/led"
	"github.com/coreman2200/lumistrip/internal/selftest"
	"github.com/coreman2200/lumistrip/internal/sequence"
)

func main() {
	// ---- Flags (config.yaml is loaded first; flags set on the command line win) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		leds       = flag.Int("leds", 150, "number of LEDs on the strip")
		fps        = flag.Int("fps", 60, "target frames per second")
		driver     = flag.String("driver", "auto", "output: auto | spi | console | sim")
		port       = flag.String("port", "", "SPI port name, empty for the first one")
		addr       = flag.String("addr", ":8080", "preview HTTP listen address, empty to disable")
		virtual    = flag.Bool("virtual", false, "simulate the buttons and dial instead of reading GPIO")
		script     = flag.String("script", "", "input script to play (implies -virtual)")
		tests      = flag.String("selftest", "", "comma separated self tests to run before starting (rgb_channels,index_sweep,row_sweep)")
		level      = flag.String("log-level", "info", "log level")
		dump       = flag.Bool("write-config", false, "write the effective config to -config and exit")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(*level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", *level).Msg("unknown log level")
	}

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		}
		cfg = config.Default()
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "leds":
			cfg.LEDs = *leds
		case "fps":
			cfg.FPS = *fps
		case "driver":
			k, err := led.ParseKind(*driver)
			if err != nil {
				log.Fatal().Err(err).Msg("bad -driver")
			}
			cfg.Output.Driver = k
		case "port":
			cfg.Output.Port = *port
		case "addr":
			cfg.PreviewAddr = *addr
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if *dump {
		if err := config.Save(*configPath, cfg); err != nil {
			log.Fatal().Err(err).Msg("write config")
		}
		log.Info().Str("path", *configPath).Msg("config written")
		return
	}

	var plans []selftest.Plan
	for _, name := range strings.Split(*tests, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		k, err := selftest.ParseKind(name)
		if err != nil {
			log.Fatal().Err(err).Msg("bad -selftest")
		}
		plans = append(plans, selftest.Plan{Kind: k})
	}

	var prog *sequence.Script
	if *script != "" {
		s, err := sequence.Load(*script)
		if err != nil {
			log.Fatal().Err(err).Msg("script")
		}
		prog = &s
		*virtual = true
	}

	// ---- Output ----
	drv, used, diags, err := app.OpenOutput(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", string(cfg.Output.Driver)).Msg("open output")
	}

	// ---- Inputs ----
	var src input.Source
	if !*virtual {
		b, err := app.OpenBoard(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("no board inputs; using virtual inputs")
			diags = append(diags, diag.Diagnostic{
				Severity:       diag.Warn,
				Code:           "INPUT.VIRTUAL",
				Summary:        "Buttons and dial are simulated",
				Detail:         err.Error(),
				SuggestedFixes: []string{"check board.gpio_prefix and the ADS1115 wiring", "drive inputs from the preview /control socket"},
			})
		} else {
			defer b.Close()
			src = b
		}
	}
	if src == nil {
		v := input.NewVirtual()
		v.SetValue(cfg.Pins.Dial, cfg.Dial.Initial)
		src = input.NewWall(v)
	}

	core, err := app.Build(cfg, src, drv, used)
	if err != nil {
		log.Fatal().Err(err).Msg("build")
	}
	defer core.Close()
	for _, d := range diags {
		core.Report(d)
	}
	if prog != nil {
		if err := core.Play(*prog); err != nil {
			log.Fatal().Err(err).Msg("script")
		}
	}

	// ---- Run until signalled ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(plans) > 0 {
		hold := 300 * time.Millisecond
		if err := selftest.Run(ctx, drv, cfg.Layout(), cfg.LEDs, hold, plans...); err != nil {
			log.Warn().Err(err).Msg("self test stopped")
		}
	}

	log.Info().
		Int("leds", cfg.LEDs).
		Int("fps", cfg.FPS).
		Str("driver", used).
		Bool("virtual", core.Virtual != nil).
		Msg("lumistrip running")
	if err := core.Run(ctx); err != nil {
		log.Error().Err(err).Msg("stopped")
		return
	}
	log.Info().Msg("shutting down")
}
