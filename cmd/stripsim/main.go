package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/lumistrip/internal/app"
	"github.com/coreman2200/lumistrip/internal/config"
	"github.com/coreman2200/lumistrip/internal/input"
	"github.com/coreman2200/lumistrip/internal/led"
	"github.com/coreman2200/lumistrip/internal/sequence"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fff")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555"))
	heldStyle   = lipgloss.NewStyle().Reverse(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
)

// A terminal has no key-up events, so a tap is a down now and an up after
// tapHold, and a long tap holds past the long press threshold.
const (
	tapHold  = 120 * time.Millisecond
	longHold = 900 * time.Millisecond
	dialStep = 32
	refresh  = 50 * time.Millisecond
)

type refreshMsg struct{}

type releaseMsg struct{ role input.Role }

type model struct {
	core  *app.Core
	sim   *led.Sim
	width int

	held map[input.Role]bool // latched by the hold keys
	dial int
}

func refreshCmd() tea.Cmd {
	return tea.Tick(refresh, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m *model) Init() tea.Cmd { return refreshCmd() }

func (m *model) setButton(r input.Role, down bool) {
	if b := m.core.Inputs.Button(r); b != nil {
		m.core.Virtual.SetLevel(b.Pin(), down != b.Config().Invert)
	}
}

func (m *model) tap(r input.Role, hold time.Duration) tea.Cmd {
	m.setButton(r, true)
	return tea.Tick(hold, func(time.Time) tea.Msg { return releaseMsg{r} })
}

func (m *model) latch(r input.Role) {
	m.held[r] = !m.held[r]
	m.setButton(r, m.held[r])
}

func (m *model) turn(delta int) {
	m.dial = min(max(m.dial+delta, 0), m.core.Cfg.Dial.Max)
	m.core.Virtual.SetValue(m.core.Cfg.Pins.Dial, m.dial)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "m":
			return m, m.tap(input.RoleMode, tapHold)
		case "M":
			return m, m.tap(input.RoleMode, longHold)
		case "o":
			return m, m.tap(input.RoleOption, tapHold)
		case "O":
			return m, m.tap(input.RoleOption, longHold)
		case "1":
			m.latch(input.RoleMode)
		case "2":
			m.latch(input.RoleOption)
		case "up", "k", "+":
			m.turn(dialStep)
		case "down", "j", "-":
			m.turn(-dialStep)
		case "p":
			if pin := m.core.Cfg.Pins.Motion; pin >= 0 {
				m.core.Virtual.SetLevel(pin, !m.core.Virtual.ReadDigital(pin))
			}
		}
	case releaseMsg:
		if !m.held[msg.role] {
			m.setButton(msg.role, false)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case refreshMsg:
		return m, refreshCmd()
	}
	return m, nil
}

func (m *model) strip() string {
	rgb := m.sim.Last()
	width := m.width
	if width <= 0 {
		width = 80
	}
	var rows []string
	var b strings.Builder
	for i := 0; i+2 < len(rgb); i += 3 {
		c := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb[i], rgb[i+1], rgb[i+2]))
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render("█"))
		if (i/3+1)%width == 0 {
			rows = append(rows, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

func (m *model) View() string {
	snap := m.core.Eng.Snapshot()
	sel := snap.Selection
	header := headerStyle.Render(fmt.Sprintf("lumistrip  %s / %s  frame %d", sel.Mode, snap.Pattern, snap.Frame))

	button := func(label string, r input.Role) string {
		if slices.Contains(snap.Held, r.String()) {
			return heldStyle.Render(label)
		}
		return label
	}
	state := fmt.Sprintf("%s %s  dial %4d  bright %3d  speed %.2fx  hue %3d",
		button("MODE", input.RoleMode), button("OPTION", input.RoleOption),
		m.dial, sel.Brightness, sel.SpeedMultiplier, sel.Hue)
	if sel.Temperature > 0 {
		state += fmt.Sprintf("  %dK", sel.Temperature)
	}
	if sel.Standby {
		state += "  standby"
	}
	if m.core.Seq != nil {
		state += fmt.Sprintf("  script %s step %d", m.core.Seq.State, m.core.Seq.Step())
	}
	help := dimStyle.Render("m/M:mode tap/long  o/O:option tap/long  1/2:hold mode/option  ↑↓:dial  p:motion  q:quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, "", m.strip(), "", statusStyle.Render(state), help)
}

func main() {
	var (
		configPath = flag.String("config", "", "optional config.yaml")
		leds       = flag.Int("leds", 60, "number of LEDs")
		script     = flag.String("script", "", "input script to play")
		addr       = flag.String("addr", "", "preview HTTP address, empty to disable")
		logPath    = flag.String("log", "", "write logs here; the terminal is busy drawing")
	)
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log.Logger = zerolog.New(logOut).With().Timestamp().Logger()

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = c
	} else {
		cfg.LEDs = *leds
	}
	cfg.PreviewAddr = *addr
	if cfg.Pins.Motion < 0 {
		cfg.Pins.Motion = 4
	}

	v := input.NewVirtual()
	v.SetValue(cfg.Pins.Dial, cfg.Dial.Max)
	sim := led.NewSim(cfg.LEDs)
	core, err := app.Build(cfg, input.NewWall(v), sim, string(led.KindSim))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *script != "" {
		s, err := sequence.Load(*script)
		if err == nil {
			err = core.Play(s)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- core.Run(ctx) }()

	m := &model{core: core, sim: sim, held: map[input.Role]bool{}, dial: cfg.Dial.Max}
	_, runErr := tea.NewProgram(m, tea.WithAltScreen()).Run()
	cancel()
	if err := <-done; err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}
