// Package diagnostics describes problems found at runtime in a form the
// preview page can show next to the strip.
package diagnostics

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	At             time.Time      `json:"at"`
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Level maps the severity onto a log level.
func (s Severity) Level() zerolog.Level {
	switch s {
	case Err:
		return zerolog.ErrorLevel
	case Warn:
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}

// DriverFallback reports that the requested output could not be opened.
func DriverFallback(requested, used string, err error) Diagnostic {
	return Diagnostic{
		Severity: Warn,
		Code:     "DRIVER.FALLBACK",
		Summary:  "LED output fell back to " + used,
		Detail:   errString(err),
		LikelyCauses: []string{
			"SPI is not enabled on this board",
			"the port name in config.yaml is wrong",
		},
		SuggestedFixes: []string{"enable SPI (dtparam=spi=on) or set output.port"},
		Evidence:       map[string]any{"requested": requested, "used": used},
	}
}

// WriteFailed reports a failed frame write.
func WriteFailed(err error, count int64) Diagnostic {
	return Diagnostic{
		Severity:     Err,
		Code:         "DRIVER.WRITE",
		Summary:      "Frame write failed",
		Detail:       errString(err),
		LikelyCauses: []string{"the strip was unplugged", "the SPI bus was closed"},
		Evidence:     map[string]any{"write_errors": count},
	}
}

// Log writes d to l at its severity.
func Log(l zerolog.Logger, d Diagnostic) {
	ev := l.WithLevel(d.Severity.Level()).Str("code", d.Code)
	if d.Detail != "" {
		ev = ev.Str("detail", d.Detail)
	}
	ev.Msg(d.Summary)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Ring keeps the most recent diagnostics so late subscribers can catch up.
type Ring struct {
	mu   sync.Mutex
	buf  []Diagnostic
	next int
	full bool
}

func NewRing(n int) *Ring {
	if n <= 0 {
		n = 1
	}
	return &Ring{buf: make([]Diagnostic, n)}
}

// Add stamps d if it has no time and stores it, dropping the oldest.
func (r *Ring) Add(d Diagnostic) Diagnostic {
	if d.At.IsZero() {
		d.At = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = d
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
	return d
}

// List returns the stored diagnostics, oldest first.
func (r *Ring) List() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Diagnostic(nil), r.buf[:r.next]...)
	}
	out := make([]Diagnostic, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}
