// Package haptics turns session pulses into terminal or log output.
package haptics

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/verte-zerg/highlights/internal/session"
)

const bel = "\a"

// Bell rings the terminal bell: once for a short pulse, twice for a long one.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Pulse implements session.Alerter.
func (b *Bell) Pulse(p session.Pulse) {
	count := 0
	switch p {
	case session.PulseShort:
		count = 1
	case session.PulseLong:
		count = 2
	}
	if count == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	// Best-effort: a missed bell is not worth surfacing.
	_, _ = io.WriteString(b.w, strings.Repeat(bel, count))
}

// Log records pulses through a structured logger.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a Log alerter.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Pulse implements session.Alerter.
func (l *Log) Pulse(p session.Pulse) {
	if p == session.PulseNone {
		return
	}
	l.logger.Info("pulse", "pattern", p.String())
}

// Multi fans a pulse out to every alerter.
type Multi []session.Alerter

// Pulse implements session.Alerter.
func (m Multi) Pulse(p session.Pulse) {
	for _, a := range m {
		if a != nil {
			a.Pulse(p)
		}
	}
}
