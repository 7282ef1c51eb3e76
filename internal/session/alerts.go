package session

import "github.com/verte-zerg/highlights/internal/model"

// Pulse is a haptic alert pattern.
type Pulse int

const (
	PulseNone Pulse = iota
	PulseShort
	PulseLong
)

func (p Pulse) String() string {
	switch p {
	case PulseShort:
		return "short"
	case PulseLong:
		return "long"
	default:
		return "none"
	}
}

// Alerter delivers haptic pulses.
type Alerter interface {
	Pulse(p Pulse)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(Pulse)

// Pulse implements Alerter.
func (f AlerterFunc) Pulse(p Pulse) {
	f(p)
}

// ScheduledPulse returns the alert due at the given timer face: a short
// pulse 15 seconds before the 2 and 8 minute marks, a long pulse on them.
func ScheduledPulse(d model.Display) Pulse {
	switch {
	case d.Seconds == 45 && (d.Minutes == 1 || d.Minutes == 7):
		return PulseShort
	case d.Seconds == 0 && (d.Minutes == 2 || d.Minutes == 8):
		return PulseLong
	default:
		return PulseNone
	}
}
