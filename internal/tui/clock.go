package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = time.Second

type tickMsg struct {
	gen int
}

// Clock implements session.Clock on top of tea.Tick so every tick is
// delivered through Update, on the same goroutine as key handling.
// Ticks scheduled before the latest Subscribe or Unsubscribe are dropped.
type Clock struct {
	tick      func()
	gen       int
	scheduled bool
}

// NewClock returns an unsubscribed Clock.
func NewClock() *Clock {
	return &Clock{}
}

// Subscribe implements session.Clock.
func (c *Clock) Subscribe(tick func()) {
	c.tick = tick
	c.gen++
	c.scheduled = false
}

// Unsubscribe implements session.Clock.
func (c *Clock) Unsubscribe() {
	c.tick = nil
	c.gen++
	c.scheduled = false
}

// next returns the command scheduling the following tick, if one is due.
func (c *Clock) next() tea.Cmd {
	if c.tick == nil || c.scheduled {
		return nil
	}
	c.scheduled = true
	gen := c.gen
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// deliver runs the subscriber for a current tick and reports whether it ran.
func (c *Clock) deliver(msg tickMsg) bool {
	if msg.gen != c.gen || c.tick == nil {
		return false
	}
	c.scheduled = false
	c.tick()
	return true
}
