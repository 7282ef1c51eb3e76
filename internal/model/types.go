// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Config defines ambient runtime settings.
type Config struct {
	Bell     bool
	LogLevel string
	LogFile  string
}

// RunState is the timer mode.
type RunState int

const (
	Paused RunState = iota
	Running
)

func (s RunState) String() string {
	if s == Running {
		return "running"
	}
	return "paused"
}

// Display is the (minutes, seconds) pair shown on the timer face.
type Display struct {
	Minutes int
	Seconds int
}

// NewDisplay derives the timer face from elapsed seconds. Minutes wrap every hour.
func NewDisplay(elapsed int) Display {
	return Display{
		Minutes: (elapsed % 3600) / 60,
		Seconds: elapsed % 60,
	}
}

// String formats the display as M:SS.
func (d Display) String() string {
	return fmt.Sprintf("%d:%02d", d.Minutes, d.Seconds)
}

// SummaryReport is an immutable snapshot of a talk's statistics, in seconds.
type SummaryReport struct {
	TalkLength   int `yaml:"talk_length"`
	CommentCount int `yaml:"comment_count"`
	Dropped      int `yaml:"dropped,omitempty"`
	Longest      int `yaml:"longest"`
	Shortest     int `yaml:"shortest"`
	Average      int `yaml:"average"`
	Midmean      int `yaml:"midmean"`
	TotalElapsed int `yaml:"total_elapsed"`
}

// TalkRecord is an archived talk in the meeting history.
type TalkRecord struct {
	ID      string
	Seq     int
	EndedAt time.Time
	Summary SummaryReport
}
