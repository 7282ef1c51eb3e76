// Package session implements the talk timer: an elapsed-seconds counter with
// a pause/resume state machine, scheduled alerts, and the comment log.
package session

import (
	"io"
	"log/slog"
	"sync"

	"github.com/verte-zerg/highlights/internal/model"
	"github.com/verte-zerg/highlights/internal/stats"
)

const (
	// MaxRunMinutes stops the timer once the face reaches this minute.
	MaxRunMinutes = 10
	// CommentCapacity bounds the number of timed comments.
	CommentCapacity = 30
	// CommentOverheadSeconds is charged per comment for mic handling and
	// picking the next hand.
	CommentOverheadSeconds = 5
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDisplayObserver registers a callback receiving the timer face on every tick.
func WithDisplayObserver(fn func(model.Display)) Option {
	return func(s *Session) {
		s.onDisplay = fn
	}
}

// Session owns the timer state of a single talk. It is safe for concurrent
// use; every state transition is atomic with respect to the others.
type Session struct {
	mu        sync.Mutex
	clock     Clock
	alerter   Alerter
	logger    *slog.Logger
	onDisplay func(model.Display)

	elapsed  int
	state    model.RunState
	comments *CommentLog
}

// New returns a paused session at 0:00.
func New(clock Clock, alerter Alerter, opts ...Option) *Session {
	if alerter == nil {
		alerter = AlerterFunc(func(Pulse) {})
	}
	s := &Session{
		clock:    clock,
		alerter:  alerter,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:    model.Paused,
		comments: NewCommentLog(CommentCapacity),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tick advances the timer by one second. The alert rule and the display
// observer see the face before the increment.
func (s *Session) Tick() {
	s.mu.Lock()
	if s.state != model.Running {
		s.mu.Unlock()
		return
	}
	face := model.NewDisplay(s.elapsed)
	if face.Minutes >= MaxRunMinutes {
		s.pauseLocked()
		s.logger.Info("auto-stop", "elapsed", s.elapsed, "max_minutes", MaxRunMinutes)
	}
	pulse := ScheduledPulse(face)
	s.elapsed++
	onDisplay := s.onDisplay
	s.mu.Unlock()

	if onDisplay != nil {
		onDisplay(face)
	}
	if pulse != PulseNone {
		s.logger.Debug("scheduled pulse", "pulse", pulse.String(), "at", face.String())
		s.alerter.Pulse(pulse)
	}
}

// Pause stops the timer. Pausing a paused session does nothing.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseLocked()
}

// Resume starts the timer and gives a short pulse as feedback. Resuming a
// running session does nothing.
func (s *Session) Resume() {
	s.mu.Lock()
	resumed := s.resumeLocked()
	s.mu.Unlock()
	if resumed {
		s.alerter.Pulse(PulseShort)
	}
}

// Toggle pauses a running session and resumes a paused one.
func (s *Session) Toggle() {
	s.mu.Lock()
	if s.state == model.Running {
		s.pauseLocked()
		s.mu.Unlock()
		return
	}
	resumed := s.resumeLocked()
	s.mu.Unlock()
	if resumed {
		s.alerter.Pulse(PulseShort)
	}
}

// RecordComment timestamps a comment at the current elapsed time and
// reports whether it was stored. Recording is ignored while paused, and
// comments past capacity are counted but not stored.
func (s *Session) RecordComment() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != model.Running {
		return false
	}
	if !s.comments.Push(s.elapsed) {
		s.logger.Warn("comment log full", "capacity", s.comments.Cap(), "dropped", s.comments.Dropped())
		return false
	}
	return true
}

// RequestSummary pauses the session and returns its statistics.
func (s *Session) RequestSummary() model.SummaryReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseLocked()
	report := stats.ComputeSummary(s.elapsed, s.comments.Values(), CommentOverheadSeconds)
	report.Dropped = s.comments.Dropped()
	return report
}

// CurrentDisplay returns the timer face as M:SS.
func (s *Session) CurrentDisplay() string {
	return s.Display().String()
}

// Display returns the timer face.
func (s *Session) Display() model.Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.NewDisplay(s.elapsed)
}

// Elapsed returns the elapsed seconds.
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// State returns the run state.
func (s *Session) State() model.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Comments returns the stored comment timestamps.
func (s *Session) Comments() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comments.Values()
}

// TotalComments returns the number of recorded comments, stored or not.
func (s *Session) TotalComments() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comments.Total()
}

// Reset pauses the session and returns it to 0:00 with no comments.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseLocked()
	s.elapsed = 0
	s.comments.Reset()
}

func (s *Session) pauseLocked() {
	if s.state == model.Paused {
		return
	}
	s.state = model.Paused
	s.clock.Unsubscribe()
	s.logger.Debug("paused", "elapsed", s.elapsed)
}

func (s *Session) resumeLocked() bool {
	if s.state == model.Running {
		return false
	}
	s.state = model.Running
	s.clock.Subscribe(s.Tick)
	s.logger.Debug("resumed", "elapsed", s.elapsed)
	return true
}
