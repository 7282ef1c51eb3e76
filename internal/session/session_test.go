package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/highlights/internal/model"
)

type pulseRecorder struct {
	mu     sync.Mutex
	pulses []Pulse
}

func (r *pulseRecorder) Pulse(p Pulse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pulses = append(r.pulses, p)
}

func (r *pulseRecorder) all() []Pulse {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Pulse(nil), r.pulses...)
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *ManualClock, *pulseRecorder) {
	t.Helper()
	clock := NewManualClock()
	alerts := &pulseRecorder{}
	return New(clock, alerts, opts...), clock, alerts
}

func TestNewSessionStartsPaused(t *testing.T) {
	s, clock, alerts := newTestSession(t)

	assert.Equal(t, model.Paused, s.State())
	assert.Equal(t, 0, s.Elapsed())
	assert.Equal(t, "0:00", s.CurrentDisplay())
	assert.False(t, clock.Subscribed())
	assert.Empty(t, alerts.all())
}

func TestResumeSubscribesAndPulses(t *testing.T) {
	s, clock, alerts := newTestSession(t)

	s.Resume()
	assert.Equal(t, model.Running, s.State())
	assert.True(t, clock.Subscribed())
	assert.Equal(t, []Pulse{PulseShort}, alerts.all())

	s.Resume()
	assert.Equal(t, 1, clock.Subscriptions(), "second resume must not resubscribe")
	assert.Equal(t, []Pulse{PulseShort}, alerts.all(), "second resume must not pulse")
}

func TestPauseIsIdempotent(t *testing.T) {
	s, clock, alerts := newTestSession(t)
	s.Resume()

	s.Pause()
	s.Pause()
	assert.Equal(t, model.Paused, s.State())
	assert.False(t, clock.Subscribed())
	assert.Equal(t, []Pulse{PulseShort}, alerts.all())
}

func TestTickAdvancesOnlyWhileRunning(t *testing.T) {
	s, clock, _ := newTestSession(t)

	assert.Equal(t, 0, clock.Advance(5))
	s.Tick()
	assert.Equal(t, 0, s.Elapsed(), "paused session must stay frozen")

	s.Resume()
	assert.Equal(t, 75, clock.Advance(75))
	assert.Equal(t, 75, s.Elapsed())
	assert.Equal(t, "1:15", s.CurrentDisplay())

	s.Pause()
	assert.Equal(t, 0, clock.Advance(10))
	assert.Equal(t, 75, s.Elapsed())
}

func TestToggle(t *testing.T) {
	s, clock, alerts := newTestSession(t)

	s.Toggle()
	assert.Equal(t, model.Running, s.State())
	clock.Advance(3)
	s.Toggle()
	assert.Equal(t, model.Paused, s.State())
	s.Toggle()
	assert.Equal(t, model.Running, s.State())
	assert.Equal(t, 2, clock.Subscriptions())
	assert.Equal(t, []Pulse{PulseShort, PulseShort}, alerts.all())
	assert.Equal(t, 3, s.Elapsed())
}

func TestScheduledPulsesDuringTalk(t *testing.T) {
	s, clock, alerts := newTestSession(t)
	s.Resume()

	clock.Advance(9 * 60)

	assert.Equal(t, []Pulse{PulseShort, PulseShort, PulseLong, PulseShort, PulseLong}, alerts.all())
}

func TestPulseUsesFaceBeforeIncrement(t *testing.T) {
	s, clock, alerts := newTestSession(t)
	s.Resume()

	clock.Advance(105)
	assert.Equal(t, []Pulse{PulseShort}, alerts.all(), "1:45 has not ticked yet")
	clock.Advance(1)
	assert.Equal(t, []Pulse{PulseShort, PulseShort}, alerts.all())
	assert.Equal(t, 106, s.Elapsed())
}

func TestAutoStopAtMaxMinutes(t *testing.T) {
	s, clock, _ := newTestSession(t)
	s.Resume()

	delivered := clock.Advance(700)

	assert.Equal(t, 601, delivered)
	assert.Equal(t, model.Paused, s.State())
	assert.False(t, clock.Subscribed())
	assert.Equal(t, 601, s.Elapsed())

	assert.Equal(t, 0, clock.Advance(10), "stays paused until an explicit resume")

	s.Resume()
	assert.Equal(t, 1, clock.Advance(10))
	assert.Equal(t, model.Paused, s.State())
}

func TestDisplayObserverSeesEveryFace(t *testing.T) {
	var faces []model.Display
	s, clock, _ := newTestSession(t, WithDisplayObserver(func(d model.Display) {
		faces = append(faces, d)
	}))
	s.Resume()
	clock.Advance(61)

	require.Len(t, faces, 61)
	assert.Equal(t, model.Display{}, faces[0])
	assert.Equal(t, model.Display{Minutes: 0, Seconds: 59}, faces[59])
	assert.Equal(t, model.Display{Minutes: 1, Seconds: 0}, faces[60])
}

func TestRecordCommentWhileRunning(t *testing.T) {
	s, clock, _ := newTestSession(t)

	assert.False(t, s.RecordComment(), "paused sessions do not record")
	assert.Equal(t, 0, s.TotalComments())

	s.Resume()
	clock.Advance(10)
	assert.True(t, s.RecordComment())
	clock.Advance(30)
	assert.True(t, s.RecordComment())

	assert.Equal(t, []int{10, 40}, s.Comments())
	assert.Equal(t, 2, s.TotalComments())
}

func TestRecordCommentCapacity(t *testing.T) {
	s, clock, _ := newTestSession(t)
	s.Resume()

	for i := 0; i < CommentCapacity; i++ {
		clock.Advance(1)
		require.True(t, s.RecordComment())
	}
	clock.Advance(1)
	assert.False(t, s.RecordComment())
	assert.False(t, s.RecordComment())

	assert.Len(t, s.Comments(), CommentCapacity)
	assert.Equal(t, CommentCapacity+2, s.TotalComments())
}

func TestRequestSummaryPausesAndComputes(t *testing.T) {
	s, clock, _ := newTestSession(t)
	s.Resume()
	clock.Advance(10)
	s.RecordComment()
	clock.Advance(30)
	s.RecordComment()
	clock.Advance(50)
	s.RecordComment()
	clock.Advance(30)

	report := s.RequestSummary()

	assert.Equal(t, model.Paused, s.State())
	assert.False(t, clock.Subscribed())
	assert.Equal(t, model.SummaryReport{
		TalkLength:   5,
		CommentCount: 3,
		Longest:      50,
		Shortest:     30,
		Average:      31,
		Midmean:      20,
		TotalElapsed: 120,
	}, report)
}

func TestRequestSummaryReportsDropped(t *testing.T) {
	s, clock, _ := newTestSession(t)
	s.Resume()
	for i := 0; i < CommentCapacity+3; i++ {
		clock.Advance(10)
		s.RecordComment()
	}

	report := s.RequestSummary()
	assert.Equal(t, CommentCapacity, report.CommentCount)
	assert.Equal(t, 3, report.Dropped)
}

func TestReset(t *testing.T) {
	s, clock, _ := newTestSession(t)
	s.Resume()
	clock.Advance(42)
	s.RecordComment()

	s.Reset()

	assert.Equal(t, model.Paused, s.State())
	assert.Equal(t, 0, s.Elapsed())
	assert.Empty(t, s.Comments())
	assert.Equal(t, 0, s.TotalComments())
	assert.False(t, clock.Subscribed())
}

func TestConcurrentCommandsDoNotRace(t *testing.T) {
	s, clock, _ := newTestSession(t)
	s.Resume()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		clock.Advance(200)
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			s.RecordComment()
			_ = s.CurrentDisplay()
		}
	}()
	wg.Wait()

	comments := s.Comments()
	for i := 1; i < len(comments); i++ {
		assert.LessOrEqual(t, comments[i-1], comments[i])
	}
}
