// Package tui provides the Bubble Tea timer interface.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/highlights/internal/model"
	"github.com/verte-zerg/highlights/internal/session"
	"github.com/verte-zerg/highlights/internal/stats"
	"github.com/verte-zerg/highlights/internal/store"
)

type view int

const (
	viewTimer view = iota
	viewSummary
	viewHistory
)

const (
	// Progress bars are measured in units of 0..fullBar, as on the watch face.
	fullBar          = 120
	talkBarEnd       = 120
	commentsBarEnd   = 480
	commentsBarSlope = 3
	maxBarWidth      = 60
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	clockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(1, 4)
	shortStyle   = clockStyle.Copy().Background(lipgloss.Color("#4A4A4A"))
	longStyle    = clockStyle.Copy().Background(lipgloss.Color("#C89A3A")).Foreground(lipgloss.Color("#1A1A1A"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	barFillStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	barRestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle    = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Flash is the on-screen counterpart of a haptic pulse. A short pulse
// highlights the clock for one tick, a long pulse for two.
type Flash struct {
	pulse session.Pulse
	ticks int
}

// NewFlash returns an idle Flash.
func NewFlash() *Flash {
	return &Flash{}
}

// Pulse implements session.Alerter.
func (f *Flash) Pulse(p session.Pulse) {
	switch p {
	case session.PulseShort:
		f.pulse, f.ticks = p, 1
	case session.PulseLong:
		f.pulse, f.ticks = p, 2
	}
}

func (f *Flash) active() session.Pulse {
	if f.ticks <= 0 {
		return session.PulseNone
	}
	return f.pulse
}

func (f *Flash) decay() {
	if f.ticks > 0 {
		f.ticks--
	}
}

// Face holds the clock face the session last ticked on. The alert rule
// fires on that face, so it is the one shown, not the incremented count.
type Face struct {
	display model.Display
	set     bool
}

// NewFace returns a Face showing 0:00.
func NewFace() *Face {
	return &Face{}
}

// Observe records the face of a tick. Pass it to session.WithDisplayObserver.
func (f *Face) Observe(d model.Display) {
	f.display, f.set = d, true
}

func (f *Face) current() model.Display {
	if !f.set {
		return model.Display{}
	}
	return f.display
}

func (f *Face) clear() {
	f.display, f.set = model.Display{}, false
}

// Model implements the Bubble Tea timer UI.
type Model struct {
	session *session.Session
	clock   *Clock
	flash   *Flash
	face    *Face
	store   *store.Store
	logger  *slog.Logger
	now     func() time.Time

	keys keyMap
	help help.Model

	width  int
	height int

	view            view
	summary         model.SummaryReport
	summaryComments []int
	// summarySeq is the archived talk shown in the summary view, 0 for the live one.
	summarySeq int
	history         table.Model
	records         []model.TalkRecord
	errMsg          string
}

// NewModel constructs the timer TUI. The session must be driven by clock,
// alert through flash and report its faces to face; st may be nil to
// disable the talk history.
func NewModel(sess *session.Session, clock *Clock, flash *Flash, face *Face, st *store.Store, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if flash == nil {
		flash = NewFlash()
	}
	if face == nil {
		face = NewFace()
	}
	return &Model{
		session: sess,
		clock:   clock,
		flash:   flash,
		face:    face,
		store:   st,
		logger:  logger,
		now:     time.Now,
		keys:    defaultKeyMap(),
		help:    help.New(),
		history: buildHistoryTable(nil, 0, 1),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.history.SetWidth(msg.Width)
		m.history.SetHeight(maxInt(1, msg.Height-6))
	case tickMsg:
		m.flash.decay()
		m.clock.deliver(msg)
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		cmd = m.handleKey(msg)
	}
	return m, tea.Batch(cmd, m.clock.next())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.view {
	case viewSummary:
		if m.summarySeq > 0 {
			switch {
			case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.History):
				m.showHistory()
			}
			return nil
		}
		switch {
		case key.Matches(msg, m.keys.Back):
			m.view = viewTimer
		case key.Matches(msg, m.keys.Next):
			m.nextTalk()
		case key.Matches(msg, m.keys.History):
			m.showHistory()
		}
		return nil
	case viewHistory:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.view = viewTimer
			return nil
		case key.Matches(msg, m.keys.Open):
			m.openTalk()
			return nil
		}
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.session.Toggle()
	case key.Matches(msg, m.keys.Comment):
		m.session.RecordComment()
	case key.Matches(msg, m.keys.Summary):
		m.showSummary()
	case key.Matches(msg, m.keys.Next):
		m.nextTalk()
	case key.Matches(msg, m.keys.History):
		m.showHistory()
	}
	return nil
}

func (m *Model) showSummary() {
	m.summary = m.session.RequestSummary()
	m.summaryComments = m.session.Comments()
	m.summarySeq = 0
	m.view = viewSummary
}

// openTalk shows the summary of the archived talk under the history cursor.
func (m *Model) openTalk() {
	idx := m.history.Cursor()
	if m.store == nil || idx < 0 || idx >= len(m.records) {
		return
	}
	rec := m.records[idx]
	comments, err := m.store.ListComments(context.Background(), rec.ID)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load talk: %v", err)
		m.logger.Error("load talk comments", "id", rec.ID, "error", err)
		return
	}
	m.errMsg = ""
	m.summary = rec.Summary
	m.summaryComments = comments
	m.summarySeq = rec.Seq
	m.view = viewSummary
}

// nextTalk archives the current talk, if it ran at all, and resets the
// session for the next speaker.
func (m *Model) nextTalk() {
	if m.session.Elapsed() > 0 && m.store != nil {
		report := m.session.RequestSummary()
		comments := m.session.Comments()
		rec, err := m.store.InsertTalk(context.Background(), report, m.now(), comments)
		if err != nil {
			m.errMsg = fmt.Sprintf("failed to archive talk: %v", err)
			m.logger.Error("archive talk", "error", err)
		} else {
			m.errMsg = ""
			m.logger.Info("talk archived", "id", rec.ID, "seq", rec.Seq, "elapsed", report.TotalElapsed)
		}
	}
	m.session.Reset()
	m.face.clear()
	m.view = viewTimer
}

func (m *Model) showHistory() {
	m.view = viewHistory
	if m.store == nil {
		m.records = nil
		m.history = buildHistoryTable(nil, m.width, m.height-6)
		return
	}
	records, err := m.store.ListTalks(context.Background())
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load history: %v", err)
		m.logger.Error("load history", "error", err)
		return
	}
	m.records = records
	m.history = buildHistoryTable(records, m.width, m.height-6)
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	bindings := m.keys.timerHelp()
	switch m.view {
	case viewSummary:
		body = m.renderSummary()
		bindings = m.keys.summaryHelp()
		if m.summarySeq > 0 {
			bindings = m.keys.archivedHelp()
		}
	case viewHistory:
		body = m.renderHistory()
		bindings = m.keys.historyHelp()
	default:
		body = m.renderTimer()
	}
	footer := m.help.ShortHelpView(bindings)
	if m.errMsg != "" {
		footer = errorStyle.Render(m.errMsg) + "\n" + footer
	}
	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + footer
	}
	bodyHeight := m.height - lipgloss.Height(footer)
	if bodyHeight < 1 {
		return body
	}
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	return placed + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m *Model) renderTimer() string {
	elapsed := m.session.Elapsed()
	face := m.face.current().String()

	style := clockStyle
	switch m.flash.active() {
	case session.PulseShort:
		style = shortStyle
	case session.PulseLong:
		style = longStyle
	}

	state := pausedStyle.Render("PAUSED")
	if m.session.State() == model.Running {
		state = runningStyle.Render("RUNNING")
	}

	talk, comments := progressFor(elapsed)
	width := m.barWidth()
	lines := []string{
		titleStyle.Render("Highlights") + "  " + state,
		style.Render(face),
		renderBar("Talk    ", talk, width),
		renderBar("Comments", comments, width),
		"",
		m.renderCommentCount(),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderCommentCount() string {
	total := m.session.TotalComments()
	stored := len(m.session.Comments())
	line := fmt.Sprintf("Comments: %d", total)
	if total > stored {
		line += fmt.Sprintf(" (log full, %d untimed)", total-stored)
	}
	return mutedStyle.Render(line)
}

func (m *Model) renderSummary() string {
	header := "*** Summary ***"
	if m.summarySeq > 0 {
		header = fmt.Sprintf("*** Talk #%d ***", m.summarySeq)
	}
	content := header + "\n" + strings.Join(stats.SummaryLines(m.summary), "\n")
	if spark := stats.GapSparkline(m.summary.TotalElapsed, m.summaryComments); spark != "" {
		content += "\n\n" + mutedStyle.Render("Gaps ") + "[" + spark + "]"
	}
	return cardStyle.Render(content)
}

func (m *Model) renderHistory() string {
	if len(m.records) == 0 {
		return mutedStyle.Render("No talks recorded yet. Press n after a talk to archive it.")
	}
	totals := stats.Totals(m.records)
	footer := fmt.Sprintf("Talks: %d  Comments: %d  Avg talk: %s  Meeting: %s",
		totals.Talks, totals.Comments, stats.FormatClock(totals.AvgTalkLength), stats.FormatClock(totals.TotalElapsed))
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Meeting history"),
		m.history.View(),
		mutedStyle.Render(footer),
	)
}

func (m *Model) barWidth() int {
	if m.width <= 0 {
		return 30
	}
	return clampInt(m.width-20, 10, maxBarWidth)
}

// progressFor returns the talk and comments bar fill in units of 0..fullBar.
// The talk bar fills during the first two minutes; the comments bar fills
// from minute two to minute eight.
func progressFor(elapsed int) (talk, comments int) {
	if elapsed <= talkBarEnd {
		return clampInt(elapsed, 0, fullBar), 0
	}
	if elapsed > commentsBarEnd {
		return fullBar, fullBar
	}
	return fullBar, (elapsed - talkBarEnd) / commentsBarSlope
}

func renderBar(label string, units, width int) string {
	filled := units * width / fullBar
	filled = clampInt(filled, 0, width)
	bar := barFillStyle.Render(strings.Repeat("█", filled)) +
		barRestStyle.Render(strings.Repeat("░", width-filled))
	return mutedStyle.Render(label) + " " + bar
}

func buildHistoryTable(records []model.TalkRecord, width, height int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Ended", Width: 6},
		{Title: "Talk", Width: 6},
		{Title: "Comments", Width: 8},
		{Title: "Average", Width: 7},
		{Title: "Midmean", Width: 7},
		{Title: "Total", Width: 6},
	}
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", r.Seq),
			r.EndedAt.Format("15:04"),
			stats.FormatClock(r.Summary.TalkLength),
			fmt.Sprintf("%d", r.Summary.CommentCount+r.Summary.Dropped),
			stats.FormatClock(r.Summary.Average),
			stats.FormatClock(r.Summary.Midmean),
			stats.FormatClock(r.Summary.TotalElapsed),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height)),
		table.WithFocused(true),
	)
	if width > 0 {
		t.SetWidth(width)
	}
	t.SetStyles(historyTableStyles())
	return t
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
