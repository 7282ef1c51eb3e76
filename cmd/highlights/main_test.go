package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/highlights/internal/config"
	"github.com/verte-zerg/highlights/internal/session"
	"github.com/verte-zerg/highlights/internal/stats"
)

func TestParseComments(t *testing.T) {
	got, err := parseComments(" 10, 40,,90 ")
	require.NoError(t, err)
	assert.Equal(t, []int{10, 40, 90}, got)

	got, err = parseComments("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = parseComments("10,x")
	assert.ErrorContains(t, err, "invalid --comments")
}

func TestValidateTimes(t *testing.T) {
	assert.NoError(t, validateTimes(120, []int{10, 40, 40, 90}))
	assert.Error(t, validateTimes(-1, nil))
	assert.Error(t, validateTimes(120, []int{40, 10}))
	assert.Error(t, validateTimes(60, []int{10, 90}))
}

func TestWriteReportText(t *testing.T) {
	report := stats.ComputeSummary(120, []int{10, 40, 90}, session.CommentOverheadSeconds)
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, report, []int{10, 40, 90}, "text", false))
	assert.Contains(t, buf.String(), "*** Summary ***")
	assert.Contains(t, buf.String(), "Midmean:  0:20")
	assert.NotContains(t, buf.String(), "Gaps")

	buf.Reset()
	require.NoError(t, writeReport(&buf, report, []int{10, 40, 90}, "text", true))
	assert.Contains(t, buf.String(), "Gaps")
}

func TestWriteReportYAML(t *testing.T) {
	report := stats.ComputeSummary(120, []int{10, 40, 90}, session.CommentOverheadSeconds)
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, report, nil, "yaml", false))
	assert.Contains(t, buf.String(), "midmean: 20\n")
	assert.Contains(t, buf.String(), "talk_length: 5\n")
}

func TestSummarizeCapsComments(t *testing.T) {
	comments := make([]int, 0, session.CommentCapacity+2)
	for i := 1; i <= session.CommentCapacity+2; i++ {
		comments = append(comments, i*10)
	}

	report, stored := summarize(400, comments)
	assert.Len(t, stored, session.CommentCapacity)
	assert.Equal(t, session.CommentCapacity, report.CommentCount)
	assert.Equal(t, 2, report.Dropped)
	assert.Equal(t, 400, report.TotalElapsed)
	assert.Equal(t, 400-300, report.Longest, "tail gap runs from the last timed comment")
}

func TestSummarizeCommandReportsDropped(t *testing.T) {
	raw := make([]string, 0, session.CommentCapacity+1)
	for i := 1; i <= session.CommentCapacity+1; i++ {
		raw = append(raw, strconv.Itoa(i*10))
	}
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"summarize", "--elapsed", "400", "--comments", strings.Join(raw, ","), "--format", "yaml"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "comment_count: 30\n")
	assert.Contains(t, out.String(), "dropped: 1\n")
}

func TestWriteReportRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := writeReport(&buf, stats.ComputeSummary(0, nil, 5), nil, "json", false)
	assert.ErrorContains(t, err, "--format")
}

func TestParseLogLevel(t *testing.T) {
	level, err := parseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())

	_, err = parseLogLevel("loud")
	assert.Error(t, err)
}

func TestSummarizeCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"summarize", "--elapsed", "120", "--comments", "10,40,90", "--format", "yaml"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "comment_count: 3\n")
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	var cfg config.FileConfig
	_, err := toml.Decode(defaultConfigTemplate(), &cfg)
	require.NoError(t, err)
	assert.Nil(t, cfg.Alerts.Bell, "template values are commented out")
}
