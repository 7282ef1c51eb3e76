package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/highlights/internal/model"
)

func TestComputeSummaryNoComments(t *testing.T) {
	report := ComputeSummary(100, nil, 5)
	assert.Equal(t, model.SummaryReport{TalkLength: 100, TotalElapsed: 100}, report)
}

func TestComputeSummaryThreeComments(t *testing.T) {
	report := ComputeSummary(120, []int{10, 40, 90}, 5)

	assert.Equal(t, 5, report.TalkLength)
	assert.Equal(t, 3, report.CommentCount)
	assert.Equal(t, 50, report.Longest)
	assert.Equal(t, 30, report.Shortest)
	assert.Equal(t, 31, report.Average)
	assert.Equal(t, 20, report.Midmean)
	assert.Equal(t, 120, report.TotalElapsed)
}

func TestComputeSummarySingleComment(t *testing.T) {
	report := ComputeSummary(70, []int{30}, 5)

	assert.Equal(t, 25, report.TalkLength)
	assert.Equal(t, 1, report.CommentCount)
	// Only the tail gap exists.
	assert.Equal(t, 40, report.Longest)
	assert.Equal(t, 40, report.Shortest)
	assert.Equal(t, 35, report.Average)
	assert.Equal(t, report.Average, report.Midmean)
}

func TestComputeSummaryTwoCommentsMidmeanIsAverage(t *testing.T) {
	report := ComputeSummary(100, []int{20, 50}, 5)

	assert.Equal(t, 15, report.TalkLength)
	assert.Equal(t, 50, report.Longest)
	assert.Equal(t, 30, report.Shortest)
	assert.Equal(t, (100-20-10)/2, report.Average)
	assert.Equal(t, report.Average, report.Midmean)
}

func TestComputeSummaryTiesExcludeOneOccurrence(t *testing.T) {
	// Gaps 30, 30, 30, 30: one longest and one shortest are dropped.
	report := ComputeSummary(130, []int{10, 40, 70, 100}, 5)

	assert.Equal(t, 30, report.Longest)
	assert.Equal(t, 30, report.Shortest)
	assert.Equal(t, (130-10-30-30-10)/2, report.Midmean)
}

func TestComputeSummaryTruncatesTowardZero(t *testing.T) {
	// Overhead exceeds the available time: (12-10-10)/2 = -4.
	report := ComputeSummary(12, []int{10, 11}, 5)

	assert.Equal(t, 5, report.TalkLength)
	assert.Equal(t, -4, report.Average)
}

func TestComputeSummaryEarlyFirstCommentGoesNegative(t *testing.T) {
	report := ComputeSummary(60, []int{2}, 5)
	assert.Equal(t, -3, report.TalkLength)
}

func TestGaps(t *testing.T) {
	assert.Nil(t, Gaps(50, nil))
	assert.Equal(t, []int{30, 50, 30}, Gaps(120, []int{10, 40, 90}))
	assert.Equal(t, []int{0}, Gaps(5, []int{5}))
}

func TestTotals(t *testing.T) {
	records := []model.TalkRecord{
		{Seq: 1, EndedAt: time.Unix(0, 0), Summary: model.SummaryReport{TalkLength: 100, CommentCount: 3, TotalElapsed: 300}},
		{Seq: 2, EndedAt: time.Unix(60, 0), Summary: model.SummaryReport{TalkLength: 51, CommentCount: 30, Dropped: 2, TotalElapsed: 600}},
	}
	totals := Totals(records)

	assert.Equal(t, 2, totals.Talks)
	assert.Equal(t, 35, totals.Comments)
	assert.Equal(t, 75, totals.AvgTalkLength)
	assert.Equal(t, 900, totals.TotalElapsed)
	assert.Equal(t, MeetingTotals{}, Totals(nil))
}
