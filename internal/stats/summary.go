// Package stats contains statistics calculations and reporting.
package stats

import "github.com/verte-zerg/highlights/internal/model"

// ComputeSummary derives talk statistics from the elapsed time and the
// comment timestamps in recording order. All values are whole seconds;
// divisions truncate toward zero.
func ComputeSummary(elapsed int, comments []int, overhead int) model.SummaryReport {
	report := model.SummaryReport{
		TalkLength:   elapsed,
		TotalElapsed: elapsed,
	}
	count := len(comments)
	if count == 0 {
		return report
	}

	first := comments[0]
	report.TalkLength = first - overhead
	report.CommentCount = count
	report.Average = (elapsed - first - overhead*count) / count

	// The tail gap to the current time seeds both extremes.
	longest := elapsed - comments[count-1]
	shortest := longest
	for i := count - 1; i > 0; i-- {
		gap := comments[i] - comments[i-1]
		if gap > longest {
			longest = gap
		}
		if gap < shortest {
			shortest = gap
		}
	}
	report.Longest = longest
	report.Shortest = shortest

	report.Midmean = report.Average
	if count > 2 {
		report.Midmean = (elapsed - first - longest - shortest - overhead*2) / (count - 2)
	}
	return report
}

// Gaps returns the comment lengths: each gap between consecutive comments,
// followed by the gap from the last comment to elapsed.
func Gaps(elapsed int, comments []int) []int {
	if len(comments) == 0 {
		return nil
	}
	gaps := make([]int, 0, len(comments))
	for i := 1; i < len(comments); i++ {
		gaps = append(gaps, comments[i]-comments[i-1])
	}
	return append(gaps, elapsed-comments[len(comments)-1])
}

// MeetingTotals summarizes every archived talk of the current meeting.
type MeetingTotals struct {
	Talks         int
	Comments      int
	AvgTalkLength int
	TotalElapsed  int
}

// Totals aggregates the archived talks.
func Totals(records []model.TalkRecord) MeetingTotals {
	var totals MeetingTotals
	if len(records) == 0 {
		return totals
	}
	talkSum := 0
	for _, r := range records {
		totals.Comments += r.Summary.CommentCount + r.Summary.Dropped
		totals.TotalElapsed += r.Summary.TotalElapsed
		talkSum += r.Summary.TalkLength
	}
	totals.Talks = len(records)
	totals.AvgTalkLength = talkSum / len(records)
	return totals
}
