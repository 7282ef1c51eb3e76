// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/highlights/internal/model"
)

const sparkChars = " .:-=+*#%@"

// FormatClock renders seconds as M:SS. Negative values keep their sign.
func FormatClock(seconds int) string {
	if seconds < 0 {
		return "-" + FormatClock(-seconds)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// GapSparkline renders the comment gaps of a talk as a sparkline.
func GapSparkline(elapsed int, comments []int) string {
	gaps := Gaps(elapsed, comments)
	values := make([]float64, len(gaps))
	for i, g := range gaps {
		values[i] = float64(g)
	}
	return Sparkline(values)
}

// SummaryLines returns the label/value rows of the summary block.
func SummaryLines(report model.SummaryReport) []string {
	comments := fmt.Sprintf("%d", report.CommentCount+report.Dropped)
	if report.Dropped > 0 {
		comments = fmt.Sprintf("%s (%d untimed)", comments, report.Dropped)
	}
	rows := [][]string{
		{"Talk:", FormatClock(report.TalkLength)},
		{"Comments:", comments},
		{"Longest:", FormatClock(report.Longest)},
		{"Shortest:", FormatClock(report.Shortest)},
		{"Average:", FormatClock(report.Average)},
		{"Midmean:", FormatClock(report.Midmean)},
		{"Total:", FormatClock(report.TotalElapsed)},
	}
	return formatTable(nil, rows, map[int]bool{1: true})
}

// RenderSummary prints the summary block for a talk.
func RenderSummary(w io.Writer, report model.SummaryReport) error {
	if _, err := fmt.Fprintln(w, "*** Summary ***"); err != nil {
		return err
	}
	for _, line := range SummaryLines(report) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteYAML encodes the report as YAML, values in seconds.
func WriteYAML(w io.Writer, report model.SummaryReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return enc.Close()
}

// RenderHistory prints a table of archived talks followed by meeting totals.
func RenderHistory(w io.Writer, records []model.TalkRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No talks recorded yet.")
		return err
	}
	headers := []string{"#", "Ended", "Talk", "Comments", "Average", "Midmean", "Total"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Seq),
			r.EndedAt.Format("15:04"),
			FormatClock(r.Summary.TalkLength),
			fmt.Sprintf("%d", r.Summary.CommentCount+r.Summary.Dropped),
			FormatClock(r.Summary.Average),
			FormatClock(r.Summary.Midmean),
			FormatClock(r.Summary.TotalElapsed),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	totals := Totals(records)
	_, err := fmt.Fprintf(w, "\nTalks: %d  Comments: %d  Avg talk: %s  Meeting: %s\n",
		totals.Talks, totals.Comments, FormatClock(totals.AvgTalkLength), FormatClock(totals.TotalElapsed))
	return err
}
