// Package stats summarizes the local activity history.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/tuizen/internal/model"
)

const sparkChars = " .:-=+*#%@"

const terminalWidthBackup = 80

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

// DailyMinutes buckets activity time per calendar day, ending at end and
// spanning days entries.
func DailyMinutes(recs []model.ActivityRecord, end time.Time, days int) []float64 {
	if days <= 0 {
		return nil
	}
	out := make([]float64, days)
	last := truncateDay(end)
	for _, rec := range recs {
		day := truncateDay(rec.EndedAt.In(end.Location()))
		offset := int(last.Sub(day).Hours() / 24)
		if offset < 0 || offset >= days {
			continue
		}
		out[days-1-offset] += rec.EndedAt.Sub(rec.StartedAt).Minutes()
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// RenderSummary prints the per-activity table.
func RenderSummary(w io.Writer, aggs []model.ActivityAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	headers := []string{"Activity", "Sessions", "Minutes", "Best", "Last"}
	rows := make([][]string, 0, len(aggs))
	for _, a := range aggs {
		rows = append(rows, []string{
			a.Activity,
			fmt.Sprintf("%d", a.Sessions),
			fmt.Sprintf("%.1f", float64(a.DurationMs)/60000),
			BestLabel(a),
			a.LastEnded.Local().Format("2006-01-02 15:04"),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderActivityCurve prints a sparkline of daily minutes sized to width;
// width <= 0 measures the terminal.
func RenderActivityCurve(w io.Writer, recs []model.ActivityRecord, end time.Time, width int) error {
	if width <= 0 {
		width = terminalWidth()
	}
	const label = "Daily minutes "
	days := width - len(label) - 2
	if days > 90 {
		days = 90
	}
	if days < 7 {
		days = 7
	}
	line := Sparkline(DailyMinutes(recs, end, days))
	_, err := fmt.Fprintf(w, "%s|%s|\n", label, line)
	return err
}

// BestLabel formats the best detail of an activity with its unit.
func BestLabel(a model.ActivityAggregate) string {
	switch a.Activity {
	case "breathing":
		return fmt.Sprintf("%d cycles", a.BestDetail)
	case "meditation":
		return fmt.Sprintf("%ds", a.BestDetail)
	case "shapes":
		return fmt.Sprintf("%d placed", a.BestDetail)
	case "zen":
		return fmt.Sprintf("%d strokes", a.BestDetail)
	case "leaves":
		return fmt.Sprintf("%d drags", a.BestDetail)
	default:
		return fmt.Sprintf("%d", a.BestDetail)
	}
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
