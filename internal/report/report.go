// Package report renders simulation results for the terminal: the full
// end-date distribution and a short percentile summary.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"

	"shipdate/internal/simulation"
)

// Confidence thresholds for the summary lines, mirroring the common
// forecasting cut points: coin toss, commitment, conservative.
const (
	p50 = 0.50
	p85 = 0.85
	p95 = 0.95
)

var (
	lowColor  = color.New(color.FgRed)
	midColor  = color.New(color.FgYellow)
	highColor = color.New(color.FgGreen)
	bold      = color.New(color.Bold)
)

// Render writes the distribution table followed by the percentile
// summary. Dates print in ascending order with their bucket size and
// cumulative probability.
func Render(w io.Writer, projectName string, outcomes map[time.Time]simulation.Outcome) {
	if len(outcomes) == 0 {
		fmt.Fprintln(w, "No successful iterations; nothing to report.")
		return
	}

	dates := sortedDates(outcomes)

	bold.Fprintf(w, "Forecast for %s\n\n", projectName)
	fmt.Fprintf(w, "%-12s  %8s  %12s\n", "End date", "Count", "Cumulative")
	for _, d := range dates {
		o := outcomes[d]
		line := fmt.Sprintf("%-12s  %8d  %11.1f%%", d.Format("2006-01-02"), o.Total, o.Probability*100)
		probColor(o.Probability).Fprintln(w, line)
	}

	fmt.Fprintln(w)
	bold.Fprintln(w, "Confidence levels")
	printPercentile(w, "50% (coin toss)", dates, outcomes, p50)
	printPercentile(w, "85% (commitment)", dates, outcomes, p85)
	printPercentile(w, "95% (conservative)", dates, outcomes, p95)
}

// PercentileDate returns the earliest date whose cumulative probability
// reaches the target, and false when the run never gets there (which
// happens when iterations failed).
func PercentileDate(outcomes map[time.Time]simulation.Outcome, target float64) (time.Time, bool) {
	for _, d := range sortedDates(outcomes) {
		if outcomes[d].Probability >= target {
			return d, true
		}
	}
	return time.Time{}, false
}

func printPercentile(w io.Writer, label string, dates []time.Time, outcomes map[time.Time]simulation.Outcome, target float64) {
	for _, d := range dates {
		if outcomes[d].Probability >= target {
			fmt.Fprintf(w, "  %-20s %s\n", label, d.Format("2006-01-02"))
			return
		}
	}
	fmt.Fprintf(w, "  %-20s not reached\n", label)
}

func sortedDates(outcomes map[time.Time]simulation.Outcome) []time.Time {
	dates := make([]time.Time, 0, len(outcomes))
	for d := range outcomes {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func probColor(p float64) *color.Color {
	switch {
	case p >= p85:
		return highColor
	case p >= p50:
		return midColor
	default:
		return lowColor
	}
}
