package simulation

import "time"

// Status classifies how an iteration ended.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Result is the outcome of a single iteration. It is immutable once
// produced; a failure carries a message and no dates, a success carries
// start_date and end_date attributes.
type Result struct {
	Status     Status
	Message    string
	Attributes map[string]any
}

// EndDate returns the completion date of a successful iteration.
func (r *Result) EndDate() (time.Time, bool) {
	if r == nil || r.Attributes == nil {
		return time.Time{}, false
	}
	d, ok := r.Attributes["end_date"].(time.Time)
	return d, ok
}

// Outcome is one bucket of the aggregated Monte Carlo distribution: how
// many iterations finished on a date, and the cumulative probability of
// finishing on or before it.
type Outcome struct {
	Total       int
	Probability float64
}
