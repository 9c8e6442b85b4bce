package report

import (
	"fmt"
	"io"

	"shipdate/internal/event"
)

// Progress is an event observer that prints simulation progress. Updates
// are serialized by the notifier, so no internal locking is needed.
type Progress struct {
	out       io.Writer
	total     int
	completed int
	step      int
}

// NewProgress creates a progress printer for a run of the given size.
// Output is throttled to roughly one update per percent.
func NewProgress(out io.Writer, total int) *Progress {
	step := total / 100
	if step < 1 {
		step = 1
	}
	return &Progress{out: out, total: total, step: step}
}

// Update implements event.Observer.
func (p *Progress) Update(e event.Event) {
	switch e.Tag {
	case event.IterationComplete:
		p.completed++
		if p.completed%p.step == 0 && p.total > 0 {
			fmt.Fprintf(p.out, "Simulation: %.1f%% complete\r", float64(p.completed)/float64(p.total)*100)
		}
	case event.SimulationEnd:
		fmt.Fprintf(p.out, "Simulation: 100%% complete. Processing results...\r")
	case event.AggregationEnd:
		fmt.Fprintln(p.out)
	case event.SimulationError:
		if msg, ok := e.Data["message"].(string); ok {
			fmt.Fprintf(p.out, "Simulation error: %s\n", msg)
		}
	}
}
