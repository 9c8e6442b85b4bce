package simulation

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"shipdate/internal/event"
	"shipdate/internal/project"
)

// MonteCarlo runs many independent iterations of the completion-date
// simulation and aggregates the end dates into a cumulative probability
// distribution. Lifecycle events are fanned out through the embedded
// Notifier; observers are a progress side channel and never influence
// results.
type MonteCarlo struct {
	event.Notifier

	project    *project.Project
	iterations int
	workers    int
	seed       int64
}

// NewMonteCarlo creates a simulation of the given size. Iterations run
// with up to NumCPU workers and a time-based seed; both can be overridden
// before Run.
func NewMonteCarlo(p *project.Project, iterations int) *MonteCarlo {
	return &MonteCarlo{
		project:    p,
		iterations: iterations,
		workers:    runtime.NumCPU(),
		seed:       time.Now().UnixNano(),
	}
}

// SetWorkers bounds the number of concurrent iterations. Values below 1
// are ignored.
func (m *MonteCarlo) SetWorkers(n int) {
	if n >= 1 {
		m.workers = n
	}
}

// SetSeed fixes the base seed. Iteration i draws from a generator seeded
// seed+i, so a fixed seed reproduces the full distribution regardless of
// worker count or completion order.
func (m *MonteCarlo) SetSeed(seed int64) {
	m.seed = seed
}

// Run executes the simulation and returns one Outcome per distinct end
// date, keyed by midnight-UTC date. It fails before running any
// iteration when the project configuration is invalid or its weekly
// capacity is not positive, since such a project can never finish.
// Failed iterations contribute nothing to the returned distribution.
func (m *MonteCarlo) Run() (map[time.Time]Outcome, error) {
	start := time.Now()
	m.Notify(event.New(event.SimulationStart, nil))

	if m.project != nil {
		if err := m.preflight(); err != nil {
			m.Notify(event.New(event.SimulationError, map[string]any{"message": err.Error()}))
			return nil, err
		}
	}

	results := make([]*Result, m.iterations)
	var g errgroup.Group
	g.SetLimit(m.workers)
	for i := range results {
		i := i
		g.Go(func() error {
			rng := rand.New(rand.NewSource(m.seed + int64(i)))
			it := NewIteration(m.project, rng)
			it.Run()
			results[i] = it.Result()
			m.Notify(event.New(event.IterationComplete, map[string]any{
				"number": i,
				"result": results[i],
			}))
			return nil
		})
	}
	// Workers never return errors; failures travel as Result values.
	_ = g.Wait()

	elapsed := time.Since(start).Seconds()
	m.Notify(event.New(event.SimulationEnd, map[string]any{"seconds": elapsed}))
	log.Debug().
		Int("iterations", m.iterations).
		Float64("seconds", elapsed).
		Msg("Simulation phase complete")

	return m.aggregate(results), nil
}

// preflight validates the project and rejects configurations that would
// make CalculatingWeeks loop forever.
func (m *MonteCarlo) preflight() error {
	if err := m.project.Validate(); err != nil {
		return fmt.Errorf("invalid project configuration: %w", err)
	}
	if m.project.MaxPersonDaysPerWeek() <= 0 {
		return errors.New(
			"the max person days per week must be greater than 0 or the simulation will never end")
	}
	return nil
}

// aggregate buckets successful end dates and computes the running
// cumulative probability over dates in ascending order. The denominator
// is the requested iteration count, so failed iterations leave the final
// probability short of 1.0 rather than hiding the gap.
func (m *MonteCarlo) aggregate(results []*Result) map[time.Time]Outcome {
	start := time.Now()
	m.Notify(event.New(event.AggregationStart, nil))

	counts := make(map[time.Time]int)
	for _, r := range results {
		if r == nil || r.Status != StatusSuccess {
			continue
		}
		end, ok := r.EndDate()
		if !ok {
			continue
		}
		counts[project.Day(end)]++
	}

	dates := make([]time.Time, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	outcomes := make(map[time.Time]Outcome, len(dates))
	cumulative := 0
	for _, d := range dates {
		cumulative += counts[d]
		outcomes[d] = Outcome{
			Total:       counts[d],
			Probability: float64(cumulative) / float64(m.iterations),
		}
	}

	m.Notify(event.New(event.AggregationEnd, map[string]any{
		"seconds": time.Since(start).Seconds(),
	}))
	return outcomes
}
