package simulation

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"shipdate/internal/project"
)

// State identifies a phase of the iteration state machine.
type State int

const (
	StateUninitialized State = iota
	StateCalculatingWeeks
	StateCalculatingDays
	StateFinalizing
	StateSuccessful
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateCalculatingWeeks:
		return "calculating_weeks"
	case StateCalculatingDays:
		return "calculating_days"
	case StateFinalizing:
		return "finalizing"
	case StateSuccessful:
		return "successful"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Iteration converts one random draw of total project demand into a
// calendar completion date. It first consumes whole weeks of capacity,
// then walks the residual week day by day, skipping non-working days and
// holidays, and finally lands the end date on the first working day.
//
// An Iteration owns its random stream and all mutable cursor state, so
// independent iterations can run concurrently without coordination.
type Iteration struct {
	project *project.Project
	rng     *rand.Rand

	state               State
	currentDate         time.Time
	personDaysRemaining float64
	remainderDays       float64
	workingDaysLeft     float64
	walkStarted         bool

	provisional *Result
	result      *Result
}

// NewIteration creates an iteration for the project. A nil rng gets a
// time-seeded source; callers running iterations in parallel should pass
// independently seeded generators to avoid correlated streams.
func NewIteration(p *project.Project, rng *rand.Rand) *Iteration {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Iteration{project: p, rng: rng, state: StateUninitialized}
}

// Run drives the state machine to a terminal state.
func (it *Iteration) Run() {
	for it.result == nil {
		it.step()
	}
}

// Result returns the final result, or nil while the iteration is running.
func (it *Iteration) Result() *Result {
	return it.result
}

// State returns the machine's current state.
func (it *Iteration) State() State {
	return it.state
}

func (it *Iteration) step() {
	switch it.state {
	case StateUninitialized:
		it.handleUninitialized()
	case StateCalculatingWeeks:
		it.handleCalculatingWeeks()
	case StateCalculatingDays:
		it.handleCalculatingDays()
	case StateFinalizing:
		it.handleFinalizing()
	case StateSuccessful:
		it.handleSuccessful()
	case StateError:
		it.handleError()
	}
}

// fail records a provisional failure and moves to the error state.
func (it *Iteration) fail(message string) {
	it.provisional = &Result{Status: StatusFailure, Message: message}
	it.state = StateError
}

func (it *Iteration) handleUninitialized() {
	log.Debug().Msg("Iteration is initializing")
	if it.project == nil {
		it.fail("No project was provided.")
		return
	}
	if !it.project.HasTasks() {
		it.fail("No tasks were present in the project.")
		return
	}

	it.currentDate = project.Day(it.project.StartDate)
	it.personDaysRemaining = it.sampleDemand()
	it.state = StateCalculatingWeeks
}

// sampleDemand draws the total person-days of work for this iteration:
// one independent normal draw per task, around the task's PERT mean.
func (it *Iteration) sampleDemand() float64 {
	if it.project == nil {
		return 0
	}
	total := 0.0
	for _, t := range it.project.AllTasks() {
		total += it.rng.NormFloat64()*t.StdDev() + t.Average()
	}
	return total
}

// vacationDaysThisWeek draws the person-days lost to vacation this week.
// Each developer independently has a weeksOff-in-52 chance of taking the
// whole week off.
func (it *Iteration) vacationDaysThisWeek() float64 {
	if it.project.WeeksOffPerYear <= 0 {
		return 0
	}
	lost := 0.0
	for i := 0; i < it.project.DeveloperCount; i++ {
		draw := it.rng.Float64() * (project.WeeksInAYear / it.project.WeeksOffPerYear)
		if draw <= 1 {
			lost += it.project.WorkDaysPerWeek()
		}
	}
	return lost
}

func (it *Iteration) handleCalculatingWeeks() {
	if it.project == nil {
		it.fail("No project was provided.")
		return
	}

	capacity := it.project.MaxPersonDaysPerWeek() -
		it.vacationDaysThisWeek() -
		it.project.PersonDaysLostToHolidays(it.currentDate)
	if capacity < 0 {
		capacity = 0
	}

	if it.personDaysRemaining <= capacity {
		// The remaining demand fits in this week. Hold on to the week's
		// capacity and switch to day-level resolution without consuming it.
		it.remainderDays = capacity
		it.state = StateCalculatingDays
		return
	}

	it.currentDate = it.currentDate.AddDate(0, 0, 7)
	it.personDaysRemaining -= capacity
}

func (it *Iteration) handleCalculatingDays() {
	if it.project == nil {
		it.fail("No project was provided.")
		return
	}
	if it.currentDate.IsZero() {
		it.fail("No current date was provided.")
		return
	}

	if !it.walkStarted {
		// The portion of the final week still needed is the ratio of the
		// remaining demand to the week's capacity. Scaled by the number of
		// working days in the window, that gives the calendar working days
		// left to walk. Computed once on entry.
		numWorkingDays := len(it.project.WorkingDaysInWeek(it.currentDate))
		if it.remainderDays > 0 {
			it.workingDaysLeft = it.personDaysRemaining / it.remainderDays * float64(numWorkingDays)
		} else {
			it.workingDaysLeft = 0
		}
		it.walkStarted = true
	}

	if !it.project.IsWorkingDay(it.currentDate) {
		it.currentDate = it.currentDate.AddDate(0, 0, 1)
		return
	}

	it.workingDaysLeft--
	it.currentDate = it.currentDate.AddDate(0, 0, 1)
	if it.workingDaysLeft <= 0 {
		it.state = StateFinalizing
	}
}

func (it *Iteration) handleFinalizing() {
	if it.project == nil {
		it.fail("No project was provided.")
		return
	}
	if it.currentDate.IsZero() {
		it.fail("No current date was provided.")
		return
	}

	// The end date must land on a working day; roll forward past
	// weekends and holidays.
	if !it.project.IsWorkingDay(it.currentDate) {
		it.currentDate = it.currentDate.AddDate(0, 0, 1)
		return
	}

	it.provisional = &Result{
		Status:  StatusSuccess,
		Message: "Process completed.",
		Attributes: map[string]any{
			"start_date": it.currentDate,
			"end_date":   it.currentDate,
		},
	}
	it.state = StateSuccessful
}

func (it *Iteration) handleError() {
	log.Debug().Msg("Iteration has encountered an error")
	if it.provisional != nil {
		it.result = it.provisional
		return
	}
	it.result = &Result{
		Status:  StatusFailure,
		Message: "Iteration failed unexpectedly. Someone should fix this.",
	}
}

func (it *Iteration) handleSuccessful() {
	log.Debug().Msg("Iteration was successful")
	if it.provisional != nil {
		it.result = it.provisional
		return
	}
	it.result = &Result{
		Status:  StatusFailure,
		Message: "Iteration succeeded without a result. This should NEVER HAPPEN. Someone should fix this.",
	}
}
