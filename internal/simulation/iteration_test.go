package simulation

import (
	"math/rand"
	"testing"
	"time"

	"shipdate/internal/project"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// usProject builds a deterministic single-task project: no vacations and
// a zero-variance estimate, so only weekends and US holidays move the
// end date.
func usProject(t *testing.T, developers int, penalty float64, estimate float64) *project.Project {
	t.Helper()
	p := project.New("test")
	p.DeveloperCount = developers
	p.CommunicationPenalty = penalty
	p.WeeksOffPerYear = 0
	p.StartDate = date(2020, time.January, 1)
	p.HolidayCountry = "US"

	task, err := project.NewTask("work", estimate, estimate, estimate)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	p.Tasks = []project.Task{task}

	if err := p.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return p
}

func TestIteration_RequiresProject(t *testing.T) {
	it := NewIteration(nil, nil)
	it.Run()

	result := it.Result()
	if result == nil {
		t.Fatal("Expected a result")
	}
	if result.Status != StatusFailure {
		t.Errorf("Expected failure status, got %s", result.Status)
	}
	if result.Message != "No project was provided." {
		t.Errorf("Unexpected message: %q", result.Message)
	}
}

func TestIteration_RequiresTasks(t *testing.T) {
	it := NewIteration(project.New("empty"), nil)
	it.Run()

	result := it.Result()
	if result == nil {
		t.Fatal("Expected a result")
	}
	if result.Status != StatusFailure {
		t.Errorf("Expected failure status, got %s", result.Status)
	}
	if result.Message != "No tasks were present in the project." {
		t.Errorf("Unexpected message: %q", result.Message)
	}
}

func TestIteration_EmptyTaskGroupDoesNotCount(t *testing.T) {
	p := project.New("empty group")
	p.TaskGroups = []*project.TaskGroup{project.NewTaskGroup("hollow")}

	it := NewIteration(p, nil)
	it.Run()

	if got := it.Result().Message; got != "No tasks were present in the project." {
		t.Errorf("Unexpected message: %q", got)
	}
}

func TestIteration_SingleDeveloperCalendarWalk(t *testing.T) {
	// 12 person-days starting 2020-01-01 with one developer: New Year's
	// Day and MLK Day each cost a day, weekends are skipped, and the end
	// date lands on Tuesday the 21st.
	p := usProject(t, 1, 0.5, 12)

	it := NewIteration(p, rand.New(rand.NewSource(1)))
	it.Run()

	result := it.Result()
	if result.Status != StatusSuccess {
		t.Fatalf("Expected success, got %s: %s", result.Status, result.Message)
	}
	end, ok := result.EndDate()
	if !ok {
		t.Fatal("Expected an end date")
	}
	if want := date(2020, time.January, 21); !end.Equal(want) {
		t.Errorf("Expected end date %s, got %s", want.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	if start, ok := result.Attributes["start_date"].(time.Time); !ok || !start.Equal(end) {
		t.Errorf("Expected start_date to equal end_date, got %v", result.Attributes["start_date"])
	}
}

func TestIteration_TwoDevelopersNoOverhead(t *testing.T) {
	// Two silent developers burn 12 person-days in six working days;
	// with New Year's Day in the way the end date is Friday the 10th.
	p := usProject(t, 2, 0, 12)

	it := NewIteration(p, rand.New(rand.NewSource(1)))
	it.Run()

	result := it.Result()
	if result.Status != StatusSuccess {
		t.Fatalf("Expected success, got %s: %s", result.Status, result.Message)
	}
	end, _ := result.EndDate()
	if want := date(2020, time.January, 10); !end.Equal(want) {
		t.Errorf("Expected end date %s, got %s", want.Format("2006-01-02"), end.Format("2006-01-02"))
	}
}

func TestIteration_TwoDevelopersCommunicating(t *testing.T) {
	// Communication overhead pushes completion past the weekend to
	// Monday the 13th.
	p := usProject(t, 2, 0.5, 12)

	it := NewIteration(p, rand.New(rand.NewSource(1)))
	it.Run()

	result := it.Result()
	if result.Status != StatusSuccess {
		t.Fatalf("Expected success, got %s: %s", result.Status, result.Message)
	}
	end, _ := result.EndDate()
	if want := date(2020, time.January, 13); !end.Equal(want) {
		t.Errorf("Expected end date %s, got %s", want.Format("2006-01-02"), end.Format("2006-01-02"))
	}
}

func TestIteration_AlwaysEndsOnWorkingDay(t *testing.T) {
	p := project.New("random")
	p.StartDate = date(2020, time.January, 1)
	p.WeeksOffPerYear = 8 // frequent vacations to exercise the capacity draw
	p.HolidayCountry = "US"
	task, err := project.NewTask("work", 5, 12, 16)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	p.Tasks = []project.Task{task}
	if err := p.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i := 0; i < 200; i++ {
		it := NewIteration(p, rand.New(rand.NewSource(int64(i))))
		it.Run()

		result := it.Result()
		if result.Status != StatusSuccess {
			t.Fatalf("Iteration %d failed: %s", i, result.Message)
		}
		end, ok := result.EndDate()
		if !ok {
			t.Fatalf("Iteration %d has no end date", i)
		}
		if !p.IsWorkingDay(end) {
			t.Errorf("Iteration %d ended on a non-working day %s", i, end.Format("2006-01-02"))
		}
		if end.Before(p.StartDate) {
			t.Errorf("Iteration %d ended before the project started: %s", i, end.Format("2006-01-02"))
		}
	}
}

func TestIteration_CalculatingDaysWithoutProject(t *testing.T) {
	it := NewIteration(nil, nil)
	it.state = StateCalculatingDays
	it.step()

	if it.State() != StateError {
		t.Errorf("Expected error state, got %s", it.State())
	}
	it.step()
	if got := it.Result().Message; got != "No project was provided." {
		t.Errorf("Unexpected message: %q", got)
	}
}

func TestIteration_CalculatingDaysWithoutCurrentDate(t *testing.T) {
	it := NewIteration(project.New("test"), nil)
	it.state = StateCalculatingDays
	it.step()

	if it.State() != StateError {
		t.Errorf("Expected error state, got %s", it.State())
	}
	it.step()
	if got := it.Result().Message; got != "No current date was provided." {
		t.Errorf("Unexpected message: %q", got)
	}
}

func TestIteration_FinalizingWithoutProject(t *testing.T) {
	it := NewIteration(nil, nil)
	it.state = StateFinalizing
	it.step()

	if it.State() != StateError {
		t.Errorf("Expected error state, got %s", it.State())
	}
}

func TestIteration_FinalizingWithoutCurrentDate(t *testing.T) {
	it := NewIteration(project.New("test"), nil)
	it.state = StateFinalizing
	it.step()

	if it.State() != StateError {
		t.Errorf("Expected error state, got %s", it.State())
	}
	it.step()
	if got := it.Result().Message; got != "No current date was provided." {
		t.Errorf("Unexpected message: %q", got)
	}
}

func TestIteration_ErrorStateWithoutProvisionalResult(t *testing.T) {
	it := NewIteration(nil, nil)
	it.state = StateError
	it.step()

	result := it.Result()
	if result == nil || result.Status != StatusFailure {
		t.Fatal("Expected a fallback failure result")
	}
	if result.Message != "Iteration failed unexpectedly. Someone should fix this." {
		t.Errorf("Unexpected message: %q", result.Message)
	}
}

func TestIteration_SuccessfulStateWithoutProvisionalResult(t *testing.T) {
	it := NewIteration(nil, nil)
	it.state = StateSuccessful
	it.step()

	result := it.Result()
	if result == nil || result.Status != StatusFailure {
		t.Fatal("Expected a fallback failure result")
	}
}

func TestIteration_VacationDraw(t *testing.T) {
	p := project.New("test")
	p.WeeksOffPerYear = 0
	it := NewIteration(p, rand.New(rand.NewSource(1)))

	// No allowance means no vacation, ever.
	for i := 0; i < project.WeeksInAYear; i++ {
		if got := it.vacationDaysThisWeek(); got != 0 {
			t.Fatalf("Expected no vacation days, got %g", got)
		}
	}

	// A 26-week allowance loses roughly half the weeks; over a year it
	// cannot plausibly stay at zero.
	p.WeeksOffPerYear = 26
	total := 0.0
	for i := 0; i < project.WeeksInAYear; i++ {
		total += it.vacationDaysThisWeek()
	}
	if total == 0 {
		t.Error("Expected some vacation days with a 26-week allowance")
	}
}

func TestIteration_DemandSampleStaysNearEstimates(t *testing.T) {
	p := project.New("test")
	task, _ := project.NewTask("a", 1, 2, 3)
	group := project.NewTaskGroup("g")
	b, _ := project.NewTask("b", 1, 2, 3)
	c, _ := project.NewTask("c", 1, 2, 3)
	group.Add(b)
	group.Add(c)
	p.Tasks = []project.Task{task}
	p.TaskGroups = []*project.TaskGroup{group}

	it := NewIteration(p, rand.New(rand.NewSource(1)))
	for i := 0; i < 1000; i++ {
		sample := it.sampleDemand()
		// Three tasks with mean 2 and stddev 1/3 each: staying within
		// [3, 9] is over five sigmas of headroom.
		if sample < 3 || sample > 9 {
			t.Fatalf("Sample %d out of expected range: %g", i, sample)
		}
	}
}
