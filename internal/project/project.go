package project

import (
	"fmt"
	"time"
)

const (
	// WeeksInAYear is used when converting a yearly vacation allowance
	// into a per-week probability.
	WeeksInAYear = 52
)

// Project is the root data model: staffing parameters, the working-week
// shape, and the tasks whose estimates drive the simulation.
//
// Numeric fields must satisfy Validate before a simulation runs; the
// Monte Carlo driver calls it as part of its preflight. Validate also
// builds the holiday calendar, so it must run before iterations execute
// in parallel.
type Project struct {
	Name      string
	StartDate time.Time

	// DeveloperCount is the number of developers working concurrently.
	DeveloperCount int
	// WeeksOffPerYear is the vacation allowance per developer per year.
	WeeksOffPerYear float64
	// WorkHoursPerDay is the length of a working day, between 1 and 16.
	WorkHoursPerDay float64
	// CommunicationPenalty is hours per week lost per communication
	// channel pair, between 0 and 10.
	CommunicationPenalty float64
	// WorkWeekdays is the set of weekdays worked, a non-empty subset of
	// Sunday..Saturday.
	WorkWeekdays []time.Weekday
	// HolidayCountry is an optional ISO 3166 alpha-2 code selecting a
	// public-holiday calendar. Empty disables holiday logic.
	HolidayCountry string

	Tasks      []Task
	TaskGroups []*TaskGroup

	holidays *HolidayCalendar
}

// New returns a project with the customary defaults: starts today, one
// developer, two weeks off per year, eight-hour days Monday through
// Friday, and half an hour of weekly communication per channel.
func New(name string) *Project {
	return &Project{
		Name:                 name,
		StartDate:            Day(time.Now()),
		DeveloperCount:       1,
		WeeksOffPerYear:      2,
		WorkHoursPerDay:      8,
		CommunicationPenalty: 0.5,
		WorkWeekdays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
	}
}

// Validate checks every numeric field and builds the holiday calendar.
// It must be called again after mutating the project.
func (p *Project) Validate() error {
	if p.DeveloperCount < 1 {
		return fmt.Errorf("developer count must be at least 1, got %d", p.DeveloperCount)
	}
	if p.WeeksOffPerYear < 0 {
		return fmt.Errorf("weeks off per year must be zero or more, got %g", p.WeeksOffPerYear)
	}
	if p.WorkHoursPerDay < 1 || p.WorkHoursPerDay > 16 {
		return fmt.Errorf("work hours per day must be between 1 and 16, got %g", p.WorkHoursPerDay)
	}
	if p.CommunicationPenalty < 0 || p.CommunicationPenalty > 10 {
		return fmt.Errorf("communication penalty must be between 0 and 10, got %g", p.CommunicationPenalty)
	}
	if len(p.WorkWeekdays) == 0 {
		return fmt.Errorf("at least one working weekday is required")
	}
	seen := map[time.Weekday]bool{}
	for _, d := range p.WorkWeekdays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("invalid weekday %d", d)
		}
		if seen[d] {
			return fmt.Errorf("duplicate weekday %s", d)
		}
		seen[d] = true
	}

	holidays, err := NewHolidayCalendar(p.HolidayCountry)
	if err != nil {
		return err
	}
	p.holidays = holidays
	return nil
}

// WorkDaysPerWeek is the size of the working-weekday set.
func (p *Project) WorkDaysPerWeek() float64 {
	return float64(len(p.WorkWeekdays))
}

// WorkWeekHours is the number of hours one developer works per week.
func (p *Project) WorkWeekHours() float64 {
	return p.WorkDaysPerWeek() * p.WorkHoursPerDay
}

// CommunicationChannels is the number of developer pairs, C(n, 2).
func (p *Project) CommunicationChannels() int {
	return p.DeveloperCount * (p.DeveloperCount - 1) / 2
}

// MaxPersonDaysPerWeek is the weekly capacity ceiling: total developer
// hours minus communication overhead (each channel costs both ends),
// expressed in person-days.
func (p *Project) MaxPersonDaysPerWeek() float64 {
	baseHours := float64(p.DeveloperCount) * p.WorkWeekHours()
	communicationHours := 2 * float64(p.CommunicationChannels()) * p.CommunicationPenalty
	return (baseHours - communicationHours) / p.WorkHoursPerDay
}

// IsWorkWeekday reports whether the weekday is part of the working week.
func (p *Project) IsWorkWeekday(d time.Weekday) bool {
	for _, w := range p.WorkWeekdays {
		if w == d {
			return true
		}
	}
	return false
}

// IsHoliday reports whether the date is a public holiday in the
// configured country. Always false when no country is configured.
func (p *Project) IsHoliday(date time.Time) bool {
	return p.holidays.IsHoliday(date)
}

// IsWorkingDay reports whether work happens on the date: a working
// weekday that is not a holiday.
func (p *Project) IsWorkingDay(date time.Time) bool {
	return p.IsWorkWeekday(date.Weekday()) && !p.IsHoliday(date)
}

// WorkingDaysInWeek returns the working days within the 7-calendar-day
// window starting at start.
func (p *Project) WorkingDaysInWeek(start time.Time) []time.Time {
	days := make([]time.Time, 0, len(p.WorkWeekdays))
	for i := 0; i < 7; i++ {
		d := Day(start.AddDate(0, 0, i))
		if p.IsWorkingDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// PersonDaysLostToHolidays counts person-days lost to holidays in the
// 7-calendar-day window starting at start: every developer loses one day
// per holiday.
func (p *Project) PersonDaysLostToHolidays(start time.Time) float64 {
	lost := 0.0
	for i := 0; i < 7; i++ {
		if p.IsHoliday(Day(start.AddDate(0, 0, i))) {
			lost += float64(p.DeveloperCount)
		}
	}
	return lost
}

// AllTasks flattens the project's direct tasks and every group's tasks
// into a single sequence, direct tasks first.
func (p *Project) AllTasks() []Task {
	tasks := make([]Task, 0, len(p.Tasks))
	tasks = append(tasks, p.Tasks...)
	for _, g := range p.TaskGroups {
		tasks = append(tasks, g.Tasks...)
	}
	return tasks
}

// HasTasks reports whether any task is reachable from the project.
func (p *Project) HasTasks() bool {
	if len(p.Tasks) > 0 {
		return true
	}
	for _, g := range p.TaskGroups {
		if g.TaskCount() > 0 {
			return true
		}
	}
	return false
}
