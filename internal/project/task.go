package project

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

// Task is a unit of work carrying a three-point estimate in person-days.
// Estimates are validated at construction and never change afterward.
type Task struct {
	ID          uuid.UUID
	Name        string
	Optimistic  float64
	Likely      float64
	Pessimistic float64
}

// NewTask validates the three-point estimate and returns an immutable Task.
func NewTask(name string, optimistic, likely, pessimistic float64) (Task, error) {
	if optimistic < 0 {
		return Task{}, errors.New("optimistic estimate must be zero or more")
	}
	if likely < optimistic {
		return Task{}, errors.New("likely estimate must be equal to or greater than the optimistic estimate")
	}
	if pessimistic < likely {
		return Task{}, errors.New("pessimistic estimate must be equal to or greater than the likely estimate")
	}
	return Task{
		ID:          uuid.New(),
		Name:        name,
		Optimistic:  optimistic,
		Likely:      likely,
		Pessimistic: pessimistic,
	}, nil
}

// Average is the PERT weighted mean: the likely estimate counts four times
// as much as the other two.
func (t Task) Average() float64 {
	return (t.Optimistic + t.Pessimistic + 4*t.Likely) / 6
}

// StdDev is the spread of the estimate, one sixth of the
// pessimistic-optimistic range.
func (t Task) StdDev() float64 {
	return (t.Pessimistic - t.Optimistic) / 6
}

// Variance reproduces the historical formula sqrt(stddev). It is not a
// statistical variance; downstream consumers depend on the documented
// value, so it stays.
func (t Task) Variance() float64 {
	return math.Sqrt(t.StdDev())
}

// TaskGroup is an ordered container of tasks, used to model repeated or
// recurring chunks of work. Grouping has no simulation meaning beyond
// contributing the member tasks to total demand.
type TaskGroup struct {
	ID    uuid.UUID
	Name  string
	Tasks []Task
}

// NewTaskGroup returns an empty group.
func NewTaskGroup(name string) *TaskGroup {
	return &TaskGroup{ID: uuid.New(), Name: name}
}

// Add appends a task to the group. It reports false, without adding, when
// a task with the same ID is already present.
func (g *TaskGroup) Add(task Task) bool {
	for _, existing := range g.Tasks {
		if existing.ID == task.ID {
			return false
		}
	}
	g.Tasks = append(g.Tasks, task)
	return true
}

// TaskCount returns the number of tasks in the group.
func (g *TaskGroup) TaskCount() int {
	return len(g.Tasks)
}
