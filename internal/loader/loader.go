// Package loader reads project definitions from disk: a YAML project
// file with inline tasks and groups, optionally pulling the task list
// from a CSV file with name,optimistic,likely,pessimistic columns.
package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"shipdate/internal/project"
)

type taskEntry struct {
	Name        string  `yaml:"name"`
	Optimistic  float64 `yaml:"optimistic"`
	Likely      float64 `yaml:"likely"`
	Pessimistic float64 `yaml:"pessimistic"`
}

type groupEntry struct {
	Name  string      `yaml:"name"`
	Tasks []taskEntry `yaml:"tasks"`
}

type projectFile struct {
	Name                 string       `yaml:"name"`
	StartDate            string       `yaml:"start_date"`
	DeveloperCount       *int         `yaml:"developer_count"`
	WeeksOffPerYear      *float64     `yaml:"weeks_off_per_year"`
	WorkHoursPerDay      *float64     `yaml:"work_hours_per_day"`
	CommunicationPenalty *float64     `yaml:"communication_penalty"`
	WorkWeekdays         []string     `yaml:"work_weekdays"`
	HolidayCountry       string       `yaml:"holiday_country"`
	Tasks                []taskEntry  `yaml:"tasks"`
	TaskGroups           []groupEntry `yaml:"task_groups"`
	TaskFile             string       `yaml:"task_file"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// LoadProject reads a YAML project definition. A task_file path is
// resolved relative to the YAML file's directory. The returned project
// is validated and ready to simulate.
func LoadProject(path string) (*project.Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var pf projectFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}
	if pf.Name == "" {
		return nil, fmt.Errorf("project file %s has no name", path)
	}

	p := project.New(pf.Name)
	if pf.StartDate != "" {
		start, err := time.Parse("2006-01-02", pf.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parsing start_date: %w", err)
		}
		p.StartDate = project.Day(start)
	}
	if pf.DeveloperCount != nil {
		p.DeveloperCount = *pf.DeveloperCount
	}
	if pf.WeeksOffPerYear != nil {
		p.WeeksOffPerYear = *pf.WeeksOffPerYear
	}
	if pf.WorkHoursPerDay != nil {
		p.WorkHoursPerDay = *pf.WorkHoursPerDay
	}
	if pf.CommunicationPenalty != nil {
		p.CommunicationPenalty = *pf.CommunicationPenalty
	}
	if len(pf.WorkWeekdays) > 0 {
		weekdays, err := parseWeekdays(pf.WorkWeekdays)
		if err != nil {
			return nil, err
		}
		p.WorkWeekdays = weekdays
	}
	p.HolidayCountry = pf.HolidayCountry

	for _, entry := range pf.Tasks {
		task, err := project.NewTask(entry.Name, entry.Optimistic, entry.Likely, entry.Pessimistic)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", entry.Name, err)
		}
		p.Tasks = append(p.Tasks, task)
	}
	for _, ge := range pf.TaskGroups {
		group := project.NewTaskGroup(ge.Name)
		for _, entry := range ge.Tasks {
			task, err := project.NewTask(entry.Name, entry.Optimistic, entry.Likely, entry.Pessimistic)
			if err != nil {
				return nil, fmt.Errorf("task %q in group %q: %w", entry.Name, ge.Name, err)
			}
			group.Add(task)
		}
		p.TaskGroups = append(p.TaskGroups, group)
	}

	if pf.TaskFile != "" {
		csvPath := pf.TaskFile
		if !filepath.IsAbs(csvPath) {
			csvPath = filepath.Join(filepath.Dir(path), csvPath)
		}
		tasks, err := LoadTasksCSV(csvPath)
		if err != nil {
			return nil, err
		}
		p.Tasks = append(p.Tasks, tasks...)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project %q: %w", pf.Name, err)
	}

	log.Debug().
		Str("project", p.Name).
		Int("tasks", len(p.AllTasks())).
		Msg("Loaded project definition")
	return p, nil
}

// LoadTasksCSV reads a task list from a CSV file with a header row
// containing name, optimistic, likely and pessimistic columns.
func LoadTasksCSV(path string) ([]project.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening task file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading task file %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("task file %s has no data rows", path)
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "optimistic", "likely", "pessimistic"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("task file %s is missing column %q", path, required)
		}
	}

	tasks := make([]project.Task, 0, len(records)-1)
	for line, record := range records[1:] {
		estimates := make(map[string]float64, 3)
		for _, col := range []string{"optimistic", "likely", "pessimistic"} {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[cols[col]]), 64)
			if err != nil {
				return nil, fmt.Errorf("task file %s line %d: bad %s value: %w", path, line+2, col, err)
			}
			estimates[col] = v
		}
		task, err := project.NewTask(
			strings.TrimSpace(record[cols["name"]]),
			estimates["optimistic"],
			estimates["likely"],
			estimates["pessimistic"],
		)
		if err != nil {
			return nil, fmt.Errorf("task file %s line %d: %w", path, line+2, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	weekdays := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		weekdays = append(weekdays, d)
	}
	return weekdays, nil
}
