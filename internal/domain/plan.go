package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Plan is the materialized, per-customer task list. Its ID is the customer id.
type Plan struct {
	CustomerID string         `json:"customer_id"`
	Sections   []*PlanSection `json:"sections"`
	Version    int            `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type PlanSection struct {
	Title string      `json:"title"`
	Tasks []*PlanTask `json:"tasks"`
}

// MonthlySnapshot archives one tracked period of a recurring task.
type MonthlySnapshot struct {
	Month   string `json:"month"` // YYYY-MM
	Current int    `json:"current"`
	Goal    int    `json:"goal"`
}

type Subtask struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy string     `json:"completed_by,omitempty"`
}

// TaskFile is attachment metadata; the bytes live in blob storage.
type TaskFile struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
}

type PlanTask struct {
	ID                  string            `json:"id"`
	Origin              TaskOrigin        `json:"origin"`
	Task                string            `json:"task"`
	Section             string            `json:"section"`
	Frequency           Frequency         `json:"frequency"`
	Progress            Progress          `json:"progress"`
	IsActive            bool              `json:"is_active"`
	Order               int               `json:"order"`
	DaysAfterJoin       int               `json:"days_after_join"`
	MonthlyDueDate      *int              `json:"monthly_due_date,omitempty"`
	DueDate             *time.Time        `json:"due_date,omitempty"`
	CompletedDate       *time.Time        `json:"completed_date,omitempty"`
	RequiresGoal        bool              `json:"requires_goal"`
	Current             int               `json:"current"`
	Goal                int               `json:"goal"`
	MonthlyHistory      []MonthlySnapshot `json:"monthly_history,omitempty"`
	Subtasks            []Subtask         `json:"subtasks,omitempty"`
	AssignedTeamMembers []string          `json:"assigned_team_members,omitempty"`
	Files               []TaskFile        `json:"files,omitempty"`
	Notes               string            `json:"notes,omitempty"`
	CreatedBy           string            `json:"created_by,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedBy           string            `json:"updated_by,omitempty"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// Validate checks a task payload before it is written into a plan.
func (t *PlanTask) Validate() error {
	var errs []error
	if strings.TrimSpace(t.Task) == "" {
		errs = append(errs, fmt.Errorf("task name is required"))
	}
	if !ValidFrequencies[t.Frequency] {
		errs = append(errs, fmt.Errorf("frequency %q is not one of One Time, Monthly, As Needed", t.Frequency))
	}
	if t.Progress != "" && !ValidProgress[t.Progress] {
		errs = append(errs, fmt.Errorf("progress %q is not one of To Do, Doing, Done", t.Progress))
	}
	switch {
	case t.Frequency == FrequencyMonthly && t.MonthlyDueDate == nil:
		errs = append(errs, fmt.Errorf("monthly due date is required for Monthly tasks"))
	case t.MonthlyDueDate != nil && (*t.MonthlyDueDate < 1 || *t.MonthlyDueDate > 28):
		errs = append(errs, fmt.Errorf("monthly due date must be between 1 and 28"))
	}
	if t.Current < 0 || t.Goal < 0 {
		errs = append(errs, fmt.Errorf("current and goal must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// SetProgress moves the task to p, stamping or clearing CompletedDate so that
// a Done task always carries one.
func (t *PlanTask) SetProgress(p Progress, now time.Time) {
	t.Progress = p
	switch {
	case p == ProgressDone && t.CompletedDate == nil:
		d := now
		t.CompletedDate = &d
	case p != ProgressDone:
		t.CompletedDate = nil
	}
}

// FindTask locates a task by id and returns its section and task indexes.
func (p *Plan) FindTask(id string) (int, int, bool) {
	for si, s := range p.Sections {
		for ti, t := range s.Tasks {
			if t.ID == id {
				return si, ti, true
			}
		}
	}
	return -1, -1, false
}

// Task returns the task with the given id, or nil.
func (p *Plan) Task(id string) *PlanTask {
	si, ti, ok := p.FindTask(id)
	if !ok {
		return nil
	}
	return p.Sections[si].Tasks[ti]
}

// Section returns the section with the given title, or nil.
func (p *Plan) Section(title string) *PlanSection {
	for _, s := range p.Sections {
		if s.Title == title {
			return s
		}
	}
	return nil
}

// EnsureSection returns the named section, appending an empty one if absent.
func (p *Plan) EnsureSection(title string) *PlanSection {
	if s := p.Section(title); s != nil {
		return s
	}
	s := &PlanSection{Title: title, Tasks: []*PlanTask{}}
	p.Sections = append(p.Sections, s)
	return s
}

// RemoveTask deletes the task with the given id and reports whether it existed.
func (p *Plan) RemoveTask(id string) bool {
	si, ti, ok := p.FindTask(id)
	if !ok {
		return false
	}
	tasks := p.Sections[si].Tasks
	p.Sections[si].Tasks = append(tasks[:ti], tasks[ti+1:]...)
	return true
}

// RemoveSection drops the section with the given title if it has no tasks.
func (p *Plan) RemoveSection(title string) bool {
	for i, s := range p.Sections {
		if s.Title == title && len(s.Tasks) == 0 {
			p.Sections = append(p.Sections[:i], p.Sections[i+1:]...)
			return true
		}
	}
	return false
}

// AllTasks returns every task in section order.
func (p *Plan) AllTasks() []*PlanTask {
	var out []*PlanTask
	for _, s := range p.Sections {
		out = append(out, s.Tasks...)
	}
	return out
}
