package planrules

import (
	"strings"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
)

// TaskFilter selects tasks for a plan view. Zero-valued fields match everything.
type TaskFilter struct {
	Progress      []domain.Progress
	Section       string
	Frequency     domain.Frequency
	Assignee      string
	Search        string
	ActiveOnly    bool
	OverdueOnly   bool
	DueWithinDays *int
}

// Match reports whether t passes every criterion of the filter as of now.
func (f TaskFilter) Match(t *domain.PlanTask, now time.Time) bool {
	if len(f.Progress) > 0 && !containsProgress(f.Progress, t.Progress) {
		return false
	}
	if f.Section != "" && t.Section != f.Section {
		return false
	}
	if f.Frequency != "" && t.Frequency != f.Frequency {
		return false
	}
	if f.Assignee != "" && !containsFold(t.AssignedTeamMembers, f.Assignee) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Task), strings.ToLower(f.Search)) {
		return false
	}
	if f.ActiveOnly && !t.IsActive {
		return false
	}
	if f.OverdueOnly && !IsOverdue(t, now) {
		return false
	}
	if f.DueWithinDays != nil && !IsDueWithin(t, now, *f.DueWithinDays) {
		return false
	}
	return true
}

// FilterTasks returns the plan's tasks matching f, in plan order.
func FilterTasks(plan *domain.Plan, f TaskFilter, now time.Time) []*domain.PlanTask {
	var out []*domain.PlanTask
	for _, t := range plan.AllTasks() {
		if f.Match(t, now) {
			out = append(out, t)
		}
	}
	return out
}

// IsOverdue reports whether an unfinished task's due date is before today.
func IsOverdue(t *domain.PlanTask, now time.Time) bool {
	if t.DueDate == nil || t.Progress == domain.ProgressDone {
		return false
	}
	return civilDate(*t.DueDate).Before(civilDate(now))
}

// IsDueWithin reports whether an unfinished task is due between today and
// today+days inclusive.
func IsDueWithin(t *domain.PlanTask, now time.Time, days int) bool {
	if t.DueDate == nil || t.Progress == domain.ProgressDone {
		return false
	}
	due := civilDate(*t.DueDate)
	today := civilDate(now)
	return !due.Before(today) && !due.After(today.AddDate(0, 0, days))
}

// Summary aggregates a plan for dashboards.
type Summary struct {
	Total          int     `json:"total"`
	ToDo           int     `json:"to_do"`
	Doing          int     `json:"doing"`
	Done           int     `json:"done"`
	Inactive       int     `json:"inactive"`
	Overdue        int     `json:"overdue"`
	DueSoon        int     `json:"due_soon"`
	MonthlyCurrent int     `json:"monthly_current"`
	MonthlyGoal    int     `json:"monthly_goal"`
	CompletionPct  float64 `json:"completion_pct"`
}

// DueSoonDays is the window Summarize uses for DueSoon.
const DueSoonDays = 7

// Summarize counts active tasks by progress and deadline state. Inactive tasks
// are only counted in Inactive.
func Summarize(plan *domain.Plan, now time.Time) Summary {
	var s Summary
	for _, t := range plan.AllTasks() {
		if !t.IsActive {
			s.Inactive++
			continue
		}
		s.Total++
		switch t.Progress {
		case domain.ProgressDone:
			s.Done++
		case domain.ProgressDoing:
			s.Doing++
		default:
			s.ToDo++
		}
		if IsOverdue(t, now) {
			s.Overdue++
		}
		if IsDueWithin(t, now, DueSoonDays) {
			s.DueSoon++
		}
		if t.Frequency == domain.FrequencyMonthly {
			s.MonthlyCurrent += t.Current
			s.MonthlyGoal += t.Goal
		}
	}
	if s.Total > 0 {
		s.CompletionPct = float64(s.Done) / float64(s.Total) * 100
	}
	return s
}

func containsProgress(list []domain.Progress, p domain.Progress) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
