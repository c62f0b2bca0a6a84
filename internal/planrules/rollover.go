package planrules

import (
	"time"

	"github.com/alexanderramin/planops/internal/domain"
)

// RolloverIfNeeded resets Monthly tasks whose tracked month has ended. For each
// such task the finished period is appended to MonthlyHistory, Current drops to
// zero, a day-of-month task gets this month's due date under policy and
// UpdatedAt moves to now. It reports whether anything changed; a second call
// within the same month is a no-op.
func RolloverIfNeeded(plan *domain.Plan, now time.Time, policy MonthlyDuePolicy) bool {
	if plan == nil {
		return false
	}
	current := monthKey(now)
	changed := false
	for _, section := range plan.Sections {
		for _, t := range section.Tasks {
			if t.Frequency != domain.FrequencyMonthly || t.UpdatedAt.IsZero() {
				continue
			}
			tracked := monthKey(t.UpdatedAt)
			if tracked == current {
				continue
			}
			t.MonthlyHistory = append(t.MonthlyHistory, domain.MonthlySnapshot{
				Month:   tracked,
				Current: t.Current,
				Goal:    t.Goal,
			})
			t.Current = 0
			if t.MonthlyDueDate != nil {
				due := MonthlyOccurrence(*t.MonthlyDueDate, now, policy)
				t.DueDate = &due
			}
			t.UpdatedAt = now
			changed = true
		}
	}
	if changed {
		plan.UpdatedAt = now
	}
	return changed
}

// TotalProgress is the lifetime counter of a recurring task: every archived
// month plus the current one.
func TotalProgress(t *domain.PlanTask) int {
	total := t.Current
	for _, h := range t.MonthlyHistory {
		total += h.Current
	}
	return total
}

func monthKey(t time.Time) string {
	return t.UTC().Format(domain.MonthLayout)
}
