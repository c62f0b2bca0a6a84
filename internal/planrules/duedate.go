package planrules

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
)

// MonthlyDuePolicy decides which occurrence of a day-of-month a Monthly task is due on.
type MonthlyDuePolicy string

const (
	// DueCurrentMonth always uses this month's occurrence, even if it has passed.
	DueCurrentMonth MonthlyDuePolicy = "current_month"
	// DueNextOccurrence uses next month's occurrence once this month's has passed.
	DueNextOccurrence MonthlyDuePolicy = "next_occurrence"
)

// ParseMonthlyDuePolicy parses a config value; empty selects DueCurrentMonth.
func ParseMonthlyDuePolicy(s string) (MonthlyDuePolicy, error) {
	switch MonthlyDuePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DueCurrentMonth:
		return DueCurrentMonth, nil
	case DueNextOccurrence:
		return DueNextOccurrence, nil
	}
	return "", fmt.Errorf("monthly due policy %q must be %q or %q: %w", s, DueCurrentMonth, DueNextOccurrence, domain.ErrInvalid)
}

// CalculateDueDate returns the initial due date a rule gives a customer, or nil
// when the task has no deadline. now only matters for Monthly rules.
func CalculateDueDate(c *domain.Customer, r *domain.PlanTaskRule, now time.Time, policy MonthlyDuePolicy) *time.Time {
	return dueDate(c.DateJoined, r.Frequency, r.DaysAfterJoin, r.MonthlyDueDate, now, policy)
}

// TaskDueDate recomputes the due date of a task from its own schedule fields.
func TaskDueDate(c *domain.Customer, t *domain.PlanTask, now time.Time, policy MonthlyDuePolicy) *time.Time {
	return dueDate(c.DateJoined, t.Frequency, t.DaysAfterJoin, t.MonthlyDueDate, now, policy)
}

func dueDate(joined time.Time, freq domain.Frequency, daysAfterJoin int, monthlyDay *int, now time.Time, policy MonthlyDuePolicy) *time.Time {
	switch {
	case freq == domain.FrequencyMonthly && monthlyDay != nil:
		d := MonthlyOccurrence(*monthlyDay, now, policy)
		return &d
	case freq == domain.FrequencyAsNeeded || daysAfterJoin == 0:
		return nil
	case freq == domain.FrequencyOneTime:
		d := civilDate(joined).AddDate(0, 0, daysAfterJoin)
		return &d
	}
	return nil
}

// MonthlyOccurrence returns the given day-of-month in now's month, moved to the
// following month when policy is DueNextOccurrence and the day has passed.
func MonthlyOccurrence(day int, now time.Time, policy MonthlyDuePolicy) time.Time {
	today := civilDate(now)
	d := time.Date(today.Year(), today.Month(), day, 0, 0, 0, 0, time.UTC)
	if policy == DueNextOccurrence && d.Before(today) {
		d = d.AddDate(0, 1, 0)
	}
	return d
}

// civilDate drops the clock portion, keeping the calendar date in UTC.
func civilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
