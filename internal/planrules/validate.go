package planrules

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planops/internal/domain"
)

// ValidateCatalog checks a rule catalog for structural errors.
// Returns a slice of errors (empty if valid).
func ValidateCatalog(catalog *domain.RuleCatalog) []error {
	var errs []error

	if strings.TrimSpace(catalog.ID) == "" {
		errs = append(errs, fmt.Errorf("catalog id is required"))
	}

	sections := map[string]bool{}
	for i, s := range catalog.Sections {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, fmt.Errorf("sections[%d]: name is required", i))
		}
		if s == domain.OtherTasksSection {
			errs = append(errs, fmt.Errorf("sections[%d]: %q is reserved for staff-created tasks", i, s))
		}
		if sections[s] {
			errs = append(errs, fmt.Errorf("sections[%d]: duplicate section %q", i, s))
		}
		sections[s] = true
	}

	ruleIDs := map[string]bool{}
	for i := range catalog.Tasks {
		rule := &catalog.Tasks[i]
		for _, err := range ValidateRule(rule) {
			errs = append(errs, fmt.Errorf("tasks[%d]: %w", i, err))
		}
		if rule.Section != "" && !sections[rule.Section] {
			errs = append(errs, fmt.Errorf("tasks[%d]: section %q is not listed in catalog sections", i, rule.Section))
		}
		if rule.ID != "" && ruleIDs[rule.ID] {
			errs = append(errs, fmt.Errorf("tasks[%d]: duplicate rule id %q", i, rule.ID))
		}
		ruleIDs[rule.ID] = true
	}

	return errs
}

// ValidateRule checks a single rule independent of its catalog.
func ValidateRule(rule *domain.PlanTaskRule) []error {
	var errs []error

	if strings.TrimSpace(rule.ID) == "" {
		errs = append(errs, fmt.Errorf("rule id is required"))
	}
	if strings.TrimSpace(rule.Task) == "" {
		errs = append(errs, fmt.Errorf("task name is required"))
	}
	if strings.TrimSpace(rule.Section) == "" {
		errs = append(errs, fmt.Errorf("section is required"))
	}
	if !domain.ValidFrequencies[rule.Frequency] {
		errs = append(errs, fmt.Errorf("frequency %q is not one of One Time, Monthly, As Needed", rule.Frequency))
	}
	if rule.Frequency == domain.FrequencyMonthly {
		if rule.MonthlyDueDate == nil {
			errs = append(errs, fmt.Errorf("monthly_due_date is required for Monthly rules"))
		} else if *rule.MonthlyDueDate < 1 || *rule.MonthlyDueDate > 28 {
			errs = append(errs, fmt.Errorf("monthly_due_date must be between 1 and 28, got %d", *rule.MonthlyDueDate))
		}
	}
	if rule.DaysAfterJoin < 0 {
		errs = append(errs, fmt.Errorf("days_after_join must not be negative"))
	}
	if rule.DefaultGoal != nil && *rule.DefaultGoal < 0 {
		errs = append(errs, fmt.Errorf("default_goal must not be negative"))
	}
	if rule.DefaultCurrent != nil && *rule.DefaultCurrent < 0 {
		errs = append(errs, fmt.Errorf("default_current must not be negative"))
	}

	subIDs := map[string]bool{}
	for i, st := range rule.Subtasks {
		if st.ID == "" {
			errs = append(errs, fmt.Errorf("subtasks[%d]: id is required", i))
		}
		if strings.TrimSpace(st.Text) == "" {
			errs = append(errs, fmt.Errorf("subtasks[%d]: text is required", i))
		}
		if st.ID != "" && subIDs[st.ID] {
			errs = append(errs, fmt.Errorf("subtasks[%d]: duplicate id %q", i, st.ID))
		}
		subIDs[st.ID] = true
	}

	return errs
}
