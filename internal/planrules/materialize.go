package planrules

import (
	"fmt"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
)

// MaterializePlan builds a customer's plan from a rule catalog. Sections follow
// catalog.Sections and tasks keep catalog order within each section. The plan is
// not persisted here.
func MaterializePlan(c *domain.Customer, catalog *domain.RuleCatalog, actor string, now time.Time, policy MonthlyDuePolicy) (*domain.Plan, error) {
	if c == nil {
		return nil, fmt.Errorf("materializing plan: customer is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("materializing plan for %s: rule catalog: %w", c.ID, domain.ErrNotFound)
	}

	plan := &domain.Plan{
		CustomerID: c.ID,
		Sections:   make([]*domain.PlanSection, 0, len(catalog.Sections)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for _, title := range catalog.Sections {
		section := &domain.PlanSection{Title: title, Tasks: []*domain.PlanTask{}}
		for i := range catalog.Tasks {
			rule := &catalog.Tasks[i]
			if rule.Section != title {
				continue
			}
			section.Tasks = append(section.Tasks, NewTaskFromRule(c, rule, actor, now, policy))
		}
		plan.Sections = append(plan.Sections, section)
	}

	return plan, nil
}

// NewTaskFromRule creates a fresh To Do task seeded from rule. Rule-derived
// tasks carry no CreatedBy; the actor is recorded as UpdatedBy.
func NewTaskFromRule(c *domain.Customer, rule *domain.PlanTaskRule, actor string, now time.Time, policy MonthlyDuePolicy) *domain.PlanTask {
	return &domain.PlanTask{
		ID:             rule.ID,
		Origin:         domain.OriginRule,
		Task:           rule.Task,
		Section:        rule.Section,
		Frequency:      rule.Frequency,
		Progress:       domain.ProgressToDo,
		IsActive:       rule.Active(),
		Order:          rule.Order,
		DaysAfterJoin:  rule.DaysAfterJoin,
		MonthlyDueDate: copyIntPtr(rule.MonthlyDueDate),
		DueDate:        CalculateDueDate(c, rule, now, policy),
		RequiresGoal:   rule.RequiresGoal,
		Current:        domain.IntFromPtrWithDefault(0, rule.DefaultCurrent),
		Goal:           domain.IntFromPtrWithDefault(0, rule.DefaultGoal),
		Subtasks:       subtasksFromTemplates(rule.Subtasks),
		CreatedAt:      now,
		UpdatedBy:      actor,
		UpdatedAt:      now,
	}
}

func subtasksFromTemplates(templates []domain.SubtaskTemplate) []domain.Subtask {
	if len(templates) == 0 {
		return nil
	}
	out := make([]domain.Subtask, len(templates))
	for i, st := range templates {
		out[i] = domain.Subtask{ID: st.ID, Text: st.Text}
	}
	return out
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
