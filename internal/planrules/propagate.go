package planrules

import (
	"math"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
)

// ApplyRule upserts rule into a customer's plan. An existing task with the
// rule's id gets its template-controlled fields overwritten while staff-entered
// state (progress, notes, completed date, current counter, history, files,
// assignees, subtask completion) is kept. A missing task is inserted as To Do.
// It reports whether a new task was inserted.
func ApplyRule(plan *domain.Plan, catalog *domain.RuleCatalog, c *domain.Customer, rule *domain.PlanTaskRule, actor string, now time.Time, policy MonthlyDuePolicy) bool {
	plan.UpdatedAt = now

	si, ti, found := plan.FindTask(rule.ID)
	if !found {
		t := NewTaskFromRule(c, rule, actor, now, policy)
		insertTask(ensureCatalogSection(plan, catalog, rule.Section), catalog, t)
		return true
	}

	t := plan.Sections[si].Tasks[ti]
	if from := plan.Sections[si]; from.Title != rule.Section {
		from.Tasks = append(from.Tasks[:ti], from.Tasks[ti+1:]...)
		if catalog == nil || catalog.SectionIndex(from.Title) < 0 {
			plan.RemoveSection(from.Title)
		}
		insertTask(ensureCatalogSection(plan, catalog, rule.Section), catalog, t)
	}

	t.Task = rule.Task
	t.Section = rule.Section
	t.Order = rule.Order
	t.IsActive = rule.Active()
	t.Frequency = rule.Frequency
	t.DaysAfterJoin = rule.DaysAfterJoin
	t.MonthlyDueDate = copyIntPtr(rule.MonthlyDueDate)
	t.DueDate = CalculateDueDate(c, rule, now, policy)
	t.RequiresGoal = rule.RequiresGoal
	t.Goal = domain.IntFromPtrWithDefault(t.Goal, rule.DefaultGoal)
	t.Subtasks = mergeSubtasks(t.Subtasks, rule.Subtasks)
	t.UpdatedBy = actor
	t.UpdatedAt = now
	return false
}

// RemoveRule deletes the task derived from ruleID and reports whether one existed.
func RemoveRule(plan *domain.Plan, ruleID string, now time.Time) bool {
	if !plan.RemoveTask(ruleID) {
		return false
	}
	plan.UpdatedAt = now
	return true
}

// mergeSubtasks rebuilds the checklist in rule order, carrying completion state
// over by subtask id. Subtasks no longer in the rule are dropped.
func mergeSubtasks(existing []domain.Subtask, templates []domain.SubtaskTemplate) []domain.Subtask {
	if len(templates) == 0 {
		return nil
	}
	byID := make(map[string]domain.Subtask, len(existing))
	for _, st := range existing {
		byID[st.ID] = st
	}
	out := make([]domain.Subtask, 0, len(templates))
	for _, tmpl := range templates {
		st, ok := byID[tmpl.ID]
		if !ok {
			st = domain.Subtask{ID: tmpl.ID}
		}
		st.Text = tmpl.Text
		out = append(out, st)
	}
	return out
}

// ensureCatalogSection returns the named plan section, creating it at the
// position implied by the catalog's section order when absent.
func ensureCatalogSection(plan *domain.Plan, catalog *domain.RuleCatalog, title string) *domain.PlanSection {
	if s := plan.Section(title); s != nil {
		return s
	}
	s := &domain.PlanSection{Title: title, Tasks: []*domain.PlanTask{}}
	rank := sectionRank(catalog, title)
	pos := len(plan.Sections)
	for i, existing := range plan.Sections {
		if sectionRank(catalog, existing.Title) > rank {
			pos = i
			break
		}
	}
	plan.Sections = append(plan.Sections, nil)
	copy(plan.Sections[pos+1:], plan.Sections[pos:])
	plan.Sections[pos] = s
	return s
}

// insertTask places t before the first task that comes later in catalog order.
// Tasks not in the catalog sort last.
func insertTask(section *domain.PlanSection, catalog *domain.RuleCatalog, t *domain.PlanTask) {
	rank := ruleRank(catalog, t.ID)
	pos := len(section.Tasks)
	for i, existing := range section.Tasks {
		if ruleRank(catalog, existing.ID) > rank {
			pos = i
			break
		}
	}
	section.Tasks = append(section.Tasks, nil)
	copy(section.Tasks[pos+1:], section.Tasks[pos:])
	section.Tasks[pos] = t
}

func sectionRank(catalog *domain.RuleCatalog, title string) int {
	if catalog == nil {
		return math.MaxInt
	}
	if i := catalog.SectionIndex(title); i >= 0 {
		return i
	}
	return math.MaxInt
}

func ruleRank(catalog *domain.RuleCatalog, id string) int {
	if catalog == nil {
		return math.MaxInt
	}
	if i := catalog.FindRule(id); i >= 0 {
		return i
	}
	return math.MaxInt
}
