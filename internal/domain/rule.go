package domain

import "time"

// SubtaskTemplate is one checklist entry a rule seeds into every task it creates.
type SubtaskTemplate struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// PlanTaskRule describes one obligation every customer of a package should have.
type PlanTaskRule struct {
	ID             string            `json:"id" yaml:"id"`
	Task           string            `json:"task" yaml:"task"`
	Section        string            `json:"section" yaml:"section"`
	Frequency      Frequency         `json:"frequency" yaml:"frequency"`
	DaysAfterJoin  int               `json:"days_after_join" yaml:"days_after_join"`
	MonthlyDueDate *int              `json:"monthly_due_date,omitempty" yaml:"monthly_due_date,omitempty"`
	RequiresGoal   bool              `json:"requires_goal" yaml:"requires_goal"`
	DefaultGoal    *int              `json:"default_goal,omitempty" yaml:"default_goal,omitempty"`
	DefaultCurrent *int              `json:"default_current,omitempty" yaml:"default_current,omitempty"`
	Subtasks       []SubtaskTemplate `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
	Order          int               `json:"order" yaml:"order"`
	IsActive       *bool             `json:"is_active,omitempty" yaml:"is_active,omitempty"`
}

// Active reports whether tasks created from the rule start active. Rules
// without an explicit flag are active.
func (r *PlanTaskRule) Active() bool {
	return BoolFromPtrWithDefault(true, r.IsActive)
}

// RuleCatalog is the set of rules plus section ordering for one package type.
type RuleCatalog struct {
	ID        string         `json:"id" yaml:"id"`
	Sections  []string       `json:"sections" yaml:"sections"`
	Tasks     []PlanTaskRule `json:"tasks" yaml:"tasks"`
	UpdatedBy string         `json:"updated_by,omitempty" yaml:"-"`
	UpdatedAt time.Time      `json:"updated_at" yaml:"-"`
}

// FindRule returns the index of the rule with the given id, or -1.
func (c *RuleCatalog) FindRule(id string) int {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// SectionIndex returns the position of a section name, or -1.
func (c *RuleCatalog) SectionIndex(name string) int {
	for i, s := range c.Sections {
		if s == name {
			return i
		}
	}
	return -1
}
