package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/google/uuid"
)

var testRuleCounter atomic.Int64

// Customer options
type CustomerOption func(*domain.Customer)

func WithPackage(p domain.PackageType) CustomerOption {
	return func(c *domain.Customer) {
		c.PackageType = p
	}
}

func WithCustomerType(t domain.CustomerType) CustomerOption {
	return func(c *domain.Customer) {
		c.CustomerType = t
	}
}

func WithDateJoined(d time.Time) CustomerOption {
	return func(c *domain.Customer) {
		c.DateJoined = d
	}
}

func WithInactive() CustomerOption {
	return func(c *domain.Customer) {
		c.IsActive = false
	}
}

func WithEmail(email string) CustomerOption {
	return func(c *domain.Customer) {
		c.Email = email
	}
}

func NewTestCustomer(storeName string, opts ...CustomerOption) *domain.Customer {
	now := time.Now().UTC()
	c := &domain.Customer{
		ID:           uuid.New().String(),
		StoreName:    storeName,
		PackageType:  domain.PackageStarter,
		CustomerType: domain.CustomerPaid,
		DateJoined:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rule options
type RuleOption func(*domain.PlanTaskRule)

func WithRuleID(id string) RuleOption {
	return func(r *domain.PlanTaskRule) {
		r.ID = id
	}
}

func WithOneTime(daysAfterJoin int) RuleOption {
	return func(r *domain.PlanTaskRule) {
		r.Frequency = domain.FrequencyOneTime
		r.DaysAfterJoin = daysAfterJoin
	}
}

func WithMonthly(day int) RuleOption {
	return func(r *domain.PlanTaskRule) {
		r.Frequency = domain.FrequencyMonthly
		r.MonthlyDueDate = &day
	}
}

func WithAsNeeded() RuleOption {
	return func(r *domain.PlanTaskRule) {
		r.Frequency = domain.FrequencyAsNeeded
		r.DaysAfterJoin = 0
	}
}

func WithDefaultGoal(goal int) RuleOption {
	return func(r *domain.PlanTaskRule) {
		r.RequiresGoal = true
		r.DefaultGoal = &goal
	}
}

func WithSubtasks(texts ...string) RuleOption {
	return func(r *domain.PlanTaskRule) {
		r.Subtasks = nil
		for i, text := range texts {
			r.Subtasks = append(r.Subtasks, domain.SubtaskTemplate{ID: fmt.Sprintf("%s-st%d", r.ID, i+1), Text: text})
		}
	}
}

func NewTestRule(section, task string, opts ...RuleOption) domain.PlanTaskRule {
	n := testRuleCounter.Add(1)
	r := domain.PlanTaskRule{
		ID:            fmt.Sprintf("rule-%03d", n),
		Task:          task,
		Section:       section,
		Frequency:     domain.FrequencyOneTime,
		DaysAfterJoin: 7,
		Order:         int(n),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// NewTestCatalog builds a catalog whose sections are taken from the rules in
// first-seen order.
func NewTestCatalog(id string, rules ...domain.PlanTaskRule) *domain.RuleCatalog {
	c := &domain.RuleCatalog{
		ID:        id,
		Sections:  []string{},
		Tasks:     rules,
		UpdatedAt: time.Now().UTC(),
	}
	for _, r := range rules {
		if c.SectionIndex(r.Section) < 0 {
			c.Sections = append(c.Sections, r.Section)
		}
	}
	return c
}
