package service

import (
	"context"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/planrules"
	"github.com/alexanderramin/planops/internal/repository"
)

type CustomerService interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, f repository.CustomerFilter) ([]*domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id string) error
}

// PlanService reads and edits a single customer's plan. Every read applies the
// monthly rollover and materializes a missing plan; every write is
// version-checked.
type PlanService interface {
	GetPlan(ctx context.Context, customerID string) (*domain.Plan, error)
	ListTasks(ctx context.Context, customerID string, f planrules.TaskFilter) ([]*domain.PlanTask, error)
	CreateTask(ctx context.Context, customerID string, t *domain.PlanTask) (*domain.PlanTask, error)
	UpdateTask(ctx context.Context, customerID string, t *domain.PlanTask) (*domain.PlanTask, error)
	DeleteTask(ctx context.Context, customerID, taskID string) error
	ToggleSubtask(ctx context.Context, customerID, taskID, subtaskID string) (*domain.PlanTask, error)
	AdjustCounter(ctx context.Context, customerID, taskID string, delta int) (*domain.PlanTask, error)
	RolloverAll(ctx context.Context) (*RolloverResult, error)
}

type RuleService interface {
	ListCatalogs(ctx context.Context) ([]*domain.RuleCatalog, error)
	GetCatalog(ctx context.Context, id string) (*domain.RuleCatalog, error)
	ResolveCatalog(ctx context.Context, pkg domain.PackageType) (*domain.RuleCatalog, error)
	SaveCatalog(ctx context.Context, c *domain.RuleCatalog) error
	ImportCatalogFile(ctx context.Context, path string) (*domain.RuleCatalog, error)
	UpsertRule(ctx context.Context, catalogID string, rule domain.PlanTaskRule) (*domain.RuleCatalog, error)
	DeleteRule(ctx context.Context, catalogID, ruleID string) (*domain.RuleCatalog, error)
	ApplyRuleToAll(ctx context.Context, catalogID, ruleID string) (*PropagationResult, error)
	DeleteRuleFromAll(ctx context.Context, catalogID, ruleID string) (*PropagationResult, error)
	MissingPackageCatalogs(ctx context.Context) ([]string, error)
}

type OverviewService interface {
	Overview(ctx context.Context) (*Overview, error)
}

// RolloverResult reports a RolloverAll pass.
type RolloverResult struct {
	Checked    int `json:"checked"`
	RolledOver int `json:"rolled_over"`
}

// PropagationResult reports a bulk rule write across customer plans.
type PropagationResult struct {
	CatalogID string `json:"catalog_id"`
	RuleID    string `json:"rule_id"`
	Matched   int    `json:"matched"`
	Skipped   int    `json:"skipped"`
	Updated   int    `json:"updated"`
	Inserted  int    `json:"inserted"`
	Removed   int    `json:"removed"`
	Committed int    `json:"committed"`
	Batches   int    `json:"batches"`
}

// CustomerOverview is one row of the agency dashboard. Error is set, and
// Summary left empty, when the customer's plan could not be read.
type CustomerOverview struct {
	Customer *domain.Customer  `json:"customer"`
	Summary  planrules.Summary `json:"summary"`
	Error    string            `json:"error,omitempty"`
}

type Overview struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Customers   []CustomerOverview `json:"customers"`
	Totals      planrules.Summary  `json:"totals"`
	// Failed counts rows that carry an Error; they are left out of Totals.
	Failed int `json:"failed"`
}
