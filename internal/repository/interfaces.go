package repository

import (
	"context"

	"github.com/alexanderramin/planops/internal/domain"
)

// ErrNotFound and ErrConflict are the domain sentinels, re-exported so callers
// of this package can match them without importing domain.
var (
	ErrNotFound = domain.ErrNotFound
	ErrConflict = domain.ErrConflict
)

// CustomerFilter narrows List results. Zero values match everything.
type CustomerFilter struct {
	ActiveOnly   bool
	CustomerType domain.CustomerType
	PackageTypes []domain.PackageType
	Search       string
}

type CustomerRepo interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, f CustomerFilter) ([]*domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id string) error
}

// PlanRepo stores each customer's plan as one document. Save is
// version-checked: a plan read at version N can only be written back while the
// stored copy is still at N.
type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	Get(ctx context.Context, customerID string) (*domain.Plan, error)
	Save(ctx context.Context, p *domain.Plan) error
	Delete(ctx context.Context, customerID string) error
	ListCustomerIDs(ctx context.Context) ([]string, error)
}

type CatalogRepo interface {
	Get(ctx context.Context, id string) (*domain.RuleCatalog, error)
	List(ctx context.Context) ([]*domain.RuleCatalog, error)
	Save(ctx context.Context, c *domain.RuleCatalog) error
	Delete(ctx context.Context, id string) error
}
