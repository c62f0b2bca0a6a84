package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planops/internal/db"
	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/repository"
	"github.com/google/uuid"
)

type customerService struct {
	customers repository.CustomerRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewCustomerService(customers repository.CustomerRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CustomerService {
	return &customerService{
		customers: customers,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *customerService) Create(ctx context.Context, c *domain.Customer) (err error) {
	defer observe(ctx, s.observer, "create-customer", time.Now(), map[string]any{"store": c.StoreName}, &err)

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CustomerType == "" {
		c.CustomerType = domain.CustomerPaid
	}
	normalizeCustomer(c)
	if err = c.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	c.IsActive = true
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.customers.Create(ctx, c)
}

func (s *customerService) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *customerService) List(ctx context.Context, f repository.CustomerFilter) ([]*domain.Customer, error) {
	return s.customers.List(ctx, f)
}

// Update replaces the editable fields. A package change does not rebuild the
// existing plan; new rules reach it through propagation.
func (s *customerService) Update(ctx context.Context, c *domain.Customer) (err error) {
	defer observe(ctx, s.observer, "update-customer", time.Now(), map[string]any{"customer_id": c.ID}, &err)

	var existing *domain.Customer
	existing, err = s.customers.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	normalizeCustomer(c)
	if err = c.Validate(); err != nil {
		return err
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	return s.customers.Update(ctx, c)
}

// Delete removes the customer and their plan in one transaction.
func (s *customerService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-customer", time.Now(), map[string]any{"customer_id": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLitePlanRepo(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting plan: %w", err)
		}
		return repository.NewSQLiteCustomerRepo(tx).Delete(ctx, id)
	})
}

// normalizeCustomer canonicalizes free-text fields before validation.
func normalizeCustomer(c *domain.Customer) {
	c.StoreName = strings.TrimSpace(c.StoreName)
	c.Email = strings.TrimSpace(c.Email)
	if c.PackageType != "" {
		if pkg, err := domain.ParsePackageType(string(c.PackageType)); err == nil {
			c.PackageType = pkg
		}
	}
	if !c.DateJoined.IsZero() {
		y, m, d := c.DateJoined.UTC().Date()
		c.DateJoined = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}
