package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planops/internal/db"
	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/importer"
	"github.com/alexanderramin/planops/internal/planrules"
	"github.com/alexanderramin/planops/internal/repository"
	"golang.org/x/sync/errgroup"
)

type ruleService struct {
	customers repository.CustomerRepo
	plans     repository.PlanRepo
	catalogs  repository.CatalogRepo
	uow       db.UnitOfWork
	settings  Settings
	observer  UseCaseObserver
}

func NewRuleService(
	customers repository.CustomerRepo,
	plans repository.PlanRepo,
	catalogs repository.CatalogRepo,
	uow db.UnitOfWork,
	settings Settings,
	observers ...UseCaseObserver,
) RuleService {
	return &ruleService{
		customers: customers,
		plans:     plans,
		catalogs:  catalogs,
		uow:       uow,
		settings:  settings,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *ruleService) ListCatalogs(ctx context.Context) ([]*domain.RuleCatalog, error) {
	return s.catalogs.List(ctx)
}

func (s *ruleService) GetCatalog(ctx context.Context, id string) (*domain.RuleCatalog, error) {
	return s.catalogs.Get(ctx, id)
}

func (s *ruleService) ResolveCatalog(ctx context.Context, pkg domain.PackageType) (*domain.RuleCatalog, error) {
	return resolveCatalog(ctx, s.catalogs, pkg)
}

// SaveCatalog validates and stores a whole catalog. Existing plans are not
// touched; use ApplyRuleToAll to push individual rules.
func (s *ruleService) SaveCatalog(ctx context.Context, c *domain.RuleCatalog) (err error) {
	defer observe(ctx, s.observer, "save-catalog", time.Now(), map[string]any{"catalog_id": c.ID, "rules": len(c.Tasks)}, &err)

	c.ID = strings.TrimSpace(c.ID)
	if errs := planrules.ValidateCatalog(c); len(errs) > 0 {
		return formatValidationErrors("catalog", errs)
	}
	c.UpdatedBy = ActorFrom(ctx)
	c.UpdatedAt = s.settings.now()
	return s.catalogs.Save(ctx, c)
}

func (s *ruleService) ImportCatalogFile(ctx context.Context, path string) (*domain.RuleCatalog, error) {
	catalog, err := importer.LoadCatalogFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog file: %w", err)
	}
	if err := s.SaveCatalog(ctx, catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// UpsertRule replaces the rule with the same id or appends it. A section the
// catalog does not list yet is appended to its sections.
func (s *ruleService) UpsertRule(ctx context.Context, catalogID string, rule domain.PlanTaskRule) (catalog *domain.RuleCatalog, err error) {
	defer observe(ctx, s.observer, "upsert-rule", time.Now(), map[string]any{"catalog_id": catalogID, "rule_id": rule.ID}, &err)

	if errs := planrules.ValidateRule(&rule); len(errs) > 0 {
		return nil, formatValidationErrors("rule", errs)
	}
	catalog, err = s.catalogs.Get(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	if i := catalog.FindRule(rule.ID); i >= 0 {
		catalog.Tasks[i] = rule
	} else {
		catalog.Tasks = append(catalog.Tasks, rule)
	}
	if catalog.SectionIndex(rule.Section) < 0 {
		catalog.Sections = append(catalog.Sections, rule.Section)
	}
	if err = s.SaveCatalog(ctx, catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// DeleteRule removes a rule from the catalog only. Tasks already in plans stay
// until DeleteRuleFromAll runs.
func (s *ruleService) DeleteRule(ctx context.Context, catalogID, ruleID string) (catalog *domain.RuleCatalog, err error) {
	defer observe(ctx, s.observer, "delete-rule", time.Now(), map[string]any{"catalog_id": catalogID, "rule_id": ruleID}, &err)

	catalog, err = s.catalogs.Get(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	i := catalog.FindRule(ruleID)
	if i < 0 {
		return nil, fmt.Errorf("rule %s in catalog %s: %w", ruleID, catalogID, domain.ErrNotFound)
	}
	catalog.Tasks = append(catalog.Tasks[:i], catalog.Tasks[i+1:]...)
	catalog.UpdatedBy = ActorFrom(ctx)
	catalog.UpdatedAt = s.settings.now()
	if err = s.catalogs.Save(ctx, catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// ApplyRuleToAll pushes one rule into the plan of every paid customer governed
// by the catalog. Customers without a plan are skipped; theirs is built from
// the updated catalog on first access.
func (s *ruleService) ApplyRuleToAll(ctx context.Context, catalogID, ruleID string) (result *PropagationResult, err error) {
	fields := map[string]any{"catalog_id": catalogID, "rule_id": ruleID}
	defer observe(ctx, s.observer, "apply-rule-to-all", time.Now(), fields, &err)

	catalog, err := s.catalogs.Get(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	i := catalog.FindRule(ruleID)
	if i < 0 {
		return nil, fmt.Errorf("rule %s in catalog %s: %w", ruleID, catalogID, domain.ErrNotFound)
	}
	rule := catalog.Tasks[i]

	actor := ActorFrom(ctx)
	now := s.settings.now()
	result, err = s.propagate(ctx, catalogID, ruleID, func(c *domain.Customer, plan *domain.Plan, res *PropagationResult) bool {
		if planrules.ApplyRule(plan, catalog, c, &rule, actor, now, s.settings.DuePolicy) {
			res.Inserted++
		} else {
			res.Updated++
		}
		return true
	})
	if result != nil {
		fields["matched"] = result.Matched
		fields["committed"] = result.Committed
	}
	return result, err
}

// DeleteRuleFromAll removes the task derived from ruleID from every governed
// plan. The rule need not still exist in the catalog.
func (s *ruleService) DeleteRuleFromAll(ctx context.Context, catalogID, ruleID string) (result *PropagationResult, err error) {
	fields := map[string]any{"catalog_id": catalogID, "rule_id": ruleID}
	defer observe(ctx, s.observer, "delete-rule-from-all", time.Now(), fields, &err)

	if _, err = s.catalogs.Get(ctx, catalogID); err != nil {
		return nil, err
	}
	now := s.settings.now()
	result, err = s.propagate(ctx, catalogID, ruleID, func(_ *domain.Customer, plan *domain.Plan, res *PropagationResult) bool {
		if !planrules.RemoveRule(plan, ruleID, now) {
			return false
		}
		res.Removed++
		return true
	})
	if result != nil {
		fields["matched"] = result.Matched
		fields["committed"] = result.Committed
	}
	return result, err
}

// MissingPackageCatalogs lists package catalog ids with no stored catalog.
// Those packages fall back to the default catalog.
func (s *ruleService) MissingPackageCatalogs(ctx context.Context) ([]string, error) {
	var missing []string
	for _, pkg := range domain.PackageTypes() {
		id := domain.CatalogIDFor(pkg)
		if _, err := s.catalogs.Get(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				missing = append(missing, id)
				continue
			}
			return nil, err
		}
	}
	return missing, nil
}

type planEdit func(c *domain.Customer, plan *domain.Plan, res *PropagationResult) bool

type loadedPlan struct {
	customer *domain.Customer
	plan     *domain.Plan
}

// propagate loads the plans of every paid customer governed by catalogID
// concurrently, applies edit to each and writes changed plans in batches, one
// transaction per batch. The first failing batch stops the run.
func (s *ruleService) propagate(ctx context.Context, catalogID, ruleID string, edit planEdit) (*PropagationResult, error) {
	result := &PropagationResult{CatalogID: catalogID, RuleID: ruleID}

	customers, err := s.governedCustomers(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	result.Matched = len(customers)

	loaded := make([]*domain.Plan, len(customers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.readConcurrency())
	for i, c := range customers {
		g.Go(func() error {
			plan, err := s.plans.Get(gctx, c.ID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("loading plan for %s: %w", c.ID, err)
			}
			loaded[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.settings.now()
	var pending []loadedPlan
	for i, plan := range loaded {
		if plan == nil {
			result.Skipped++
			continue
		}
		// Archive last month before edits move UpdatedAt forward.
		rolled := planrules.RolloverIfNeeded(plan, now, s.settings.DuePolicy)
		if edit(customers[i], plan, result) || rolled {
			pending = append(pending, loadedPlan{customer: customers[i], plan: plan})
		}
	}

	size := s.settings.batchSize()
	for start := 0; start < len(pending); start += size {
		batch := pending[start:min(start+size, len(pending))]
		err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txPlans := repository.NewSQLitePlanRepo(tx)
			for _, lp := range batch {
				if err := txPlans.Save(ctx, lp.plan); err != nil {
					return fmt.Errorf("saving plan for %s: %w", lp.customer.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return result, &PropagationError{Committed: result.Committed, Cause: err}
		}
		result.Batches++
		result.Committed += len(batch)
	}
	return result, nil
}

// governedCustomers returns paid customers whose effective catalog is
// catalogID. The default catalog also governs packages whose own catalog is
// missing.
func (s *ruleService) governedCustomers(ctx context.Context, catalogID string) ([]*domain.Customer, error) {
	packages := domain.PackagesForCatalog(catalogID)
	if catalogID == domain.DefaultCatalogID {
		missing, err := s.MissingPackageCatalogs(ctx)
		if err != nil {
			return nil, err
		}
		for _, id := range missing {
			packages = append(packages, domain.PackagesForCatalog(id)...)
		}
	}
	if len(packages) == 0 {
		return nil, nil
	}
	return s.customers.List(ctx, repository.CustomerFilter{
		CustomerType: domain.CustomerPaid,
		PackageTypes: packages,
	})
}
