package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/repository"
)

// resolveCatalog returns the catalog governing pkg: its own when stored,
// otherwise the default catalog.
func resolveCatalog(ctx context.Context, catalogs repository.CatalogRepo, pkg domain.PackageType) (*domain.RuleCatalog, error) {
	id := domain.CatalogIDFor(pkg)
	catalog, err := catalogs.Get(ctx, id)
	if err == nil {
		return catalog, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if id != domain.DefaultCatalogID {
		catalog, err = catalogs.Get(ctx, domain.DefaultCatalogID)
		if err == nil {
			return catalog, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("no rule catalog for package %q: %w", pkg, domain.ErrNotFound)
}
