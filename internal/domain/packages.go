package domain

import (
	"fmt"
	"sort"
	"strings"
)

type PackageType string

const (
	PackageStarter PackageType = "Starter"
	PackageGrowth  PackageType = "Growth"
	PackagePremium PackageType = "Premium"
	PackageSocial  PackageType = "Social"
	PackageCustom  PackageType = "Custom"
)

// packageCatalogs is the single source of truth for which rule catalog governs
// a package tier.
var packageCatalogs = map[PackageType]string{
	PackageStarter: "starter",
	PackageGrowth:  "growth",
	PackagePremium: "premium",
	PackageSocial:  "social",
	PackageCustom:  "custom",
}

// CatalogIDFor returns the rule catalog id for a package type. Unknown
// package types resolve to the default catalog.
func CatalogIDFor(p PackageType) string {
	if id, ok := packageCatalogs[p]; ok {
		return id
	}
	return DefaultCatalogID
}

// PackageTypes returns all known package types sorted by name.
func PackageTypes() []PackageType {
	out := make([]PackageType, 0, len(packageCatalogs))
	for p := range packageCatalogs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PackagesForCatalog returns the package types governed by catalogID.
func PackagesForCatalog(catalogID string) []PackageType {
	var out []PackageType
	for _, p := range PackageTypes() {
		if packageCatalogs[p] == catalogID {
			out = append(out, p)
		}
	}
	return out
}

// ParsePackageType matches s case-insensitively against the known package types.
func ParsePackageType(s string) (PackageType, error) {
	for _, p := range PackageTypes() {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown package type %q: %w", s, ErrInvalid)
}
