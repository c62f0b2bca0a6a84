package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planops/internal/domain"
)

// ValidateCatalogImport checks what Convert relies on. Rule-level checks run
// again on the converted catalog when it is saved.
func ValidateCatalogImport(schema *CatalogImport) []error {
	var errs []error

	if schema.ID == "" && schema.Package == "" {
		errs = append(errs, fmt.Errorf("one of id or package is required"))
	}
	if schema.Package != "" {
		pkg, err := domain.ParsePackageType(schema.Package)
		if err != nil {
			errs = append(errs, fmt.Errorf("package: %w", err))
		} else if schema.ID != "" && schema.ID != domain.CatalogIDFor(pkg) {
			errs = append(errs, fmt.Errorf("id %q does not match package %s (catalog %q)", schema.ID, pkg, domain.CatalogIDFor(pkg)))
		}
	}
	if len(schema.Rules) == 0 {
		errs = append(errs, fmt.Errorf("rules: at least one rule is required"))
	}

	for i, r := range schema.Rules {
		if _, ok := normalizeFrequency(r.Frequency); !ok {
			errs = append(errs, fmt.Errorf("rules[%d]: frequency %q is not recognised", i, r.Frequency))
		}
		if strings.TrimSpace(r.Section) == "" {
			errs = append(errs, fmt.Errorf("rules[%d]: section is required", i))
		}
	}
	return errs
}

func normalizeFrequency(s string) (domain.Frequency, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	switch key {
	case "one time", "onetime", "once":
		return domain.FrequencyOneTime, true
	case "monthly":
		return domain.FrequencyMonthly, true
	case "as needed", "asneeded":
		return domain.FrequencyAsNeeded, true
	}
	return "", false
}
