package importer

import (
	"strings"

	"github.com/alexanderramin/planops/internal/domain"
)

// Convert builds a domain catalog from a validated import. Sections missing
// from the sections list are appended in first-use order, and rules without
// an explicit order take their position in the file.
func Convert(schema *CatalogImport) *domain.RuleCatalog {
	pkg, _ := domain.ParsePackageType(schema.Package)
	id := domain.CoalesceStr(strings.TrimSpace(schema.ID), domain.CatalogIDFor(pkg))

	catalog := &domain.RuleCatalog{
		ID:       id,
		Sections: make([]string, 0, len(schema.Sections)),
		Tasks:    make([]domain.PlanTaskRule, 0, len(schema.Rules)),
	}
	for _, s := range schema.Sections {
		catalog.Sections = append(catalog.Sections, strings.TrimSpace(s))
	}

	for i, r := range schema.Rules {
		freq, _ := normalizeFrequency(r.Frequency)
		section := strings.TrimSpace(r.Section)
		if catalog.SectionIndex(section) < 0 {
			catalog.Sections = append(catalog.Sections, section)
		}
		order := r.Order
		if order == 0 {
			order = i + 1
		}
		catalog.Tasks = append(catalog.Tasks, domain.PlanTaskRule{
			ID:             strings.TrimSpace(r.ID),
			Task:           strings.TrimSpace(r.Task),
			Section:        section,
			Frequency:      freq,
			DaysAfterJoin:  r.DaysAfterJoin,
			MonthlyDueDate: r.MonthlyDueDate,
			RequiresGoal:   r.RequiresGoal,
			DefaultGoal:    r.DefaultGoal,
			DefaultCurrent: r.DefaultCurrent,
			Subtasks:       r.Subtasks,
			Order:          order,
			IsActive:       r.IsActive,
		})
	}
	return catalog
}
