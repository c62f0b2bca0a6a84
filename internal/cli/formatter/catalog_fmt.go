package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planops/internal/domain"
)

func FormatCatalogList(catalogs []*domain.RuleCatalog, missing []string) string {
	var b strings.Builder
	if len(catalogs) == 0 {
		b.WriteString(Dim("No rule catalogs stored."))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(catalogs))
		for _, c := range catalogs {
			rows = append(rows, []string{
				Bold(c.ID),
				fmt.Sprintf("%d", len(c.Sections)),
				fmt.Sprintf("%d", len(c.Tasks)),
				c.UpdatedAt.Format(domain.DateLayout),
				c.UpdatedBy,
			})
		}
		b.WriteString(RenderTable([]string{"CATALOG", "SECTIONS", "RULES", "UPDATED", "BY"}, rows))
	}
	if len(missing) > 0 {
		fmt.Fprintf(&b, "\n%s %s\n", StyleYellow.Render("using default for:"), strings.Join(missing, ", "))
	}
	return b.String()
}

// FormatCatalog lists rules grouped by section in catalog order.
func FormatCatalog(c *domain.RuleCatalog) string {
	var b strings.Builder
	for _, section := range c.Sections {
		b.WriteString(Header(section))
		b.WriteString("\n")
		var rows [][]string
		for _, r := range c.Tasks {
			if r.Section != section {
				continue
			}
			name := r.Task
			if !r.Active() {
				name = Dim(name + " (inactive)")
			}
			rows = append(rows, []string{r.ID, name, FrequencyBadge(r.Frequency), ruleSchedule(r), ruleGoal(r), fmt.Sprintf("%d", len(r.Subtasks))})
		}
		if len(rows) == 0 {
			b.WriteString(Dim("  no rules"))
			b.WriteString("\n\n")
			continue
		}
		b.WriteString(RenderTable([]string{"RULE", "TASK", "FREQ", "SCHEDULE", "GOAL", "SUBTASKS"}, rows))
		b.WriteString("\n")
	}
	return b.String()
}

func ruleSchedule(r domain.PlanTaskRule) string {
	switch {
	case r.Frequency == domain.FrequencyMonthly && r.MonthlyDueDate != nil:
		return fmt.Sprintf("day %d", *r.MonthlyDueDate)
	case r.Frequency == domain.FrequencyOneTime && r.DaysAfterJoin > 0:
		return fmt.Sprintf("join+%dd", r.DaysAfterJoin)
	}
	return Dim("--")
}

func ruleGoal(r domain.PlanTaskRule) string {
	if r.DefaultGoal == nil {
		return Dim("--")
	}
	return fmt.Sprintf("%d", *r.DefaultGoal)
}
