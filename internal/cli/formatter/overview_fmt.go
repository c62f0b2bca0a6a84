package formatter

import (
	"fmt"

	"github.com/alexanderramin/planops/internal/planrules"
	"github.com/alexanderramin/planops/internal/service"
)

func FormatOverview(o *service.Overview) string {
	if len(o.Customers) == 0 {
		return Dim("No active paid customers.") + "\n"
	}
	rows := make([][]string, 0, len(o.Customers)+1)
	var failures []string
	for _, row := range o.Customers {
		if row.Error != "" {
			rows = append(rows, []string{row.Customer.StoreName, StyleRed.Render("error"), "", "", "", "", "", ""})
			failures = append(failures, row.Error)
			continue
		}
		rows = append(rows, overviewRow(row.Customer.StoreName, row.Summary))
	}
	rows = append(rows, overviewRow(Bold("TOTAL"), o.Totals))
	out := RenderTable([]string{"STORE", "DONE", "DOING", "TO DO", "OVERDUE", "DUE SOON", "MONTHLY", "COMPLETE"}, rows)
	for _, f := range failures {
		out += StyleRed.Render("! "+f) + "\n"
	}
	return out
}

func overviewRow(name string, s planrules.Summary) []string {
	return []string{
		name,
		fmt.Sprintf("%d", s.Done),
		fmt.Sprintf("%d", s.Doing),
		fmt.Sprintf("%d", s.ToDo),
		overdueCount(s.Overdue),
		fmt.Sprintf("%d", s.DueSoon),
		fmt.Sprintf("%d/%d", s.MonthlyCurrent, s.MonthlyGoal),
		RenderProgress(s.CompletionPct/100, 10),
	}
}

func FormatPropagation(verb string, r *service.PropagationResult) string {
	return fmt.Sprintf("%s rule %s in catalog %s: %d matched, %d skipped (no plan), %d updated, %d inserted, %d removed, %d committed in %d batches\n",
		verb, Bold(r.RuleID), r.CatalogID, r.Matched, r.Skipped, r.Updated, r.Inserted, r.Removed, r.Committed, r.Batches)
}

func FormatRollover(r *service.RolloverResult) string {
	return fmt.Sprintf("Checked %d plans, rolled over %d\n", r.Checked, r.RolledOver)
}
