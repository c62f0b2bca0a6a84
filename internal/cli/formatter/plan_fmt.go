package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/planrules"
)

// FormatPlan renders every section of a plan with its tasks and a summary box.
func FormatPlan(c *domain.Customer, plan *domain.Plan, now time.Time) string {
	var b strings.Builder

	s := planrules.Summarize(plan, now)
	summary := fmt.Sprintf("%s  %s\n%s\n%d to do · %d doing · %d done · %s overdue · %d due soon",
		Bold(c.StoreName), Dim(string(c.PackageType)),
		RenderProgress(s.CompletionPct/100, 20),
		s.ToDo, s.Doing, s.Done, overdueCount(s.Overdue), s.DueSoon)
	if s.MonthlyGoal > 0 {
		summary += "\nmonthly " + RenderCounter(s.MonthlyCurrent, s.MonthlyGoal)
	}
	b.WriteString(RenderBox("plan", summary))
	b.WriteString("\n")

	for _, section := range plan.Sections {
		b.WriteString("\n")
		b.WriteString(Header(section.Title))
		b.WriteString("\n")
		if len(section.Tasks) == 0 {
			b.WriteString(Dim("  no tasks"))
			b.WriteString("\n")
			continue
		}
		b.WriteString(FormatTaskTable(section.Tasks, now))
	}
	return b.String()
}

// FormatTaskTable lists tasks one per row.
func FormatTaskTable(tasks []*domain.PlanTask, now time.Time) string {
	headers := []string{"ID", "TASK", "PROGRESS", "FREQ", "DUE", "COUNTER", "CHECKLIST"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		name := t.Task
		if !t.IsActive {
			name = Dim(name + " (inactive)")
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			name,
			ProgressPill(t.Progress),
			FrequencyBadge(t.Frequency),
			DueLabel(t, now),
			counterCell(t),
			checklistCell(t),
		})
	}
	return RenderTable(headers, rows)
}

// FormatTaskDetail shows one task with its subtasks, history and notes.
func FormatTaskDetail(t *domain.PlanTask, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n", Bold(t.Task), ProgressPill(t.Progress), FrequencyBadge(t.Frequency))
	fmt.Fprintf(&b, "%s %s   %s %s\n", Dim("id"), t.ID, Dim("section"), t.Section)
	fmt.Fprintf(&b, "%s %s\n", Dim("due"), DueLabel(t, now))
	if t.Frequency.Recurring() || t.RequiresGoal {
		fmt.Fprintf(&b, "%s %s   %s %d\n", Dim("counter"), RenderCounter(t.Current, t.Goal), Dim("lifetime"), planrules.TotalProgress(t))
	}
	if len(t.AssignedTeamMembers) > 0 {
		fmt.Fprintf(&b, "%s %s\n", Dim("assigned"), strings.Join(t.AssignedTeamMembers, ", "))
	}
	for _, st := range t.Subtasks {
		mark := "☐"
		if st.Completed {
			mark = StyleGreen.Render("☑")
		}
		fmt.Fprintf(&b, "  %s %s %s\n", mark, st.Text, Dim(st.ID))
	}
	for _, h := range t.MonthlyHistory {
		fmt.Fprintf(&b, "  %s %s\n", Dim(h.Month), RenderCounter(h.Current, h.Goal))
	}
	if t.Notes != "" {
		fmt.Fprintf(&b, "\n%s\n", t.Notes)
	}
	return b.String()
}

func counterCell(t *domain.PlanTask) string {
	if !t.Frequency.Recurring() && !t.RequiresGoal {
		return Dim("--")
	}
	if t.Goal > 0 {
		return fmt.Sprintf("%d/%d", t.Current, t.Goal)
	}
	return fmt.Sprintf("%d", t.Current)
}

func checklistCell(t *domain.PlanTask) string {
	if len(t.Subtasks) == 0 {
		return Dim("--")
	}
	done := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(t.Subtasks))
}

func overdueCount(n int) string {
	if n > 0 {
		return StyleRed.Render(fmt.Sprintf("%d", n))
	}
	return fmt.Sprintf("%d", n)
}
