package cli

import (
	"fmt"

	"github.com/alexanderramin/planops/internal/cli/formatter"
	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/planrules"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Inspect customer plans",
	}
	cmd.AddCommand(
		newPlanShowCmd(app),
		newPlanTaskCmd(app),
		newPlanRolloverCmd(app),
	)
	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	var progress []string
	var section, frequency, assignee, search string
	var active, overdue bool
	var dueWithin int

	cmd := &cobra.Command{
		Use:   "show CUSTOMER",
		Short: "Show a customer's plan, optionally filtered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx(cmd)
			id, err := resolveCustomerID(ctx, app, args[0])
			if err != nil {
				return err
			}
			c, err := app.Customers.GetByID(ctx, id)
			if err != nil {
				return err
			}

			f := planrules.TaskFilter{
				Section:     section,
				Frequency:   domain.Frequency(frequency),
				Assignee:    assignee,
				Search:      search,
				ActiveOnly:  active,
				OverdueOnly: overdue,
			}
			for _, s := range progress {
				p, err := parseProgress(s)
				if err != nil {
					return err
				}
				f.Progress = append(f.Progress, p)
			}
			if cmd.Flags().Changed("due-within") {
				f.DueWithinDays = &dueWithin
			}

			out := cmd.OutOrStdout()
			if !anyChanged(cmd, "progress", "section", "frequency", "assignee", "search", "active", "overdue", "due-within") {
				plan, err := app.Plans.GetPlan(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatPlan(c, plan, app.now()))
				return nil
			}

			tasks, err := app.Plans.ListTasks(ctx, id, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.Header(c.StoreName))
			fmt.Fprint(out, formatter.FormatTaskTable(tasks, app.now()))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&progress, "progress", nil, "Filter by progress (To Do, Doing, Done; repeatable)")
	cmd.Flags().StringVar(&section, "section", "", "Filter by section")
	cmd.Flags().StringVar(&frequency, "frequency", "", "Filter by frequency")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Filter by assigned team member")
	cmd.Flags().StringVar(&search, "search", "", "Match task name or notes")
	cmd.Flags().BoolVar(&active, "active", false, "Only active tasks")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "Only overdue tasks")
	cmd.Flags().IntVar(&dueWithin, "due-within", planrules.DueSoonDays, "Only tasks due within N days")
	return cmd
}

func newPlanTaskCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "task CUSTOMER TASK",
		Short: "Show one task in detail",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx(cmd)
			customerID, err := resolveCustomerID(ctx, app, args[0])
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, app, customerID, args[1])
			if err != nil {
				return err
			}
			plan, err := app.Plans.GetPlan(ctx, customerID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskDetail(plan.Task(taskID), app.now()))
			return nil
		},
	}
}

func newPlanRolloverCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Archive last month's counters on every plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Plans.RolloverAll(app.ctx(cmd))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRollover(result))
			return nil
		},
	}
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}
