package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/planops/internal/cli/formatter"
	"github.com/alexanderramin/planops/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Edit tasks on a customer's plan",
	}
	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskProgressCmd(app),
		newTaskCounterCmd(app),
		newTaskToggleCmd(app),
		newTaskRemoveCmd(app),
	)
	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var frequency, due, notes string
	var monthlyDay, goal int
	var assignees, subtasks []string

	cmd := &cobra.Command{
		Use:   "add CUSTOMER NAME",
		Short: "Add a task under Other Tasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx(cmd)
			customerID, err := resolveCustomerID(ctx, app, args[0])
			if err != nil {
				return err
			}

			t := &domain.PlanTask{
				Task:                args[1],
				Frequency:           domain.Frequency(frequency),
				Notes:               notes,
				AssignedTeamMembers: assignees,
			}
			if cmd.Flags().Changed("monthly-day") {
				t.MonthlyDueDate = &monthlyDay
			}
			if cmd.Flags().Changed("goal") {
				t.Goal = goal
				t.RequiresGoal = true
			}
			if due != "" {
				d, err := time.Parse(domain.DateLayout, due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				t.DueDate = &d
			}
			for _, s := range subtasks {
				t.Subtasks = append(t.Subtasks, domain.Subtask{Text: strings.TrimSpace(s)})
			}

			created, err := app.Plans.CreateTask(ctx, customerID, t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %q [%s]\n", created.Task, formatter.TruncID(created.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&frequency, "frequency", string(domain.FrequencyOneTime), "One Time, Monthly or As Needed")
	cmd.Flags().StringVar(&due, "due", "", "Due date YYYY-MM-DD")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().IntVar(&monthlyDay, "monthly-day", 0, "Day of month (1-28) for Monthly tasks")
	cmd.Flags().IntVar(&goal, "goal", 0, "Monthly counter goal")
	cmd.Flags().StringSliceVar(&assignees, "assign", nil, "Assigned team member (repeatable)")
	cmd.Flags().StringArrayVar(&subtasks, "subtask", nil, "Checklist item (repeatable)")
	return cmd
}

func newTaskProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress CUSTOMER TASK PROGRESS",
		Short: "Move a task to To Do, Doing or Done",
		Args:  cobra.ExactArgs(3),
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
			p, err := parseProgress(args[2])
			if err != nil {
				return err
			}

			plan, err := app.Plans.GetPlan(ctx, customerID)
			if err != nil {
				return err
			}
			t := plan.Task(taskID)
			t.Progress = p
			updated, err := app.Plans.UpdateTask(ctx, customerID, t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s → %s\n", updated.Task, updated.Progress)
			return nil
		},
	}
}

func newTaskCounterCmd(app *App) *cobra.Command {
	var delta int

	cmd := &cobra.Command{
		Use:   "counter CUSTOMER TASK",
		Short: "Adjust a recurring task's monthly counter",
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
			t, err := app.Plans.AdjustCounter(ctx, customerID, taskID, delta)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d\n", t.Task, t.Current, t.Goal)
			return nil
		},
	}
	cmd.Flags().IntVar(&delta, "delta", 1, "Amount to add (negative to subtract)")
	return cmd
}

func newTaskToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle CUSTOMER TASK SUBTASK",
		Short: "Check or uncheck a checklist item",
		Long:  "SUBTASK is the item's id or its 1-based position in the checklist.",
		Args:  cobra.ExactArgs(3),
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
			subtaskID := resolveSubtaskID(plan.Task(taskID), args[2])

			t, err := app.Plans.ToggleSubtask(ctx, customerID, taskID, subtaskID)
			if err != nil {
				return err
			}
			for _, st := range t.Subtasks {
				if st.ID == subtaskID {
					mark := "[ ]"
					if st.Completed {
						mark = "[x]"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, st.Text)
				}
			}
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm CUSTOMER TASK",
		Short: "Delete a task from a customer's plan",
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
			if err := app.Plans.DeleteTask(ctx, customerID, taskID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", formatter.TruncID(taskID))
			return nil
		},
	}
}

func parseProgress(s string) (domain.Progress, error) {
	for p := range domain.ValidProgress {
		if strings.EqualFold(string(p), s) || strings.EqualFold(strings.ReplaceAll(string(p), " ", ""), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("progress %q is not one of To Do, Doing, Done", s)
}

func resolveSubtaskID(t *domain.PlanTask, input string) string {
	if pos, err := strconv.Atoi(input); err == nil && pos >= 1 && pos <= len(t.Subtasks) {
		return t.Subtasks[pos-1].ID
	}
	return input
}
