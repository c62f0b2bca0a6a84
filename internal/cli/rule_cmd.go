package cli

import (
	"fmt"

	"github.com/alexanderramin/planops/internal/cli/formatter"
	"github.com/alexanderramin/planops/internal/service"
	"github.com/spf13/cobra"
)

func newRuleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Change catalog rules and push them to existing plans",
	}
	cmd.AddCommand(
		newRuleApplyCmd(app),
		newRuleRemoveCmd(app),
		newRuleDeleteCmd(app),
	)
	return cmd
}

func newRuleApplyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "apply CATALOG RULE",
		Short: "Write a rule into every plan using the catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Rules.ApplyRuleToAll(app.ctx(cmd), args[0], args[1])
			return reportPropagation(cmd, "Applied", result, err)
		},
	}
}

func newRuleRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove CATALOG RULE",
		Short: "Remove a rule's tasks from every plan using the catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Rules.DeleteRuleFromAll(app.ctx(cmd), args[0], args[1])
			return reportPropagation(cmd, "Removed", result, err)
		},
	}
}

func newRuleDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete CATALOG RULE",
		Short: "Delete a rule from the catalog without touching plans",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Rules.DeleteRule(app.ctx(cmd), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted rule %s from %s (%d rules left)\n", args[1], c.ID, len(c.Tasks))
			return nil
		},
	}
}

// reportPropagation prints the counts of a finished bulk write. A partial
// failure surfaces as a *service.PropagationError naming the committed count.
func reportPropagation(cmd *cobra.Command, verb string, result *service.PropagationResult, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPropagation(verb, result))
	return nil
}
