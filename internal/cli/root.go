package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/planops/internal/cli/formatter"
	"github.com/alexanderramin/planops/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Customers service.CustomerService
	Plans     service.PlanService
	Rules     service.RuleService
	Overview  service.OverviewService

	// Serve runs the HTTP API until ctx is canceled.
	Serve func(ctx context.Context) error
	// IssueToken signs an API token for a staff email.
	IssueToken func(email string, ttl time.Duration) (string, error)

	// Actor is stamped on every change made from the command line.
	Actor string
	Now   func() time.Time

	// Setup, when set, wires the fields above from the config file before
	// any subcommand runs.
	Setup func(ctx context.Context, configPath string) error
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

// ctx attaches the CLI actor to the command's context.
func (a *App) ctx(cmd *cobra.Command) context.Context {
	return service.WithActor(cmd.Context(), a.Actor)
}

// NewRootCmd creates the top-level "planops" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configPath, actor string
	var noColor bool

	root := &cobra.Command{
		Use:           "planops",
		Short:         "Customer plan engine for store-management staff",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				formatter.DisableColor()
			}
			if app.Setup != nil {
				if err := app.Setup(cmd.Context(), configPath); err != nil {
					return fmt.Errorf("starting planops: %w", err)
				}
			}
			if actor != "" {
				app.Actor = actor
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&actor, "actor", "", "Email recorded as the editor of changes (default from auth.cli_actor)")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newServeCmd(app),
		newTokenCmd(app),
		newCustomerCmd(app),
		newPlanCmd(app),
		newTaskCmd(app),
		newCatalogCmd(app),
		newRuleCmd(app),
		newOverviewCmd(app),
	)

	return root
}
