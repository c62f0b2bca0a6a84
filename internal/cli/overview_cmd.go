package cli

import (
	"fmt"

	"github.com/alexanderramin/planops/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newOverviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Progress dashboard across active paid customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := app.Overview.Overview(app.ctx(cmd))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOverview(o))
			return nil
		},
	}
}
