package cli

import (
	"fmt"

	"github.com/alexanderramin/planops/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"catalogs"},
		Short:   "Manage package rule catalogs",
	}
	cmd.AddCommand(
		newCatalogListCmd(app),
		newCatalogShowCmd(app),
		newCatalogImportCmd(app),
	)
	return cmd
}

func newCatalogListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rule catalogs and packages falling back to default",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx(cmd)
			catalogs, err := app.Rules.ListCatalogs(ctx)
			if err != nil {
				return err
			}
			missing, err := app.Rules.MissingPackageCatalogs(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCatalogList(catalogs, missing))
			return nil
		},
	}
}

func newCatalogShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show CATALOG",
		Short: "Show a catalog's sections and rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Rules.GetCatalog(app.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCatalog(c))
			return nil
		},
	}
}

func newCatalogImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace a catalog from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Rules.ImportCatalogFile(app.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported catalog %s: %d sections, %d rules\n", c.ID, len(c.Sections), len(c.Tasks))
			return nil
		},
	}
}
