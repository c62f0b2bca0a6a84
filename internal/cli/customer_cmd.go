package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/planops/internal/cli/formatter"
	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/repository"
	"github.com/spf13/cobra"
)

func newCustomerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customer",
		Aliases: []string{"customers"},
		Short:   "Manage customer accounts",
	}
	cmd.AddCommand(
		newCustomerListCmd(app),
		newCustomerAddCmd(app),
		newCustomerShowCmd(app),
		newCustomerUpdateCmd(app),
		newCustomerRemoveCmd(app),
	)
	return cmd
}

func newCustomerListCmd(app *App) *cobra.Command {
	var active, paid bool
	var packages []string
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := repository.CustomerFilter{ActiveOnly: active, Search: search}
			if paid {
				f.CustomerType = domain.CustomerPaid
			}
			for _, p := range packages {
				pkg, err := domain.ParsePackageType(p)
				if err != nil {
					return err
				}
				f.PackageTypes = append(f.PackageTypes, pkg)
			}
			customers, err := app.Customers.List(app.ctx(cmd), f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCustomerList(customers))
			return nil
		},
	}
	cmd.Flags().BoolVar(&active, "active", false, "Only active customers")
	cmd.Flags().BoolVar(&paid, "paid", false, "Only paid customers")
	cmd.Flags().StringSliceVar(&packages, "package", nil, "Filter by package type (repeatable)")
	cmd.Flags().StringVar(&search, "search", "", "Match store name")
	return cmd
}

func newCustomerAddCmd(app *App) *cobra.Command {
	var store, email, pkg, customerType, joined string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &domain.Customer{
				StoreName:    store,
				Email:        email,
				PackageType:  domain.PackageType(pkg),
				CustomerType: domain.CustomerType(customerType),
			}
			if joined == "" {
				c.DateJoined = app.now()
			} else {
				d, err := time.Parse(domain.DateLayout, joined)
				if err != nil {
					return fmt.Errorf("invalid join date %q: %w", joined, err)
				}
				c.DateJoined = d
			}
			if err := app.Customers.Create(app.ctx(cmd), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created customer %s [%s]\n", c.StoreName, c.DisplayID())
			return nil
		},
	}
	cmd.Flags().StringVar(&store, "store", "", "Store name")
	cmd.Flags().StringVar(&email, "email", "", "Owner email")
	cmd.Flags().StringVar(&pkg, "package", string(domain.PackageStarter), "Package type (Starter, Growth, Premium, Social, Custom)")
	cmd.Flags().StringVar(&customerType, "type", string(domain.CustomerPaid), "Paid or Free")
	cmd.Flags().StringVar(&joined, "joined", "", "Join date YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("store")
	return cmd
}

func newCustomerShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show CUSTOMER",
		Short: "Show a customer",
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
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCustomer(c))
			return nil
		},
	}
}

func newCustomerUpdateCmd(app *App) *cobra.Command {
	var store, email, pkg, customerType, joined string
	var active bool

	cmd := &cobra.Command{
		Use:   "update CUSTOMER",
		Short: "Change a customer's details",
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
			flags := cmd.Flags()
			if flags.Changed("store") {
				c.StoreName = store
			}
			if flags.Changed("email") {
				c.Email = email
			}
			if flags.Changed("package") {
				c.PackageType = domain.PackageType(pkg)
			}
			if flags.Changed("type") {
				c.CustomerType = domain.CustomerType(customerType)
			}
			if flags.Changed("active") {
				c.IsActive = active
			}
			if flags.Changed("joined") {
				d, err := time.Parse(domain.DateLayout, joined)
				if err != nil {
					return fmt.Errorf("invalid join date %q: %w", joined, err)
				}
				c.DateJoined = d
			}
			if err := app.Customers.Update(ctx, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated customer %s\n", c.StoreName)
			return nil
		},
	}
	cmd.Flags().StringVar(&store, "store", "", "Store name")
	cmd.Flags().StringVar(&email, "email", "", "Owner email")
	cmd.Flags().StringVar(&pkg, "package", "", "Package type")
	cmd.Flags().StringVar(&customerType, "type", "", "Paid or Free")
	cmd.Flags().StringVar(&joined, "joined", "", "Join date YYYY-MM-DD")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the account is active")
	return cmd
}

func newCustomerRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove CUSTOMER",
		Short: "Delete a customer and their plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx(cmd)
			id, err := resolveCustomerID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Customers.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed customer %s\n", id)
			return nil
		},
	}
}
