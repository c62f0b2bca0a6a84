package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planops/internal/domain"
)

func FormatCustomerList(customers []*domain.Customer) string {
	if len(customers) == 0 {
		return Dim("No customers found.") + "\n"
	}
	headers := []string{"ID", "STORE", "PACKAGE", "TYPE", "JOINED", "ACTIVE"}
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		active := StyleGreen.Render("yes")
		if !c.IsActive {
			active = Dim("no")
		}
		rows = append(rows, []string{
			TruncID(c.ID),
			c.StoreName,
			StylePurple.Render(string(c.PackageType)),
			CustomerTypeBadge(c.CustomerType),
			c.DateJoined.Format(domain.DateLayout),
			active,
		})
	}
	return RenderTable(headers, rows)
}

func FormatCustomer(c *domain.Customer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Dim("id      "), c.ID)
	fmt.Fprintf(&b, "%s %s\n", Dim("email   "), c.Email)
	fmt.Fprintf(&b, "%s %s (catalog %s)\n", Dim("package "), c.PackageType, c.CatalogID())
	fmt.Fprintf(&b, "%s %s\n", Dim("type    "), CustomerTypeBadge(c.CustomerType))
	fmt.Fprintf(&b, "%s %s\n", Dim("joined  "), c.DateJoined.Format(domain.DateLayout))
	fmt.Fprintf(&b, "%s %t", Dim("active  "), c.IsActive)
	return RenderBox(c.StoreName, b.String())
}
