package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Customer is a store-owner account managed by the agency.
type Customer struct {
	ID           string       `json:"id"`
	StoreName    string       `json:"store_name"`
	Email        string       `json:"email"`
	PackageType  PackageType  `json:"package_type"`
	CustomerType CustomerType `json:"customer_type"`
	DateJoined   time.Time    `json:"date_joined"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Validate checks the fields staff must supply when creating or editing a customer.
func (c *Customer) Validate() error {
	var errs []error
	if strings.TrimSpace(c.StoreName) == "" {
		errs = append(errs, fmt.Errorf("store name is required"))
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			errs = append(errs, fmt.Errorf("email %q is not a valid address", c.Email))
		}
	}
	if _, err := ParsePackageType(string(c.PackageType)); err != nil {
		errs = append(errs, fmt.Errorf("package type %q is not recognised", c.PackageType))
	}
	if c.CustomerType != CustomerPaid && c.CustomerType != CustomerFree {
		errs = append(errs, fmt.Errorf("customer type must be %q or %q", CustomerPaid, CustomerFree))
	}
	if c.DateJoined.IsZero() {
		errs = append(errs, fmt.Errorf("date joined is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// CatalogID returns the rule catalog id for the customer's package.
func (c *Customer) CatalogID() string {
	return CatalogIDFor(c.PackageType)
}

// DisplayID returns the first 8 characters of the id for table output.
func (c *Customer) DisplayID() string {
	if len(c.ID) >= 8 {
		return c.ID[:8]
	}
	return c.ID
}
