package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/repository"
	"github.com/labstack/echo/v4"
)

// CustomerRequest is the body of customer create and update calls.
type CustomerRequest struct {
	StoreName    string `json:"store_name"`
	Email        string `json:"email"`
	PackageType  string `json:"package_type"`
	CustomerType string `json:"customer_type"`
	DateJoined   string `json:"date_joined"` // YYYY-MM-DD
	IsActive     *bool  `json:"is_active,omitempty"`
}

func (r CustomerRequest) toDomain() (*domain.Customer, error) {
	c := &domain.Customer{
		StoreName:    r.StoreName,
		Email:        r.Email,
		PackageType:  domain.PackageType(r.PackageType),
		CustomerType: domain.CustomerType(r.CustomerType),
		IsActive:     domain.BoolFromPtrWithDefault(true, r.IsActive),
	}
	if r.DateJoined != "" {
		d, err := time.Parse(domain.DateLayout, r.DateJoined)
		if err != nil {
			return nil, fmt.Errorf("date_joined must be YYYY-MM-DD: %w", domain.ErrInvalid)
		}
		c.DateJoined = d
	}
	return c, nil
}

// customerFilter reads ?active=&type=&package=&q= into a repository filter.
func customerFilter(c echo.Context) (repository.CustomerFilter, error) {
	var f repository.CustomerFilter
	if v := c.QueryParam("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("active must be a boolean: %w", domain.ErrInvalid)
		}
		f.ActiveOnly = b
	}
	if v := c.QueryParam("type"); v != "" {
		f.CustomerType = domain.CustomerType(v)
	}
	for _, v := range c.QueryParams()["package"] {
		pkg, err := domain.ParsePackageType(v)
		if err != nil {
			return f, err
		}
		f.PackageTypes = append(f.PackageTypes, pkg)
	}
	f.Search = strings.TrimSpace(c.QueryParam("q"))
	return f, nil
}

func (s *Server) listCustomers(c echo.Context) error {
	f, err := customerFilter(c)
	if err != nil {
		return err
	}
	customers, err := s.services.Customers.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	if customers == nil {
		customers = []*domain.Customer{}
	}
	return c.JSON(http.StatusOK, customers)
}

func (s *Server) createCustomer(c echo.Context) error {
	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	customer, err := req.toDomain()
	if err != nil {
		return err
	}
	if err := s.services.Customers.Create(c.Request().Context(), customer); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, customer)
}

func (s *Server) getCustomer(c echo.Context) error {
	customer, err := s.services.Customers.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

func (s *Server) updateCustomer(c echo.Context) error {
	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	customer, err := req.toDomain()
	if err != nil {
		return err
	}
	customer.ID = c.Param("id")
	if err := s.services.Customers.Update(c.Request().Context(), customer); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

func (s *Server) deleteCustomer(c echo.Context) error {
	if err := s.services.Customers.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
