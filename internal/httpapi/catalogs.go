package httpapi

import (
	"net/http"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/labstack/echo/v4"
)

func (s *Server) listCatalogs(c echo.Context) error {
	catalogs, err := s.services.Rules.ListCatalogs(c.Request().Context())
	if err != nil {
		return err
	}
	if catalogs == nil {
		catalogs = []*domain.RuleCatalog{}
	}
	return c.JSON(http.StatusOK, catalogs)
}

func (s *Server) getCatalog(c echo.Context) error {
	catalog, err := s.services.Rules.GetCatalog(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, catalog)
}

// saveCatalog replaces a whole catalog. Existing plans are unchanged until a
// rule is applied.
func (s *Server) saveCatalog(c echo.Context) error {
	var catalog domain.RuleCatalog
	if err := c.Bind(&catalog); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	catalog.ID = c.Param("id")
	if err := s.services.Rules.SaveCatalog(c.Request().Context(), &catalog); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &catalog)
}

func (s *Server) upsertRule(c echo.Context) error {
	var rule domain.PlanTaskRule
	if err := c.Bind(&rule); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	rule.ID = c.Param("ruleID")
	catalog, err := s.services.Rules.UpsertRule(c.Request().Context(), c.Param("id"), rule)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, catalog)
}

func (s *Server) deleteRule(c echo.Context) error {
	catalog, err := s.services.Rules.DeleteRule(c.Request().Context(), c.Param("id"), c.Param("ruleID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, catalog)
}

func (s *Server) applyRule(c echo.Context) error {
	res, err := s.services.Rules.ApplyRuleToAll(c.Request().Context(), c.Param("id"), c.Param("ruleID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) removeRule(c echo.Context) error {
	res, err := s.services.Rules.DeleteRuleFromAll(c.Request().Context(), c.Param("id"), c.Param("ruleID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
