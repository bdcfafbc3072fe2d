package handlers

import (
	"net/http"

	"litigation_dashboard_go/services"

	"github.com/labstack/echo/v4"
)

// Courts handles GET /courts
func (a *API) Courts(c echo.Context) error {
	scope, filter, err := scopeAndFilter(c)
	if err != nil {
		return err
	}
	courts, err := a.dashboard.Courts(c.Request().Context(), scope, filter)
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, courts)
}

// Divisions handles GET /courts/:court/divisions
func (a *API) Divisions(c echo.Context) error {
	scope, filter, err := scopeAndFilter(c)
	if err != nil {
		return err
	}
	divisions, err := a.dashboard.Divisions(c.Request().Context(), scope, c.Param("court"), filter)
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, divisions)
}

// Adjudicators handles GET /divisions/:division/adjudicators
func (a *API) Adjudicators(c echo.Context) error {
	scope, filter, err := scopeAndFilter(c)
	if err != nil {
		return err
	}
	adjudicators, err := a.dashboard.Adjudicators(c.Request().Context(), scope, c.Param("division"), filter)
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, adjudicators)
}

// Ranking handles GET /ranking/:level where level is divisions or adjudicators
func (a *API) Ranking(c echo.Context) error {
	scope, filter, err := scopeAndFilter(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	minDecisions, err := queryInt(c, "minDecisoes")
	if err != nil {
		return err
	}
	opts := services.RankingOptions{Limit: limit, MinDecisions: minDecisions}

	var ranking []services.RankingItem
	switch c.Param("level") {
	case "divisions":
		ranking, err = a.dashboard.TopDivisions(c.Request().Context(), scope, filter, opts)
	case "adjudicators":
		ranking, err = a.dashboard.TopAdjudicators(c.Request().Context(), scope, filter, opts)
	default:
		return echo.NewHTTPError(http.StatusNotFound, "Unknown ranking")
	}
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, ranking)
}

// Timeline handles GET /timeline
func (a *API) Timeline(c echo.Context) error {
	scope, filter, err := scopeAndFilter(c)
	if err != nil {
		return err
	}
	series, err := a.dashboard.Timeline(c.Request().Context(), scope, filter)
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, series)
}

// Companies handles GET /companies
func (a *API) Companies(c echo.Context) error {
	scope, filter, err := scopeAndFilter(c)
	if err != nil {
		return err
	}
	companies, err := a.dashboard.Companies(c.Request().Context(), scope, filter)
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, companies)
}
