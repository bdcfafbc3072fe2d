package handlers

import (
	"net/http"

	"litigation_dashboard_go/middleware"
	"litigation_dashboard_go/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type createCourtRequest struct {
	Name       string `json:"nome"`
	RegionCode string `json:"regiao"`
}

// CreateCourt handles POST /courts
func (a *API) CreateCourt(c echo.Context) error {
	scope, err := middleware.GetScope(c)
	if err != nil {
		return err
	}

	var req createCourtRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	court, err := services.CreateCourt(c.Request().Context(), a.db, scope, req.Name, req.RegionCode)
	if err != nil {
		return a.serviceError(c, err)
	}

	a.logger.Info("court created",
		zap.String("scope", scope.String()),
		zap.String("court_id", court.ID),
		zap.String("region", court.RegionCode),
	)
	return c.JSON(http.StatusCreated, services.CourtSummary{
		ID:     court.ID,
		Name:   court.Name,
		Region: court.RegionCode,
	})
}

// DeleteCourt handles DELETE /courts/:court and everything below it
func (a *API) DeleteCourt(c echo.Context) error {
	scope, err := middleware.GetScope(c)
	if err != nil {
		return err
	}
	removed, err := services.DeleteCourt(c.Request().Context(), a.db, scope, c.Param("court"))
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, removed)
}

// DeleteDivision handles DELETE /divisions/:division
func (a *API) DeleteDivision(c echo.Context) error {
	scope, err := middleware.GetScope(c)
	if err != nil {
		return err
	}
	removed, err := services.DeleteDivision(c.Request().Context(), a.db, scope, c.Param("division"))
	if err != nil {
		return a.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, removed)
}
