package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"litigation_dashboard_go/logging"
	"litigation_dashboard_go/middleware"
	"litigation_dashboard_go/services"
	"litigation_dashboard_go/services/stats"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// API serves the firm-scoped JSON endpoints
type API struct {
	db        *gorm.DB
	dashboard *services.DashboardService
	importer  *services.DecisionImporter
	logger    *zap.Logger
}

// NewAPI wires the handlers to their services
func NewAPI(db *gorm.DB, dashboard *services.DashboardService, importer *services.DecisionImporter, logger *zap.Logger) *API {
	return &API{db: db, dashboard: dashboard, importer: importer, logger: logging.OrNop(logger)}
}

// Register mounts every route under /api/firms/:firm. importLimit may be nil.
func (a *API) Register(e *echo.Echo, importLimit echo.MiddlewareFunc) {
	firm := e.Group("/api/firms/:"+middleware.FirmParam, middleware.RequireFirm(a.db))
	{
		firm.GET("/courts", a.Courts)
		firm.POST("/courts", a.CreateCourt)
		firm.DELETE("/courts/:court", a.DeleteCourt)
		firm.GET("/courts/:court/divisions", a.Divisions)
		firm.DELETE("/divisions/:division", a.DeleteDivision)
		firm.GET("/divisions/:division/adjudicators", a.Adjudicators)
		firm.GET("/ranking/:level", a.Ranking)
		firm.GET("/timeline", a.Timeline)
		firm.GET("/companies", a.Companies)
		firm.GET("/decisions/export", a.ExportDecisions)
		firm.GET("/import/template", a.ImportTemplate)
	}

	imports := firm.Group("/import")
	if importLimit != nil {
		imports.Use(importLimit)
	}
	{
		imports.POST("", a.ImportRows)
		imports.POST("/file", a.ImportFile)
	}
}

// requestFilter parses the shared filter query parameters
func requestFilter(c echo.Context) (stats.Filter, error) {
	filter, err := services.ParseFilter(services.FilterParams{
		From:          c.QueryParam("dataInicio"),
		To:            c.QueryParam("dataFim"),
		Liability:     c.QueryParam("responsabilidade"),
		Company:       c.QueryParam("empresa"),
		ProcessNumber: c.QueryParam("processo"),
	})
	if err != nil {
		return stats.Filter{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return filter, nil
}

// scopeAndFilter resolves what every read endpoint needs before calling the engine
func scopeAndFilter(c echo.Context) (services.Scope, stats.Filter, error) {
	scope, err := middleware.GetScope(c)
	if err != nil {
		return services.Scope{}, stats.Filter{}, err
	}
	filter, err := requestFilter(c)
	if err != nil {
		return services.Scope{}, stats.Filter{}, err
	}
	return scope, filter, nil
}

// queryInt reads an optional non-negative integer query parameter
func queryInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a non-negative integer")
	}
	return n, nil
}

// serviceError maps service errors to HTTP errors
func (a *API) serviceError(c echo.Context, err error) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrInvalidScope),
		errors.Is(err, services.ErrInvalidFilter),
		errors.Is(err, services.ErrInvalidSpreadsheet),
		errors.Is(err, services.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrBatchTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	default:
		a.logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
