package middleware

import (
	"errors"
	"net/http"
	"strings"

	"litigation_dashboard_go/models"
	"litigation_dashboard_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	// ContextKeyFirm is the context key for the firm resolved from the URL
	ContextKeyFirm = "firm"
	// FirmParam is the route parameter carrying the firm ID or slug
	FirmParam = "firm"
	// InstanceParam is the query parameter selecting the instance
	InstanceParam = "instancia"
)

// RequireFirm resolves the :firm route parameter (ID or slug) and stores the firm in the context.
// Unknown firms get a 404 so one tenant cannot probe for another.
func RequireFirm(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			firm, err := services.FindFirm(c.Request().Context(), db, c.Param(FirmParam))
			if err != nil {
				if errors.Is(err, services.ErrNotFound) {
					return echo.NewHTTPError(http.StatusNotFound, "Firm not found")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load firm")
			}

			c.Set(ContextKeyFirm, firm)
			return next(c)
		}
	}
}

// GetCurrentFirm retrieves the current firm from context
func GetCurrentFirm(c echo.Context) *models.Firm {
	firm, ok := c.Get(ContextKeyFirm).(*models.Firm)
	if !ok {
		return nil
	}
	return firm
}

// GetInstance reads the instancia query parameter, defaulting to the appellate instance
func GetInstance(c echo.Context) (string, error) {
	instance := strings.ToLower(strings.TrimSpace(c.QueryParam(InstanceParam)))
	if instance == "" {
		return models.InstanceSecond, nil
	}
	if !models.IsValidInstance(instance) {
		return "", echo.NewHTTPError(http.StatusBadRequest, "instancia must be primeira or segunda")
	}
	return instance, nil
}

// GetScope builds the tenant scope of the request from the resolved firm and the instance parameter
func GetScope(c echo.Context) (services.Scope, error) {
	firm := GetCurrentFirm(c)
	if firm == nil {
		return services.Scope{}, echo.NewHTTPError(http.StatusNotFound, "Firm not found")
	}
	instance, err := GetInstance(c)
	if err != nil {
		return services.Scope{}, err
	}
	return services.Scope{FirmID: firm.ID, Instance: instance}, nil
}

// FirmKey keys per-firm middleware such as the import rate limiter
func FirmKey(c echo.Context) string {
	if firm := GetCurrentFirm(c); firm != nil {
		return "firm:" + firm.ID
	}
	return "ip:" + c.RealIP()
}
