package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"litigation_dashboard_go/middleware"
	"litigation_dashboard_go/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// importRequest is the JSON import body. A bare array of rows is accepted too.
type importRequest struct {
	CourtID string            `json:"courtId"`
	Rows    []services.RawRow `json:"rows"`
}

func decodeImportRequest(body io.Reader) (importRequest, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return importRequest{}, err
	}
	data = bytes.TrimSpace(data)

	var req importRequest
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &req.Rows)
	} else {
		err = json.Unmarshal(data, &req)
	}
	return req, err
}

// ImportRows handles POST /import with JSON rows
func (a *API) ImportRows(c echo.Context) error {
	scope, err := middleware.GetScope(c)
	if err != nil {
		return err
	}

	req, err := decodeImportRequest(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}

	return a.runImport(c, scope, req.Rows, services.ImportOptions{CourtID: req.CourtID})
}

// ImportFile handles POST /import/file with an xlsx upload in the "file" field
func (a *API) ImportFile(c echo.Context) error {
	scope, err := middleware.GetScope(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	if err := services.ValidateSpreadsheetUpload(file); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to open file")
	}
	defer src.Close()

	rows, err := services.ReadDecisionRows(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return a.runImport(c, scope, rows, services.ImportOptions{CourtID: c.FormValue("courtId")})
}

func (a *API) runImport(c echo.Context, scope services.Scope, rows []services.RawRow, opts services.ImportOptions) error {
	if len(rows) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No rows to import")
	}

	result, err := a.importer.Import(c.Request().Context(), scope, rows, opts)
	if err != nil {
		return a.serviceError(c, err)
	}

	if result.Errors > 0 {
		a.logger.Info("import finished with row errors",
			zap.String("scope", scope.String()),
			zap.Int("errors", result.Errors),
		)
	}
	return c.JSON(http.StatusOK, result)
}

// ImportTemplate handles GET /import/template
func (a *API) ImportTemplate(c echo.Context) error {
	scope, err := middleware.GetScope(c)
	if err != nil {
		return err
	}

	buf, err := services.GenerateDecisionTemplate(c.Request().Context(), a.db, scope)
	if err != nil {
		return a.serviceError(c, err)
	}

	filename := fmt.Sprintf("modelo_importacao_%s.xlsx", scope.Instance)
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+filename)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
