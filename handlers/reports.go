package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

var decisionExportHeader = []string{
	"numeroProcesso", "dataDecisao", "tribunal", "turma", "relator",
	"resultado", "responsabilidade", "upi", "empresa", "local", "regiao",
}

// ExportDecisions handles GET /decisions/export and streams the filtered decisions as CSV
func (a *API) ExportDecisions(c echo.Context) error {
	scope, filter, err := scopeAndFilter(c)
	if err != nil {
		return err
	}
	decisions, err := a.dashboard.Decisions(c.Request().Context(), scope, filter)
	if err != nil {
		return a.serviceError(c, err)
	}

	c.Response().Header().Set("Content-Type", "text/csv")
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=decisoes_%s_%s.csv", scope.Instance, time.Now().Format("20060102_150405")))
	c.Response().WriteHeader(http.StatusOK)

	writer := csv.NewWriter(c.Response().Writer)
	if err := writer.Write(decisionExportHeader); err != nil {
		return err
	}
	for _, d := range decisions {
		record := []string{
			d.ProcessNumber,
			d.DecisionDate,
			d.Court,
			d.Division,
			d.Adjudicator,
			d.Outcome,
			d.Liability,
			strconv.FormatBool(d.UPIThesis),
			d.Company,
			d.Location,
			d.Region,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
