package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"litigation_dashboard_go/models"
	"litigation_dashboard_go/services/stats"
)

// ErrInvalidFilter is returned when a filter value cannot be parsed
var ErrInvalidFilter = errors.New("invalid filter")

// ParseDate parses a date string in typical formats (YYYY-MM-DD)
// It enforces strict checks but centralizes the logic for future format additions
func ParseDate(dateStr string) (time.Time, error) {
	// Primary format: ISO 8601 (standard for HTML5 date inputs)
	layout := "2006-01-02"

	parsedTime, err := time.Parse(layout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return parsedTime, nil
}

// FilterParams holds the raw filter values of a request
type FilterParams struct {
	From          string // dataInicio
	To            string // dataFim
	Liability     string // responsabilidade
	Company       string // empresa
	ProcessNumber string // processo
}

// ParseFilter validates raw filter values and builds the engine filter.
// Empty values leave the corresponding filter inactive.
func ParseFilter(p FilterParams) (stats.Filter, error) {
	var f stats.Filter

	if s := strings.TrimSpace(p.From); s != "" {
		t, err := ParseDate(s)
		if err != nil {
			return stats.Filter{}, fmt.Errorf("%w: dataInicio: %v", ErrInvalidFilter, err)
		}
		f.From = &t
	}
	if s := strings.TrimSpace(p.To); s != "" {
		t, err := ParseDate(s)
		if err != nil {
			return stats.Filter{}, fmt.Errorf("%w: dataFim: %v", ErrInvalidFilter, err)
		}
		f.To = &t
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return stats.Filter{}, fmt.Errorf("%w: dataFim before dataInicio", ErrInvalidFilter)
	}

	if s := strings.ToLower(strings.TrimSpace(p.Liability)); s != "" {
		if !models.IsValidLiability(s) {
			return stats.Filter{}, fmt.Errorf("%w: unknown responsabilidade %q", ErrInvalidFilter, p.Liability)
		}
		f.Liability = s
	}

	f.Company = strings.TrimSpace(p.Company)
	f.ProcessNumber = strings.TrimSpace(p.ProcessNumber)
	return f, nil
}
