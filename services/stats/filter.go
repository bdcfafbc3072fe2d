package stats

import (
	"strings"
	"time"

	"litigation_dashboard_go/models"
)

// Filter narrows a decision set before any aggregation. Zero values mean "not active".
type Filter struct {
	From          *time.Time // Inclusive, compared by calendar day
	To            *time.Time // Inclusive, compared by calendar day
	Liability     string     // models.LiabilityJoint or models.LiabilitySubsidiary
	Company       string     // Case-insensitive exact match
	ProcessNumber string     // Substring of the process number
}

// HasDateRange reports whether a date bound is active
func (f Filter) HasDateRange() bool {
	return f.From != nil || f.To != nil
}

// Matches reports whether a decision passes every active filter.
// With a date bound active, undated decisions never match.
func (f Filter) Matches(d *models.Decision) bool {
	if f.HasDateRange() {
		if d.DecisionDate == nil {
			return false
		}
		day := truncateDay(*d.DecisionDate)
		if f.From != nil && day.Before(truncateDay(*f.From)) {
			return false
		}
		if f.To != nil && day.After(truncateDay(*f.To)) {
			return false
		}
	}

	if f.Liability != "" && d.LiabilityValue() != f.Liability {
		return false
	}

	if f.Company != "" && !strings.EqualFold(strings.TrimSpace(d.Company), strings.TrimSpace(f.Company)) {
		return false
	}

	if f.ProcessNumber != "" && !processNumberContains(d.ProcessNumber, f.ProcessNumber) {
		return false
	}

	return true
}

// Apply returns the decisions that pass the filter, preserving order
func (f Filter) Apply(decisions []models.Decision) []models.Decision {
	filtered := make([]models.Decision, 0, len(decisions))
	for i := range decisions {
		if f.Matches(&decisions[i]) {
			filtered = append(filtered, decisions[i])
		}
	}
	return filtered
}

// processNumberContains matches either the raw text or the digits only,
// so "0001234-56" and "000123456" both find "0001234-56.2024.5.01.0001".
func processNumberContains(processNumber, query string) bool {
	query = strings.TrimSpace(query)
	if strings.Contains(strings.ToLower(processNumber), strings.ToLower(query)) {
		return true
	}
	qDigits := digitsOnly(query)
	if qDigits == "" {
		return false
	}
	return strings.Contains(digitsOnly(processNumber), qDigits)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
