// Package stats computes favorability aggregates over an already scoped set of decisions.
// Nothing here touches the database; callers hand in slices loaded by the services package.
package stats

import (
	"math"

	"litigation_dashboard_go/models"
)

// Tally is the statistic tuple reported at every aggregation level
type Tally struct {
	Total       int `json:"total"`
	Favorable   int `json:"favoraveis"`
	Unfavorable int `json:"desfavoraveis"`
	Partial     int `json:"parciais"`
	UnderReview int `json:"emAnalise"`
}

// Add counts one decision with the given outcome.
// Unknown outcomes are counted as under review so Total always matches the decision count.
func (t *Tally) Add(outcome string) {
	t.Total++
	switch outcome {
	case models.OutcomeFavorable:
		t.Favorable++
	case models.OutcomeUnfavorable:
		t.Unfavorable++
	case models.OutcomePartial:
		t.Partial++
	default:
		t.UnderReview++
	}
}

// Merge adds another tally into t
func (t *Tally) Merge(other Tally) {
	t.Total += other.Total
	t.Favorable += other.Favorable
	t.Unfavorable += other.Unfavorable
	t.Partial += other.Partial
	t.UnderReview += other.UnderReview
}

// Resolved is the percentage denominator: partial and under-review decisions are excluded
func (t Tally) Resolved() int {
	return t.Favorable + t.Unfavorable
}

// PercentFavorable returns round(favorable / resolved * 100), 0 when nothing is resolved
func (t Tally) PercentFavorable() int {
	return Percent(t.Favorable, t.Resolved())
}

// PercentUnfavorable returns round(unfavorable / resolved * 100), 0 when nothing is resolved
func (t Tally) PercentUnfavorable() int {
	return Percent(t.Unfavorable, t.Resolved())
}

// Percent returns part/whole as a rounded integer percentage in [0, 100]
func Percent(part, whole int) int {
	if whole <= 0 || part <= 0 {
		return 0
	}
	if part >= whole {
		return 100
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
