package stats

import (
	"sort"
	"time"

	"litigation_dashboard_go/models"
)

// MonthBucket aggregates the dated decisions of one calendar month
type MonthBucket struct {
	Year  int
	Month time.Month
	Tally Tally
}

// Timeline groups dated decisions into (year, month) buckets in ascending order.
// Undated decisions are skipped; they still count in the hierarchy rollup.
func Timeline(decisions []models.Decision) []MonthBucket {
	type monthKey struct {
		year  int
		month time.Month
	}

	buckets := make(map[monthKey]*Tally)
	for i := range decisions {
		d := &decisions[i]
		if d.DecisionDate == nil {
			continue
		}
		k := monthKey{year: d.DecisionDate.Year(), month: d.DecisionDate.Month()}
		t, ok := buckets[k]
		if !ok {
			t = &Tally{}
			buckets[k] = t
		}
		t.Add(d.Outcome)
	}

	series := make([]MonthBucket, 0, len(buckets))
	for k, t := range buckets {
		series = append(series, MonthBucket{Year: k.year, Month: k.month, Tally: *t})
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].Year != series[j].Year {
			return series[i].Year < series[j].Year
		}
		return series[i].Month < series[j].Month
	})
	return series
}
