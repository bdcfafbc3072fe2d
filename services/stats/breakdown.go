package stats

import (
	"sort"

	"litigation_dashboard_go/models"
)

// GroupTally is one row of a grouped breakdown
type GroupTally struct {
	Key   string
	Tally Tally
}

// ByCompany returns one row per distinct company present in the decisions,
// largest groups first and then alphabetically.
func ByCompany(decisions []models.Decision) []GroupTally {
	return Breakdown(decisions, ByCompanyTag)
}

// Breakdown runs GroupBy with an arbitrary key and returns sorted rows
func Breakdown(decisions []models.Decision, key KeyFunc) []GroupTally {
	groups := GroupBy(decisions, key)

	rows := make([]GroupTally, 0, len(groups))
	for k, t := range groups {
		rows = append(rows, GroupTally{Key: k, Tally: *t})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Tally.Total != rows[j].Tally.Total {
			return rows[i].Tally.Total > rows[j].Tally.Total
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}
