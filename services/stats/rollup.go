package stats

import (
	"litigation_dashboard_go/models"
)

// KeyFunc extracts the grouping key of a decision
type KeyFunc func(d *models.Decision) string

// ByAdjudicator groups by hierarchy membership
func ByAdjudicator(d *models.Decision) string { return d.AdjudicatorID }

// ByCompanyTag groups by the decision's company tag
func ByCompanyTag(d *models.Decision) string { return d.Company }

// GroupBy tallies decisions per key. It is the only place outcomes are counted,
// shared by the hierarchy rollup and the company breakdown.
func GroupBy(decisions []models.Decision, key KeyFunc) map[string]*Tally {
	groups := make(map[string]*Tally)
	for i := range decisions {
		k := key(&decisions[i])
		t, ok := groups[k]
		if !ok {
			t = &Tally{}
			groups[k] = t
		}
		t.Add(decisions[i].Outcome)
	}
	return groups
}

// Rollup holds a tally for every node of a hierarchy snapshot, keyed by node ID.
// Nodes without decisions are present with a zero tally.
type Rollup struct {
	Courts       map[string]Tally
	Divisions    map[string]Tally
	Adjudicators map[string]Tally

	// Unattached counts decisions whose adjudicator is not in the snapshot.
	// They are left out of every level so the levels stay additive.
	Unattached int
}

// RollupHierarchy tallies decisions per adjudicator and sums upward:
// each division is the sum of its adjudicators and each court the sum of its divisions.
// courts must have Divisions and Divisions.Adjudicators loaded.
func RollupHierarchy(courts []models.Court, decisions []models.Decision) *Rollup {
	perAdjudicator := GroupBy(decisions, ByAdjudicator)

	r := &Rollup{
		Courts:       make(map[string]Tally, len(courts)),
		Divisions:    make(map[string]Tally),
		Adjudicators: make(map[string]Tally),
	}

	attached := 0
	for _, court := range courts {
		var courtTally Tally
		for _, division := range court.Divisions {
			var divisionTally Tally
			for _, adj := range division.Adjudicators {
				var adjTally Tally
				if t, ok := perAdjudicator[adj.ID]; ok {
					adjTally = *t
				}
				r.Adjudicators[adj.ID] = adjTally
				divisionTally.Merge(adjTally)
			}
			r.Divisions[division.ID] = divisionTally
			courtTally.Merge(divisionTally)
		}
		r.Courts[court.ID] = courtTally
		attached += courtTally.Total
	}

	r.Unattached = len(decisions) - attached
	return r
}

// Court returns the tally of a court (zero when unknown)
func (r *Rollup) Court(id string) Tally { return r.Courts[id] }

// Division returns the tally of a division (zero when unknown)
func (r *Rollup) Division(id string) Tally { return r.Divisions[id] }

// Adjudicator returns the tally of an adjudicator (zero when unknown)
func (r *Rollup) Adjudicator(id string) Tally { return r.Adjudicators[id] }
