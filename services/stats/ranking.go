package stats

import (
	"sort"
)

// DefaultTopN is the leaderboard size when the caller does not ask for one
const DefaultTopN = 5

// RankEntry is one candidate of a leaderboard
type RankEntry struct {
	ID      string
	Name    string
	Context string // Parent label shown next to the name, e.g. the court of a division
	Tally   Tally
}

// Top returns the n entries with the highest favorable percentage.
// Ties go to the larger sample, then to the name, then to the ID so the order is deterministic.
// No minimum sample size is applied here; see MinTotal.
func Top(entries []RankEntry, n int) []RankEntry {
	if n <= 0 {
		n = DefaultTopN
	}

	ranked := make([]RankEntry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if pa, pb := a.Tally.PercentFavorable(), b.Tally.PercentFavorable(); pa != pb {
			return pa > pb
		}
		if a.Tally.Total != b.Tally.Total {
			return a.Tally.Total > b.Tally.Total
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// MinTotal drops entries with fewer than min decisions.
// It is a presentation cutoff, applied by callers before Top.
func MinTotal(entries []RankEntry, min int) []RankEntry {
	if min <= 0 {
		return entries
	}
	kept := make([]RankEntry, 0, len(entries))
	for _, e := range entries {
		if e.Tally.Total >= min {
			kept = append(kept, e)
		}
	}
	return kept
}
