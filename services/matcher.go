package services

import (
	"strings"
	"unicode"

	"litigation_dashboard_go/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NameMatcher decides whether an incoming adjudicator name refers to an existing adjudicator
type NameMatcher interface {
	Matches(incoming, existing string) bool
}

// ContainmentMatcher matches when, after folding, either name contains the other.
// It tolerates titles and middle names ("Dr. João Silva Santos" vs "João Silva") at the
// price of occasional false merges between different people sharing a name fragment.
type ContainmentMatcher struct{}

func (ContainmentMatcher) Matches(incoming, existing string) bool {
	a, b := FoldName(incoming), FoldName(existing)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// ExactMatcher matches folded names only when they are equal
type ExactMatcher struct{}

func (ExactMatcher) Matches(incoming, existing string) bool {
	a := FoldName(incoming)
	return a != "" && a == FoldName(existing)
}

// FindAdjudicator returns the first candidate the matcher accepts, or nil.
// Candidates are expected in creation order so the oldest node wins an ambiguous match.
func FindAdjudicator(m NameMatcher, name string, candidates []models.Adjudicator) *models.Adjudicator {
	for i := range candidates {
		if m.Matches(name, candidates[i].Name) {
			return &candidates[i]
		}
	}
	return nil
}

// FoldName lower-cases, strips diacritics and collapses whitespace
func FoldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
