package services

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"litigation_dashboard_go/models"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xuri/excelize/v2"
)

var (
	// CNJ number: NNNNNNN-DD.AAAA.J.TR.OOOO (punctuation optional)
	cnjPattern = regexp.MustCompile(`(\d{7})-?(\d{2})\.?(\d{4})\.?(\d)\.?(\d{2})\.?(\d{4})`)

	cellPolicy = bluemonday.StrictPolicy()
)

// Outcome patterns are checked in order. Partial and unfavorable labels contain the
// favorable label ("parcialmente favorável", "desfavorável"), so they go first.
var outcomePatterns = []struct {
	outcome  string
	patterns []string
}{
	{models.OutcomePartial, []string{"parcial", "partial", "em parte"}},
	{models.OutcomeUnfavorable, []string{"desfavor", "unfavor", "nao favor", "contrari"}},
	{models.OutcomeFavorable, []string{"favor"}},
}

// NormalizeOutcome maps free text to one of the four outcomes; unknown text is under review
func NormalizeOutcome(text string) string {
	folded := FoldName(text)
	if folded == "" {
		return models.OutcomeUnderReview
	}
	for _, op := range outcomePatterns {
		for _, p := range op.patterns {
			if strings.Contains(folded, p) {
				return op.outcome
			}
		}
	}
	return models.OutcomeUnderReview
}

// NormalizeLiability maps free text to joint or subsidiary liability (default subsidiary)
func NormalizeLiability(text string) string {
	folded := FoldName(text)
	if strings.Contains(folded, "solid") || strings.Contains(folded, "joint") {
		return models.LiabilityJoint
	}
	return models.LiabilitySubsidiary
}

// NormalizeUPI maps free text to the UPI thesis flag (default false)
func NormalizeUPI(text string) bool {
	switch FoldName(text) {
	case "sim", "s", "yes", "y", "true", "1", "x", "verdadeiro":
		return true
	}
	return false
}

// NormalizeProcessNumber removes whitespace inside the process number
func NormalizeProcessNumber(pn string) string {
	return strings.Join(strings.Fields(pn), "")
}

// RegionFromProcessNumber extracts the two-digit TR segment of a CNJ number, or ""
func RegionFromProcessNumber(pn string) string {
	m := cnjPattern.FindStringSubmatch(pn)
	if m == nil {
		return ""
	}
	return m[5]
}

// InferAdjudicatorRole flags judges sitting by summons or as substitutes
func InferAdjudicatorRole(name string) string {
	folded := FoldName(name)
	if strings.Contains(folded, "convocad") || strings.Contains(folded, "substitut") {
		return models.AdjudicatorRoleSubstitute
	}
	return models.AdjudicatorRoleTitular
}

// looseDateLayouts are tried in order; day-first layouts follow Brazilian spreadsheets
var looseDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
}

const (
	minExcelSerial = 10000   // 1927-05-18
	maxExcelSerial = 2958466 // 10000-01-01
)

// ParseLooseDate parses the date formats found in imported spreadsheets,
// including Excel serial numbers. It returns nil when the text is empty or unreadable.
func ParseLooseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range looseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}

	// Excel serial date (days since 1899-12-30), as returned for raw date cells.
	// Smaller numbers are years or days typed on their own, not dates.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minExcelSerial && serial < maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// cleanCell strips markup and surrounding whitespace from an imported cell
func cleanCell(s string) string {
	s = cellPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeInstance maps spreadsheet spellings of the instance ("1º grau",
// "Segunda instância", "2a") onto the instance tags. Unknown text yields "".
func NormalizeInstance(s string) string {
	key := headerKey(s)
	for _, suffix := range []string{"instancia", "grau"} {
		key = strings.TrimSuffix(key, suffix)
	}
	switch key {
	case "primeira", "primeiro", "1", "1a", "1o":
		return models.InstanceFirst
	case "segunda", "segundo", "2", "2a", "2o":
		return models.InstanceSecond
	}
	return ""
}
