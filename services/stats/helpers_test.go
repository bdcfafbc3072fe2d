package stats

import (
	"time"

	"litigation_dashboard_go/models"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func liability(l string) *string {
	return &l
}

func decision(adjID, outcome string, date *time.Time) models.Decision {
	return models.Decision{
		ID:            adjID + "-" + outcome,
		AdjudicatorID: adjID,
		Outcome:       outcome,
		DecisionDate:  date,
	}
}

// sampleHierarchy builds two courts:
//
//	court-1: div-1 (adj-1, adj-2), div-2 (adj-3)
//	court-2: div-3 (adj-4), div-4 (no adjudicators)
func sampleHierarchy() []models.Court {
	return []models.Court{
		{
			ID: "court-1", Name: "TRT 1ª Região",
			Divisions: []models.Division{
				{ID: "div-1", CourtID: "court-1", Name: "1ª Turma", Adjudicators: []models.Adjudicator{
					{ID: "adj-1", DivisionID: "div-1", Name: "Ana Souza"},
					{ID: "adj-2", DivisionID: "div-1", Name: "Bruno Lima"},
				}},
				{ID: "div-2", CourtID: "court-1", Name: "2ª Turma", Adjudicators: []models.Adjudicator{
					{ID: "adj-3", DivisionID: "div-2", Name: "Carla Dias"},
				}},
			},
		},
		{
			ID: "court-2", Name: "TRT 2ª Região",
			Divisions: []models.Division{
				{ID: "div-3", CourtID: "court-2", Name: "3ª Turma", Adjudicators: []models.Adjudicator{
					{ID: "adj-4", DivisionID: "div-3", Name: "Diego Reis"},
				}},
				{ID: "div-4", CourtID: "court-2", Name: "4ª Turma"},
			},
		},
	}
}

// sampleDecisions spreads a mix of outcomes, dates, liabilities and companies over the sample hierarchy
func sampleDecisions() []models.Decision {
	rows := []struct {
		adj, outcome, liab, company, process string
		date                                 *time.Time
	}{
		{"adj-1", models.OutcomeFavorable, models.LiabilityJoint, "Acme", "0000001-10.2024.5.01.0001", day(2024, 1, 15)},
		{"adj-1", models.OutcomeFavorable, models.LiabilitySubsidiary, "Acme", "0000002-10.2024.5.01.0001", day(2024, 1, 20)},
		{"adj-1", models.OutcomeUnfavorable, models.LiabilitySubsidiary, "Beta", "0000003-10.2024.5.01.0001", day(2024, 2, 5)},
		{"adj-2", models.OutcomePartial, models.LiabilityJoint, "Acme", "0000004-10.2024.5.01.0001", nil},
		{"adj-2", models.OutcomeUnderReview, "", "Beta", "0000005-10.2024.5.01.0001", day(2024, 3, 1)},
		{"adj-3", models.OutcomeUnfavorable, models.LiabilityJoint, "Acme", "0000006-10.2023.5.01.0001", day(2023, 12, 31)},
		{"adj-4", models.OutcomeFavorable, models.LiabilitySubsidiary, "Gama", "0000007-10.2024.5.02.0001", day(2024, 2, 28)},
		{"adj-4", models.OutcomeFavorable, models.LiabilityJoint, "Acme", "0000008-10.2024.5.02.0001", nil},
	}

	decisions := make([]models.Decision, 0, len(rows))
	for _, r := range rows {
		d := models.Decision{
			ID:            r.process,
			AdjudicatorID: r.adj,
			Outcome:       r.outcome,
			Company:       r.company,
			ProcessNumber: r.process,
			DecisionDate:  r.date,
		}
		if r.liab != "" {
			d.Liability = liability(r.liab)
		}
		decisions = append(decisions, d)
	}
	return decisions
}
