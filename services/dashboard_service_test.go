package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"litigation_dashboard_go/models"
	"litigation_dashboard_go/services/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type dashboardFixture struct {
	*fixture
	svc   *DashboardService
	trt15 *models.Court
}

// newDashboardFixture imports:
//
//	TRT 1 / 1ª Turma / Maria: F (2024-01-10), F (2024-01-20), U (2024-02-05)
//	TRT 1 / 2ª Turma / João:  P (2024-02-10, Beta), em análise (undated)
//	TRT 2 / 1ª Turma / Ana:   F (2024-03-01, solidária, Beta)
//	TRT 15: no divisions
func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	f := newFixture(t)
	ctx := context.Background()

	trt15, err := CreateCourt(ctx, f.db, f.scope, "TRT 15", "15")
	require.NoError(t, err)

	pn4 := row(processNumber(4, "01"), "2ª Turma", "Des. João Pereira", "Parcialmente favorável", "2024-02-10")
	pn4.Company = "Beta"
	pn6 := row(processNumber(6, "02"), "1ª Turma", "Des. Ana Ribeiro", "Favorável", "2024-03-01")
	pn6.Company = "Beta"
	pn6.Liability = "Solidária"

	rows := []RawRow{
		row(processNumber(1, "01"), "1ª Turma", "Des. Maria Souza", "Favorável", "2024-01-10"),
		row(processNumber(2, "01"), "1ª Turma", "Des. Maria Souza", "Favorável", "2024-01-20"),
		row(processNumber(3, "01"), "1ª Turma", "Des. Maria Souza", "Desfavorável", "2024-02-05"),
		pn4,
		row(processNumber(5, "01"), "2ª Turma", "Des. João Pereira", "Em análise", ""),
		pn6,
	}
	result, err := NewDecisionImporter(f.db).Import(ctx, f.scope, rows, ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 6, result.Success)

	return &dashboardFixture{fixture: f, svc: NewDashboardService(f.db, nil), trt15: trt15}
}

func (f *dashboardFixture) divisionID(t *testing.T, court *models.Court, name string) string {
	t.Helper()
	var d models.Division
	require.NoError(t, f.db.Where("court_id = ? AND name = ?", court.ID, name).First(&d).Error)
	return d.ID
}

func dateFilter(from, to string) stats.Filter {
	var f stats.Filter
	if from != "" {
		t, _ := time.Parse("2006-01-02", from)
		f.From = &t
	}
	if to != "" {
		t, _ := time.Parse("2006-01-02", to)
		f.To = &t
	}
	return f
}

func TestDashboard_Courts(t *testing.T) {
	f := newDashboardFixture(t)

	courts, err := f.svc.Courts(context.Background(), f.scope, stats.Filter{})
	require.NoError(t, err)
	require.Len(t, courts, 3)

	assert.Equal(t, "TRT 1", courts[0].Name)
	assert.Equal(t, "01", courts[0].Region)
	assert.Equal(t, 2, courts[0].TotalDivisions)
	assert.Equal(t, 2, courts[0].TotalAdjudicators)
	assert.Equal(t, StatsView{
		TotalDecisions:     5,
		Favorable:          2,
		Unfavorable:        1,
		Partial:            1,
		UnderReview:        1,
		PercentFavorable:   67,
		PercentUnfavorable: 33,
	}, courts[0].StatsView)

	// A court without decisions reports a zero tuple
	assert.Equal(t, "TRT 15", courts[1].Name)
	assert.Equal(t, StatsView{}, courts[1].StatsView)
	assert.Equal(t, 0, courts[1].TotalDivisions)

	assert.Equal(t, "TRT 2", courts[2].Name)
	assert.Equal(t, 100, courts[2].PercentFavorable)
}

func TestDashboard_DivisionsAndAdjudicators(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	divisions, err := f.svc.Divisions(ctx, f.scope, f.trt1.ID, stats.Filter{})
	require.NoError(t, err)
	require.Len(t, divisions, 2)
	assert.Equal(t, "1ª Turma", divisions[0].Name)
	assert.Equal(t, 3, divisions[0].TotalDecisions)
	assert.Equal(t, 67, divisions[0].PercentFavorable)
	assert.Equal(t, 1, divisions[0].TotalAdjudicators)
	assert.Equal(t, "2ª Turma", divisions[1].Name)
	assert.Equal(t, 0, divisions[1].PercentFavorable)
	assert.Equal(t, 0, divisions[1].PercentUnfavorable)

	adjudicators, err := f.svc.Adjudicators(ctx, f.scope, divisions[0].ID, stats.Filter{})
	require.NoError(t, err)
	require.Len(t, adjudicators, 1)
	maria := adjudicators[0]
	assert.Equal(t, "Des. Maria Souza", maria.Name)
	assert.Equal(t, models.AdjudicatorRoleTitular, maria.Role)
	assert.Equal(t, 67, maria.PercentFavorable)
	require.Len(t, maria.Decisions, 3)
	assert.Equal(t, "2024-02-05", maria.Decisions[0].DecisionDate)
	assert.Equal(t, "2024-01-10", maria.Decisions[2].DecisionDate)
	assert.Equal(t, "TRT 1", maria.Decisions[0].Court)
	assert.Equal(t, "1ª Turma", maria.Decisions[0].Division)

	// With a date filter the drill-down keeps the adjudicator with an empty decision list
	adjudicators, err = f.svc.Adjudicators(ctx, f.scope, divisions[0].ID, dateFilter("2025-01-01", ""))
	require.NoError(t, err)
	require.Len(t, adjudicators, 1)
	assert.NotNil(t, adjudicators[0].Decisions)
	assert.Empty(t, adjudicators[0].Decisions)
}

func TestDashboard_UnknownNodes(t *testing.T) {
	f := newDashboardFixture(t)
	other := newFixtureOn(t, f.db, "Beta Advocacia")
	ctx := context.Background()

	_, err := f.svc.Divisions(ctx, f.scope, "missing", stats.Filter{})
	assert.ErrorIs(t, err, ErrNotFound)

	// A court of another firm is invisible from this scope
	_, err = f.svc.Divisions(ctx, f.scope, other.trt1.ID, stats.Filter{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Adjudicators(ctx, other.scope, f.divisionID(t, f.trt1, "1ª Turma"), stats.Filter{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Courts(ctx, Scope{FirmID: f.firm.ID}, stats.Filter{})
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestDashboard_Additivity(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	filters := []stats.Filter{
		{},
		dateFilter("2024-02-01", ""),
		dateFilter("", "2024-01-31"),
		{Liability: models.LiabilitySubsidiary},
		{Company: "beta"},
		{ProcessNumber: "0000003"},
	}

	for _, filter := range filters {
		courts, err := f.svc.Courts(ctx, f.scope, filter)
		require.NoError(t, err)
		for _, court := range courts {
			divisions, err := f.svc.Divisions(ctx, f.scope, court.ID, filter)
			require.NoError(t, err)

			var sum stats.Tally
			for _, division := range divisions {
				adjudicators, err := f.svc.Adjudicators(ctx, f.scope, division.ID, filter)
				require.NoError(t, err)

				var divisionSum stats.Tally
				for _, adj := range adjudicators {
					divisionSum.Merge(stats.Tally{Total: adj.TotalDecisions, Favorable: adj.Favorable, Unfavorable: adj.Unfavorable, Partial: adj.Partial, UnderReview: adj.UnderReview})
					assert.Len(t, adj.Decisions, adj.TotalDecisions)
				}
				assert.Equal(t, division.TotalDecisions, divisionSum.Total)
				assert.Equal(t, division.Favorable, divisionSum.Favorable)
				sum.Merge(divisionSum)
			}
			assert.Equal(t, court.TotalDecisions, sum.Total, court.Name)
			assert.Equal(t, court.Favorable, sum.Favorable, court.Name)
			assert.Equal(t, court.Unfavorable, sum.Unfavorable, court.Name)
			assert.Equal(t, court.Partial, sum.Partial, court.Name)
			assert.Equal(t, court.UnderReview, sum.UnderReview, court.Name)
			assert.GreaterOrEqual(t, court.PercentFavorable, 0)
			assert.LessOrEqual(t, court.PercentFavorable, 100)
		}
	}
}

func TestDashboard_Filters(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	courts, err := f.svc.Courts(ctx, f.scope, stats.Filter{Liability: models.LiabilityJoint})
	require.NoError(t, err)
	assert.Equal(t, 0, courts[0].TotalDecisions)
	assert.Equal(t, 1, courts[2].TotalDecisions)

	// Undated decisions drop out once a date bound is active
	courts, err = f.svc.Courts(ctx, f.scope, dateFilter("2024-02-01", "2024-12-31"))
	require.NoError(t, err)
	assert.Equal(t, 2, courts[0].TotalDecisions)
	assert.Equal(t, 0, courts[0].UnderReview)
	assert.Equal(t, 1, courts[2].TotalDecisions)
}

func TestDashboard_Rankings(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	top, err := f.svc.TopAdjudicators(ctx, f.scope, stats.Filter{}, RankingOptions{})
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "Des. Ana Ribeiro", top[0].Name)
	assert.Equal(t, "1ª Turma - TRT 2", top[0].ContextLabel)
	assert.Equal(t, 100, top[0].PercentFavorable)
	assert.Equal(t, "Des. Maria Souza", top[1].Name)
	assert.Equal(t, 3, top[1].TotalDecisions)
	assert.Equal(t, 2, top[1].Favorable)
	assert.Equal(t, "Des. João Pereira", top[2].Name)

	// The sample cutoff is applied by the caller
	top, err = f.svc.TopAdjudicators(ctx, f.scope, stats.Filter{}, RankingOptions{MinDecisions: 2})
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Des. Maria Souza", top[0].Name)

	divisions, err := f.svc.TopDivisions(ctx, f.scope, stats.Filter{}, RankingOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, divisions, 2)
	assert.Equal(t, "TRT 2", divisions[0].ContextLabel)
	assert.Equal(t, "TRT 1", divisions[1].ContextLabel)
	assert.Equal(t, 67, divisions[1].PercentFavorable)
}

func TestDashboard_RankingAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rows := make([]RawRow, 0, 7)
	for i := 1; i <= 7; i++ {
		rows = append(rows, row(processNumber(i, "01"), "1ª Turma", fmt.Sprintf("Des. Relator %d", i), "Favorável", ""))
	}
	result, err := NewDecisionImporter(f.db, WithMatcher(ExactMatcher{})).Import(ctx, f.scope, rows, ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 7, result.AdjudicatorsCreated)

	svc := NewDashboardService(f.db, nil)

	top, err := svc.TopAdjudicators(ctx, f.scope, stats.Filter{}, RankingOptions{})
	require.NoError(t, err)
	assert.Len(t, top, stats.DefaultTopN)

	top, err = svc.TopAdjudicators(ctx, f.scope, stats.Filter{}, RankingOptions{All: true, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, top, 7)

	top, err = svc.TopAdjudicators(ctx, f.scope, stats.Filter{}, RankingOptions{All: true, MinDecisions: 2})
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestDashboard_Timeline(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	series, err := f.svc.Timeline(ctx, f.scope, stats.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []TimelinePoint{
		{Month: 1, Year: 2024, TotalDecisions: 2, Favorable: 2, PercentFavorable: 100},
		{Month: 2, Year: 2024, TotalDecisions: 2, Unfavorable: 1, PercentUnfavorable: 100},
		{Month: 3, Year: 2024, TotalDecisions: 1, Favorable: 1, PercentFavorable: 100},
	}, series)

	series, err = f.svc.Timeline(ctx, f.scope, stats.Filter{Company: "Beta"})
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 2, series[0].Month)
	assert.Equal(t, 3, series[1].Month)
}

func TestDashboard_Companies(t *testing.T) {
	f := newDashboardFixture(t)

	companies, err := f.svc.Companies(context.Background(), f.scope, stats.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []CompanyStats{
		{Company: "Acme", TotalDecisions: 4, Favorable: 2, Unfavorable: 1, UnderReview: 1, PercentFavorable: 67, PercentUnfavorable: 33},
		{Company: "Beta", TotalDecisions: 2, Favorable: 1, PercentFavorable: 100},
	}, companies)
}

func TestDashboard_Decisions(t *testing.T) {
	f := newDashboardFixture(t)

	decisions, err := f.svc.Decisions(context.Background(), f.scope, stats.Filter{})
	require.NoError(t, err)
	require.Len(t, decisions, 6)
	assert.Equal(t, "2024-03-01", decisions[0].DecisionDate)
	assert.Equal(t, "Des. Ana Ribeiro", decisions[0].Adjudicator)
	assert.Equal(t, models.LiabilityJoint, decisions[0].Liability)
	assert.Equal(t, "", decisions[5].DecisionDate, "undated decisions come last")
}

func TestDashboard_EmptyScope(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	firm, err := CreateFirm(ctx, db, "Vazio", "")
	require.NoError(t, err)
	scope := Scope{FirmID: firm.ID, Instance: models.InstanceFirst}
	svc := NewDashboardService(db, nil)

	courts, err := svc.Courts(ctx, scope, stats.Filter{})
	require.NoError(t, err)
	assert.NotNil(t, courts)
	assert.Empty(t, courts)

	ranking, err := svc.TopAdjudicators(ctx, scope, stats.Filter{}, RankingOptions{})
	require.NoError(t, err)
	assert.NotNil(t, ranking)
	assert.Empty(t, ranking)

	series, err := svc.Timeline(ctx, scope, stats.Filter{})
	require.NoError(t, err)
	assert.NotNil(t, series)

	companies, err := svc.Companies(ctx, scope, stats.Filter{})
	require.NoError(t, err)
	assert.NotNil(t, companies)
}

func TestDashboard_SnapshotReadsInOneTransaction(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	var inTx []bool
	require.NoError(t, f.db.Callback().Query().After("gorm:query").Register("test:tx_check", func(db *gorm.DB) {
		_, ok := db.Statement.ConnPool.(gorm.TxCommitter)
		inTx = append(inTx, ok)
	}))

	_, err := f.svc.Courts(ctx, f.scope, stats.Filter{})
	require.NoError(t, err)
	_, err = f.svc.Timeline(ctx, f.scope, stats.Filter{})
	require.NoError(t, err)

	require.NotEmpty(t, inTx)
	for i, ok := range inTx {
		assert.True(t, ok, "query %d ran outside the snapshot transaction", i)
	}
}
