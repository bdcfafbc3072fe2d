package services

import (
	"context"
	"fmt"
	"sort"

	"litigation_dashboard_go/logging"
	"litigation_dashboard_go/models"
	"litigation_dashboard_go/services/stats"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatsView is the statistic tuple as the dashboard renders it
type StatsView struct {
	TotalDecisions     int `json:"totalDecisions"`
	Favorable          int `json:"favoraveis"`
	Unfavorable        int `json:"desfavoraveis"`
	Partial            int `json:"parciais"`
	UnderReview        int `json:"emAnalise"`
	PercentFavorable   int `json:"percentualFavoravel"`
	PercentUnfavorable int `json:"percentualDesfavoravel"`
}

func newStatsView(t stats.Tally) StatsView {
	return StatsView{
		TotalDecisions:     t.Total,
		Favorable:          t.Favorable,
		Unfavorable:        t.Unfavorable,
		Partial:            t.Partial,
		UnderReview:        t.UnderReview,
		PercentFavorable:   t.PercentFavorable(),
		PercentUnfavorable: t.PercentUnfavorable(),
	}
}

// CourtSummary is one row of the court-level list
type CourtSummary struct {
	ID                string `json:"id"`
	Name              string `json:"nome"`
	Region            string `json:"regiao"`
	TotalDivisions    int    `json:"totalDivisions"`
	TotalAdjudicators int    `json:"totalAdjudicators"`
	StatsView
}

// DivisionSummary is one row of the division-level list of a court
type DivisionSummary struct {
	ID                string `json:"id"`
	Name              string `json:"nome"`
	CourtID           string `json:"courtId"`
	TotalAdjudicators int    `json:"totalAdjudicators"`
	StatsView
}

// AdjudicatorSummary is one adjudicator of a division with the decisions behind its numbers
type AdjudicatorSummary struct {
	ID         string `json:"id"`
	Name       string `json:"nome"`
	Role       string `json:"cargo"`
	DivisionID string `json:"divisionId"`
	StatsView
	Decisions []DecisionView `json:"decisoes"`
}

// DecisionView is a decision with its place in the hierarchy
type DecisionView struct {
	ID            string `json:"id"`
	ProcessNumber string `json:"numeroProcesso"`
	DecisionDate  string `json:"dataDecisao,omitempty"`
	Outcome       string `json:"resultado"`
	Liability     string `json:"responsabilidade,omitempty"`
	UPIThesis     bool   `json:"upi"`
	Company       string `json:"empresa"`
	Location      string `json:"local"`
	Region        string `json:"regiao,omitempty"`
	Court         string `json:"tribunal,omitempty"`
	Division      string `json:"turma,omitempty"`
	Adjudicator   string `json:"relator,omitempty"`
}

// RankingItem is one line of a leaderboard
type RankingItem struct {
	ID               string `json:"id"`
	Name             string `json:"nome"`
	ContextLabel     string `json:"contextLabel"`
	TotalDecisions   int    `json:"totalDecisoes"`
	Favorable        int    `json:"favoraveis"`
	PercentFavorable int    `json:"percentualFavoravel"`
}

// RankingOptions controls the size and sample cutoff of a leaderboard
type RankingOptions struct {
	Limit        int  // Defaults to stats.DefaultTopN
	All          bool // Return every entry, ignoring Limit
	MinDecisions int  // Entries with fewer decisions are left out
}

// TimelinePoint is one month of the timeline
type TimelinePoint struct {
	Month              int `json:"mes"`
	Year               int `json:"ano"`
	TotalDecisions     int `json:"totalDecisoes"`
	Favorable          int `json:"favoraveis"`
	Unfavorable        int `json:"desfavoraveis"`
	PercentFavorable   int `json:"percentualFavoravel"`
	PercentUnfavorable int `json:"percentualDesfavoravel"`
}

// CompanyStats is one row of the company breakdown
type CompanyStats struct {
	Company            string `json:"empresa"`
	TotalDecisions     int    `json:"totalDecisoes"`
	Favorable          int    `json:"favoraveis"`
	Unfavorable        int    `json:"desfavoraveis"`
	UnderReview        int    `json:"emAnalise"`
	PercentFavorable   int    `json:"percentualFavoravel"`
	PercentUnfavorable int    `json:"percentualDesfavoravel"`
}

// DashboardService answers the read side of the dashboard. Every call recomputes
// from the decisions currently stored for the scope.
type DashboardService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewDashboardService creates a dashboard service on a database handle
func NewDashboardService(db *gorm.DB, logger *zap.Logger) *DashboardService {
	logger = logging.OrNop(logger)
	return &DashboardService{db: db, logger: logger}
}

// snapshot loads the hierarchy and the filtered decisions of a scope.
// Both reads share one transaction so a concurrent import cannot land between them.
func (s *DashboardService) snapshot(ctx context.Context, scope Scope, filter stats.Filter) (*Hierarchy, []models.Decision, error) {
	var (
		h         *Hierarchy
		decisions []models.Decision
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if h, err = LoadHierarchy(ctx, tx, scope); err != nil {
			return err
		}
		decisions, err = loadDecisions(tx, scope)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	filtered := filter.Apply(decisions)
	s.logger.Debug("dashboard snapshot",
		zap.String("scope", scope.String()),
		zap.Int("courts", len(h.Courts)),
		zap.Int("decisions", len(decisions)),
		zap.Int("filtered", len(filtered)),
	)
	return h, filtered, nil
}

// Courts returns the court-level list of the scope
func (s *DashboardService) Courts(ctx context.Context, scope Scope, filter stats.Filter) ([]CourtSummary, error) {
	h, decisions, err := s.snapshot(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	rollup := stats.RollupHierarchy(h.Courts, decisions)

	out := make([]CourtSummary, 0, len(h.Courts))
	for _, court := range h.Courts {
		out = append(out, CourtSummary{
			ID:                court.ID,
			Name:              court.Name,
			Region:            court.RegionCode,
			TotalDivisions:    len(court.Divisions),
			TotalAdjudicators: h.AdjudicatorCount(court.ID),
			StatsView:         newStatsView(rollup.Court(court.ID)),
		})
	}
	return out, nil
}

// Divisions returns the division-level list of one court
func (s *DashboardService) Divisions(ctx context.Context, scope Scope, courtID string, filter stats.Filter) ([]DivisionSummary, error) {
	h, decisions, err := s.snapshot(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	court := h.Court(courtID)
	if court == nil {
		return nil, fmt.Errorf("court %s: %w", courtID, ErrNotFound)
	}
	rollup := stats.RollupHierarchy(h.Courts, decisions)

	out := make([]DivisionSummary, 0, len(court.Divisions))
	for _, division := range court.Divisions {
		out = append(out, DivisionSummary{
			ID:                division.ID,
			Name:              division.Name,
			CourtID:           court.ID,
			TotalAdjudicators: len(division.Adjudicators),
			StatsView:         newStatsView(rollup.Division(division.ID)),
		})
	}
	return out, nil
}

// Adjudicators returns the adjudicators of one division with their filtered decisions
func (s *DashboardService) Adjudicators(ctx context.Context, scope Scope, divisionID string, filter stats.Filter) ([]AdjudicatorSummary, error) {
	h, decisions, err := s.snapshot(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	division := h.Division(divisionID)
	if division == nil {
		return nil, fmt.Errorf("division %s: %w", divisionID, ErrNotFound)
	}
	rollup := stats.RollupHierarchy(h.Courts, decisions)

	byAdjudicator := make(map[string][]DecisionView)
	for i := range decisions {
		d := &decisions[i]
		byAdjudicator[d.AdjudicatorID] = append(byAdjudicator[d.AdjudicatorID], newDecisionView(h, d))
	}

	out := make([]AdjudicatorSummary, 0, len(division.Adjudicators))
	for _, adj := range division.Adjudicators {
		views := byAdjudicator[adj.ID]
		if views == nil {
			views = []DecisionView{}
		}
		sortDecisionViews(views)
		out = append(out, AdjudicatorSummary{
			ID:         adj.ID,
			Name:       adj.Name,
			Role:       adj.Role,
			DivisionID: division.ID,
			StatsView:  newStatsView(rollup.Adjudicator(adj.ID)),
			Decisions:  views,
		})
	}
	return out, nil
}

// TopDivisions returns the division leaderboard of the scope
func (s *DashboardService) TopDivisions(ctx context.Context, scope Scope, filter stats.Filter, opts RankingOptions) ([]RankingItem, error) {
	h, decisions, err := s.snapshot(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	rollup := stats.RollupHierarchy(h.Courts, decisions)

	var entries []stats.RankEntry
	for _, division := range h.AllDivisions() {
		label := ""
		if court := h.CourtOf(division.ID); court != nil {
			label = court.Name
		}
		entries = append(entries, stats.RankEntry{
			ID:      division.ID,
			Name:    division.Name,
			Context: label,
			Tally:   rollup.Division(division.ID),
		})
	}
	return rankingItems(entries, opts), nil
}

// TopAdjudicators returns the adjudicator leaderboard of the scope
func (s *DashboardService) TopAdjudicators(ctx context.Context, scope Scope, filter stats.Filter, opts RankingOptions) ([]RankingItem, error) {
	h, decisions, err := s.snapshot(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	rollup := stats.RollupHierarchy(h.Courts, decisions)

	var entries []stats.RankEntry
	for _, adj := range h.AllAdjudicators() {
		entries = append(entries, stats.RankEntry{
			ID:      adj.ID,
			Name:    adj.Name,
			Context: contextLabel(h, adj.DivisionID),
			Tally:   rollup.Adjudicator(adj.ID),
		})
	}
	return rankingItems(entries, opts), nil
}

// Timeline returns the monthly series of the dated filtered decisions
func (s *DashboardService) Timeline(ctx context.Context, scope Scope, filter stats.Filter) ([]TimelinePoint, error) {
	_, decisions, err := s.snapshot(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	buckets := stats.Timeline(decisions)
	out := make([]TimelinePoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, TimelinePoint{
			Month:              int(b.Month),
			Year:               b.Year,
			TotalDecisions:     b.Tally.Total,
			Favorable:          b.Tally.Favorable,
			Unfavorable:        b.Tally.Unfavorable,
			PercentFavorable:   b.Tally.PercentFavorable(),
			PercentUnfavorable: b.Tally.PercentUnfavorable(),
		})
	}
	return out, nil
}

// Companies returns one row per company present in the filtered decisions
func (s *DashboardService) Companies(ctx context.Context, scope Scope, filter stats.Filter) ([]CompanyStats, error) {
	_, decisions, err := s.snapshot(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	rows := stats.ByCompany(decisions)
	out := make([]CompanyStats, 0, len(rows))
	for _, r := range rows {
		out = append(out, CompanyStats{
			Company:            r.Key,
			TotalDecisions:     r.Tally.Total,
			Favorable:          r.Tally.Favorable,
			Unfavorable:        r.Tally.Unfavorable,
			UnderReview:        r.Tally.UnderReview,
			PercentFavorable:   r.Tally.PercentFavorable(),
			PercentUnfavorable: r.Tally.PercentUnfavorable(),
		})
	}
	return out, nil
}

// Decisions returns the filtered decisions of the scope with hierarchy names, newest first
func (s *DashboardService) Decisions(ctx context.Context, scope Scope, filter stats.Filter) ([]DecisionView, error) {
	h, decisions, err := s.snapshot(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	out := make([]DecisionView, 0, len(decisions))
	for i := range decisions {
		out = append(out, newDecisionView(h, &decisions[i]))
	}
	sortDecisionViews(out)
	return out, nil
}

func rankingItems(entries []stats.RankEntry, opts RankingOptions) []RankingItem {
	eligible := stats.MinTotal(entries, opts.MinDecisions)
	limit := opts.Limit
	if opts.All {
		limit = len(eligible)
	}
	ranked := stats.Top(eligible, limit)
	out := make([]RankingItem, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, RankingItem{
			ID:               e.ID,
			Name:             e.Name,
			ContextLabel:     e.Context,
			TotalDecisions:   e.Tally.Total,
			Favorable:        e.Tally.Favorable,
			PercentFavorable: e.Tally.PercentFavorable(),
		})
	}
	return out
}

// contextLabel names the division and court an adjudicator sits in
func contextLabel(h *Hierarchy, divisionID string) string {
	division := h.Division(divisionID)
	if division == nil {
		return ""
	}
	if court := h.CourtOf(divisionID); court != nil {
		return division.Name + " - " + court.Name
	}
	return division.Name
}

func newDecisionView(h *Hierarchy, d *models.Decision) DecisionView {
	v := DecisionView{
		ID:            d.ID,
		ProcessNumber: d.ProcessNumber,
		Outcome:       d.Outcome,
		Liability:     d.LiabilityValue(),
		UPIThesis:     d.UPIThesis,
		Company:       d.Company,
		Location:      d.Location,
		Region:        d.RegionCode,
	}
	if d.DecisionDate != nil {
		v.DecisionDate = d.DecisionDate.Format("2006-01-02")
	}
	if adj := h.Adjudicator(d.AdjudicatorID); adj != nil {
		v.Adjudicator = adj.Name
		if division := h.DivisionOf(adj.ID); division != nil {
			v.Division = division.Name
			if court := h.CourtOf(division.ID); court != nil {
				v.Court = court.Name
			}
		}
	}
	return v
}

// sortDecisionViews orders newest first, undated last, then by process number.
// ISO dates compare correctly as strings.
func sortDecisionViews(views []DecisionView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.DecisionDate != b.DecisionDate {
			if a.DecisionDate == "" || b.DecisionDate == "" {
				return b.DecisionDate == ""
			}
			return a.DecisionDate > b.DecisionDate
		}
		return a.ProcessNumber < b.ProcessNumber
	})
}
