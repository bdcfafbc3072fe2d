package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"litigation_dashboard_go/config"
	"litigation_dashboard_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrBatchTooLarge is returned when an import batch exceeds the configured row cap
var ErrBatchTooLarge = errors.New("import batch too large")

// RawRow is one decision as it arrives from a spreadsheet or the JSON import endpoint
type RawRow struct {
	DecisionDate  string `json:"dataDecisao"`
	ProcessNumber string `json:"numeroProcesso"`
	Location      string `json:"local"`
	Division      string `json:"turma"`
	Adjudicator   string `json:"relator"`
	Outcome       string `json:"resultado"`
	Liability     string `json:"responsabilidade,omitempty"`
	UPI           string `json:"upi,omitempty"`
	Company       string `json:"empresa,omitempty"`
	Instance      string `json:"instancia,omitempty"`
}

// RowError reports why one row of a batch was rejected
type RowError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// ImportResult contains the summary of a batch import
type ImportResult struct {
	Success             int        `json:"success"`
	Skipped             int        `json:"skipped"`
	Updated             int        `json:"updated"`
	Errors              int        `json:"errors"`
	DivisionsCreated    int        `json:"turmasCreated"`
	AdjudicatorsCreated int        `json:"desembargadoresCreated"`
	ErrorDetails        []RowError `json:"errorDetails"`
}

func (r *ImportResult) addError(index int, err error) {
	r.Errors++
	r.ErrorDetails = append(r.ErrorDetails, RowError{Index: index, Error: err.Error()})
}

// ImportOptions tunes one batch
type ImportOptions struct {
	// CourtID forces every row into this court instead of resolving it from the row
	CourtID string
}

// DecisionImporter reconciles raw rows against the hierarchy and upserts decisions
type DecisionImporter struct {
	db      *gorm.DB
	matcher NameMatcher
	catalog *CompanyCatalog
	maxRows int
	logger  *zap.Logger
	locks   *scopeLocks
}

// ImporterOption configures a DecisionImporter
type ImporterOption func(*DecisionImporter)

// WithMatcher replaces the adjudicator name matcher
func WithMatcher(m NameMatcher) ImporterOption {
	return func(im *DecisionImporter) {
		if m != nil {
			im.matcher = m
		}
	}
}

// WithCompanyCatalog sets the catalog used to normalize company mentions
func WithCompanyCatalog(c *CompanyCatalog) ImporterOption {
	return func(im *DecisionImporter) { im.catalog = c }
}

// WithMaxRows caps the number of rows per batch
func WithMaxRows(n int) ImporterOption {
	return func(im *DecisionImporter) {
		if n > 0 {
			im.maxRows = n
		}
	}
}

// WithLogger sets the importer logger
func WithLogger(l *zap.Logger) ImporterOption {
	return func(im *DecisionImporter) {
		if l != nil {
			im.logger = l
		}
	}
}

// NewDecisionImporter creates an importer bound to a database handle
func NewDecisionImporter(db *gorm.DB, opts ...ImporterOption) *DecisionImporter {
	im := &DecisionImporter{
		db:      db,
		matcher: ContainmentMatcher{},
		catalog: &CompanyCatalog{},
		maxRows: config.DefaultMaxImportRows,
		logger:  zap.NewNop(),
		locks:   writeLocks,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// rowOutcome is what a committed row did
type rowOutcome struct {
	created            bool
	updated            bool
	divisionCreated    bool
	adjudicatorCreated bool
}

// Import reconciles a batch of rows into the scope. Bad rows are reported in the
// result and never abort the batch. Each row runs in its own transaction, and
// batches of the same scope run one at a time.
func (im *DecisionImporter) Import(ctx context.Context, scope Scope, rows []RawRow, opts ImportOptions) (*ImportResult, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if len(rows) > im.maxRows {
		return nil, fmt.Errorf("%w: %d rows, limit is %d", ErrBatchTooLarge, len(rows), im.maxRows)
	}

	db := im.db.WithContext(ctx)

	var firm models.Firm
	if err := db.First(&firm, "id = ?", scope.FirmID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("firm %s: %w", scope.FirmID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load firm: %w", err)
	}

	unlock := im.locks.lock(scope)
	defer unlock()

	var forced *models.Court
	if opts.CourtID != "" {
		court, err := findCourt(db, scope, opts.CourtID)
		if err != nil {
			return nil, err
		}
		forced = court
	}

	query, err := scopedCourts(db, scope)
	if err != nil {
		return nil, err
	}
	var courts []models.Court
	if err := query.Order("courts.created_at ASC").Find(&courts).Error; err != nil {
		return nil, fmt.Errorf("failed to load courts: %w", err)
	}

	result := &ImportResult{ErrorDetails: []RowError{}}
	for i, raw := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		row := cleanRow(raw)
		if err := validateRow(scope, row); err != nil {
			result.addError(i, err)
			continue
		}

		court := forced
		if court == nil {
			court = resolveCourt(courts, row)
		}
		if court == nil {
			result.addError(i, fmt.Errorf("no court in scope for process %s (local %q)", row.ProcessNumber, row.Location))
			continue
		}

		var outcome rowOutcome
		err := db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			outcome, txErr = im.importRow(tx, scope, &firm, court, i, row)
			return txErr
		})
		if err != nil {
			result.addError(i, err)
			continue
		}

		switch {
		case outcome.created:
			result.Success++
		case outcome.updated:
			result.Updated++
		default:
			result.Skipped++
		}
		if outcome.divisionCreated {
			result.DivisionsCreated++
		}
		if outcome.adjudicatorCreated {
			result.AdjudicatorsCreated++
		}
	}

	im.logger.Info("decision import finished",
		zap.String("scope", scope.String()),
		zap.Int("rows", len(rows)),
		zap.Int("created", result.Success),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", result.Errors),
		zap.Int("divisions_created", result.DivisionsCreated),
		zap.Int("adjudicators_created", result.AdjudicatorsCreated),
	)
	return result, nil
}

// importRow resolves the division and adjudicator of a row and upserts its decision
func (im *DecisionImporter) importRow(tx *gorm.DB, scope Scope, firm *models.Firm, court *models.Court, index int, row RawRow) (rowOutcome, error) {
	var out rowOutcome

	var live int64
	if err := tx.Model(&models.Court{}).Where("id = ?", court.ID).Count(&live).Error; err != nil {
		return out, fmt.Errorf("failed to check court: %w", err)
	}
	if live == 0 {
		return out, fmt.Errorf("court %s no longer exists", court.ID)
	}

	division, created, err := resolveDivision(tx, court, row.Division)
	if err != nil {
		return out, err
	}
	out.divisionCreated = created

	adjudicator, created, err := im.resolveAdjudicator(tx, division, row.Adjudicator)
	if err != nil {
		return out, err
	}
	out.adjudicatorCreated = created

	date := ParseLooseDate(row.DecisionDate)
	if date == nil && row.DecisionDate != "" {
		im.logger.Warn("unparseable decision date, storing without date",
			zap.Int("row", index),
			zap.String("process_number", row.ProcessNumber),
			zap.String("value", row.DecisionDate),
		)
	}

	liability := NormalizeLiability(row.Liability)
	region := RegionFromProcessNumber(row.ProcessNumber)
	if region == "" {
		region = court.RegionCode
	}

	incoming := models.Decision{
		FirmID:        scope.FirmID,
		Instance:      scope.Instance,
		ProcessNumber: row.ProcessNumber,
		AdjudicatorID: adjudicator.ID,
		DecisionDate:  date,
		Outcome:       NormalizeOutcome(row.Outcome),
		Liability:     &liability,
		UPIThesis:     NormalizeUPI(row.UPI),
		Company:       im.catalog.Normalize(row.Company, firm.PrimaryCompany),
		Location:      row.Location,
		RegionCode:    region,
	}

	query, err := scopedDecisions(tx, scope)
	if err != nil {
		return out, err
	}
	var existing models.Decision
	err = query.Where("decisions.process_number = ?", row.ProcessNumber).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(&incoming).Error; err != nil {
			return out, fmt.Errorf("failed to create decision: %w", err)
		}
		out.created = true
	case err != nil:
		return out, fmt.Errorf("failed to look up decision: %w", err)
	case existing.SameContent(&incoming):
		// unchanged
	default:
		existing.AdjudicatorID = incoming.AdjudicatorID
		existing.DecisionDate = incoming.DecisionDate
		existing.Outcome = incoming.Outcome
		existing.Liability = incoming.Liability
		existing.UPIThesis = incoming.UPIThesis
		existing.Company = incoming.Company
		existing.Location = incoming.Location
		existing.RegionCode = incoming.RegionCode
		if err := tx.Save(&existing).Error; err != nil {
			return out, fmt.Errorf("failed to update decision: %w", err)
		}
		out.updated = true
	}
	return out, nil
}

// resolveDivision finds a division by case-insensitive name within the court, creating it when absent
func resolveDivision(tx *gorm.DB, court *models.Court, name string) (*models.Division, bool, error) {
	var division models.Division
	err := tx.Where("court_id = ? AND name_key = ?", court.ID, models.DivisionNameKey(name)).First(&division).Error
	if err == nil {
		return &division, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up division: %w", err)
	}

	division = models.Division{CourtID: court.ID, Name: name}
	if err := tx.Create(&division).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create division %q: %w", name, err)
	}
	return &division, true, nil
}

// resolveAdjudicator applies the name matcher to the division's adjudicators, oldest first
func (im *DecisionImporter) resolveAdjudicator(tx *gorm.DB, division *models.Division, name string) (*models.Adjudicator, bool, error) {
	var candidates []models.Adjudicator
	if err := tx.Where("division_id = ?", division.ID).
		Order("created_at ASC, id ASC").
		Find(&candidates).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load adjudicators: %w", err)
	}

	if match := FindAdjudicator(im.matcher, name, candidates); match != nil {
		if FoldName(match.Name) != FoldName(name) {
			im.logger.Debug("adjudicator merged by name",
				zap.String("incoming", name),
				zap.String("existing", match.Name),
				zap.String("division", division.Name),
			)
		}
		return match, false, nil
	}

	adjudicator := models.Adjudicator{
		DivisionID: division.ID,
		Name:       name,
		Role:       InferAdjudicatorRole(name),
	}
	if err := tx.Create(&adjudicator).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create adjudicator %q: %w", name, err)
	}
	return &adjudicator, true, nil
}

// resolveCourt picks the court of a row: by the region of the process number, then by
// the location text, then the only court of the scope.
func resolveCourt(courts []models.Court, row RawRow) *models.Court {
	if region := RegionFromProcessNumber(row.ProcessNumber); region != "" {
		for i := range courts {
			if courts[i].RegionCode == region {
				return &courts[i]
			}
		}
	}

	if local := FoldName(row.Location); local != "" {
		for i := range courts {
			if FoldName(courts[i].Name) == local || FoldName(courts[i].RegionCode) == local {
				return &courts[i]
			}
		}
	}

	if len(courts) == 1 {
		return &courts[0]
	}
	return nil
}

func cleanRow(r RawRow) RawRow {
	return RawRow{
		DecisionDate:  cleanCell(r.DecisionDate),
		ProcessNumber: NormalizeProcessNumber(cleanCell(r.ProcessNumber)),
		Location:      cleanCell(r.Location),
		Division:      cleanCell(r.Division),
		Adjudicator:   cleanCell(r.Adjudicator),
		Outcome:       cleanCell(r.Outcome),
		Liability:     cleanCell(r.Liability),
		UPI:           cleanCell(r.UPI),
		Company:       cleanCell(r.Company),
		Instance:      cleanCell(r.Instance),
	}
}

func validateRow(scope Scope, r RawRow) error {
	var missing []string
	if r.Division == "" {
		missing = append(missing, "turma")
	}
	if r.Adjudicator == "" {
		missing = append(missing, "relator")
	}
	if r.ProcessNumber == "" {
		missing = append(missing, "numeroProcesso")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	if r.Instance != "" && NormalizeInstance(r.Instance) != scope.Instance {
		return fmt.Errorf("row instance %q does not match %q", r.Instance, scope.Instance)
	}
	return nil
}
