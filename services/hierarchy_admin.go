package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"litigation_dashboard_go/models"

	"gorm.io/gorm"
)

// ErrInvalidInput marks rejected names and codes on the admin operations
var ErrInvalidInput = errors.New("invalid input")

// CreateFirm registers a tenant
func CreateFirm(ctx context.Context, db *gorm.DB, name, primaryCompany string) (*models.Firm, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: firm name is required", ErrInvalidInput)
	}
	firm := &models.Firm{Name: name, PrimaryCompany: strings.TrimSpace(primaryCompany)}
	if err := db.WithContext(ctx).Create(firm).Error; err != nil {
		return nil, fmt.Errorf("failed to create firm: %w", err)
	}
	return firm, nil
}

// FindFirm looks a firm up by ID or slug
func FindFirm(ctx context.Context, db *gorm.DB, ref string) (*models.Firm, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNotFound
	}
	var firm models.Firm
	err := db.WithContext(ctx).Where("id = ? OR slug = ?", ref, strings.ToLower(ref)).First(&firm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load firm: %w", err)
	}
	return &firm, nil
}

// CreateCourt adds a court to the scope. The region code is the two-digit TR segment
// used to route imported process numbers; it may be empty.
func CreateCourt(ctx context.Context, db *gorm.DB, scope Scope, name, regionCode string) (*models.Court, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: court name is required", ErrInvalidInput)
	}
	regionCode = strings.TrimSpace(regionCode)
	if len(regionCode) == 1 {
		regionCode = "0" + regionCode
	}
	if len(regionCode) > 2 {
		return nil, fmt.Errorf("%w: region code %q", ErrInvalidInput, regionCode)
	}

	court := &models.Court{
		FirmID:     scope.FirmID,
		Instance:   scope.Instance,
		Name:       name,
		RegionCode: regionCode,
	}
	if err := db.WithContext(ctx).Create(court).Error; err != nil {
		return nil, fmt.Errorf("failed to create court: %w", err)
	}
	return court, nil
}

// DeleteStats counts what a cascade delete removed
type DeleteStats struct {
	Courts       int64 `json:"courts"`
	Divisions    int64 `json:"divisions"`
	Adjudicators int64 `json:"adjudicators"`
	Decisions    int64 `json:"decisions"`
}

// DeleteCourt removes a court with every division, adjudicator and decision below it
func DeleteCourt(ctx context.Context, db *gorm.DB, scope Scope, courtID string) (*DeleteStats, error) {
	unlock := writeLocks.lock(scope)
	defer unlock()

	stats := &DeleteStats{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		court, err := findCourt(tx, scope, courtID)
		if err != nil {
			return err
		}

		var divisionIDs []string
		if err := tx.Model(&models.Division{}).Where("court_id = ?", court.ID).Pluck("id", &divisionIDs).Error; err != nil {
			return fmt.Errorf("failed to list divisions: %w", err)
		}
		if err := deleteDivisions(tx, scope, divisionIDs, stats); err != nil {
			return err
		}

		res := tx.Where("id = ?", court.ID).Delete(&models.Court{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete court: %w", res.Error)
		}
		stats.Courts = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// DeleteDivision removes a division with its adjudicators and their decisions
func DeleteDivision(ctx context.Context, db *gorm.DB, scope Scope, divisionID string) (*DeleteStats, error) {
	unlock := writeLocks.lock(scope)
	defer unlock()

	stats := &DeleteStats{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		division, err := findDivision(tx, scope, divisionID)
		if err != nil {
			return err
		}
		return deleteDivisions(tx, scope, []string{division.ID}, stats)
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func deleteDivisions(tx *gorm.DB, scope Scope, divisionIDs []string, stats *DeleteStats) error {
	if len(divisionIDs) == 0 {
		return nil
	}

	var adjudicatorIDs []string
	if err := tx.Model(&models.Adjudicator{}).Where("division_id IN ?", divisionIDs).Pluck("id", &adjudicatorIDs).Error; err != nil {
		return fmt.Errorf("failed to list adjudicators: %w", err)
	}

	if len(adjudicatorIDs) > 0 {
		query, err := scopedDecisions(tx, scope)
		if err != nil {
			return err
		}
		res := query.Where("decisions.adjudicator_id IN ?", adjudicatorIDs).Delete(&models.Decision{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete decisions: %w", res.Error)
		}
		stats.Decisions += res.RowsAffected

		res = tx.Where("id IN ?", adjudicatorIDs).Delete(&models.Adjudicator{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete adjudicators: %w", res.Error)
		}
		stats.Adjudicators += res.RowsAffected
	}

	res := tx.Where("id IN ?", divisionIDs).Delete(&models.Division{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete divisions: %w", res.Error)
	}
	stats.Divisions += res.RowsAffected
	return nil
}
