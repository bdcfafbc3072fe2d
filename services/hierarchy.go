package services

import (
	"context"
	"fmt"

	"litigation_dashboard_go/models"

	"gorm.io/gorm"
)

// Hierarchy is a read-only snapshot of courts, divisions and adjudicators of one scope
type Hierarchy struct {
	Scope  Scope
	Courts []models.Court

	courts         map[string]*models.Court
	divisions      map[string]*models.Division
	adjudicators   map[string]*models.Adjudicator
	courtOf        map[string]*models.Court    // division ID -> court
	divisionOf     map[string]*models.Division // adjudicator ID -> division
	adjudicatorCnt map[string]int              // court ID -> adjudicators
}

// LoadHierarchy reads the whole three-level tree of a scope, ordered by name at every level
func LoadHierarchy(ctx context.Context, db *gorm.DB, scope Scope) (*Hierarchy, error) {
	query, err := scopedCourts(db.WithContext(ctx), scope)
	if err != nil {
		return nil, err
	}

	var courts []models.Court
	err = query.
		Preload("Divisions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("divisions.name ASC")
		}).
		Preload("Divisions.Adjudicators", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("adjudicators.name ASC")
		}).
		Order("courts.name ASC").
		Find(&courts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load hierarchy: %w", err)
	}

	return NewHierarchy(scope, courts), nil
}

// NewHierarchy indexes an already loaded tree
func NewHierarchy(scope Scope, courts []models.Court) *Hierarchy {
	h := &Hierarchy{
		Scope:          scope,
		Courts:         courts,
		courts:         make(map[string]*models.Court),
		divisions:      make(map[string]*models.Division),
		adjudicators:   make(map[string]*models.Adjudicator),
		courtOf:        make(map[string]*models.Court),
		divisionOf:     make(map[string]*models.Division),
		adjudicatorCnt: make(map[string]int),
	}

	for i := range h.Courts {
		court := &h.Courts[i]
		h.courts[court.ID] = court
		for j := range court.Divisions {
			division := &court.Divisions[j]
			h.divisions[division.ID] = division
			h.courtOf[division.ID] = court
			for k := range division.Adjudicators {
				adj := &division.Adjudicators[k]
				h.adjudicators[adj.ID] = adj
				h.divisionOf[adj.ID] = division
				h.adjudicatorCnt[court.ID]++
			}
		}
	}
	return h
}

// Court returns a court of the snapshot, or nil
func (h *Hierarchy) Court(id string) *models.Court { return h.courts[id] }

// Division returns a division of the snapshot, or nil
func (h *Hierarchy) Division(id string) *models.Division { return h.divisions[id] }

// Adjudicator returns an adjudicator of the snapshot, or nil
func (h *Hierarchy) Adjudicator(id string) *models.Adjudicator { return h.adjudicators[id] }

// CourtOf returns the court owning a division, or nil
func (h *Hierarchy) CourtOf(divisionID string) *models.Court { return h.courtOf[divisionID] }

// DivisionOf returns the division owning an adjudicator, or nil
func (h *Hierarchy) DivisionOf(adjudicatorID string) *models.Division {
	return h.divisionOf[adjudicatorID]
}

// AdjudicatorCount returns how many adjudicators sit in a court
func (h *Hierarchy) AdjudicatorCount(courtID string) int { return h.adjudicatorCnt[courtID] }

// AllDivisions lists every division in tree order
func (h *Hierarchy) AllDivisions() []*models.Division {
	out := make([]*models.Division, 0, len(h.divisions))
	for i := range h.Courts {
		for j := range h.Courts[i].Divisions {
			out = append(out, &h.Courts[i].Divisions[j])
		}
	}
	return out
}

// AllAdjudicators lists every adjudicator in tree order
func (h *Hierarchy) AllAdjudicators() []*models.Adjudicator {
	out := make([]*models.Adjudicator, 0, len(h.adjudicators))
	for _, division := range h.AllDivisions() {
		for k := range division.Adjudicators {
			out = append(out, &division.Adjudicators[k])
		}
	}
	return out
}
