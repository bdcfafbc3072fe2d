package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"litigation_dashboard_go/models"

	"gorm.io/gorm"
)

var (
	// ErrInvalidScope is returned when a firm or instance is missing or unknown
	ErrInvalidScope = errors.New("invalid scope")
	// ErrNotFound is returned when a record does not exist inside the requested scope
	ErrNotFound = errors.New("not found")
)

// Scope identifies one firm and one instance. Every read and write of the
// hierarchy and the decisions goes through a Scope.
type Scope struct {
	FirmID   string
	Instance string
}

// NewScope builds and validates a scope
func NewScope(firmID, instance string) (Scope, error) {
	s := Scope{FirmID: strings.TrimSpace(firmID), Instance: strings.TrimSpace(instance)}
	if err := s.Validate(); err != nil {
		return Scope{}, err
	}
	return s, nil
}

// Validate checks that the scope names a firm and a known instance
func (s Scope) Validate() error {
	if s.FirmID == "" {
		return fmt.Errorf("%w: firm is required", ErrInvalidScope)
	}
	if !models.IsValidInstance(s.Instance) {
		return fmt.Errorf("%w: unknown instance %q", ErrInvalidScope, s.Instance)
	}
	return nil
}

func (s Scope) String() string {
	return s.FirmID + "/" + s.Instance
}

// scopedDecisions is the only way to query the decisions table.
// It never returns a query without the firm and instance conditions.
func scopedDecisions(db *gorm.DB, scope Scope) (*gorm.DB, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return db.Model(&models.Decision{}).
		Where("decisions.firm_id = ? AND decisions.instance = ?", scope.FirmID, scope.Instance), nil
}

// scopedCourts is the only way to query the courts table
func scopedCourts(db *gorm.DB, scope Scope) (*gorm.DB, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return db.Model(&models.Court{}).
		Where("courts.firm_id = ? AND courts.instance = ?", scope.FirmID, scope.Instance), nil
}

// scopedDivisions restricts divisions to courts of the scope
func scopedDivisions(db *gorm.DB, scope Scope) (*gorm.DB, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return db.Model(&models.Division{}).
		Joins("JOIN courts ON courts.id = divisions.court_id").
		Where("courts.firm_id = ? AND courts.instance = ?", scope.FirmID, scope.Instance), nil
}

// loadDecisions reads every decision of the scope
func loadDecisions(db *gorm.DB, scope Scope) ([]models.Decision, error) {
	query, err := scopedDecisions(db, scope)
	if err != nil {
		return nil, err
	}
	var decisions []models.Decision
	if err := query.Order("decisions.process_number ASC").Find(&decisions).Error; err != nil {
		return nil, fmt.Errorf("failed to load decisions: %w", err)
	}
	return decisions, nil
}

// findCourt loads one court of the scope
func findCourt(db *gorm.DB, scope Scope, courtID string) (*models.Court, error) {
	query, err := scopedCourts(db, scope)
	if err != nil {
		return nil, err
	}
	var court models.Court
	if err := query.Where("courts.id = ?", courtID).First(&court).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("court %s: %w", courtID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load court: %w", err)
	}
	return &court, nil
}

// findDivision loads one division whose court belongs to the scope
func findDivision(db *gorm.DB, scope Scope, divisionID string) (*models.Division, error) {
	query, err := scopedDivisions(db, scope)
	if err != nil {
		return nil, err
	}
	var division models.Division
	if err := query.Where("divisions.id = ?", divisionID).First(&division).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("division %s: %w", divisionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load division: %w", err)
	}
	return &division, nil
}

// scopeLocks serializes writers per scope
type scopeLocks struct {
	mu    sync.Mutex
	locks map[Scope]*sync.Mutex
}

// writeLocks is shared by every writer of the hierarchy in this process
var writeLocks = newScopeLocks()

func newScopeLocks() *scopeLocks {
	return &scopeLocks{locks: make(map[Scope]*sync.Mutex)}
}

// lock blocks until the scope is free and returns the unlock function
func (l *scopeLocks) lock(scope Scope) func() {
	l.mu.Lock()
	m, ok := l.locks[scope]
	if !ok {
		m = &sync.Mutex{}
		l.locks[scope] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
