package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Decision outcome constants
const (
	OutcomeFavorable   = "favoravel"
	OutcomeUnfavorable = "desfavoravel"
	OutcomePartial     = "parcial"
	OutcomeUnderReview = "em_analise"
)

// Liability type constants
const (
	LiabilityJoint      = "solidaria"
	LiabilitySubsidiary = "subsidiaria"
)

// Decision represents a single ruling on one legal process
type Decision struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Tenant scope. Process number is unique within (firm, instance).
	FirmID        string `gorm:"type:uuid;not null;uniqueIndex:idx_decision_scope_process;index:idx_decision_scope" json:"firm_id"`
	Instance      string `gorm:"size:10;not null;uniqueIndex:idx_decision_scope_process;index:idx_decision_scope" json:"instance"`
	ProcessNumber string `gorm:"size:40;not null;uniqueIndex:idx_decision_scope_process" json:"process_number"`

	AdjudicatorID string       `gorm:"type:uuid;not null;index" json:"adjudicator_id"`
	Adjudicator   *Adjudicator `gorm:"foreignKey:AdjudicatorID" json:"-"`

	DecisionDate *time.Time `gorm:"index" json:"decision_date,omitempty"`
	Outcome      string     `gorm:"size:20;not null;default:em_analise" json:"outcome"`
	Liability    *string    `gorm:"size:20" json:"liability,omitempty"`
	UPIThesis    bool       `gorm:"not null;default:false" json:"upi_thesis"`
	Company      string     `gorm:"size:120;index" json:"company"`
	Location     string     `gorm:"size:200" json:"location"`
	RegionCode   string     `gorm:"size:2" json:"region_code"`
}

// BeforeCreate hook to generate UUID
func (d *Decision) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Outcome == "" {
		d.Outcome = OutcomeUnderReview
	}
	return nil
}

// TableName specifies the table name
func (Decision) TableName() string {
	return "decisions"
}

// IsValidOutcome checks if the outcome is one of the four known values
func IsValidOutcome(outcome string) bool {
	switch outcome {
	case OutcomeFavorable, OutcomeUnfavorable, OutcomePartial, OutcomeUnderReview:
		return true
	}
	return false
}

// IsValidLiability checks if the liability type is valid
func IsValidLiability(liability string) bool {
	return liability == LiabilityJoint || liability == LiabilitySubsidiary
}

// LiabilityValue returns the liability type or "" when unset
func (d *Decision) LiabilityValue() string {
	if d.Liability == nil {
		return ""
	}
	return *d.Liability
}

// SameContent reports whether two decisions carry identical mutable fields.
// Identity fields (ID, scope, process number) and timestamps are ignored.
func (d *Decision) SameContent(other *Decision) bool {
	if d.AdjudicatorID != other.AdjudicatorID ||
		d.Outcome != other.Outcome ||
		d.UPIThesis != other.UPIThesis ||
		d.Company != other.Company ||
		d.Location != other.Location ||
		d.RegionCode != other.RegionCode ||
		d.LiabilityValue() != other.LiabilityValue() {
		return false
	}
	return sameDate(d.DecisionDate, other.DecisionDate)
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// All returns every model managed by this app, in migration order
func All() []interface{} {
	return []interface{}{
		&Firm{},
		&Court{},
		&Division{},
		&Adjudicator{},
		&Decision{},
	}
}
