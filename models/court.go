package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Instance constants. Both instances share the same three-level hierarchy shape.
const (
	InstanceFirst  = "primeira" // Trial level: vara / juiz
	InstanceSecond = "segunda"  // Appellate level: turma / desembargador
)

// IsValidInstance checks if the instance tag is valid
func IsValidInstance(instance string) bool {
	return instance == InstanceFirst || instance == InstanceSecond
}

// Court represents a labor-court region (TRT) for one firm and one instance
type Court struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FirmID   string `gorm:"type:uuid;not null;index:idx_court_firm_instance" json:"firm_id"`
	Instance string `gorm:"size:10;not null;index:idx_court_firm_instance" json:"instance"`

	Name       string `gorm:"size:120;not null" json:"name"`
	RegionCode string `gorm:"size:2;index" json:"region_code"` // Two-digit TR segment of the CNJ number (e.g. "01")

	Divisions []Division `gorm:"foreignKey:CourtID" json:"divisions,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Court) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Court) TableName() string {
	return "courts"
}

// Division represents a turma (appellate) or vara (trial) within a court
type Division struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CourtID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_division_court_name" json:"court_id"`

	Name    string `gorm:"size:200;not null" json:"name"`
	NameKey string `gorm:"size:200;not null;uniqueIndex:idx_division_court_name" json:"-"`

	Adjudicators []Adjudicator `gorm:"foreignKey:DivisionID" json:"adjudicators,omitempty"`
}

// BeforeSave keeps the lookup key in sync with the display name
func (d *Division) BeforeSave(tx *gorm.DB) error {
	d.NameKey = DivisionNameKey(d.Name)
	return nil
}

// BeforeCreate hook to generate UUID
func (d *Division) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Division) TableName() string {
	return "divisions"
}

// DivisionNameKey is the case-insensitive identity of a division name within its court
func DivisionNameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Adjudicator role constants
const (
	AdjudicatorRoleTitular    = "titular"
	AdjudicatorRoleSubstitute = "substituto"
)

// Adjudicator represents a desembargador (appellate) or juiz (trial) within a division
type Adjudicator struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DivisionID string `gorm:"type:uuid;not null;index" json:"division_id"`

	Name string `gorm:"size:200;not null" json:"name"`
	Role string `gorm:"size:20;not null;default:titular" json:"role"`

	Decisions []Decision `gorm:"foreignKey:AdjudicatorID" json:"decisions,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *Adjudicator) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Role == "" {
		a.Role = AdjudicatorRoleTitular
	}
	return nil
}

// TableName specifies the table name
func (Adjudicator) TableName() string {
	return "adjudicators"
}

// IsSubstitute checks if the adjudicator sits as a substitute
func (a *Adjudicator) IsSubstitute() bool {
	return a.Role == AdjudicatorRoleSubstitute
}
