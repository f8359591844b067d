package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/escolarapp/escolar-api/internal/domain/billing"
	"github.com/escolarapp/escolar-api/internal/domain/enum"
)

// Scholarship represents a beca or convenio agreement: a percentage of
// the charged amount or a fixed amount per receipt, with an optional
// monthly cap. Percentage and FixedAmount are mutually exclusive;
// nullable caps mean "no limit", never "limit zero".
type Scholarship struct {
	ID          uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID            `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name        string               `gorm:"size:255;not null" json:"name"`
	Type        enum.ScholarshipType `gorm:"default:0" json:"type"`
	Percentage  *decimal.Decimal     `gorm:"type:decimal(5,2)" json:"percentage,omitempty"`
	FixedAmount *decimal.Decimal     `gorm:"type:decimal(12,2)" json:"fixed_amount,omitempty"`
	MonthlyCap  *decimal.Decimal     `gorm:"type:decimal(12,2)" json:"monthly_cap,omitempty"`
	Active      bool                 `gorm:"default:true;index" json:"active"`
	Notes       *string              `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	DeletedAt   gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relationships
	Awards []ScholarshipAward `gorm:"foreignKey:ScholarshipID" json:"awards,omitempty"`
}

// BeforeCreate generates a UUID before creating a new scholarship
func (s *Scholarship) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Scholarship model
func (Scholarship) TableName() string {
	return "scholarships"
}

// ToBilling converts the agreement to the billing core's adjustment view.
func (s *Scholarship) ToBilling() billing.Scholarship {
	return billing.Scholarship{
		Percentage:  s.Percentage,
		FixedAmount: s.FixedAmount,
		MonthlyCap:  s.MonthlyCap,
	}
}

// ScholarshipAward records a scholarship being assigned to a student.
type ScholarshipAward struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ScholarshipID uuid.UUID      `gorm:"type:uuid;not null;index" json:"scholarship_id"`
	StudentID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	StartsOn      time.Time      `gorm:"type:date;not null" json:"starts_on"`
	EndsOn        *time.Time     `gorm:"type:date" json:"ends_on,omitempty"`
	AuthorizedBy  string         `gorm:"size:255;not null" json:"authorized_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Scholarship *Scholarship `gorm:"foreignKey:ScholarshipID" json:"scholarship,omitempty"`
	Student     *Student     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// BeforeCreate generates a UUID before creating a new award
func (a *ScholarshipAward) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ScholarshipAward model
func (ScholarshipAward) TableName() string {
	return "scholarship_awards"
}

// ScholarshipGrant records each discount actually granted against a
// receipt. The per-month sum of grants feeds the tope mensual truncation.
type ScholarshipGrant struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ScholarshipID uuid.UUID       `gorm:"type:uuid;not null;index" json:"scholarship_id"`
	StudentID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"student_id"`
	ReceiptID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"receipt_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Truncated     bool            `gorm:"default:false" json:"truncated"`
	// BillingMonth is the first day of the receipt's billing month, used
	// to bucket grants for the monthly cap.
	BillingMonth time.Time `gorm:"type:date;not null;index" json:"billing_month"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new grant
func (g *ScholarshipGrant) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ScholarshipGrant model
func (ScholarshipGrant) TableName() string {
	return "scholarship_grants"
}
