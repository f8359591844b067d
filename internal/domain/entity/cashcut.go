package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/escolarapp/escolar-api/internal/domain/billing"
)

// CashCut (corte de caja) persists a cashier's register session. Totals
// are maintained by the billing aggregator; once Closed is set the row is
// a frozen snapshot and the repository refuses further updates.
type CashCut struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CashierID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Folio         string          `gorm:"size:50;uniqueIndex;not null" json:"folio"`
	RegisterID    string          `gorm:"size:50" json:"register_id,omitempty"`
	OpeningAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"opening_amount"`
	TotalCash     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_cash"`
	TotalTransfer decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_transfer"`
	TotalCard     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_card"`
	TotalGeneral  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_general"`
	PaymentCount  int             `gorm:"not null;default:0" json:"payment_count"`
	Closed        bool            `gorm:"not null;default:false;index" json:"closed"`
	OpenedAt      time.Time       `gorm:"not null" json:"opened_at"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
	ClosedBy      *uuid.UUID      `gorm:"type:uuid" json:"closed_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Payments []Payment `gorm:"foreignKey:CashCutID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new cash cut
func (c *CashCut) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashCut model
func (CashCut) TableName() string {
	return "cash_cuts"
}

// ToBilling converts the entity to the billing aggregator's value view.
func (c *CashCut) ToBilling() billing.CashCut {
	return billing.CashCut{
		ID:            c.ID,
		Folio:         c.Folio,
		CashierID:     c.CashierID,
		RegisterID:    c.RegisterID,
		OpenedAt:      c.OpenedAt,
		ClosedAt:      c.ClosedAt,
		OpeningAmount: c.OpeningAmount,
		TotalCash:     c.TotalCash,
		TotalTransfer: c.TotalTransfer,
		TotalCard:     c.TotalCard,
		TotalGeneral:  c.TotalGeneral,
		PaymentCount:  c.PaymentCount,
		Closed:        c.Closed,
		ClosedBy:      c.ClosedBy,
	}
}

// ApplyBilling copies the aggregator's state back onto the entity.
func (c *CashCut) ApplyBilling(b billing.CashCut) {
	c.TotalCash = b.TotalCash
	c.TotalTransfer = b.TotalTransfer
	c.TotalCard = b.TotalCard
	c.TotalGeneral = b.TotalGeneral
	c.PaymentCount = b.PaymentCount
	c.Closed = b.Closed
	c.ClosedAt = b.ClosedAt
	c.ClosedBy = b.ClosedBy
}
