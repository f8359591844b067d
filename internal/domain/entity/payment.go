package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/escolarapp/escolar-api/internal/domain/billing"
	"github.com/escolarapp/escolar-api/internal/domain/enum"
)

// Payment represents money taken at the cashier desk. A payment is
// immutable once registered except for its status transitioning to Void;
// the applied/unapplied split lives on the payment so a remainder is
// never silently dropped.
type Payment struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CashierID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"cashier_id"`
	StudentID       *uuid.UUID         `gorm:"type:uuid;index" json:"student_id,omitempty"`
	CashCutID       *uuid.UUID         `gorm:"type:uuid;index" json:"cash_cut_id,omitempty"`
	Amount          decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"amount"`
	AmountApplied   decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0" json:"amount_applied"`
	AmountUnapplied decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0" json:"amount_unapplied"`
	Method          enum.PaymentMethod `gorm:"not null" json:"method"`
	Status          enum.PaymentStatus `gorm:"default:1;index" json:"status"`
	Currency        string             `gorm:"size:3;not null;default:'MXN'" json:"currency"`
	PaidAt          time.Time          `gorm:"not null;index" json:"paid_at"`
	Reference       *string            `gorm:"size:100" json:"reference,omitempty"`
	Notes           *string            `gorm:"size:500" json:"notes,omitempty"`
	VoidedAt        *time.Time         `json:"voided_at,omitempty"`
	VoidedBy        *uuid.UUID         `gorm:"type:uuid" json:"voided_by,omitempty"`
	VoidReason      *string            `gorm:"size:500" json:"void_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	DeletedAt       gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Allocations []PaymentAllocation `gorm:"foreignKey:PaymentID" json:"allocations,omitempty"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// ToBilling converts the entity to the billing core's value view.
func (p *Payment) ToBilling() billing.Payment {
	return billing.Payment{
		ID:        p.ID,
		Amount:    p.Amount,
		Method:    p.Method,
		Status:    p.Status,
		Timestamp: p.PaidAt,
		CashierID: p.CashierID,
	}
}

// RemainingToApply returns the portion of the payment not yet allocated
// to any receipt.
func (p *Payment) RemainingToApply() decimal.Decimal {
	return p.Amount.Sub(p.AmountApplied)
}

// PaymentAllocation links one payment to one receipt with the amount
// applied and the audit snapshot of the receipt at application time.
// Allocations are append-only; voiding a payment marks them reversed
// rather than deleting them.
type PaymentAllocation struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	PaymentID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"payment_id"`
	ReceiptID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"receipt_id"`
	AmountApplied decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"amount_applied"`
	BalanceBefore decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"balance_after"`
	StatusBefore  enum.ReceiptStatus `gorm:"not null" json:"status_before"`
	StatusAfter   enum.ReceiptStatus `gorm:"not null" json:"status_after"`
	Reversed      bool               `gorm:"default:false" json:"reversed"`
	CreatedAt     time.Time          `json:"created_at"`

	// Relationships
	Payment *Payment `gorm:"foreignKey:PaymentID" json:"-"`
	Receipt *Receipt `gorm:"foreignKey:ReceiptID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new allocation
func (a *PaymentAllocation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentAllocation model
func (PaymentAllocation) TableName() string {
	return "payment_allocations"
}
