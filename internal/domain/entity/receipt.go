package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/escolarapp/escolar-api/internal/domain/billing"
	"github.com/escolarapp/escolar-api/internal/domain/enum"
)

// Receipt represents a billable charge issued to a student: a tuition
// month, an enrollment fee, a lab fee. Amounts are exact decimals; the
// balance invariant is owned by the billing package, this entity only
// persists the result.
type Receipt struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	StudentID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"student_id"`
	Folio          string             `gorm:"size:50;uniqueIndex;not null" json:"folio"`
	Concept        string             `gorm:"size:255;not null" json:"concept"`
	OriginalAmount decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"original_amount"`
	Discount       decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	Surcharge      decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0" json:"surcharge"`
	PaidAmount     decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	Balance        decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"balance"`
	Status         enum.ReceiptStatus `gorm:"default:0;index" json:"status"`
	DueDate        time.Time          `gorm:"not null;index" json:"due_date"`
	Currency       string             `gorm:"size:3;not null;default:'MXN'" json:"currency"`
	CancelledBy    *uuid.UUID         `gorm:"type:uuid" json:"cancelled_by,omitempty"`
	CancelReason   *string            `gorm:"size:500" json:"cancel_reason,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Student     *Student            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Allocations []PaymentAllocation `gorm:"foreignKey:ReceiptID" json:"allocations,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// ToBilling converts the entity to the billing core's value view.
func (r *Receipt) ToBilling() billing.Receipt {
	return billing.Receipt{
		ID:             r.ID,
		Folio:          r.Folio,
		OriginalAmount: r.OriginalAmount,
		Discount:       r.Discount,
		Surcharge:      r.Surcharge,
		PaidAmount:     r.PaidAmount,
		Balance:        r.Balance,
		Status:         r.Status,
		DueDate:        r.DueDate,
		Currency:       r.Currency,
	}
}

// ApplyBilling copies the mutable ledger fields back from the billing
// core's value view after an operation.
func (r *Receipt) ApplyBilling(b billing.Receipt) {
	r.Discount = b.Discount
	r.Surcharge = b.Surcharge
	r.PaidAmount = b.PaidAmount
	r.Balance = b.Balance
	r.Status = b.Status
}
