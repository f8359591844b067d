package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/escolarapp/escolar-api/internal/domain/entity"
	"github.com/escolarapp/escolar-api/internal/domain/enum"
	"github.com/escolarapp/escolar-api/pkg/pagination"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	GetWithAllocations(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	List(ctx context.Context, params *PaymentFilterParams) ([]entity.Payment, int64, error)
	// CreateWithApplication persists one payment application in a single
	// transaction: the payment row, its allocation audit rows, the
	// receipts it touched, and the cash-cut totals when the payment
	// landed on an open cut (cut may be nil). All-or-nothing: a failure
	// anywhere leaves no trace of the payment.
	CreateWithApplication(ctx context.Context, payment *entity.Payment, receipts []entity.Receipt, allocations []entity.PaymentAllocation, cut *entity.CashCut) error
	// VoidWithRestore persists a void in a single transaction: the
	// voided payment, its allocations flagged reversed (rows are never
	// deleted), the restored receipts, and the decremented cut totals
	// when the cut is still open (cut may be nil). A cut that closed
	// since the caller's read keeps its frozen totals.
	VoidWithRestore(ctx context.Context, payment *entity.Payment, receipts []entity.Receipt, cut *entity.CashCut) error
	// ListByCashCut returns the payments recorded against a cash cut.
	ListByCashCut(ctx context.Context, cashCutID uuid.UUID) ([]entity.Payment, error)
}

// PaymentFilterParams contains filtering parameters for payment queries
type PaymentFilterParams struct {
	Pagination *pagination.PaginationParams
	CashierID  *uuid.UUID
	StudentID  *uuid.UUID
	Method     *enum.PaymentMethod
	Status     *enum.PaymentStatus
	From       *time.Time
	To         *time.Time
	SortBy     string
	SortOrder  string
}

// CashCutRepository defines the interface for cash-cut data operations
type CashCutRepository interface {
	Create(ctx context.Context, cut *entity.CashCut) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashCut, error)
	GetByFolio(ctx context.Context, folio string) (*entity.CashCut, error)
	// GetOpenByCashier returns the cashier's currently open cut, or nil.
	// A cashier has at most one open cut at a time.
	GetOpenByCashier(ctx context.Context, cashierID uuid.UUID) (*entity.CashCut, error)
	// Update persists the cut's totals. Implementations must guard the
	// single-writer discipline: the update is conditional on the row
	// still being open so a concurrent close cannot be overwritten.
	Update(ctx context.Context, cut *entity.CashCut) error
	List(ctx context.Context, params *CashCutFilterParams) ([]entity.CashCut, int64, error)
}

// CashCutFilterParams contains filtering parameters for cash-cut queries
type CashCutFilterParams struct {
	Pagination *pagination.PaginationParams
	CashierID  *uuid.UUID
	Closed     *bool
	From       *time.Time
	To         *time.Time
}
