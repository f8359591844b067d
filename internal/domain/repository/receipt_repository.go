package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/escolarapp/escolar-api/internal/domain/entity"
	"github.com/escolarapp/escolar-api/internal/domain/enum"
	"github.com/escolarapp/escolar-api/pkg/pagination"
)

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	GetByFolio(ctx context.Context, folio string) (*entity.Receipt, error)
	// GetByIDs retrieves receipts by their IDs in one query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Receipt, error)
	Update(ctx context.Context, receipt *entity.Receipt) error
	// UpdateBatch persists several receipts in one transaction; used by
	// payment application so a multi-receipt apply is all-or-nothing.
	UpdateBatch(ctx context.Context, receipts []entity.Receipt) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
	// ListOutstanding returns a student's receipts with balance > 0,
	// oldest due date first. This is the ordering the payment engine
	// expects for auto-targeted application.
	ListOutstanding(ctx context.Context, studentID uuid.UUID) ([]entity.Receipt, error)
	// ListOverdueCandidates returns receipts past their due date that
	// are neither settled nor administratively closed.
	ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]entity.Receipt, error)
	// SumScholarshipGrants returns the cumulative scholarship discount
	// granted to a student within the given billing month.
	SumScholarshipGrants(ctx context.Context, studentID uuid.UUID, month time.Time) (decimal.Decimal, error)
}

// ReceiptFilterParams contains filtering parameters for receipt queries
type ReceiptFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.ReceiptStatus
	StudentID  *uuid.UUID
	DueFrom    *time.Time
	DueTo      *time.Time
	SortBy     string
	SortOrder  string
}
