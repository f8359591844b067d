package repository

import (
	"context"
	"errors"
	"time"

	"github.com/escolarapp/escolar-api/internal/domain/entity"
	"github.com/escolarapp/escolar-api/internal/domain/enum"
	domainRepo "github.com/escolarapp/escolar-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Student").
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetByFolio(ctx context.Context, folio string) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&receipt, "folio = ?", folio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Receipt, error) {
	var receipts []entity.Receipt
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("id IN ?", ids).
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) Update(ctx context.Context, receipt *entity.Receipt) error {
	return r.db.WithContext(ctx).Save(receipt).Error
}

// UpdateBatch saves all receipts in one transaction so a multi-receipt
// payment application never lands partially.
func (r *receiptRepository) UpdateBatch(ctx context.Context, receipts []entity.Receipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range receipts {
			if err := tx.Save(&receipts[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *receiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Receipt{}, "id = ?", id).Error
}

func (r *receiptRepository) List(ctx context.Context, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Receipt{}).Scopes(TenantScope(ctx))

	if params.Search != "" {
		query = query.Where("folio ILIKE ? OR concept ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.StudentID != nil {
		query = query.Where("student_id = ?", *params.StudentID)
	}

	if params.DueFrom != nil {
		query = query.Where("due_date >= ?", *params.DueFrom)
	}

	if params.DueTo != nil {
		query = query.Where("due_date <= ?", *params.DueTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Student").
		Order(sortBy + " " + sortOrder).
		Find(&receipts).Error

	return receipts, total, err
}

// ListOutstanding returns the student's receipts that still carry a
// balance, oldest due date first. Administratively closed receipts are
// excluded even if arithmetic left them a residue.
func (r *receiptRepository) ListOutstanding(ctx context.Context, studentID uuid.UUID) ([]entity.Receipt, error) {
	var receipts []entity.Receipt
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("student_id = ?", studentID).
		Where("balance > 0").
		Where("status NOT IN ?", []enum.ReceiptStatus{enum.ReceiptStatusCancelled, enum.ReceiptStatusWaived}).
		Order("due_date ASC, created_at ASC").
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]entity.Receipt, error) {
	var receipts []entity.Receipt
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("due_date < ?", asOf).
		Where("balance > 0").
		Where("status IN ?", []enum.ReceiptStatus{enum.ReceiptStatusPending, enum.ReceiptStatusPartial, enum.ReceiptStatusOverdue}).
		Order("due_date ASC").
		Find(&receipts).Error
	return receipts, err
}

// SumScholarshipGrants totals the discounts already granted to the
// student within the billing month that contains the given date.
func (r *receiptRepository) SumScholarshipGrants(ctx context.Context, studentID uuid.UUID, month time.Time) (decimal.Decimal, error) {
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&entity.ScholarshipGrant{}).
		Scopes(TenantScope(ctx)).
		Where("student_id = ?", studentID).
		Where("billing_month >= ? AND billing_month < ?", monthStart, monthEnd).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
