package repository

import (
	"context"
	"errors"

	"github.com/escolarapp/escolar-api/internal/domain/billing"
	"github.com/escolarapp/escolar-api/internal/domain/entity"
	domainRepo "github.com/escolarapp/escolar-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) GetWithAllocations(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Allocations").
		Preload("Allocations.Receipt").
		First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) List(ctx context.Context, params *domainRepo.PaymentFilterParams) ([]entity.Payment, int64, error) {
	var payments []entity.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Payment{}).Scopes(TenantScope(ctx))

	if params.CashierID != nil {
		query = query.Where("cashier_id = ?", *params.CashierID)
	}

	if params.StudentID != nil {
		query = query.Where("student_id = ?", *params.StudentID)
	}

	if params.Method != nil {
		query = query.Where("method = ?", *params.Method)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.From != nil {
		query = query.Where("paid_at >= ?", *params.From)
	}

	if params.To != nil {
		query = query.Where("paid_at <= ?", *params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "paid_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder).
		Find(&payments).Error

	return payments, total, err
}

// CreateWithApplication writes one payment application as a unit. The
// cut update is conditional on the row still being open; losing that
// race rolls the whole application back so the cashier can retry.
func (r *paymentRepository) CreateWithApplication(ctx context.Context, payment *entity.Payment, receipts []entity.Receipt, allocations []entity.PaymentAllocation, cut *entity.CashCut) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(payment).Error; err != nil {
			return err
		}
		if len(allocations) > 0 {
			if err := tx.Create(&allocations).Error; err != nil {
				return err
			}
		}
		for i := range receipts {
			if err := tx.Omit(clause.Associations).Save(&receipts[i]).Error; err != nil {
				return err
			}
		}
		if cut != nil {
			rows, err := applyCutTotals(tx, cut)
			if err != nil {
				return err
			}
			if rows == 0 {
				return billing.ErrCashCutClosed
			}
		}
		return nil
	})
}

// VoidWithRestore writes a void as a unit. Allocation rows are flagged
// reversed, never deleted; the audit trail survives the void. Zero
// affected rows on the cut update means the cut closed since the
// caller's read and keeps its frozen totals.
func (r *paymentRepository) VoidWithRestore(ctx context.Context, payment *entity.Payment, receipts []entity.Receipt, cut *entity.CashCut) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(payment).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.PaymentAllocation{}).
			Where("payment_id = ?", payment.ID).
			Update("reversed", true).Error; err != nil {
			return err
		}
		for i := range receipts {
			if err := tx.Omit(clause.Associations).Save(&receipts[i]).Error; err != nil {
				return err
			}
		}
		if cut != nil {
			if _, err := applyCutTotals(tx, cut); err != nil {
				return err
			}
		}
		return nil
	})
}

// applyCutTotals writes the cut's running totals, guarded on the row
// still being open.
func applyCutTotals(tx *gorm.DB, cut *entity.CashCut) (int64, error) {
	result := tx.Model(&entity.CashCut{}).
		Where("id = ? AND closed = false", cut.ID).
		Updates(map[string]interface{}{
			"total_cash":     cut.TotalCash,
			"total_transfer": cut.TotalTransfer,
			"total_card":     cut.TotalCard,
			"total_general":  cut.TotalGeneral,
			"payment_count":  cut.PaymentCount,
		})
	return result.RowsAffected, result.Error
}

func (r *paymentRepository) ListByCashCut(ctx context.Context, cashCutID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("cash_cut_id = ?", cashCutID).
		Order("paid_at ASC").
		Find(&payments).Error
	return payments, err
}

type cashCutRepository struct {
	db *gorm.DB
}

// NewCashCutRepository creates a new cash-cut repository
func NewCashCutRepository(db *gorm.DB) domainRepo.CashCutRepository {
	return &cashCutRepository{db: db}
}

func (r *cashCutRepository) Create(ctx context.Context, cut *entity.CashCut) error {
	return r.db.WithContext(ctx).Create(cut).Error
}

func (r *cashCutRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashCut, error) {
	var cut entity.CashCut
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&cut, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cut, err
}

func (r *cashCutRepository) GetByFolio(ctx context.Context, folio string) (*entity.CashCut, error) {
	var cut entity.CashCut
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&cut, "folio = ?", folio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cut, err
}

func (r *cashCutRepository) GetOpenByCashier(ctx context.Context, cashierID uuid.UUID) (*entity.CashCut, error) {
	var cut entity.CashCut
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("cashier_id = ? AND closed = false", cashierID).
		Order("opened_at DESC").
		First(&cut).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cut, err
}

// Update persists the cut. Closing writes unconditionally; totals of an
// already-persisted cut are only written while the row is still open, so
// a concurrent close cannot be clobbered by a late Record.
func (r *cashCutRepository) Update(ctx context.Context, cut *entity.CashCut) error {
	if cut.Closed {
		return r.db.WithContext(ctx).Save(cut).Error
	}
	rows, err := applyCutTotals(r.db.WithContext(ctx), cut)
	if err != nil {
		return err
	}
	if rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cashCutRepository) List(ctx context.Context, params *domainRepo.CashCutFilterParams) ([]entity.CashCut, int64, error) {
	var cuts []entity.CashCut
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CashCut{}).Scopes(TenantScope(ctx))

	if params.CashierID != nil {
		query = query.Where("cashier_id = ?", *params.CashierID)
	}

	if params.Closed != nil {
		query = query.Where("closed = ?", *params.Closed)
	}

	if params.From != nil {
		query = query.Where("opened_at >= ?", *params.From)
	}

	if params.To != nil {
		query = query.Where("opened_at <= ?", *params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("opened_at DESC").
		Find(&cuts).Error

	return cuts, total, err
}
