package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/escolarapp/escolar-api/internal/domain/billing"
	"github.com/escolarapp/escolar-api/internal/domain/entity"
	"github.com/escolarapp/escolar-api/internal/domain/enum"
	"github.com/escolarapp/escolar-api/internal/domain/repository"
	"github.com/escolarapp/escolar-api/internal/config"
	infraRepo "github.com/escolarapp/escolar-api/internal/infrastructure/repository"
	"github.com/escolarapp/escolar-api/pkg/apperror"
	"github.com/escolarapp/escolar-api/pkg/pagination"
	"github.com/escolarapp/escolar-api/pkg/utils"
)

// ReceiptService handles the receipt ledger: issuing charges, manual
// discounts, administrative closure and the overdue/surcharge refresh.
type ReceiptService struct {
	receiptRepo repository.ReceiptRepository
	studentRepo repository.StudentRepository
	tenantRepo  repository.TenantRepository
	billingCfg  *config.BillingConfig
}

// NewReceiptService creates a new receipt service. billingCfg supplies
// the installation defaults used when a school has no settings of its
// own; it may be nil in tests.
func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	studentRepo repository.StudentRepository,
	tenantRepo repository.TenantRepository,
	billingCfg *config.BillingConfig,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo: receiptRepo,
		studentRepo: studentRepo,
		tenantRepo:  tenantRepo,
		billingCfg:  billingCfg,
	}
}

// defaultSurchargePolicy builds the fallback policy from configuration.
func (s *ReceiptService) defaultSurchargePolicy() billing.SurchargePolicy {
	if s.billingCfg == nil {
		return billing.SurchargePolicy{}
	}
	policy := billing.SurchargePolicy{
		DailyRate:   s.billingCfg.SurchargeDailyRate,
		GraceEndDay: s.billingCfg.SurchargeGraceDays,
	}
	if s.billingCfg.SurchargeMaxOverdueDays > 0 {
		days := s.billingCfg.SurchargeMaxOverdueDays
		policy.MaxOverdueDays = &days
	}
	return policy
}

// IssueReceiptInput represents the issue charge input
type IssueReceiptInput struct {
	StudentID uuid.UUID
	Concept   string
	Amount    decimal.Decimal
	DueDate   time.Time
	Currency  string
}

// tenantSettings loads the settings of the tenant bound to the context.
func (s *ReceiptService) tenantSettings(ctx context.Context) (*entity.TenantSettings, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return &tenant.Settings, nil
}

// IssueReceipt creates a new charge for a student
func (s *ReceiptService) IssueReceipt(ctx context.Context, input *IssueReceiptInput) (*entity.Receipt, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	student, err := s.studentRepo.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}

	settings, err := s.tenantSettings(ctx)
	if err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = settings.Currency
	}
	if currency == "" && s.billingCfg != nil {
		currency = s.billingCfg.DefaultCurrency
	}

	prefix := settings.ReceiptPrefix
	if prefix == "" {
		prefix = "REC-"
	}
	folio := utils.GenerateFolio(prefix)

	core, err := billing.NewReceipt(uuid.New(), folio, input.Amount, input.DueDate, currency)
	if err != nil {
		return nil, mapBillingError(err)
	}

	receipt := &entity.Receipt{
		ID:             core.ID,
		TenantID:       tenantID,
		StudentID:      input.StudentID,
		Folio:          core.Folio,
		Concept:        input.Concept,
		OriginalAmount: core.OriginalAmount,
		Discount:       core.Discount,
		Surcharge:      core.Surcharge,
		PaidAmount:     core.PaidAmount,
		Balance:        core.Balance,
		Status:         core.Status,
		DueDate:        core.DueDate,
		Currency:       core.Currency,
	}

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// GetReceipt retrieves a receipt by ID
func (s *ReceiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// GetReceiptByFolio retrieves a receipt by folio
func (s *ReceiptService) GetReceiptByFolio(ctx context.Context, folio string) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByFolio(ctx, folio)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// ListReceipts lists receipts with filtering
func (s *ReceiptService) ListReceipts(ctx context.Context, params *repository.ReceiptFilterParams) (*pagination.PaginatedResult[entity.Receipt], error) {
	receipts, total, err := s.receiptRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(receipts, pag), nil
}

// ListOutstanding returns a student's receipts with balance, oldest first
func (s *ReceiptService) ListOutstanding(ctx context.Context, studentID uuid.UUID) ([]entity.Receipt, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}
	return s.receiptRepo.ListOutstanding(ctx, studentID)
}

// ApplyDiscountInput represents a discretionary discount
type ApplyDiscountInput struct {
	Amount       decimal.Decimal
	AuthorizedBy string
	Reason       string
}

// ApplyDiscount applies a desk discount to a receipt
func (s *ReceiptService) ApplyDiscount(ctx context.Context, receiptID uuid.UUID, input *ApplyDiscountInput) (*entity.Receipt, error) {
	receipt, err := s.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	updated, err := billing.ApplyDiscount(receipt.ToBilling(), billing.Discount{
		Amount:       input.Amount,
		AuthorizedBy: input.AuthorizedBy,
		Reason:       input.Reason,
	}, time.Now())
	if err != nil {
		return nil, mapBillingError(err)
	}

	receipt.ApplyBilling(updated)
	if err := s.receiptRepo.Update(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// CancelReceipt voids a charge administratively. The balance is left as
// issued; the status alone closes the receipt.
func (s *ReceiptService) CancelReceipt(ctx context.Context, receiptID, cancelledBy uuid.UUID, reason string) (*entity.Receipt, error) {
	receipt, err := s.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	if receipt.Status.IsTerminal() {
		return nil, mapBillingError(billing.ErrTerminalReceipt)
	}
	if reason == "" {
		return nil, apperror.NewBadRequestError("Cancellation reason is required")
	}

	receipt.Status = enum.ReceiptStatusCancelled
	receipt.CancelledBy = &cancelledBy
	receipt.CancelReason = &reason

	if err := s.receiptRepo.Update(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// WaiveReceipt forgives a charge (condonación). Like cancellation it is an
// administrative close, but it is tracked separately for reporting.
func (s *ReceiptService) WaiveReceipt(ctx context.Context, receiptID, authorizedBy uuid.UUID, reason string) (*entity.Receipt, error) {
	receipt, err := s.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	if receipt.Status.IsTerminal() {
		return nil, mapBillingError(billing.ErrTerminalReceipt)
	}
	if reason == "" {
		return nil, apperror.NewBadRequestError("Waive reason is required")
	}

	receipt.Status = enum.ReceiptStatusWaived
	receipt.CancelledBy = &authorizedBy
	receipt.CancelReason = &reason

	if err := s.receiptRepo.Update(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// RefreshOverdueResult summarizes one overdue/surcharge sweep.
type RefreshOverdueResult struct {
	Scanned        int
	MarkedOverdue  int
	SurchargeAdded decimal.Decimal
}

// RefreshOverdue sweeps receipts past their due date: derives the Overdue
// status and accrues surcharges per the school's policy. The surcharge is
// recomputed from the unpaid base and only the positive delta against
// what is already accrued is added, so the sweep is idempotent per day.
func (s *ReceiptService) RefreshOverdue(ctx context.Context, asOf time.Time) (*RefreshOverdueResult, error) {
	settings, err := s.tenantSettings(ctx)
	if err != nil {
		return nil, err
	}
	policy := settings.Surcharge.ToPolicy()
	if settings.Surcharge.IsZero() {
		policy = s.defaultSurchargePolicy()
	}
	if err := policy.Validate(); err != nil {
		return nil, mapBillingError(err)
	}

	candidates, err := s.receiptRepo.ListOverdueCandidates(ctx, asOf)
	if err != nil {
		return nil, err
	}

	result := &RefreshOverdueResult{
		Scanned:        len(candidates),
		SurchargeAdded: decimal.Zero,
	}

	var changed []entity.Receipt
	for i := range candidates {
		receipt := candidates[i]
		core := receipt.ToBilling()

		daysOverdue := int(asOf.UTC().Sub(core.DueDate).Hours() / 24)
		if daysOverdue < 0 {
			continue
		}

		base := core.Balance.Sub(core.Surcharge)
		target, err := billing.ComputeSurcharge(base, policy, daysOverdue)
		if err != nil {
			return nil, mapBillingError(err)
		}

		delta := target.Sub(core.Surcharge)
		if delta.Sign() > 0 {
			core, err = billing.AddSurcharge(core, delta, asOf)
			if err != nil {
				return nil, mapBillingError(err)
			}
			result.SurchargeAdded = result.SurchargeAdded.Add(delta)
		} else {
			core.Status = billing.DeriveStatus(core, asOf)
		}

		if core.Status == enum.ReceiptStatusOverdue && receipt.Status != enum.ReceiptStatusOverdue {
			result.MarkedOverdue++
		}

		if !core.Surcharge.Equal(receipt.Surcharge) || core.Status != receipt.Status {
			receipt.ApplyBilling(core)
			changed = append(changed, receipt)
		}
	}

	if len(changed) > 0 {
		if err := s.receiptRepo.UpdateBatch(ctx, changed); err != nil {
			return nil, err
		}
	}
	return result, nil
}
