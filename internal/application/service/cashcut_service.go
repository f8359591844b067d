package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/escolarapp/escolar-api/internal/domain/billing"
	"github.com/escolarapp/escolar-api/internal/domain/entity"
	"github.com/escolarapp/escolar-api/internal/domain/repository"
	infraRepo "github.com/escolarapp/escolar-api/internal/infrastructure/repository"
	"github.com/escolarapp/escolar-api/pkg/apperror"
	"github.com/escolarapp/escolar-api/pkg/pagination"
	"github.com/escolarapp/escolar-api/pkg/utils"
)

// CashCutService handles the corte de caja lifecycle: opening a register
// session, closing it, and reporting its totals.
type CashCutService struct {
	cashCutRepo repository.CashCutRepository
	paymentRepo repository.PaymentRepository
	tenantRepo  repository.TenantRepository
}

// NewCashCutService creates a new cash-cut service
func NewCashCutService(
	cashCutRepo repository.CashCutRepository,
	paymentRepo repository.PaymentRepository,
	tenantRepo repository.TenantRepository,
) *CashCutService {
	return &CashCutService{
		cashCutRepo: cashCutRepo,
		paymentRepo: paymentRepo,
		tenantRepo:  tenantRepo,
	}
}

// OpenCashCutInput represents the open register input
type OpenCashCutInput struct {
	CashierID     uuid.UUID
	OpeningAmount decimal.Decimal
	RegisterID    string
}

// OpenCashCut starts a register session for the cashier. A cashier can
// hold only one open cut at a time.
func (s *CashCutService) OpenCashCut(ctx context.Context, input *OpenCashCutInput) (*entity.CashCut, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	open, err := s.cashCutRepo.GetOpenByCashier(ctx, input.CashierID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, apperror.NewConflictError("Cashier already has an open cash cut: " + open.Folio)
	}

	prefix := "CORTE-"
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant != nil && tenant.Settings.CashCutPrefix != "" {
		prefix = tenant.Settings.CashCutPrefix
	}

	core, err := billing.OpenCashCut(uuid.New(), utils.GenerateFolio(prefix), input.CashierID, input.OpeningAmount, input.RegisterID, time.Now())
	if err != nil {
		return nil, mapBillingError(err)
	}

	cut := &entity.CashCut{
		ID:            core.ID,
		TenantID:      tenantID,
		CashierID:     core.CashierID,
		Folio:         core.Folio,
		RegisterID:    core.RegisterID,
		OpeningAmount: core.OpeningAmount,
		TotalCash:     decimal.Zero,
		TotalTransfer: decimal.Zero,
		TotalCard:     decimal.Zero,
		TotalGeneral:  decimal.Zero,
		OpenedAt:      core.OpenedAt,
	}

	if err := s.cashCutRepo.Create(ctx, cut); err != nil {
		return nil, err
	}
	return cut, nil
}

// GetCashCut retrieves a cash cut by ID
func (s *CashCutService) GetCashCut(ctx context.Context, id uuid.UUID) (*entity.CashCut, error) {
	cut, err := s.cashCutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cut == nil {
		return nil, apperror.NewNotFoundError("Cash cut")
	}
	return cut, nil
}

// GetOpenCashCut returns the cashier's currently open cut
func (s *CashCutService) GetOpenCashCut(ctx context.Context, cashierID uuid.UUID) (*entity.CashCut, error) {
	cut, err := s.cashCutRepo.GetOpenByCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if cut == nil {
		return nil, apperror.NewNotFoundError("Open cash cut")
	}
	return cut, nil
}

// ListCashCuts lists cash cuts with filtering
func (s *CashCutService) ListCashCuts(ctx context.Context, params *repository.CashCutFilterParams) (*pagination.PaginatedResult[entity.CashCut], error) {
	cuts, total, err := s.cashCutRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(cuts, pag), nil
}

// CashCutSummary is the close-of-day report for one cut.
type CashCutSummary struct {
	Cut            *entity.CashCut
	Payments       []entity.Payment
	ExpectedDrawer decimal.Decimal
	Consistent     bool
}

// Summarize builds the report for a cut: its totals, the payments behind
// them, and the expected drawer amount.
func (s *CashCutService) Summarize(ctx context.Context, id uuid.UUID) (*CashCutSummary, error) {
	cut, err := s.GetCashCut(ctx, id)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListByCashCut(ctx, cut.ID)
	if err != nil {
		return nil, err
	}

	core := cut.ToBilling()
	return &CashCutSummary{
		Cut:            cut,
		Payments:       payments,
		ExpectedDrawer: core.ExpectedDrawer(),
		Consistent:     core.ConsistentTotals(),
	}, nil
}

// CloseCashCut freezes the cut. Only the owning cashier or an admin
// closes a session; the handler enforces the role, the service enforces
// the state machine.
func (s *CashCutService) CloseCashCut(ctx context.Context, id, closedBy uuid.UUID) (*CashCutSummary, error) {
	cut, err := s.GetCashCut(ctx, id)
	if err != nil {
		return nil, err
	}

	closed, err := billing.Close(cut.ToBilling(), closedBy, time.Now())
	if err != nil {
		return nil, mapBillingError(err)
	}

	cut.ApplyBilling(closed)
	if err := s.cashCutRepo.Update(ctx, cut); err != nil {
		return nil, err
	}

	return s.Summarize(ctx, cut.ID)
}
