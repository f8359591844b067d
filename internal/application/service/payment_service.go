package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/escolarapp/escolar-api/internal/domain/billing"
	"github.com/escolarapp/escolar-api/internal/domain/entity"
	"github.com/escolarapp/escolar-api/internal/domain/enum"
	"github.com/escolarapp/escolar-api/internal/domain/repository"
	infraRepo "github.com/escolarapp/escolar-api/internal/infrastructure/repository"
	"github.com/escolarapp/escolar-api/pkg/apperror"
	"github.com/escolarapp/escolar-api/pkg/email"
	"github.com/escolarapp/escolar-api/pkg/pagination"
)

// PaymentService handles registering payments at the desk, applying them
// across receipts and voiding them.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	receiptRepo repository.ReceiptRepository
	cashCutRepo repository.CashCutRepository
	studentRepo repository.StudentRepository
	emailSvc    *email.EmailService
}

// NewPaymentService creates a new payment service. emailSvc may be nil
// when SMTP is not configured; confirmations are then skipped.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	receiptRepo repository.ReceiptRepository,
	cashCutRepo repository.CashCutRepository,
	studentRepo repository.StudentRepository,
	emailSvc *email.EmailService,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		receiptRepo: receiptRepo,
		cashCutRepo: cashCutRepo,
		studentRepo: studentRepo,
		emailSvc:    emailSvc,
	}
}

// PaymentTargetInput directs an explicit amount at one receipt
type PaymentTargetInput struct {
	ReceiptID uuid.UUID
	Amount    decimal.Decimal
}

// RegisterPaymentInput represents the register payment input. When
// Targets is empty the payment is auto-applied to the student's
// outstanding receipts, oldest due date first.
type RegisterPaymentInput struct {
	CashierID uuid.UUID
	StudentID *uuid.UUID
	Amount    decimal.Decimal
	Method    enum.PaymentMethod
	Reference *string
	Notes     *string
	Targets   []PaymentTargetInput
}

// RegisterPaymentResult carries the persisted payment plus the
// application breakdown for the response and the ticket.
type RegisterPaymentResult struct {
	Payment     *entity.Payment
	Allocations []billing.Allocation
	Receipts    []entity.Receipt
}

// RegisterPayment takes money at the desk: creates the payment, applies
// it across receipts through the billing engine, and records it on the
// cashier's open cash cut when one exists.
func (s *PaymentService) RegisterPayment(ctx context.Context, input *RegisterPaymentInput) (*RegisterPaymentResult, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if input.Amount.Sign() <= 0 {
		return nil, mapBillingError(billing.ErrInvalidAmount)
	}

	var student *entity.Student
	if input.StudentID != nil {
		var err error
		student, err = s.studentRepo.GetByID(ctx, *input.StudentID)
		if err != nil {
			return nil, err
		}
		if student == nil {
			return nil, apperror.NewNotFoundError("Student")
		}
	}

	now := time.Now()
	payment := &entity.Payment{
		ID:              uuid.New(),
		TenantID:        tenantID,
		CashierID:       input.CashierID,
		StudentID:       input.StudentID,
		Amount:          input.Amount,
		AmountApplied:   decimal.Zero,
		AmountUnapplied: input.Amount,
		Method:          input.Method,
		Status:          enum.PaymentStatusConfirmed,
		Currency:        "MXN",
		PaidAt:          now,
		Reference:       input.Reference,
		Notes:           input.Notes,
	}

	// Resolve the target receipts and run the application engine first;
	// nothing is persisted until the whole application has succeeded.
	result, receipts, err := s.applyPayment(ctx, payment, input)
	if err != nil {
		return nil, err
	}

	payment.AmountApplied = result.AmountApplied
	payment.AmountUnapplied = result.AmountUnapplied

	// Attach to the cashier's open cut; the drawer sees the full
	// tendered amount regardless of how much landed on receipts.
	cut, err := s.cashCutRepo.GetOpenByCashier(ctx, input.CashierID)
	if err != nil {
		return nil, err
	}
	if cut != nil {
		recorded, err := billing.Record(cut.ToBilling(), payment.ToBilling())
		if err != nil {
			return nil, mapBillingError(err)
		}
		cut.ApplyBilling(recorded)
		payment.CashCutID = &cut.ID
	}

	// Build the updated receipts and the allocation audit rows.
	updated := make([]entity.Receipt, 0, len(result.Allocations))
	byID := make(map[uuid.UUID]*entity.Receipt, len(receipts))
	for i := range receipts {
		byID[receipts[i].ID] = &receipts[i]
	}
	allocations := make([]entity.PaymentAllocation, 0, len(result.Allocations))
	for _, a := range result.Allocations {
		receipt := byID[a.ReceiptID]
		for _, core := range result.Receipts {
			if core.ID == a.ReceiptID {
				receipt.ApplyBilling(core)
				break
			}
		}
		updated = append(updated, *receipt)
		allocations = append(allocations, entity.PaymentAllocation{
			TenantID:      tenantID,
			PaymentID:     payment.ID,
			ReceiptID:     a.ReceiptID,
			AmountApplied: a.AmountApplied,
			BalanceBefore: a.BalanceBefore,
			BalanceAfter:  a.BalanceAfter,
			StatusBefore:  a.StatusBefore,
			StatusAfter:   a.StatusAfter,
		})
	}

	// One transaction: payment, allocations, receipts, cut totals.
	if err := s.paymentRepo.CreateWithApplication(ctx, payment, updated, allocations, cut); err != nil {
		return nil, mapBillingError(err)
	}

	s.sendConfirmation(student, payment, updated)

	return &RegisterPaymentResult{
		Payment:     payment,
		Allocations: result.Allocations,
		Receipts:    updated,
	}, nil
}

// applyPayment resolves targets and runs the billing engine. No state is
// persisted here; the caller owns the write.
func (s *PaymentService) applyPayment(ctx context.Context, payment *entity.Payment, input *RegisterPaymentInput) (billing.ApplyResult, []entity.Receipt, error) {
	now := payment.PaidAt

	if len(input.Targets) > 0 {
		ids := make([]uuid.UUID, len(input.Targets))
		targets := make([]billing.TargetAmount, len(input.Targets))
		for i, t := range input.Targets {
			ids[i] = t.ReceiptID
			targets[i] = billing.TargetAmount{ReceiptID: t.ReceiptID, Amount: t.Amount}
		}

		receipts, err := s.receiptRepo.GetByIDs(ctx, ids)
		if err != nil {
			return billing.ApplyResult{}, nil, err
		}
		if len(receipts) != len(ids) {
			return billing.ApplyResult{}, nil, apperror.NewNotFoundError("Receipt")
		}

		cores := make([]billing.Receipt, len(receipts))
		for i := range receipts {
			cores[i] = receipts[i].ToBilling()
		}

		result, err := billing.ApplyAmounts(payment.ToBilling(), targets, cores, now)
		if err != nil {
			return billing.ApplyResult{}, nil, mapBillingError(err)
		}
		return result, receipts, nil
	}

	if input.StudentID == nil {
		return billing.ApplyResult{}, nil, apperror.NewBadRequestError("Either a student or explicit receipt targets are required")
	}

	receipts, err := s.receiptRepo.ListOutstanding(ctx, *input.StudentID)
	if err != nil {
		return billing.ApplyResult{}, nil, err
	}
	if len(receipts) == 0 {
		return billing.ApplyResult{}, nil, apperror.NewBadRequestError("Student has no outstanding receipts")
	}

	cores := make([]billing.Receipt, len(receipts))
	for i := range receipts {
		cores[i] = receipts[i].ToBilling()
	}

	result, err := billing.ApplyToReceipts(payment.ToBilling(), cores, now)
	if err != nil {
		return billing.ApplyResult{}, nil, mapBillingError(err)
	}
	return result, receipts, nil
}

// sendConfirmation emails the guardian when one is on file. Failures are
// logged, never surfaced; the payment already stands.
func (s *PaymentService) sendConfirmation(student *entity.Student, payment *entity.Payment, receipts []entity.Receipt) {
	if s.emailSvc == nil || student == nil || student.GuardianEmail == nil || *student.GuardianEmail == "" {
		return
	}

	concepts := make([]string, 0, len(receipts))
	for _, r := range receipts {
		concepts = append(concepts, r.Concept)
	}

	data := email.PaymentReceiptData{
		SchoolName:  "Escolar",
		StudentName: student.FullName(),
		Folio:       payment.ID.String()[:8],
		Amount:      "$" + payment.Amount.StringFixed(2) + " " + payment.Currency,
		Method:      payment.Method.String(),
		PaidAt:      payment.PaidAt.Format("02/01/2006 15:04"),
		Concepts:    concepts,
	}

	go func() {
		if err := s.emailSvc.SendPaymentReceiptEmail(*student.GuardianEmail, data); err != nil {
			log.Printf("Warning: failed to send payment confirmation: %v", err)
		}
	}()
}

// GetPayment retrieves a payment with its allocations
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetWithAllocations(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// ListPayments lists payments with filtering
func (s *PaymentService) ListPayments(ctx context.Context, params *repository.PaymentFilterParams) (*pagination.PaginatedResult[entity.Payment], error) {
	payments, total, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(payments, pag), nil
}

// VoidPayment reverses a payment: restores the receipts it was applied
// to, marks its allocations reversed, and backs it out of the cash cut
// while the cut is still open. A closed cut keeps its frozen totals.
func (s *PaymentService) VoidPayment(ctx context.Context, paymentID, voidedBy uuid.UUID, reason string) (*entity.Payment, error) {
	if reason == "" {
		return nil, apperror.NewBadRequestError("Void reason is required")
	}

	payment, err := s.paymentRepo.GetWithAllocations(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	if payment.Status == enum.PaymentStatusVoid {
		return nil, mapBillingError(billing.ErrPaymentVoid)
	}

	now := time.Now()

	// Restore each allocated receipt's balance and re-derive its status.
	var restored []entity.Receipt
	for _, a := range payment.Allocations {
		if a.Reversed {
			continue
		}
		receipt, err := s.receiptRepo.GetByID(ctx, a.ReceiptID)
		if err != nil {
			return nil, err
		}
		if receipt == nil {
			continue
		}

		core := receipt.ToBilling()
		core.PaidAmount = core.PaidAmount.Sub(a.AmountApplied)
		core.Balance = core.Balance.Add(a.AmountApplied)
		if !core.Status.IsAdministrative() {
			core.Status = billing.DeriveStatus(core, now)
		}
		receipt.ApplyBilling(core)
		restored = append(restored, *receipt)
	}

	// Back the payment out of its cut if that cut is still open. The
	// decrement is computed here and persisted together with the rest
	// of the void; a cut that closed in the meantime keeps its frozen
	// totals.
	var cut *entity.CashCut
	if payment.CashCutID != nil {
		cut, err = s.cashCutRepo.GetByID(ctx, *payment.CashCutID)
		if err != nil {
			return nil, err
		}
		if cut != nil && !cut.Closed {
			switch payment.Method {
			case enum.PaymentMethodCash:
				cut.TotalCash = cut.TotalCash.Sub(payment.Amount)
			case enum.PaymentMethodTransfer:
				cut.TotalTransfer = cut.TotalTransfer.Sub(payment.Amount)
			case enum.PaymentMethodCard:
				cut.TotalCard = cut.TotalCard.Sub(payment.Amount)
			}
			cut.TotalGeneral = cut.TotalGeneral.Sub(payment.Amount)
			cut.PaymentCount--
		} else {
			cut = nil
		}
	}

	payment.Status = enum.PaymentStatusVoid
	payment.AmountApplied = decimal.Zero
	payment.AmountUnapplied = decimal.Zero
	payment.VoidedAt = &now
	payment.VoidedBy = &voidedBy
	payment.VoidReason = &reason

	// One transaction: payment, reversed allocations, receipts, cut.
	if err := s.paymentRepo.VoidWithRestore(ctx, payment, restored, cut); err != nil {
		return nil, err
	}
	return payment, nil
}
