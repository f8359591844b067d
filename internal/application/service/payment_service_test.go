package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolarapp/escolar-api/internal/domain/entity"
	"github.com/escolarapp/escolar-api/internal/domain/enum"
	"github.com/escolarapp/escolar-api/internal/domain/repository"
	infraRepo "github.com/escolarapp/escolar-api/internal/infrastructure/repository"
)

// In-memory repository fakes. Only the methods the payment flow touches
// have real behavior; the rest satisfy the interfaces.

type memReceiptRepo struct {
	receipts map[uuid.UUID]*entity.Receipt
}

func newMemReceiptRepo(receipts ...*entity.Receipt) *memReceiptRepo {
	m := &memReceiptRepo{receipts: make(map[uuid.UUID]*entity.Receipt)}
	for _, r := range receipts {
		m.receipts[r.ID] = r
	}
	return m
}

func (m *memReceiptRepo) Create(_ context.Context, r *entity.Receipt) error {
	m.receipts[r.ID] = r
	return nil
}

func (m *memReceiptRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Receipt, error) {
	if r, ok := m.receipts[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *memReceiptRepo) GetByFolio(_ context.Context, folio string) (*entity.Receipt, error) {
	for _, r := range m.receipts {
		if r.Folio == folio {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memReceiptRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Receipt, error) {
	var out []entity.Receipt
	for _, id := range ids {
		if r, ok := m.receipts[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memReceiptRepo) Update(_ context.Context, r *entity.Receipt) error {
	cp := *r
	m.receipts[r.ID] = &cp
	return nil
}

func (m *memReceiptRepo) UpdateBatch(_ context.Context, receipts []entity.Receipt) error {
	for i := range receipts {
		cp := receipts[i]
		m.receipts[cp.ID] = &cp
	}
	return nil
}

func (m *memReceiptRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.receipts, id)
	return nil
}

func (m *memReceiptRepo) List(_ context.Context, _ *repository.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	return nil, 0, nil
}

func (m *memReceiptRepo) ListOutstanding(_ context.Context, studentID uuid.UUID) ([]entity.Receipt, error) {
	var out []entity.Receipt
	for _, r := range m.receipts {
		if r.StudentID == studentID && r.Balance.Sign() > 0 && !r.Status.IsAdministrative() {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (m *memReceiptRepo) ListOverdueCandidates(_ context.Context, _ time.Time) ([]entity.Receipt, error) {
	return nil, nil
}

func (m *memReceiptRepo) SumScholarshipGrants(_ context.Context, _ uuid.UUID, _ time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type memPaymentRepo struct {
	payments    map[uuid.UUID]*entity.Payment
	allocations []entity.PaymentAllocation
	receiptRepo *memReceiptRepo
	cutRepo     *memCashCutRepo
}

func newMemPaymentRepo(receipts *memReceiptRepo, cuts *memCashCutRepo) *memPaymentRepo {
	return &memPaymentRepo{
		payments:    make(map[uuid.UUID]*entity.Payment),
		receiptRepo: receipts,
		cutRepo:     cuts,
	}
}

func (m *memPaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	if p, ok := m.payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memPaymentRepo) GetWithAllocations(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Allocations = nil
	for _, a := range m.allocations {
		if a.PaymentID == id {
			cp.Allocations = append(cp.Allocations, a)
		}
	}
	return &cp, nil
}

func (m *memPaymentRepo) List(_ context.Context, _ *repository.PaymentFilterParams) ([]entity.Payment, int64, error) {
	return nil, 0, nil
}

func (m *memPaymentRepo) CreateWithApplication(ctx context.Context, p *entity.Payment, receipts []entity.Receipt, allocations []entity.PaymentAllocation, cut *entity.CashCut) error {
	cp := *p
	m.payments[p.ID] = &cp
	for i := range allocations {
		if allocations[i].ID == uuid.Nil {
			allocations[i].ID = uuid.New()
		}
	}
	m.allocations = append(m.allocations, allocations...)
	if err := m.receiptRepo.UpdateBatch(ctx, receipts); err != nil {
		return err
	}
	if cut != nil {
		return m.cutRepo.Update(ctx, cut)
	}
	return nil
}

func (m *memPaymentRepo) VoidWithRestore(ctx context.Context, p *entity.Payment, receipts []entity.Receipt, cut *entity.CashCut) error {
	cp := *p
	m.payments[p.ID] = &cp
	for i := range m.allocations {
		if m.allocations[i].PaymentID == p.ID {
			m.allocations[i].Reversed = true
		}
	}
	if err := m.receiptRepo.UpdateBatch(ctx, receipts); err != nil {
		return err
	}
	if cut != nil {
		return m.cutRepo.Update(ctx, cut)
	}
	return nil
}

func (m *memPaymentRepo) ListByCashCut(_ context.Context, cashCutID uuid.UUID) ([]entity.Payment, error) {
	var out []entity.Payment
	for _, p := range m.payments {
		if p.CashCutID != nil && *p.CashCutID == cashCutID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memCashCutRepo struct {
	cuts map[uuid.UUID]*entity.CashCut
}

func newMemCashCutRepo(cuts ...*entity.CashCut) *memCashCutRepo {
	m := &memCashCutRepo{cuts: make(map[uuid.UUID]*entity.CashCut)}
	for _, c := range cuts {
		m.cuts[c.ID] = c
	}
	return m
}

func (m *memCashCutRepo) Create(_ context.Context, c *entity.CashCut) error {
	cp := *c
	m.cuts[c.ID] = &cp
	return nil
}

func (m *memCashCutRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.CashCut, error) {
	if c, ok := m.cuts[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memCashCutRepo) GetByFolio(_ context.Context, folio string) (*entity.CashCut, error) {
	for _, c := range m.cuts {
		if c.Folio == folio {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCashCutRepo) GetOpenByCashier(_ context.Context, cashierID uuid.UUID) (*entity.CashCut, error) {
	for _, c := range m.cuts {
		if c.CashierID == cashierID && !c.Closed {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCashCutRepo) Update(_ context.Context, c *entity.CashCut) error {
	cp := *c
	m.cuts[c.ID] = &cp
	return nil
}

func (m *memCashCutRepo) List(_ context.Context, _ *repository.CashCutFilterParams) ([]entity.CashCut, int64, error) {
	return nil, 0, nil
}

type memStudentRepo struct {
	students map[uuid.UUID]*entity.Student
}

func newMemStudentRepo(students ...*entity.Student) *memStudentRepo {
	m := &memStudentRepo{students: make(map[uuid.UUID]*entity.Student)}
	for _, s := range students {
		m.students[s.ID] = s
	}
	return m
}

func (m *memStudentRepo) Create(_ context.Context, s *entity.Student) error {
	m.students[s.ID] = s
	return nil
}

func (m *memStudentRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Student, error) {
	if s, ok := m.students[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *memStudentRepo) GetByMatricula(_ context.Context, matricula string) (*entity.Student, error) {
	for _, s := range m.students {
		if s.Matricula == matricula {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStudentRepo) Update(_ context.Context, s *entity.Student) error {
	m.students[s.ID] = s
	return nil
}

func (m *memStudentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.students, id)
	return nil
}

func (m *memStudentRepo) List(_ context.Context, _ *repository.StudentFilterParams) ([]entity.Student, int64, error) {
	return nil, 0, nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func pendingReceipt(studentID uuid.UUID, folio, amount string, due time.Time) *entity.Receipt {
	amt := dec(amount)
	return &entity.Receipt{
		ID:             uuid.New(),
		StudentID:      studentID,
		Folio:          folio,
		Concept:        "Colegiatura",
		OriginalAmount: amt,
		Discount:       decimal.Zero,
		Surcharge:      decimal.Zero,
		PaidAmount:     decimal.Zero,
		Balance:        amt,
		Status:         enum.ReceiptStatusPending,
		DueDate:        due,
		Currency:       "MXN",
	}
}

type paymentFixture struct {
	svc        *PaymentService
	payments   *memPaymentRepo
	receipts   *memReceiptRepo
	cuts       *memCashCutRepo
	ctx        context.Context
	cashierID  uuid.UUID
	studentID  uuid.UUID
	openCut    *entity.CashCut
	receiptJan *entity.Receipt
	receiptFeb *entity.Receipt
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	cashierID := uuid.New()
	studentID := uuid.New()

	jan := pendingReceipt(studentID, "REC-0001", "300.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	feb := pendingReceipt(studentID, "REC-0002", "500.00", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	cut := &entity.CashCut{
		ID:            uuid.New(),
		CashierID:     cashierID,
		Folio:         "CC-0001",
		OpeningAmount: dec("200.00"),
		TotalCash:     decimal.Zero,
		TotalTransfer: decimal.Zero,
		TotalCard:     decimal.Zero,
		TotalGeneral:  decimal.Zero,
		OpenedAt:      time.Now().Add(-time.Hour),
	}

	receipts := newMemReceiptRepo(jan, feb)
	cuts := newMemCashCutRepo(cut)
	payments := newMemPaymentRepo(receipts, cuts)
	students := newMemStudentRepo(&entity.Student{ID: studentID, Matricula: "A-100", FirstName: "Ana", LastName: "Lopez"})

	svc := NewPaymentService(payments, receipts, cuts, students, nil)
	ctx := infraRepo.WithTenant(context.Background(), uuid.New())

	return &paymentFixture{
		svc:        svc,
		payments:   payments,
		receipts:   receipts,
		cuts:       cuts,
		ctx:        ctx,
		cashierID:  cashierID,
		studentID:  studentID,
		openCut:    cut,
		receiptJan: jan,
		receiptFeb: feb,
	}
}

func TestRegisterPaymentAutoAppliesOldestFirst(t *testing.T) {
	f := newPaymentFixture(t)

	result, err := f.svc.RegisterPayment(f.ctx, &RegisterPaymentInput{
		CashierID: f.cashierID,
		StudentID: &f.studentID,
		Amount:    dec("400.00"),
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.True(t, result.Payment.AmountApplied.Equal(dec("400.00")))
	assert.True(t, result.Payment.AmountUnapplied.IsZero())
	require.Len(t, result.Allocations, 2)

	// January settles in full before February sees a peso.
	assert.Equal(t, f.receiptJan.ID, result.Allocations[0].ReceiptID)
	assert.True(t, result.Allocations[0].AmountApplied.Equal(dec("300.00")))
	assert.True(t, result.Allocations[1].AmountApplied.Equal(dec("100.00")))

	jan, _ := f.receipts.GetByID(f.ctx, f.receiptJan.ID)
	assert.Equal(t, enum.ReceiptStatusPaid, jan.Status)
	assert.True(t, jan.Balance.IsZero())

	feb, _ := f.receipts.GetByID(f.ctx, f.receiptFeb.ID)
	assert.Equal(t, enum.ReceiptStatusPartial, feb.Status)
	assert.True(t, feb.Balance.Equal(dec("400.00")))
}

func TestRegisterPaymentRecordsOnOpenCashCut(t *testing.T) {
	f := newPaymentFixture(t)

	result, err := f.svc.RegisterPayment(f.ctx, &RegisterPaymentInput{
		CashierID: f.cashierID,
		StudentID: &f.studentID,
		Amount:    dec("400.00"),
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Payment.CashCutID)
	assert.Equal(t, f.openCut.ID, *result.Payment.CashCutID)

	cut, _ := f.cuts.GetByID(f.ctx, f.openCut.ID)
	assert.True(t, cut.TotalCash.Equal(dec("400.00")))
	assert.True(t, cut.TotalGeneral.Equal(dec("400.00")))
	assert.Equal(t, 1, cut.PaymentCount)
}

func TestRegisterPaymentExplicitTargets(t *testing.T) {
	f := newPaymentFixture(t)

	result, err := f.svc.RegisterPayment(f.ctx, &RegisterPaymentInput{
		CashierID: f.cashierID,
		Amount:    dec("150.00"),
		Method:    enum.PaymentMethodTransfer,
		Targets: []PaymentTargetInput{
			{ReceiptID: f.receiptFeb.ID, Amount: dec("150.00")},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Allocations, 1)
	assert.Equal(t, f.receiptFeb.ID, result.Allocations[0].ReceiptID)

	feb, _ := f.receipts.GetByID(f.ctx, f.receiptFeb.ID)
	assert.True(t, feb.Balance.Equal(dec("350.00")))
	assert.Equal(t, enum.ReceiptStatusPartial, feb.Status)

	// January was not a target and stays untouched.
	jan, _ := f.receipts.GetByID(f.ctx, f.receiptJan.ID)
	assert.True(t, jan.Balance.Equal(dec("300.00")))
}

func TestRegisterPaymentKeepsUnappliedRemainder(t *testing.T) {
	f := newPaymentFixture(t)

	result, err := f.svc.RegisterPayment(f.ctx, &RegisterPaymentInput{
		CashierID: f.cashierID,
		StudentID: &f.studentID,
		Amount:    dec("1000.00"),
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.True(t, result.Payment.AmountApplied.Equal(dec("800.00")))
	assert.True(t, result.Payment.AmountUnapplied.Equal(dec("200.00")))

	// The drawer still saw the full tendered amount.
	cut, _ := f.cuts.GetByID(f.ctx, f.openCut.ID)
	assert.True(t, cut.TotalCash.Equal(dec("1000.00")))
}

func TestRegisterPaymentFailureLeavesCutUntouched(t *testing.T) {
	f := newPaymentFixture(t)

	// Target 600 at a 300-balance receipt: the application engine
	// rejects it before anything is written.
	_, err := f.svc.RegisterPayment(f.ctx, &RegisterPaymentInput{
		CashierID: f.cashierID,
		Amount:    dec("600.00"),
		Method:    enum.PaymentMethodCash,
		Targets: []PaymentTargetInput{
			{ReceiptID: f.receiptJan.ID, Amount: dec("600.00")},
		},
	})
	require.Error(t, err)

	cut, _ := f.cuts.GetByID(f.ctx, f.openCut.ID)
	assert.True(t, cut.TotalCash.IsZero())
	assert.True(t, cut.TotalGeneral.IsZero())
	assert.Equal(t, 0, cut.PaymentCount)
	assert.Empty(t, f.payments.payments)
	assert.Empty(t, f.payments.allocations)

	jan, _ := f.receipts.GetByID(f.ctx, f.receiptJan.ID)
	assert.True(t, jan.Balance.Equal(dec("300.00")))
	assert.Equal(t, enum.ReceiptStatusPending, jan.Status)
}

func TestRegisterPaymentValidation(t *testing.T) {
	f := newPaymentFixture(t)

	t.Run("tenant context required", func(t *testing.T) {
		_, err := f.svc.RegisterPayment(context.Background(), &RegisterPaymentInput{
			CashierID: f.cashierID,
			StudentID: &f.studentID,
			Amount:    dec("100.00"),
			Method:    enum.PaymentMethodCash,
		})
		assert.Error(t, err)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, err := f.svc.RegisterPayment(f.ctx, &RegisterPaymentInput{
			CashierID: f.cashierID,
			StudentID: &f.studentID,
			Amount:    decimal.Zero,
			Method:    enum.PaymentMethodCash,
		})
		assert.Error(t, err)
	})

	t.Run("student or targets required", func(t *testing.T) {
		_, err := f.svc.RegisterPayment(f.ctx, &RegisterPaymentInput{
			CashierID: f.cashierID,
			Amount:    dec("100.00"),
			Method:    enum.PaymentMethodCash,
		})
		assert.Error(t, err)
	})

	t.Run("unknown student", func(t *testing.T) {
		missing := uuid.New()
		_, err := f.svc.RegisterPayment(f.ctx, &RegisterPaymentInput{
			CashierID: f.cashierID,
			StudentID: &missing,
			Amount:    dec("100.00"),
			Method:    enum.PaymentMethodCash,
		})
		assert.Error(t, err)
	})
}

func TestVoidPaymentRestoresReceiptsAndCut(t *testing.T) {
	f := newPaymentFixture(t)

	result, err := f.svc.RegisterPayment(f.ctx, &RegisterPaymentInput{
		CashierID: f.cashierID,
		StudentID: &f.studentID,
		Amount:    dec("400.00"),
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)

	supervisor := uuid.New()
	voided, err := f.svc.VoidPayment(f.ctx, result.Payment.ID, supervisor, "cobro duplicado")
	require.NoError(t, err)

	assert.Equal(t, enum.PaymentStatusVoid, voided.Status)
	require.NotNil(t, voided.VoidReason)
	assert.Equal(t, "cobro duplicado", *voided.VoidReason)
	assert.Equal(t, supervisor, *voided.VoidedBy)

	jan, _ := f.receipts.GetByID(f.ctx, f.receiptJan.ID)
	assert.True(t, jan.Balance.Equal(dec("300.00")))
	assert.True(t, jan.PaidAmount.IsZero())

	feb, _ := f.receipts.GetByID(f.ctx, f.receiptFeb.ID)
	assert.True(t, feb.Balance.Equal(dec("500.00")))

	cut, _ := f.cuts.GetByID(f.ctx, f.openCut.ID)
	assert.True(t, cut.TotalCash.IsZero())
	assert.True(t, cut.TotalGeneral.IsZero())
	assert.Equal(t, 0, cut.PaymentCount)

	for _, a := range f.payments.allocations {
		assert.True(t, a.Reversed)
	}
}

func TestVoidPaymentGuards(t *testing.T) {
	f := newPaymentFixture(t)

	result, err := f.svc.RegisterPayment(f.ctx, &RegisterPaymentInput{
		CashierID: f.cashierID,
		StudentID: &f.studentID,
		Amount:    dec("100.00"),
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)

	t.Run("reason required", func(t *testing.T) {
		_, err := f.svc.VoidPayment(f.ctx, result.Payment.ID, uuid.New(), "")
		assert.Error(t, err)
	})

	t.Run("already void", func(t *testing.T) {
		_, err := f.svc.VoidPayment(f.ctx, result.Payment.ID, uuid.New(), "error de captura")
		require.NoError(t, err)
		_, err = f.svc.VoidPayment(f.ctx, result.Payment.ID, uuid.New(), "error de captura")
		assert.Error(t, err)
	})

	t.Run("unknown payment", func(t *testing.T) {
		_, err := f.svc.VoidPayment(f.ctx, uuid.New(), uuid.New(), "motivo")
		assert.Error(t, err)
	})
}

func TestVoidPaymentLeavesClosedCutFrozen(t *testing.T) {
	f := newPaymentFixture(t)

	result, err := f.svc.RegisterPayment(f.ctx, &RegisterPaymentInput{
		CashierID: f.cashierID,
		StudentID: &f.studentID,
		Amount:    dec("300.00"),
		Method:    enum.PaymentMethodCash,
	})
	require.NoError(t, err)

	// Close the cut out from under the void.
	cut, _ := f.cuts.GetByID(f.ctx, f.openCut.ID)
	now := time.Now()
	cut.Closed = true
	cut.ClosedAt = &now
	require.NoError(t, f.cuts.Update(f.ctx, cut))

	_, err = f.svc.VoidPayment(f.ctx, result.Payment.ID, uuid.New(), "ajuste")
	require.NoError(t, err)

	frozen, _ := f.cuts.GetByID(f.ctx, f.openCut.ID)
	assert.True(t, frozen.TotalCash.Equal(dec("300.00")))
	assert.Equal(t, 1, frozen.PaymentCount)
}
