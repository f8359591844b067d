package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/escolarapp/escolar-api/internal/domain/enum"
)

// CashCut aggregates the payments a cashier takes between opening and
// closing a register session. Once closed the totals are a frozen
// snapshot; Record rejects further payments through the Closed flag, the
// value itself is never discarded.
// Invariant: TotalGeneral == TotalCash + TotalTransfer + TotalCard after
// every Record.
type CashCut struct {
	ID            uuid.UUID
	Folio         string
	CashierID     uuid.UUID
	RegisterID    string
	OpenedAt      time.Time
	ClosedAt      *time.Time
	OpeningAmount decimal.Decimal
	TotalCash     decimal.Decimal
	TotalTransfer decimal.Decimal
	TotalCard     decimal.Decimal
	TotalGeneral  decimal.Decimal
	PaymentCount  int
	Closed        bool
	ClosedBy      *uuid.UUID
}

// OpenCashCut starts a cashier session. The opening amount is the cash
// float already in the drawer and does not count toward the totals.
func OpenCashCut(id uuid.UUID, folio string, cashierID uuid.UUID, openingAmount decimal.Decimal, registerID string, openedAt time.Time) (CashCut, error) {
	if openingAmount.Sign() < 0 {
		return CashCut{}, ErrInvalidAmount
	}
	return CashCut{
		ID:            id,
		Folio:         folio,
		CashierID:     cashierID,
		RegisterID:    registerID,
		OpenedAt:      openedAt.UTC(),
		OpeningAmount: openingAmount,
	}, nil
}

// Record adds a confirmed payment to the cut's per-method buckets. The
// payment must belong to the cut's cashier and the cut must still be
// open. Mutation of one cut must be serialized by the caller; Record
// itself is a pure fold step.
func Record(cut CashCut, p Payment) (CashCut, error) {
	if cut.Closed {
		return cut, ErrCashCutClosed
	}
	if p.CashierID != cut.CashierID {
		return cut, ErrCashierMismatch
	}
	if p.Status == enum.PaymentStatusVoid {
		return cut, ErrPaymentVoid
	}
	if p.Amount.Sign() <= 0 {
		return cut, ErrInvalidAmount
	}

	switch p.Method {
	case enum.PaymentMethodCash:
		cut.TotalCash = cut.TotalCash.Add(p.Amount)
	case enum.PaymentMethodTransfer:
		cut.TotalTransfer = cut.TotalTransfer.Add(p.Amount)
	case enum.PaymentMethodCard:
		cut.TotalCard = cut.TotalCard.Add(p.Amount)
	default:
		return cut, ErrInvalidAmount
	}

	cut.TotalGeneral = cut.TotalGeneral.Add(p.Amount)
	cut.PaymentCount++
	return cut, nil
}

// Close freezes the cut. Closing is one-way; a second Close fails with
// ErrAlreadyClosed.
func Close(cut CashCut, closedBy uuid.UUID, closedAt time.Time) (CashCut, error) {
	if cut.Closed {
		return cut, ErrAlreadyClosed
	}
	at := closedAt.UTC()
	cut.Closed = true
	cut.ClosedAt = &at
	cut.ClosedBy = &closedBy
	return cut, nil
}

// ExpectedDrawer returns the cash expected in the drawer at close:
// opening float plus cash payments. Transfers and cards never touch the
// drawer.
func (c CashCut) ExpectedDrawer() decimal.Decimal {
	return c.OpeningAmount.Add(c.TotalCash)
}

// ConsistentTotals reports whether the per-method buckets add up to the
// grand total. It holds after every Record; repositories assert it before
// persisting a snapshot.
func (c CashCut) ConsistentTotals() bool {
	return c.TotalCash.Add(c.TotalTransfer).Add(c.TotalCard).Equal(c.TotalGeneral)
}
