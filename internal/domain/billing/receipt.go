// Package billing is the pure settlement core behind the cashier API.
// Every operation takes value copies and returns new values; persistence,
// transactions and locking belong to the callers. All money is
// shopspring/decimal and all timestamps are UTC.
package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/escolarapp/escolar-api/internal/domain/enum"
)

// Receipt is the ledger view of a single billable charge. It is a value
// object: the billing entity owns persistence, this type owns arithmetic.
// Invariant: Balance = OriginalAmount - Discount + Surcharge - PaidAmount,
// never negative.
type Receipt struct {
	ID             uuid.UUID
	Folio          string
	OriginalAmount decimal.Decimal
	Discount       decimal.Decimal
	Surcharge      decimal.Decimal
	PaidAmount     decimal.Decimal
	Balance        decimal.Decimal
	Status         enum.ReceiptStatus
	DueDate        time.Time
	Currency       string
}

// NewReceipt builds a pending receipt for a freshly issued charge.
func NewReceipt(id uuid.UUID, folio string, amount decimal.Decimal, dueDate time.Time, currency string) (Receipt, error) {
	if amount.Sign() <= 0 {
		return Receipt{}, ErrInvalidAmount
	}
	if currency == "" {
		currency = "MXN"
	}
	return Receipt{
		ID:             id,
		Folio:          folio,
		OriginalAmount: amount,
		Balance:        amount,
		Status:         enum.ReceiptStatusPending,
		DueDate:        dueDate.UTC(),
		Currency:       currency,
	}, nil
}

// Discount is a discretionary reduction granted at the desk. It must carry
// who authorized it and why; an unattributed discount is rejected.
type Discount struct {
	Amount       decimal.Decimal
	AuthorizedBy string
	Reason       string
}

// ApplyPayment reduces the receipt's balance by up to amount. The portion
// above the current balance is returned as leftover and is NOT applied;
// over-payment never drives the balance negative. The receipt copy comes
// back with PaidAmount, Balance and Status updated.
func ApplyPayment(r Receipt, amount decimal.Decimal, now time.Time) (Receipt, decimal.Decimal, decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return r, decimal.Zero, decimal.Zero, ErrInvalidAmount
	}
	if r.Status.IsTerminal() {
		return r, decimal.Zero, decimal.Zero, ErrTerminalReceipt
	}

	applied := decimal.Min(amount, r.Balance)
	leftover := amount.Sub(applied)

	r.PaidAmount = r.PaidAmount.Add(applied)
	r.Balance = r.Balance.Sub(applied)
	r.Status = DeriveStatus(r, now)
	return r, applied, leftover, nil
}

// DeriveStatus computes the settlement status from the receipt's balances.
// Cancelled and Waived are administrative overrides and pass through
// untouched. The derivation is idempotent.
func DeriveStatus(r Receipt, now time.Time) enum.ReceiptStatus {
	if r.Status.IsAdministrative() {
		return r.Status
	}
	switch {
	case r.Balance.Sign() <= 0:
		return enum.ReceiptStatusPaid
	case r.PaidAmount.Sign() > 0:
		return enum.ReceiptStatusPartial
	case now.UTC().After(r.DueDate):
		return enum.ReceiptStatusOverdue
	default:
		return enum.ReceiptStatusPending
	}
}

// ApplyDiscount adds a discretionary discount onto the receipt, reducing
// the balance immediately. The discount must not exceed the balance.
func ApplyDiscount(r Receipt, d Discount, now time.Time) (Receipt, error) {
	if d.Amount.Sign() <= 0 {
		return r, ErrInvalidAmount
	}
	if d.AuthorizedBy == "" || d.Reason == "" {
		return r, ErrInvalidDiscount
	}
	if r.Status.IsTerminal() {
		return r, ErrTerminalReceipt
	}
	if d.Amount.GreaterThan(r.Balance) {
		return r, ErrDiscountExceedsBalance
	}

	r.Discount = r.Discount.Add(d.Amount)
	r.Balance = r.Balance.Sub(d.Amount)
	r.Status = DeriveStatus(r, now)
	return r, nil
}

// AddSurcharge accrues a late-payment surcharge onto the receipt. The
// caller computes the amount with ComputeSurcharge; a zero amount is a
// no-op rather than an error so grace-period refreshes stay cheap.
func AddSurcharge(r Receipt, amount decimal.Decimal, now time.Time) (Receipt, error) {
	if amount.Sign() < 0 {
		return r, ErrInvalidAmount
	}
	if r.Status.IsTerminal() {
		return r, ErrTerminalReceipt
	}
	if amount.Sign() == 0 {
		return r, nil
	}

	r.Surcharge = r.Surcharge.Add(amount)
	r.Balance = r.Balance.Add(amount)
	r.Status = DeriveStatus(r, now)
	return r, nil
}

// Total returns the gross amount owed: original - discount + surcharge.
func (r Receipt) Total() decimal.Decimal {
	return r.OriginalAmount.Sub(r.Discount).Add(r.Surcharge)
}
