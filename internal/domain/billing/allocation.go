package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/escolarapp/escolar-api/internal/domain/enum"
)

// Payment is the value view of a registered payment used during
// application. Amount is the full tendered amount; allocations never sum
// past it.
type Payment struct {
	ID        uuid.UUID
	Amount    decimal.Decimal
	Method    enum.PaymentMethod
	Status    enum.PaymentStatus
	Timestamp time.Time
	CashierID uuid.UUID
}

// Allocation links one payment to one receipt with the audit trail the
// caller needs: balances and statuses before and after.
type Allocation struct {
	ReceiptID     uuid.UUID
	ReceiptFolio  string
	AmountApplied decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	StatusBefore  enum.ReceiptStatus
	StatusAfter   enum.ReceiptStatus
	PaidInFull    bool
}

// ApplyResult is the outcome of applying one payment across receipts.
// AmountUnapplied is always Amount - Σ AmountApplied; it is surfaced
// explicitly, never dropped.
type ApplyResult struct {
	Allocations     []Allocation
	Receipts        []Receipt
	AmountApplied   decimal.Decimal
	AmountUnapplied decimal.Decimal
}

// TargetAmount names an explicit per-receipt amount for directed
// application (the "aplicaciones" payload shape).
type TargetAmount struct {
	ReceiptID uuid.UUID
	Amount    decimal.Decimal
}

// ApplyToReceipts allocates the payment across receipts in the order
// given. Ordering is the caller's responsibility (typically oldest due
// date first); the engine does not re-sort. Each receipt absorbs
// min(remaining, balance) and allocation stops once the payment is
// exhausted. Receipts with no balance are skipped; a terminal receipt in
// the list fails the whole call, nothing is partially applied.
func ApplyToReceipts(p Payment, receipts []Receipt, now time.Time) (ApplyResult, error) {
	if p.Status == enum.PaymentStatusVoid {
		return ApplyResult{}, ErrPaymentVoid
	}
	if p.Amount.Sign() <= 0 {
		return ApplyResult{}, ErrInvalidAmount
	}
	if len(receipts) == 0 {
		return ApplyResult{}, ErrNoTargets
	}
	for _, r := range receipts {
		if r.Status.IsTerminal() {
			return ApplyResult{}, fmt.Errorf("receipt %s: %w", r.Folio, ErrTerminalReceipt)
		}
	}

	result := ApplyResult{
		Receipts:        make([]Receipt, len(receipts)),
		AmountApplied:   decimal.Zero,
		AmountUnapplied: p.Amount,
	}
	copy(result.Receipts, receipts)

	remaining := p.Amount
	for i, r := range result.Receipts {
		if remaining.Sign() == 0 {
			break
		}
		if r.Balance.Sign() <= 0 {
			continue
		}

		before := r
		updated, applied, _, err := ApplyPayment(r, decimal.Min(remaining, r.Balance), now)
		if err != nil {
			return ApplyResult{}, err
		}

		result.Receipts[i] = updated
		result.Allocations = append(result.Allocations, Allocation{
			ReceiptID:     r.ID,
			ReceiptFolio:  r.Folio,
			AmountApplied: applied,
			BalanceBefore: before.Balance,
			BalanceAfter:  updated.Balance,
			StatusBefore:  before.Status,
			StatusAfter:   updated.Status,
			PaidInFull:    updated.Balance.Sign() == 0,
		})
		remaining = remaining.Sub(applied)
	}

	result.AmountApplied = p.Amount.Sub(remaining)
	result.AmountUnapplied = remaining
	return result, nil
}

// ApplyAmounts applies caller-directed amounts to specific receipts. Every
// target must match a supplied receipt, stay within its balance, and the
// targets must not sum past the payment amount. All-or-nothing: the first
// violation fails the whole call.
func ApplyAmounts(p Payment, targets []TargetAmount, receipts []Receipt, now time.Time) (ApplyResult, error) {
	if p.Status == enum.PaymentStatusVoid {
		return ApplyResult{}, ErrPaymentVoid
	}
	if p.Amount.Sign() <= 0 {
		return ApplyResult{}, ErrInvalidAmount
	}
	if len(targets) == 0 {
		return ApplyResult{}, ErrNoTargets
	}

	byID := make(map[uuid.UUID]int, len(receipts))
	for i, r := range receipts {
		byID[r.ID] = i
	}

	total := decimal.Zero
	for _, t := range targets {
		if t.Amount.Sign() <= 0 {
			return ApplyResult{}, fmt.Errorf("receipt %s: %w", t.ReceiptID, ErrInvalidAmount)
		}
		total = total.Add(t.Amount)
	}
	if total.GreaterThan(p.Amount) {
		return ApplyResult{}, fmt.Errorf("allocations %s exceed payment amount %s: %w", total, p.Amount, ErrInvalidAmount)
	}

	result := ApplyResult{
		Receipts:        make([]Receipt, len(receipts)),
		AmountUnapplied: p.Amount,
	}
	copy(result.Receipts, receipts)

	for _, t := range targets {
		idx, ok := byID[t.ReceiptID]
		if !ok {
			return ApplyResult{}, fmt.Errorf("receipt %s: %w", t.ReceiptID, ErrNoTargets)
		}

		before := result.Receipts[idx]
		if t.Amount.GreaterThan(before.Balance) {
			return ApplyResult{}, fmt.Errorf("receipt %s: amount %s exceeds balance %s: %w",
				before.Folio, t.Amount, before.Balance, ErrInvalidAmount)
		}

		updated, applied, _, err := ApplyPayment(before, t.Amount, now)
		if err != nil {
			return ApplyResult{}, fmt.Errorf("receipt %s: %w", before.Folio, err)
		}

		result.Receipts[idx] = updated
		result.Allocations = append(result.Allocations, Allocation{
			ReceiptID:     before.ID,
			ReceiptFolio:  before.Folio,
			AmountApplied: applied,
			BalanceBefore: before.Balance,
			BalanceAfter:  updated.Balance,
			StatusBefore:  before.Status,
			StatusAfter:   updated.Status,
			PaidInFull:    updated.Balance.Sign() == 0,
		})
	}

	result.AmountApplied = total
	result.AmountUnapplied = p.Amount.Sub(total)
	return result, nil
}
