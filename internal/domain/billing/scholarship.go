package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scholarship is the adjustment view of a beca/convenio. Exactly one of
// Percentage and FixedAmount must be set; MonthlyCap, when present,
// bounds the cumulative discount granted across all receipts in one
// billing month.
type Scholarship struct {
	// Percentage of the receipt's original amount, 0-100.
	Percentage *decimal.Decimal

	// FixedAmount per receipt, capped at the receipt's balance.
	FixedAmount *decimal.Decimal

	// MonthlyCap is the tope mensual. Nil means no cap; exceeding it
	// truncates the discount instead of rejecting the application.
	MonthlyCap *decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Validate checks the scholarship's shape without applying it.
func (s Scholarship) Validate() error {
	if s.Percentage != nil && s.FixedAmount != nil {
		return ErrConflictingAdjustment
	}
	if s.Percentage == nil && s.FixedAmount == nil {
		return ErrInvalidPolicy
	}
	if s.Percentage != nil && (s.Percentage.Sign() < 0 || s.Percentage.GreaterThan(hundred)) {
		return ErrInvalidPolicy
	}
	if s.FixedAmount != nil && s.FixedAmount.Sign() <= 0 {
		return ErrInvalidPolicy
	}
	if s.MonthlyCap != nil && s.MonthlyCap.Sign() < 0 {
		return ErrInvalidPolicy
	}
	return nil
}

// ScholarshipResult reports what was actually granted. Truncated is set
// whenever the granted amount was reduced by the monthly cap so callers
// can surface it instead of silently shrinking the benefit.
type ScholarshipResult struct {
	Receipt         Receipt
	DiscountGranted decimal.Decimal
	Truncated       bool
}

// ApplyScholarship reduces the receipt by the scholarship's percentage or
// fixed amount. grantedThisMonth is the cumulative scholarship discount
// already granted to the student in the receipt's billing month; the
// monthly cap truncates against it.
func ApplyScholarship(r Receipt, s Scholarship, grantedThisMonth decimal.Decimal, now time.Time) (ScholarshipResult, error) {
	if err := s.Validate(); err != nil {
		return ScholarshipResult{}, err
	}
	if grantedThisMonth.Sign() < 0 {
		return ScholarshipResult{}, ErrInvalidAmount
	}
	if r.Status.IsTerminal() {
		return ScholarshipResult{}, ErrTerminalReceipt
	}

	var discount decimal.Decimal
	if s.Percentage != nil {
		discount = r.OriginalAmount.Mul(*s.Percentage).Div(hundred)
	} else {
		discount = *s.FixedAmount
	}

	// Never drive the balance negative.
	if discount.GreaterThan(r.Balance) {
		discount = r.Balance
	}

	truncated := false
	if s.MonthlyCap != nil {
		remaining := s.MonthlyCap.Sub(grantedThisMonth)
		if remaining.Sign() < 0 {
			remaining = decimal.Zero
		}
		if discount.GreaterThan(remaining) {
			discount = remaining
			truncated = true
		}
	}

	if discount.Sign() > 0 {
		r.Discount = r.Discount.Add(discount)
		r.Balance = r.Balance.Sub(discount)
		r.Status = DeriveStatus(r, now)
	}

	return ScholarshipResult{Receipt: r, DiscountGranted: discount, Truncated: truncated}, nil
}
