package billing

import "github.com/shopspring/decimal"

// SurchargePolicy configures late-payment surcharge accrual. Nil cap
// fields mean "no cap"; a zero-valued cap coming off the wire must be
// normalized to nil before it reaches the core (the legacy DTOs blurred
// the two, the optional pointers keep them distinct here).
type SurchargePolicy struct {
	// DailyRate is the fraction of the outstanding balance accrued per
	// overdue day past the grace window, e.g. 0.01 for 1%.
	DailyRate decimal.Decimal

	// GraceStartDay and GraceEndDay bound the grace window in days
	// overdue, both inclusive. No surcharge accrues while
	// daysOverdue <= GraceEndDay.
	GraceStartDay int
	GraceEndDay   int

	// MaxOverdueDays caps the overdue days that enter the formula (tope
	// de días de mora). Days beyond it accrue nothing.
	MaxOverdueDays *int

	// Min and Max clamp the computed surcharge.
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// Validate checks the policy for internal consistency.
func (p SurchargePolicy) Validate() error {
	if p.DailyRate.Sign() < 0 {
		return ErrInvalidPolicy
	}
	if p.GraceStartDay < 0 || p.GraceEndDay < p.GraceStartDay {
		return ErrInvalidPolicy
	}
	if p.MaxOverdueDays != nil && *p.MaxOverdueDays < 0 {
		return ErrInvalidPolicy
	}
	if p.Min != nil && p.Max != nil && p.Min.GreaterThan(*p.Max) {
		return ErrInvalidPolicy
	}
	return nil
}

// ComputeSurcharge returns the surcharge accrued on balance after
// daysOverdue. Zero inside the grace window; afterwards
// balance * dailyRate * (daysOverdue - graceEnd), with overdue days capped
// by MaxOverdueDays and the result clamped to [Min, Max].
func ComputeSurcharge(balance decimal.Decimal, p SurchargePolicy, daysOverdue int) (decimal.Decimal, error) {
	if err := p.Validate(); err != nil {
		return decimal.Zero, err
	}
	if balance.Sign() < 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	if daysOverdue <= p.GraceEndDay {
		return decimal.Zero, nil
	}

	if p.MaxOverdueDays != nil && daysOverdue > *p.MaxOverdueDays {
		daysOverdue = *p.MaxOverdueDays
		if daysOverdue <= p.GraceEndDay {
			return decimal.Zero, nil
		}
	}

	days := decimal.NewFromInt(int64(daysOverdue - p.GraceEndDay))
	surcharge := balance.Mul(p.DailyRate).Mul(days)

	if p.Min != nil && surcharge.LessThan(*p.Min) {
		surcharge = *p.Min
	}
	if p.Max != nil && surcharge.GreaterThan(*p.Max) {
		surcharge = *p.Max
	}
	return surcharge, nil
}
