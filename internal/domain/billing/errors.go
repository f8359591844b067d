package billing

import "errors"

// Sentinel errors returned by the billing core. The HTTP layer maps these
// to apperror codes; the core never produces user-facing text beyond the
// message itself.
var (
	// ErrInvalidAmount is returned for non-positive or otherwise malformed
	// monetary input.
	ErrInvalidAmount = errors.New("billing: invalid amount")

	// ErrTerminalReceipt is returned when a mutation targets a Paid or
	// Cancelled receipt.
	ErrTerminalReceipt = errors.New("billing: receipt is in a terminal status")

	// ErrDiscountExceedsBalance is returned when a discretionary discount
	// is larger than the receipt's current balance.
	ErrDiscountExceedsBalance = errors.New("billing: discount exceeds receipt balance")

	// ErrInvalidDiscount is returned when a discretionary discount is
	// missing its authorizer or reason.
	ErrInvalidDiscount = errors.New("billing: discount requires authorizer and reason")

	// ErrConflictingAdjustment is returned when a scholarship specifies
	// both a percentage and a fixed amount.
	ErrConflictingAdjustment = errors.New("billing: percentage and fixed adjustments are mutually exclusive")

	// ErrPaymentVoid is returned when a voided payment is applied or
	// recorded.
	ErrPaymentVoid = errors.New("billing: payment has been voided")

	// ErrNoTargets is returned when a positive payment amount is applied
	// against an empty receipt list.
	ErrNoTargets = errors.New("billing: no target receipts")

	// ErrInvalidPolicy is returned for malformed surcharge or scholarship
	// configuration.
	ErrInvalidPolicy = errors.New("billing: invalid policy configuration")

	// ErrCashCutClosed is returned when a payment is recorded against a
	// closed cash cut.
	ErrCashCutClosed = errors.New("billing: cash cut is closed")

	// ErrCashierMismatch is returned when a payment belongs to a cashier
	// other than the cut's owner.
	ErrCashierMismatch = errors.New("billing: payment cashier does not match cash cut")

	// ErrAlreadyClosed is returned when a cash cut is closed twice.
	ErrAlreadyClosed = errors.New("billing: cash cut already closed")
)
