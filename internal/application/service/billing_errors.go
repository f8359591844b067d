package service

import (
	"errors"

	"github.com/escolarapp/escolar-api/internal/domain/billing"
	"github.com/escolarapp/escolar-api/pkg/apperror"
)

// mapBillingError translates billing core sentinels into HTTP-aware
// application errors. Unknown errors pass through untouched.
func mapBillingError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, billing.ErrInvalidAmount),
		errors.Is(err, billing.ErrInvalidDiscount),
		errors.Is(err, billing.ErrNoTargets),
		errors.Is(err, billing.ErrInvalidPolicy):
		return apperror.NewUnprocessableError(err.Error())
	case errors.Is(err, billing.ErrTerminalReceipt),
		errors.Is(err, billing.ErrDiscountExceedsBalance),
		errors.Is(err, billing.ErrConflictingAdjustment),
		errors.Is(err, billing.ErrPaymentVoid),
		errors.Is(err, billing.ErrCashCutClosed),
		errors.Is(err, billing.ErrCashierMismatch),
		errors.Is(err, billing.ErrAlreadyClosed):
		return apperror.NewConflictError(err.Error())
	default:
		return err
	}
}
