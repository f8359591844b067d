package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolarapp/escolar-api/internal/domain/enum"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestReceipt(t *testing.T, amount string, dueDate time.Time) Receipt {
	t.Helper()
	r, err := NewReceipt(uuid.New(), "REC-0001", decimal.RequireFromString(amount), dueDate, "MXN")
	require.NoError(t, err)
	return r
}

func TestNewReceipt(t *testing.T) {
	t.Run("defaults currency to MXN", func(t *testing.T) {
		r, err := NewReceipt(uuid.New(), "REC-0001", decimal.NewFromInt(1000), testNow, "")
		require.NoError(t, err)
		assert.Equal(t, "MXN", r.Currency)
		assert.Equal(t, enum.ReceiptStatusPending, r.Status)
		assert.True(t, r.Balance.Equal(r.OriginalAmount))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewReceipt(uuid.New(), "REC-0001", decimal.Zero, testNow, "MXN")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestApplyPayment(t *testing.T) {
	due := testNow.Add(30 * 24 * time.Hour)

	t.Run("partial payment leaves remaining balance", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)

		updated, applied, leftover, err := ApplyPayment(r, decimal.NewFromInt(200), testNow)
		require.NoError(t, err)

		assert.True(t, updated.Balance.Equal(decimal.NewFromInt(800)), "balance = %s", updated.Balance)
		assert.True(t, applied.Equal(decimal.NewFromInt(200)))
		assert.True(t, leftover.IsZero())
		assert.Equal(t, enum.ReceiptStatusPartial, updated.Status)
	})

	t.Run("exact payment settles the receipt", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)

		updated, applied, leftover, err := ApplyPayment(r, decimal.NewFromInt(1000), testNow)
		require.NoError(t, err)

		assert.True(t, updated.Balance.IsZero())
		assert.True(t, applied.Equal(decimal.NewFromInt(1000)))
		assert.True(t, leftover.IsZero())
		assert.Equal(t, enum.ReceiptStatusPaid, updated.Status)
	})

	t.Run("over-payment returns leftover instead of negative balance", func(t *testing.T) {
		r := newTestReceipt(t, "300", due)

		updated, applied, leftover, err := ApplyPayment(r, decimal.NewFromInt(500), testNow)
		require.NoError(t, err)

		assert.True(t, updated.Balance.IsZero())
		assert.True(t, applied.Equal(decimal.NewFromInt(300)))
		assert.True(t, leftover.Equal(decimal.NewFromInt(200)))
		assert.True(t, applied.Add(leftover).Equal(decimal.NewFromInt(500)), "applied + leftover must equal amount")
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)

		_, _, _, err := ApplyPayment(r, decimal.Zero, testNow)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, _, _, err = ApplyPayment(r, decimal.NewFromInt(-50), testNow)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("rejects terminal receipts", func(t *testing.T) {
		for _, status := range []enum.ReceiptStatus{enum.ReceiptStatusPaid, enum.ReceiptStatusCancelled} {
			r := newTestReceipt(t, "1000", due)
			r.Status = status

			_, _, _, err := ApplyPayment(r, decimal.NewFromInt(100), testNow)
			assert.ErrorIs(t, err, ErrTerminalReceipt, "status %s", status)
		}
	})
}

func TestDeriveStatus(t *testing.T) {
	due := testNow.Add(30 * 24 * time.Hour)
	pastDue := testNow.Add(-24 * time.Hour)

	tests := []struct {
		name     string
		original string
		paid     string
		dueDate  time.Time
		want     enum.ReceiptStatus
	}{
		{"no payment before due date is pending", "1000", "0", due, enum.ReceiptStatusPending},
		{"partial payment is partial", "1000", "500", due, enum.ReceiptStatusPartial},
		{"full payment is paid", "1000", "1000", due, enum.ReceiptStatusPaid},
		{"no payment past due date is overdue", "1000", "0", pastDue, enum.ReceiptStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReceipt(t, tt.original, tt.dueDate)
			r.PaidAmount = decimal.RequireFromString(tt.paid)
			r.Balance = r.OriginalAmount.Sub(r.PaidAmount)

			got := DeriveStatus(r, testNow)
			assert.Equal(t, tt.want, got)

			// Derivation is idempotent: deriving again from the derived
			// state yields the same status.
			r.Status = got
			assert.Equal(t, got, DeriveStatus(r, testNow))
		})
	}

	t.Run("administrative overrides pass through", func(t *testing.T) {
		for _, status := range []enum.ReceiptStatus{enum.ReceiptStatusCancelled, enum.ReceiptStatusWaived} {
			r := newTestReceipt(t, "1000", due)
			r.Status = status
			assert.Equal(t, status, DeriveStatus(r, testNow))
		}
	})
}

func TestApplyDiscount(t *testing.T) {
	due := testNow.Add(30 * 24 * time.Hour)
	authorized := Discount{
		Amount:       decimal.NewFromInt(150),
		AuthorizedBy: "direccion@colegio.mx",
		Reason:       "hermanos inscritos",
	}

	t.Run("reduces balance immediately", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)

		updated, err := ApplyDiscount(r, authorized, testNow)
		require.NoError(t, err)

		assert.True(t, updated.Discount.Equal(decimal.NewFromInt(150)))
		assert.True(t, updated.Balance.Equal(decimal.NewFromInt(850)))
	})

	t.Run("discount exceeding balance is rejected", func(t *testing.T) {
		r := newTestReceipt(t, "100", due)

		_, err := ApplyDiscount(r, authorized, testNow)
		assert.ErrorIs(t, err, ErrDiscountExceedsBalance)
	})

	t.Run("requires authorizer and reason", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)

		_, err := ApplyDiscount(r, Discount{Amount: decimal.NewFromInt(10)}, testNow)
		assert.ErrorIs(t, err, ErrInvalidDiscount)
	})

	t.Run("reverting the exact amount restores the original balance", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)

		updated, err := ApplyDiscount(r, authorized, testNow)
		require.NoError(t, err)

		// The revert is performed by the caller as a compensating
		// surcharge-free adjustment; the arithmetic must round-trip.
		reverted := updated
		reverted.Discount = reverted.Discount.Sub(authorized.Amount)
		reverted.Balance = reverted.Balance.Add(authorized.Amount)
		assert.True(t, reverted.Balance.Equal(r.Balance))
		assert.True(t, reverted.Discount.Equal(r.Discount))
	})
}

func TestAddSurcharge(t *testing.T) {
	due := testNow.Add(-10 * 24 * time.Hour)

	t.Run("increases balance and total", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)

		updated, err := AddSurcharge(r, decimal.NewFromInt(100), testNow)
		require.NoError(t, err)

		assert.True(t, updated.Balance.Equal(decimal.NewFromInt(1100)))
		assert.True(t, updated.Total().Equal(decimal.NewFromInt(1100)), "subtotal 1000 + surcharge 100")
	})

	t.Run("zero surcharge is a no-op", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)

		updated, err := AddSurcharge(r, decimal.Zero, testNow)
		require.NoError(t, err)
		assert.True(t, updated.Balance.Equal(r.Balance))
	})

	t.Run("rejects terminal receipts", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)
		r.Status = enum.ReceiptStatusCancelled

		_, err := AddSurcharge(r, decimal.NewFromInt(10), testNow)
		assert.ErrorIs(t, err, ErrTerminalReceipt)
	})
}
