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

func newTestPayment(amount string) Payment {
	return Payment{
		ID:        uuid.New(),
		Amount:    decimal.RequireFromString(amount),
		Method:    enum.PaymentMethodCash,
		Status:    enum.PaymentStatusConfirmed,
		Timestamp: testNow,
		CashierID: uuid.New(),
	}
}

func receiptsWithBalances(t *testing.T, balances ...string) []Receipt {
	t.Helper()
	due := testNow.Add(30 * 24 * time.Hour)
	out := make([]Receipt, 0, len(balances))
	for _, b := range balances {
		out = append(out, newTestReceipt(t, b, due))
	}
	return out
}

func TestApplyToReceipts(t *testing.T) {
	t.Run("allocations sum exactly to the payment amount", func(t *testing.T) {
		receipts := receiptsWithBalances(t, "500", "700", "300")
		payment := newTestPayment("1500")

		result, err := ApplyToReceipts(payment, receipts, testNow)
		require.NoError(t, err)

		require.Len(t, result.Allocations, 3)
		sum := decimal.Zero
		for _, a := range result.Allocations {
			sum = sum.Add(a.AmountApplied)
		}
		assert.True(t, sum.Equal(payment.Amount))
		assert.True(t, result.AmountUnapplied.IsZero())
		for _, r := range result.Receipts {
			assert.True(t, r.Balance.IsZero())
			assert.Equal(t, enum.ReceiptStatusPaid, r.Status)
		}
	})

	t.Run("stops early once the payment is exhausted", func(t *testing.T) {
		receipts := receiptsWithBalances(t, "500", "700", "300")
		payment := newTestPayment("600")

		result, err := ApplyToReceipts(payment, receipts, testNow)
		require.NoError(t, err)

		require.Len(t, result.Allocations, 2)
		assert.True(t, result.Allocations[0].AmountApplied.Equal(decimal.NewFromInt(500)))
		assert.True(t, result.Allocations[1].AmountApplied.Equal(decimal.NewFromInt(100)))
		assert.True(t, result.Receipts[2].Balance.Equal(decimal.NewFromInt(300)), "third receipt untouched")
		assert.True(t, result.AmountUnapplied.IsZero())
	})

	t.Run("remainder beyond all balances is reported unapplied", func(t *testing.T) {
		receipts := receiptsWithBalances(t, "200")
		payment := newTestPayment("350")

		result, err := ApplyToReceipts(payment, receipts, testNow)
		require.NoError(t, err)

		assert.True(t, result.AmountApplied.Equal(decimal.NewFromInt(200)))
		assert.True(t, result.AmountUnapplied.Equal(decimal.NewFromInt(150)))
		assert.True(t, result.AmountApplied.Add(result.AmountUnapplied).Equal(payment.Amount))
	})

	t.Run("processes receipts in caller order without re-sorting", func(t *testing.T) {
		receipts := receiptsWithBalances(t, "700", "500")
		payment := newTestPayment("700")

		result, err := ApplyToReceipts(payment, receipts, testNow)
		require.NoError(t, err)

		require.Len(t, result.Allocations, 1)
		assert.Equal(t, receipts[0].ID, result.Allocations[0].ReceiptID)
	})

	t.Run("records the status transition for every touched receipt", func(t *testing.T) {
		receipts := receiptsWithBalances(t, "400")
		payment := newTestPayment("150")

		result, err := ApplyToReceipts(payment, receipts, testNow)
		require.NoError(t, err)

		alloc := result.Allocations[0]
		assert.Equal(t, enum.ReceiptStatusPending, alloc.StatusBefore)
		assert.Equal(t, enum.ReceiptStatusPartial, alloc.StatusAfter)
		assert.True(t, alloc.BalanceBefore.Equal(decimal.NewFromInt(400)))
		assert.True(t, alloc.BalanceAfter.Equal(decimal.NewFromInt(250)))
		assert.False(t, alloc.PaidInFull)
	})

	t.Run("skips receipts that already have a zero balance", func(t *testing.T) {
		receipts := receiptsWithBalances(t, "100", "200")
		receipts[0].PaidAmount = receipts[0].Balance
		receipts[0].Balance = decimal.Zero
		receipts[0].Status = enum.ReceiptStatusPartial // not terminal, just drained

		result, err := ApplyToReceipts(newTestPayment("50"), receipts, testNow)
		require.NoError(t, err)

		require.Len(t, result.Allocations, 1)
		assert.Equal(t, receipts[1].ID, result.Allocations[0].ReceiptID)
	})

	t.Run("void payment is rejected", func(t *testing.T) {
		receipts := receiptsWithBalances(t, "100")
		payment := newTestPayment("100")
		payment.Status = enum.PaymentStatusVoid

		_, err := ApplyToReceipts(payment, receipts, testNow)
		assert.ErrorIs(t, err, ErrPaymentVoid)
	})

	t.Run("empty receipt list is rejected, amount is not discarded", func(t *testing.T) {
		_, err := ApplyToReceipts(newTestPayment("100"), nil, testNow)
		assert.ErrorIs(t, err, ErrNoTargets)
	})

	t.Run("terminal receipt in the list fails the whole call", func(t *testing.T) {
		receipts := receiptsWithBalances(t, "100", "200")
		receipts[1].Status = enum.ReceiptStatusCancelled

		_, err := ApplyToReceipts(newTestPayment("300"), receipts, testNow)
		assert.ErrorIs(t, err, ErrTerminalReceipt)
	})
}

func TestApplyAmounts(t *testing.T) {
	t.Run("applies directed amounts and tracks the unapplied remainder", func(t *testing.T) {
		receipts := receiptsWithBalances(t, "500", "700")
		payment := newTestPayment("1000")
		targets := []TargetAmount{
			{ReceiptID: receipts[0].ID, Amount: decimal.NewFromInt(500)},
			{ReceiptID: receipts[1].ID, Amount: decimal.NewFromInt(300)},
		}

		result, err := ApplyAmounts(payment, targets, receipts, testNow)
		require.NoError(t, err)

		assert.True(t, result.AmountApplied.Equal(decimal.NewFromInt(800)))
		assert.True(t, result.AmountUnapplied.Equal(decimal.NewFromInt(200)))
		assert.True(t, result.Receipts[0].Balance.IsZero())
		assert.True(t, result.Receipts[1].Balance.Equal(decimal.NewFromInt(400)))
		assert.True(t, result.Allocations[0].PaidInFull)
	})

	t.Run("amount above the receipt balance is rejected", func(t *testing.T) {
		receipts := receiptsWithBalances(t, "100")
		targets := []TargetAmount{{ReceiptID: receipts[0].ID, Amount: decimal.NewFromInt(150)}}

		_, err := ApplyAmounts(newTestPayment("500"), targets, receipts, testNow)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("targets summing past the payment amount are rejected", func(t *testing.T) {
		receipts := receiptsWithBalances(t, "500", "500")
		targets := []TargetAmount{
			{ReceiptID: receipts[0].ID, Amount: decimal.NewFromInt(400)},
			{ReceiptID: receipts[1].ID, Amount: decimal.NewFromInt(400)},
		}

		_, err := ApplyAmounts(newTestPayment("700"), targets, receipts, testNow)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("unknown receipt target is rejected", func(t *testing.T) {
		receipts := receiptsWithBalances(t, "500")
		targets := []TargetAmount{{ReceiptID: uuid.New(), Amount: decimal.NewFromInt(100)}}

		_, err := ApplyAmounts(newTestPayment("100"), targets, receipts, testNow)
		assert.ErrorIs(t, err, ErrNoTargets)
	})

	t.Run("empty targets are rejected", func(t *testing.T) {
		receipts := receiptsWithBalances(t, "500")

		_, err := ApplyAmounts(newTestPayment("100"), nil, receipts, testNow)
		assert.ErrorIs(t, err, ErrNoTargets)
	})
}
