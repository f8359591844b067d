package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolarapp/escolar-api/internal/domain/enum"
)

func TestApplyScholarship(t *testing.T) {
	due := testNow.Add(30 * 24 * time.Hour)

	t.Run("percentage applies to the original amount", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)
		beca := Scholarship{Percentage: decimalPtr("25")}

		result, err := ApplyScholarship(r, beca, decimal.Zero, testNow)
		require.NoError(t, err)

		assert.True(t, result.DiscountGranted.Equal(decimal.NewFromInt(250)))
		assert.True(t, result.Receipt.Balance.Equal(decimal.NewFromInt(750)))
		assert.False(t, result.Truncated)
	})

	t.Run("fixed amount is capped at the balance", func(t *testing.T) {
		r := newTestReceipt(t, "200", due)
		convenio := Scholarship{FixedAmount: decimalPtr("350")}

		result, err := ApplyScholarship(r, convenio, decimal.Zero, testNow)
		require.NoError(t, err)

		assert.True(t, result.DiscountGranted.Equal(decimal.NewFromInt(200)))
		assert.True(t, result.Receipt.Balance.IsZero())
		assert.Equal(t, enum.ReceiptStatusPaid, result.Receipt.Status)
	})

	t.Run("percentage and fixed together are rejected", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)
		both := Scholarship{Percentage: decimalPtr("10"), FixedAmount: decimalPtr("50")}

		_, err := ApplyScholarship(r, both, decimal.Zero, testNow)
		assert.ErrorIs(t, err, ErrConflictingAdjustment)
	})

	t.Run("neither percentage nor fixed is an invalid policy", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)

		_, err := ApplyScholarship(r, Scholarship{}, decimal.Zero, testNow)
		assert.ErrorIs(t, err, ErrInvalidPolicy)
	})

	t.Run("percentage outside 0-100 is an invalid policy", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)

		_, err := ApplyScholarship(r, Scholarship{Percentage: decimalPtr("120")}, decimal.Zero, testNow)
		assert.ErrorIs(t, err, ErrInvalidPolicy)
	})

	t.Run("monthly cap truncates instead of rejecting", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)
		beca := Scholarship{Percentage: decimalPtr("50"), MonthlyCap: decimalPtr("600")}

		// 400 already granted this month; only 200 of the 500 fits.
		result, err := ApplyScholarship(r, beca, decimal.NewFromInt(400), testNow)
		require.NoError(t, err)

		assert.True(t, result.DiscountGranted.Equal(decimal.NewFromInt(200)))
		assert.True(t, result.Truncated)
		assert.True(t, result.Receipt.Balance.Equal(decimal.NewFromInt(800)))
	})

	t.Run("exhausted monthly cap grants nothing but still succeeds", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)
		beca := Scholarship{Percentage: decimalPtr("50"), MonthlyCap: decimalPtr("600")}

		result, err := ApplyScholarship(r, beca, decimal.NewFromInt(600), testNow)
		require.NoError(t, err)

		assert.True(t, result.DiscountGranted.IsZero())
		assert.True(t, result.Truncated)
		assert.True(t, result.Receipt.Balance.Equal(r.Balance), "receipt unchanged")
	})

	t.Run("terminal receipt is rejected", func(t *testing.T) {
		r := newTestReceipt(t, "1000", due)
		r.Status = enum.ReceiptStatusPaid

		_, err := ApplyScholarship(r, Scholarship{Percentage: decimalPtr("10")}, decimal.Zero, testNow)
		assert.ErrorIs(t, err, ErrTerminalReceipt)
	})
}
