package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(i int) *int { return &i }

func TestComputeSurcharge(t *testing.T) {
	balance := decimal.NewFromInt(5000)
	rate := decimal.RequireFromString("0.01")

	t.Run("balance 5000 at 1% daily for 5 days is 250", func(t *testing.T) {
		policy := SurchargePolicy{DailyRate: rate}

		got, err := ComputeSurcharge(balance, policy, 5)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(250)), "got %s", got)
	})

	t.Run("grace boundary", func(t *testing.T) {
		policy := SurchargePolicy{DailyRate: rate, GraceEndDay: 3}

		atBoundary, err := ComputeSurcharge(balance, policy, 3)
		require.NoError(t, err)
		assert.True(t, atBoundary.IsZero(), "no surcharge on the last grace day")

		pastBoundary, err := ComputeSurcharge(balance, policy, 4)
		require.NoError(t, err)
		assert.True(t, pastBoundary.Sign() > 0, "strictly positive one day past grace")
		assert.True(t, pastBoundary.Equal(decimal.NewFromInt(50)))
	})

	t.Run("not yet overdue accrues nothing", func(t *testing.T) {
		policy := SurchargePolicy{DailyRate: rate}

		got, err := ComputeSurcharge(balance, policy, 0)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("minimum cap lifts small surcharges", func(t *testing.T) {
		policy := SurchargePolicy{DailyRate: rate, Min: decimalPtr("100")}

		got, err := ComputeSurcharge(decimal.NewFromInt(100), policy, 1)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(100)), "1 raised to the minimum")
	})

	t.Run("maximum cap clamps large surcharges", func(t *testing.T) {
		policy := SurchargePolicy{DailyRate: rate, Max: decimalPtr("120")}

		got, err := ComputeSurcharge(balance, policy, 10)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(120)))
	})

	t.Run("nil caps mean no cap at all", func(t *testing.T) {
		policy := SurchargePolicy{DailyRate: rate}

		got, err := ComputeSurcharge(balance, policy, 100)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(5000)), "uncapped accrual")
	})

	t.Run("overdue-day cap stops further accrual", func(t *testing.T) {
		policy := SurchargePolicy{DailyRate: rate, MaxOverdueDays: intPtr(30)}

		capped, err := ComputeSurcharge(balance, policy, 90)
		require.NoError(t, err)
		atCap, err := ComputeSurcharge(balance, policy, 30)
		require.NoError(t, err)
		assert.True(t, capped.Equal(atCap), "days past the tope accrue nothing extra")
	})

	t.Run("negative daily rate is an invalid policy", func(t *testing.T) {
		policy := SurchargePolicy{DailyRate: decimal.RequireFromString("-0.01")}

		_, err := ComputeSurcharge(balance, policy, 5)
		assert.ErrorIs(t, err, ErrInvalidPolicy)
	})

	t.Run("inverted grace window is an invalid policy", func(t *testing.T) {
		policy := SurchargePolicy{DailyRate: rate, GraceStartDay: 5, GraceEndDay: 2}

		_, err := ComputeSurcharge(balance, policy, 10)
		assert.ErrorIs(t, err, ErrInvalidPolicy)
	})

	t.Run("min above max is an invalid policy", func(t *testing.T) {
		policy := SurchargePolicy{DailyRate: rate, Min: decimalPtr("200"), Max: decimalPtr("100")}

		_, err := ComputeSurcharge(balance, policy, 5)
		assert.ErrorIs(t, err, ErrInvalidPolicy)
	})

	t.Run("negative balance is rejected", func(t *testing.T) {
		policy := SurchargePolicy{DailyRate: rate}

		_, err := ComputeSurcharge(decimal.NewFromInt(-1), policy, 5)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}
