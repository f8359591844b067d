package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolarapp/escolar-api/internal/domain/enum"
)

func openTestCut(t *testing.T, cashierID uuid.UUID, opening string) CashCut {
	t.Helper()
	cut, err := OpenCashCut(uuid.New(), "CORTE-0001", cashierID, decimal.RequireFromString(opening), "CAJA-1", testNow)
	require.NoError(t, err)
	return cut
}

func cutPayment(cashierID uuid.UUID, method enum.PaymentMethod, amount string) Payment {
	return Payment{
		ID:        uuid.New(),
		Amount:    decimal.RequireFromString(amount),
		Method:    method,
		Status:    enum.PaymentStatusConfirmed,
		Timestamp: testNow,
		CashierID: cashierID,
	}
}

func TestOpenCashCut(t *testing.T) {
	t.Run("opens with the drawer float", func(t *testing.T) {
		cut := openTestCut(t, uuid.New(), "500")

		assert.False(t, cut.Closed)
		assert.Nil(t, cut.ClosedAt)
		assert.True(t, cut.TotalGeneral.IsZero())
		assert.True(t, cut.ExpectedDrawer().Equal(decimal.NewFromInt(500)))
	})

	t.Run("negative opening amount is rejected", func(t *testing.T) {
		_, err := OpenCashCut(uuid.New(), "CORTE-0001", uuid.New(), decimal.NewFromInt(-1), "", testNow)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestRecord(t *testing.T) {
	cashierID := uuid.New()

	t.Run("buckets by method and keeps the totals invariant", func(t *testing.T) {
		cut := openTestCut(t, cashierID, "500")

		steps := []Payment{
			cutPayment(cashierID, enum.PaymentMethodCash, "1200"),
			cutPayment(cashierID, enum.PaymentMethodTransfer, "800"),
			cutPayment(cashierID, enum.PaymentMethodCard, "450.50"),
			cutPayment(cashierID, enum.PaymentMethodCash, "99.50"),
		}

		for _, p := range steps {
			var err error
			cut, err = Record(cut, p)
			require.NoError(t, err)
			assert.True(t, cut.ConsistentTotals(), "totals invariant must hold after every record")
		}

		assert.True(t, cut.TotalCash.Equal(decimal.RequireFromString("1299.50")))
		assert.True(t, cut.TotalTransfer.Equal(decimal.NewFromInt(800)))
		assert.True(t, cut.TotalCard.Equal(decimal.RequireFromString("450.50")))
		assert.True(t, cut.TotalGeneral.Equal(decimal.RequireFromString("2550")))
		assert.Equal(t, 4, cut.PaymentCount)
		assert.True(t, cut.ExpectedDrawer().Equal(decimal.RequireFromString("1799.50")), "opening float + cash only")
	})

	t.Run("rejects payments from another cashier", func(t *testing.T) {
		cut := openTestCut(t, cashierID, "0")

		_, err := Record(cut, cutPayment(uuid.New(), enum.PaymentMethodCash, "100"))
		assert.ErrorIs(t, err, ErrCashierMismatch)
	})

	t.Run("rejects voided payments", func(t *testing.T) {
		cut := openTestCut(t, cashierID, "0")
		p := cutPayment(cashierID, enum.PaymentMethodCash, "100")
		p.Status = enum.PaymentStatusVoid

		_, err := Record(cut, p)
		assert.ErrorIs(t, err, ErrPaymentVoid)
	})

	t.Run("rejects records on a closed cut", func(t *testing.T) {
		cut := openTestCut(t, cashierID, "0")
		cut, err := Close(cut, uuid.New(), testNow)
		require.NoError(t, err)

		_, err = Record(cut, cutPayment(cashierID, enum.PaymentMethodCash, "100"))
		assert.ErrorIs(t, err, ErrCashCutClosed)
	})
}

func TestClose(t *testing.T) {
	cashierID := uuid.New()

	t.Run("freezes totals and stamps the closer", func(t *testing.T) {
		cut := openTestCut(t, cashierID, "500")
		cut, err := Record(cut, cutPayment(cashierID, enum.PaymentMethodCash, "100"))
		require.NoError(t, err)

		supervisor := uuid.New()
		closed, err := Close(cut, supervisor, testNow)
		require.NoError(t, err)

		assert.True(t, closed.Closed)
		require.NotNil(t, closed.ClosedAt)
		require.NotNil(t, closed.ClosedBy)
		assert.Equal(t, supervisor, *closed.ClosedBy)
		assert.True(t, closed.TotalGeneral.Equal(decimal.NewFromInt(100)))
	})

	t.Run("closing twice fails", func(t *testing.T) {
		cut := openTestCut(t, cashierID, "0")
		cut, err := Close(cut, uuid.New(), testNow)
		require.NoError(t, err)

		_, err = Close(cut, uuid.New(), testNow)
		assert.ErrorIs(t, err, ErrAlreadyClosed)
	})
}
