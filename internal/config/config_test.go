package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBillingDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "MXN", cfg.Billing.DefaultCurrency)
	assert.Equal(t, 3, cfg.Billing.SurchargeGraceDays)
	assert.Equal(t, 0, cfg.Billing.SurchargeMaxOverdueDays)

	expected, err := decimal.NewFromString("0.005")
	require.NoError(t, err)
	assert.True(t, cfg.Billing.SurchargeDailyRate.Equal(expected))
}
