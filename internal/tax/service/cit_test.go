package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taxdomain "github.com/mizanlabs/mizan/internal/tax/domain"
	"github.com/mizanlabs/mizan/internal/taxrate"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeCIT_Standard(t *testing.T) {
	cfg := taxrate.DefaultConfig()

	result, err := ComputeCIT(taxdomain.CITInput{TaxableIncome: d("800000")}, cfg)
	require.NoError(t, err)

	assert.Equal(t, taxdomain.RuleStandard, result.RuleApplied)
	assert.Equal(t, "72000.00", result.CITAmount.StringFixed(2))
	assert.Equal(t, "0.00", result.SmallBusinessRelief.StringFixed(2))
	assert.True(t, result.EffectiveRate.Equal(d("0.09")))
	assert.Equal(t, "2023-06", result.RateVersion)
}

func TestComputeCIT_SmallBusinessRelief(t *testing.T) {
	cfg := taxrate.DefaultConfig()

	tests := []struct {
		name       string
		income     string
		wantAmount string
		wantRelief string
	}{
		// Relief boundary is inclusive: income exactly at the threshold owes nothing.
		{"at relief threshold", "375000", "0.00", "375000.00"},
		{"just above threshold rounds to zero", "375000.01", "0.00", "375000.00"},
		{"well above threshold", "800000", "38250.00", "375000.00"},
		{"at eligibility cap relief still limited to first 375k", "3000000", "236250.00", "375000.00"},
		{"below threshold", "100000", "0.00", "100000.00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ComputeCIT(taxdomain.CITInput{
				TaxableIncome:   d(tc.income),
				IsSmallBusiness: true,
			}, cfg)
			require.NoError(t, err)
			assert.Equal(t, taxdomain.RuleSmallBusinessRelief, result.RuleApplied)
			assert.Equal(t, tc.wantAmount, result.CITAmount.StringFixed(2))
			assert.Equal(t, tc.wantRelief, result.SmallBusinessRelief.StringFixed(2))
		})
	}
}

func TestComputeCIT_SBRIneligibleAboveCap(t *testing.T) {
	cfg := taxrate.DefaultConfig()

	// The SBR election lapses above the AED 3,000,000 eligibility cap:
	// the full amount is taxed at the standard rate, no relief band.
	result, err := ComputeCIT(taxdomain.CITInput{
		TaxableIncome:   d("3000000.01"),
		IsSmallBusiness: true,
	}, cfg)
	require.NoError(t, err)
	assert.Equal(t, taxdomain.RuleStandard, result.RuleApplied)
	assert.Equal(t, "270000.00", result.CITAmount.StringFixed(2))
}

func TestComputeCIT_QFZPOverridesEverything(t *testing.T) {
	cfg := taxrate.DefaultConfig()

	for _, income := range []string{"0", "375000", "3000000", "50000000"} {
		result, err := ComputeCIT(taxdomain.CITInput{
			TaxableIncome:   d(income),
			IsQFZP:          true,
			IsSmallBusiness: true,
		}, cfg)
		require.NoError(t, err)
		assert.Equal(t, taxdomain.RuleQFZP, result.RuleApplied)
		assert.Equal(t, "0.00", result.CITAmount.StringFixed(2))
		assert.True(t, result.CITRate.IsZero())
	}
}

func TestComputeCIT_ZeroIncome(t *testing.T) {
	result, err := ComputeCIT(taxdomain.CITInput{TaxableIncome: decimal.Zero}, taxrate.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "0.00", result.CITAmount.StringFixed(2))
	assert.True(t, result.EffectiveRate.IsZero())
}

func TestComputeCIT_NegativeIncomeRejected(t *testing.T) {
	_, err := ComputeCIT(taxdomain.CITInput{TaxableIncome: d("-1")}, taxrate.DefaultConfig())
	assert.ErrorIs(t, err, taxdomain.ErrInvalidInput)
}

func TestComputeCIT_RoundingHalfUpAfterMultiplication(t *testing.T) {
	// 55.5 * 0.09 = 4.995 → 5.00 half-up; rounding before the
	// multiplication would give 4.99 or 5.04 depending on order.
	result, err := ComputeCIT(taxdomain.CITInput{TaxableIncome: d("55.5")}, taxrate.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "5.00", result.CITAmount.StringFixed(2))
}
