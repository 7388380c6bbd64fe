package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taxdomain "github.com/mizanlabs/mizan/internal/tax/domain"
	"github.com/mizanlabs/mizan/internal/taxrate"
)

func TestComputeVAT_Netting(t *testing.T) {
	result, err := ComputeVAT(taxdomain.VATInput{
		TaxableSales:     d("100000"),
		TaxablePurchases: d("40000"),
	}, taxrate.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "5000.00", result.OutputVAT.StringFixed(2))
	assert.Equal(t, "2000.00", result.InputVAT.StringFixed(2))
	assert.Equal(t, "3000.00", result.NetVATDue.StringFixed(2))
	assert.Equal(t, "0.00", result.CarryForwardCredit.StringFixed(2))
}

func TestComputeVAT_ExemptAndZeroRatedExcludedFromBases(t *testing.T) {
	result, err := ComputeVAT(taxdomain.VATInput{
		TaxableSales:       d("1000"),
		ZeroRatedSales:     d("500000"),
		ExemptSales:        d("900000"),
		TaxablePurchases:   d("200"),
		ZeroRatedPurchases: d("100000"),
		ExemptPurchases:    d("300000"),
	}, taxrate.DefaultConfig())
	require.NoError(t, err)

	// Only the taxable bases attract 5%; exempt purchases earn no credit.
	assert.Equal(t, "50.00", result.OutputVAT.StringFixed(2))
	assert.Equal(t, "10.00", result.InputVAT.StringFixed(2))
	assert.Equal(t, "40.00", result.NetVATDue.StringFixed(2))
}

func TestComputeVAT_CarryForwardInsteadOfRefund(t *testing.T) {
	result, err := ComputeVAT(taxdomain.VATInput{
		TaxableSales:     d("10000"),
		TaxablePurchases: d("30000"),
	}, taxrate.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "0.00", result.NetVATDue.StringFixed(2))
	assert.Equal(t, "1000.00", result.CarryForwardCredit.StringFixed(2))
}

func TestComputeVAT_NegativeFieldRejected(t *testing.T) {
	_, err := ComputeVAT(taxdomain.VATInput{
		TaxableSales:    d("100"),
		ExemptPurchases: d("-0.01"),
	}, taxrate.DefaultConfig())
	assert.ErrorIs(t, err, taxdomain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "exempt_purchases")
}
