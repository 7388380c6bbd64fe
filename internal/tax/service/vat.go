package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	taxdomain "github.com/mizanlabs/mizan/internal/tax/domain"
	"github.com/mizanlabs/mizan/internal/taxrate"
)

// ComputeVAT nets a period's output VAT against recoverable input VAT.
// Only the taxable bases attract the standard rate; zero-rated supplies
// stay in the return at 0% and exempt amounts are excluded entirely
// (exempt purchases carry no input credit). A negative net is reported
// as a carry-forward credit, never paid out.
//
// This function is PURE: no side effects, no DB access, deterministic.
func ComputeVAT(input taxdomain.VATInput, cfg taxrate.Config) (taxdomain.VATResult, error) {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"taxable_sales", input.TaxableSales},
		{"zero_rated_sales", input.ZeroRatedSales},
		{"exempt_sales", input.ExemptSales},
		{"taxable_purchases", input.TaxablePurchases},
		{"zero_rated_purchases", input.ZeroRatedPurchases},
		{"exempt_purchases", input.ExemptPurchases},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return taxdomain.VATResult{}, fmt.Errorf("%s: %w", f.name, taxdomain.ErrInvalidInput)
		}
	}

	outputVAT := input.TaxableSales.Mul(cfg.VATStandardRate).Round(2)
	inputVAT := input.TaxablePurchases.Mul(cfg.VATStandardRate).Round(2)

	return taxdomain.VATResult{
		OutputVAT:          outputVAT,
		InputVAT:           inputVAT,
		NetVATDue:          decimal.Max(decimal.Zero, outputVAT.Sub(inputVAT)),
		CarryForwardCredit: decimal.Max(decimal.Zero, inputVAT.Sub(outputVAT)),
		RateVersion:        cfg.Version,
	}, nil
}
