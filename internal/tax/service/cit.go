package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	taxdomain "github.com/mizanlabs/mizan/internal/tax/domain"
	"github.com/mizanlabs/mizan/internal/taxrate"
)

// ComputeCIT calculates Corporate Income Tax under the rate config in
// force. Rule precedence, first match wins:
//
//  1. QFZP: 0% on qualifying income, no threshold checks.
//  2. Small Business Relief: relief on the first AED 375,000 when the
//     entity elects SBR and taxable income does not exceed the
//     eligibility cap (AED 3,000,000).
//  3. Standard 9%.
//
// Monetary outputs are rounded to 2 decimal places half-up after the
// multiplication, never before.
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic
func ComputeCIT(input taxdomain.CITInput, cfg taxrate.Config) (taxdomain.CITResult, error) {
	if input.TaxableIncome.IsNegative() {
		return taxdomain.CITResult{}, fmt.Errorf("taxable_income: %w", taxdomain.ErrInvalidInput)
	}

	result := taxdomain.CITResult{
		TaxableIncome:       input.TaxableIncome,
		SmallBusinessRelief: decimal.Zero,
		RateVersion:         cfg.Version,
	}

	switch {
	case input.IsQFZP:
		result.RuleApplied = taxdomain.RuleQFZP
		result.CITRate = cfg.QFZPRate
		result.CITAmount = input.TaxableIncome.Mul(cfg.QFZPRate).Round(2)

	case input.IsSmallBusiness && input.TaxableIncome.LessThanOrEqual(cfg.QFZPEligibleIncomeCap):
		result.RuleApplied = taxdomain.RuleSmallBusinessRelief
		result.CITRate = cfg.CITStandardRate
		result.SmallBusinessRelief = decimal.Min(input.TaxableIncome, cfg.SmallBusinessReliefThreshold)
		taxableAboveRelief := decimal.Max(decimal.Zero, input.TaxableIncome.Sub(cfg.SmallBusinessReliefThreshold))
		result.CITAmount = taxableAboveRelief.Mul(cfg.CITStandardRate).Round(2)

	default:
		result.RuleApplied = taxdomain.RuleStandard
		result.CITRate = cfg.CITStandardRate
		result.CITAmount = input.TaxableIncome.Mul(cfg.CITStandardRate).Round(2)
	}

	if input.TaxableIncome.IsZero() {
		result.EffectiveRate = decimal.Zero
	} else {
		result.EffectiveRate = result.CITAmount.Div(input.TaxableIncome).Round(6)
	}

	return result, nil
}
