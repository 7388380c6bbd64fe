package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rule identifiers recorded on every CIT computation.
// These are ENGINE-CONSTANTS: once written into a filing they must not be
// renamed or repurposed.
const (
	RuleQFZP                = "QFZP"
	RuleSmallBusinessRelief = "SmallBusinessRelief"
	RuleStandard            = "Standard"
)

// CITInput carries the facts needed to compute Corporate Income Tax.
// Exactly one rule applies: QFZP overrides Small Business Relief, which
// overrides the standard rate.
type CITInput struct {
	TaxableIncome   decimal.Decimal
	IsQFZP          bool
	IsSmallBusiness bool
}

// CITResult is the outcome of a CIT computation. CITAmount is rounded to
// 2 decimal places half-up after multiplication, never before.
type CITResult struct {
	TaxableIncome       decimal.Decimal `json:"taxable_income"`
	CITRate             decimal.Decimal `json:"cit_rate"`
	CITAmount           decimal.Decimal `json:"cit_amount"`
	SmallBusinessRelief decimal.Decimal `json:"small_business_relief"`
	EffectiveRate       decimal.Decimal `json:"effective_rate"`
	RuleApplied         string          `json:"rule_applied"`
	RateVersion         string          `json:"rate_version"`
}

// VATInput is a period VAT return breakdown. Zero-rated supplies are kept
// distinct from exempt ones: zero-rated purchases stay input-recoverable
// (at 0% they contribute nothing), exempt purchases carry no input credit.
type VATInput struct {
	TaxableSales       decimal.Decimal
	ZeroRatedSales     decimal.Decimal
	ExemptSales        decimal.Decimal
	TaxablePurchases   decimal.Decimal
	ZeroRatedPurchases decimal.Decimal
	ExemptPurchases    decimal.Decimal
}

// VATResult nets output VAT against recoverable input VAT. A negative net
// is never paid out: it surfaces as CarryForwardCredit with NetVATDue = 0.
type VATResult struct {
	OutputVAT          decimal.Decimal `json:"output_vat"`
	InputVAT           decimal.Decimal `json:"input_vat"`
	NetVATDue          decimal.Decimal `json:"net_vat_due"`
	CarryForwardCredit decimal.Decimal `json:"carry_forward_credit"`
	RateVersion        string          `json:"rate_version"`
}

// CITRequest is the service-level request. PeriodEnd selects the rate
// version in force for the filing period; zero means "now".
type CITRequest struct {
	TaxableIncome   decimal.Decimal
	IsQFZP          bool
	IsSmallBusiness bool
	PeriodStart     time.Time
	PeriodEnd       time.Time
	Record          bool
}

// VATRequest is the service-level request for a VAT return computation.
type VATRequest struct {
	VATInput
	PeriodStart time.Time
	PeriodEnd   time.Time
	Record      bool
}
