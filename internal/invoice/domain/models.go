// Package domain holds the canonical in-memory invoice representation and
// its construction rules. An InvoiceModel is only ever produced fully
// validated; partially built models are never exposed.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VATCategory is the closed set of UAE VAT treatment codes.
type VATCategory string

const (
	VATCategoryStandard   VATCategory = "S" // standard rated, 5%
	VATCategoryZeroRated  VATCategory = "Z"
	VATCategoryExempt     VATCategory = "E"
	VATCategoryOutOfScope VATCategory = "O"
)

// Valid reports whether the code belongs to the closed set.
func (c VATCategory) Valid() bool {
	switch c {
	case VATCategoryStandard, VATCategoryZeroRated, VATCategoryExempt, VATCategoryOutOfScope:
		return true
	default:
		return false
	}
}

// Party identifies a supplier or customer. TRN is the 15-digit UAE Tax
// Registration Number.
type Party struct {
	Name    string `json:"name"`
	TRN     string `json:"trn"`
	Address string `json:"address"`
}

// InvoiceLine is one validated invoice line with derived amounts.
type InvoiceLine struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATCategory VATCategory     `json:"vat_category"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
	LineVAT     decimal.Decimal `json:"line_vat"`
}

// VATBreakdownEntry aggregates lines by (category, rate).
type VATBreakdownEntry struct {
	Category      VATCategory     `json:"category"`
	Rate          decimal.Decimal `json:"rate"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
}

// Totals carries the invoice monetary totals. Invariants, enforced by the
// builder and re-checked by the document validator:
//
//	LineExtension = Σ lines.LineTotal
//	TaxInclusive  = TaxExclusive + Σ breakdown.TaxAmount
//	Payable       = TaxInclusive (no discounts modeled)
type Totals struct {
	LineExtension decimal.Decimal `json:"line_extension"`
	TaxExclusive  decimal.Decimal `json:"tax_exclusive"`
	TaxInclusive  decimal.Decimal `json:"tax_inclusive"`
	Payable       decimal.Decimal `json:"payable"`
}

// InvoiceModel is the canonical validated invoice.
type InvoiceModel struct {
	InvoiceNumber string              `json:"invoice_number"`
	IssueDate     time.Time           `json:"issue_date"`
	DueDate       *time.Time          `json:"due_date,omitempty"`
	CurrencyCode  string              `json:"currency_code"`
	Supplier      Party               `json:"supplier"`
	Customer      Party               `json:"customer"`
	Lines         []InvoiceLine       `json:"lines"`
	VATBreakdown  []VATBreakdownEntry `json:"vat_breakdown"`
	Totals        Totals              `json:"totals"`
}

// LineRequest is caller-supplied line data before validation.
type LineRequest struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATCategory VATCategory     `json:"vat_category"`
}

// BuildRequest is the caller-supplied invoice data. B2C relaxes the
// customer TRN requirement (retail customers carry no registration).
type BuildRequest struct {
	InvoiceNumber string        `json:"invoice_number"`
	IssueDate     time.Time     `json:"issue_date"`
	DueDate       *time.Time    `json:"due_date,omitempty"`
	CurrencyCode  string        `json:"currency_code"`
	Supplier      Party         `json:"supplier"`
	Customer      Party         `json:"customer"`
	B2C           bool          `json:"b2c"`
	Lines         []LineRequest `json:"lines"`
}
