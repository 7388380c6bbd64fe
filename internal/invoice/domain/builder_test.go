package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizanlabs/mizan/internal/taxrate"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validRequest() BuildRequest {
	return BuildRequest{
		InvoiceNumber: "INV-20240115-000042",
		IssueDate:     time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		CurrencyCode:  "AED",
		Supplier:      Party{Name: "Al Noor Trading LLC", TRN: "100123456700003", Address: "Dubai"},
		Customer:      Party{Name: "Falcon Logistics FZE", TRN: "100765432100003", Address: "Sharjah"},
		Lines: []LineRequest{
			{Description: "Consulting services", Quantity: d("10"), UnitPrice: d("500"), VATCategory: VATCategoryStandard},
			{Description: "Export freight", Quantity: d("1"), UnitPrice: d("2000"), VATCategory: VATCategoryZeroRated},
			{Description: "Residential lease", Quantity: d("1"), UnitPrice: d("3000"), VATCategory: VATCategoryExempt},
		},
	}
}

func TestBuild_ValidInvoice(t *testing.T) {
	model, issues := Build(validRequest(), taxrate.DefaultConfig())
	require.Empty(t, issues)
	require.NotNil(t, model)

	require.Len(t, model.Lines, 3)
	assert.Equal(t, "5000.00", model.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "250.00", model.Lines[0].LineVAT.StringFixed(2))
	assert.Equal(t, "0.00", model.Lines[1].LineVAT.StringFixed(2))
	assert.Equal(t, "0.00", model.Lines[2].LineVAT.StringFixed(2))

	require.Len(t, model.VATBreakdown, 3)
	// Breakdown ordered by category code: E, S, Z.
	assert.Equal(t, VATCategoryExempt, model.VATBreakdown[0].Category)
	assert.Equal(t, VATCategoryStandard, model.VATBreakdown[1].Category)
	assert.Equal(t, "5000.00", model.VATBreakdown[1].TaxableAmount.StringFixed(2))
	assert.Equal(t, "250.00", model.VATBreakdown[1].TaxAmount.StringFixed(2))

	assert.Equal(t, "10000.00", model.Totals.LineExtension.StringFixed(2))
	assert.Equal(t, "10000.00", model.Totals.TaxExclusive.StringFixed(2))
	assert.Equal(t, "10250.00", model.Totals.TaxInclusive.StringFixed(2))
	assert.Equal(t, "10250.00", model.Totals.Payable.StringFixed(2))
}

func TestBuild_TaxInclusiveInvariant(t *testing.T) {
	model, issues := Build(validRequest(), taxrate.DefaultConfig())
	require.Empty(t, issues)

	want := model.Totals.TaxExclusive.Add(model.TotalVAT())
	diff := model.Totals.TaxInclusive.Sub(want).Abs()
	assert.True(t, diff.LessThanOrEqual(d("0.01")), "invariant off by %s", diff)
	assert.True(t, model.Totals.Payable.Equal(model.Totals.TaxInclusive))
}

func TestBuild_CollectsAllIssues(t *testing.T) {
	req := validRequest()
	req.InvoiceNumber = " "
	req.Supplier.TRN = "12345"
	req.Lines[0].Quantity = d("0")
	req.Lines[1].VATCategory = VATCategory("X")

	model, issues := Build(req, taxrate.DefaultConfig())
	assert.Nil(t, model)
	require.Len(t, issues, 4)

	fields := make([]string, 0, len(issues))
	for _, issue := range issues {
		fields = append(fields, issue.Field)
	}
	assert.Contains(t, fields, "invoice_number")
	assert.Contains(t, fields, "supplier.trn")
	assert.Contains(t, fields, "lines[0].quantity")
	assert.Contains(t, fields, "lines[1].vat_category")
}

func TestBuild_CustomerTRNOptionalForB2C(t *testing.T) {
	req := validRequest()
	req.B2C = true
	req.Customer.TRN = ""

	model, issues := Build(req, taxrate.DefaultConfig())
	assert.Empty(t, issues)
	require.NotNil(t, model)

	// A present-but-malformed TRN is still rejected.
	req.Customer.TRN = "not-a-trn"
	model, issues = Build(req, taxrate.DefaultConfig())
	assert.Nil(t, model)
	require.Len(t, issues, 1)
	assert.Equal(t, "customer.trn", issues[0].Field)
}

func TestBuild_EmptyLines(t *testing.T) {
	req := validRequest()
	req.Lines = nil

	model, issues := Build(req, taxrate.DefaultConfig())
	assert.Nil(t, model)
	require.Len(t, issues, 1)
	assert.Equal(t, "lines", issues[0].Field)
}

func TestBuild_GroupsBreakdownByCategoryAndRate(t *testing.T) {
	req := validRequest()
	req.Lines = []LineRequest{
		{Description: "A", Quantity: d("1"), UnitPrice: d("100"), VATCategory: VATCategoryStandard},
		{Description: "B", Quantity: d("2"), UnitPrice: d("50"), VATCategory: VATCategoryStandard},
		{Description: "C", Quantity: d("1"), UnitPrice: d("10"), VATCategory: VATCategoryOutOfScope},
	}

	model, issues := Build(req, taxrate.DefaultConfig())
	require.Empty(t, issues)
	require.Len(t, model.VATBreakdown, 2)
	assert.Equal(t, "200.00", model.VATBreakdown[1].TaxableAmount.StringFixed(2))
	assert.Equal(t, "10.00", model.VATBreakdown[1].TaxAmount.StringFixed(2))
}
