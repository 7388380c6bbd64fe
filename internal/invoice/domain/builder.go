package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mizanlabs/mizan/internal/taxrate"
)

// Build assembles a validated InvoiceModel from caller data and the rate
// config in force. Every problem is reported; on any error-severity issue
// no model is returned.
//
// Per-line amounts are rounded to 2 decimal places half-up after each
// multiplication, then aggregated; the breakdown is grouped by
// (category, rate) and ordered by category code for determinism.
func Build(req BuildRequest, cfg taxrate.Config) (*InvoiceModel, []ValidationIssue) {
	var issues []ValidationIssue
	addIssue := func(field, message string) {
		issues = append(issues, ValidationIssue{Field: field, Message: message, Severity: SeverityError})
	}

	if strings.TrimSpace(req.InvoiceNumber) == "" {
		addIssue("invoice_number", "invoice number is required")
	}
	if req.IssueDate.IsZero() {
		addIssue("issue_date", "issue date is required")
	}
	if req.DueDate != nil && req.DueDate.Before(req.IssueDate) {
		addIssue("due_date", "due date precedes issue date")
	}
	if strings.TrimSpace(req.CurrencyCode) == "" {
		addIssue("currency_code", "currency code is required")
	}

	if strings.TrimSpace(req.Supplier.Name) == "" {
		addIssue("supplier.name", "supplier name is required")
	}
	if !ValidTRN(req.Supplier.TRN) {
		addIssue("supplier.trn", "supplier TRN must be 15 digits")
	}
	if req.B2C {
		if req.Customer.TRN != "" && !ValidTRN(req.Customer.TRN) {
			addIssue("customer.trn", "customer TRN must be 15 digits when present")
		}
	} else if !ValidTRN(req.Customer.TRN) {
		addIssue("customer.trn", "customer TRN must be 15 digits")
	}

	if len(req.Lines) == 0 {
		addIssue("lines", "at least one line is required")
	}

	lines := make([]InvoiceLine, 0, len(req.Lines))
	for i, lr := range req.Lines {
		prefix := fmt.Sprintf("lines[%d]", i)

		if !lr.VATCategory.Valid() {
			addIssue(prefix+".vat_category", "unrecognized VAT category code")
		}
		if !lr.Quantity.IsPositive() {
			addIssue(prefix+".quantity", "quantity must be positive")
		}
		if lr.UnitPrice.IsNegative() {
			addIssue(prefix+".unit_price", "unit price must not be negative")
		}
		if strings.TrimSpace(lr.Description) == "" {
			addIssue(prefix+".description", "description is required")
		}

		rate := decimal.Zero
		if lr.VATCategory == VATCategoryStandard {
			rate = cfg.VATStandardRate
		}

		lineTotal := lr.Quantity.Mul(lr.UnitPrice).Round(2)
		lineVAT := lineTotal.Mul(rate).Round(2)

		id := strings.TrimSpace(lr.ID)
		if id == "" {
			id = strconv.Itoa(i + 1)
		}

		lines = append(lines, InvoiceLine{
			ID:          id,
			Description: lr.Description,
			Quantity:    lr.Quantity,
			UnitPrice:   lr.UnitPrice,
			VATCategory: lr.VATCategory,
			VATRate:     rate,
			LineTotal:   lineTotal,
			LineVAT:     lineVAT,
		})
	}

	if HasErrors(issues) {
		return nil, issues
	}

	model := &InvoiceModel{
		InvoiceNumber: req.InvoiceNumber,
		IssueDate:     req.IssueDate.UTC(),
		DueDate:       req.DueDate,
		CurrencyCode:  strings.ToUpper(strings.TrimSpace(req.CurrencyCode)),
		Supplier:      req.Supplier,
		Customer:      req.Customer,
		Lines:         lines,
		VATBreakdown:  breakdown(lines),
		Totals:        totals(lines),
	}
	return model, nil
}

type breakdownKey struct {
	category VATCategory
	rate     string
}

func breakdown(lines []InvoiceLine) []VATBreakdownEntry {
	grouped := make(map[breakdownKey]*VATBreakdownEntry)
	for _, line := range lines {
		key := breakdownKey{line.VATCategory, line.VATRate.String()}
		entry, ok := grouped[key]
		if !ok {
			entry = &VATBreakdownEntry{
				Category:      line.VATCategory,
				Rate:          line.VATRate,
				TaxableAmount: decimal.Zero,
				TaxAmount:     decimal.Zero,
			}
			grouped[key] = entry
		}
		entry.TaxableAmount = entry.TaxableAmount.Add(line.LineTotal)
		entry.TaxAmount = entry.TaxAmount.Add(line.LineVAT)
	}

	out := make([]VATBreakdownEntry, 0, len(grouped))
	for _, entry := range grouped {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Rate.LessThan(out[j].Rate)
	})
	return out
}

func totals(lines []InvoiceLine) Totals {
	lineExtension := decimal.Zero
	totalVAT := decimal.Zero
	for _, line := range lines {
		lineExtension = lineExtension.Add(line.LineTotal)
		totalVAT = totalVAT.Add(line.LineVAT)
	}

	taxInclusive := lineExtension.Add(totalVAT)
	return Totals{
		LineExtension: lineExtension,
		TaxExclusive:  lineExtension,
		TaxInclusive:  taxInclusive,
		Payable:       taxInclusive,
	}
}

// TotalVAT sums the breakdown tax amounts.
func (m *InvoiceModel) TotalVAT() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range m.VATBreakdown {
		total = total.Add(entry.TaxAmount)
	}
	return total
}
