package service

import (
	"github.com/shopspring/decimal"

	invoicedomain "github.com/mizanlabs/mizan/internal/invoice/domain"
	"github.com/mizanlabs/mizan/internal/invoice/qr"
	"github.com/mizanlabs/mizan/internal/taxrate"
)

// Validate cross-checks a produced document before it is considered
// final. Checks never short-circuit: every failing rule contributes an
// issue so callers see all problems at once.
func Validate(model *invoicedomain.InvoiceModel, xmlBytes []byte, xmlHash, qrPayload string, cfg taxrate.Config) []invoicedomain.ValidationIssue {
	var issues []invoicedomain.ValidationIssue
	addIssue := func(field, message string) {
		issues = append(issues, invoicedomain.ValidationIssue{
			Field:    field,
			Message:  message,
			Severity: invoicedomain.SeverityError,
		})
	}

	// (a) hash binding: the recomputed hash must equal both the provided
	// hash and the one embedded in the QR payload.
	recomputed := HashXML(xmlBytes)
	if recomputed != xmlHash {
		addIssue("xml_hash", "hash does not match serialized XML")
	}
	fields, err := qr.Decode(qrPayload)
	if err != nil {
		addIssue("qr_payload", "QR payload is not decodable")
	} else if embedded, ok := qr.Value(fields, qr.TagXMLHash); !ok {
		addIssue("qr_payload", "QR payload is missing the XML hash field")
	} else if embedded != recomputed {
		addIssue("qr_payload", "QR hash does not match serialized XML")
	}

	// (b) payable must equal the breakdown sum (taxable + tax).
	breakdownSum := decimal.Zero
	for _, entry := range model.VATBreakdown {
		breakdownSum = breakdownSum.Add(entry.TaxableAmount).Add(entry.TaxAmount)
	}
	if !model.Totals.Payable.Sub(breakdownSum).Abs().LessThanOrEqual(decimal.RequireFromString("0.01")) {
		addIssue("totals.payable", "payable does not match VAT breakdown sum")
	}

	// (c) category/rate consistency on every line.
	for _, line := range model.Lines {
		switch line.VATCategory {
		case invoicedomain.VATCategoryStandard:
			if !line.VATRate.Equal(cfg.VATStandardRate) {
				addIssue("lines."+line.ID+".vat_rate", "standard-rated line must use the configured standard rate")
			}
		case invoicedomain.VATCategoryZeroRated, invoicedomain.VATCategoryExempt, invoicedomain.VATCategoryOutOfScope:
			if !line.VATRate.IsZero() {
				addIssue("lines."+line.ID+".vat_rate", "zero-rated, exempt and out-of-scope lines must carry a zero rate")
			}
		default:
			addIssue("lines."+line.ID+".vat_category", "unrecognized VAT category code")
		}
		if line.VATRate.IsNegative() {
			addIssue("lines."+line.ID+".vat_rate", "VAT rate must not be negative")
		}
	}

	// (d) TRN formats, when present.
	if model.Supplier.TRN != "" && !invoicedomain.ValidTRN(model.Supplier.TRN) {
		addIssue("supplier.trn", "supplier TRN must be 15 digits")
	}
	if model.Customer.TRN != "" && !invoicedomain.ValidTRN(model.Customer.TRN) {
		addIssue("customer.trn", "customer TRN must be 15 digits")
	}

	return issues
}
