// Package ubl renders a validated invoice model as canonical UBL 2.1
// Invoice XML. Identical models always produce byte-identical output;
// that determinism is what makes the integrity hash and QR meaningful.
package ubl

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	invoicedomain "github.com/mizanlabs/mizan/internal/invoice/domain"
)

const (
	nsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	profileID       = "reporting:1.0"
	invoiceTypeCode = "388" // tax invoice
	countryCode     = "AE"
	taxSchemeVAT    = "VAT"
	unitCodeEach    = "EA"

	// Fixed declaration; xml.Header is avoided so the byte output never
	// depends on stdlib formatting changes.
	xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
)

var ErrUnencodableText = errors.New("unencodable_text")

// Serialize renders the model as canonical UTF-8 XML bytes. Timestamps
// come from the model only; the serializer never consults the clock.
func Serialize(model *invoicedomain.InvoiceModel) ([]byte, error) {
	if err := checkEncodable(model); err != nil {
		return nil, err
	}

	doc := xmlInvoice{
		Xmlns:            nsInvoice,
		Cac:              nsCac,
		Cbc:              nsCbc,
		ProfileID:        profileID,
		ID:               model.InvoiceNumber,
		IssueDate:        model.IssueDate.Format("2006-01-02"),
		InvoiceTypeCode:  invoiceTypeCode,
		DocumentCurrency: model.CurrencyCode,
		SupplierParty:    xmlSupplierParty{Party: party(model.Supplier)},
		CustomerParty:    xmlCustomerParty{Party: party(model.Customer)},
	}
	if model.DueDate != nil {
		doc.DueDate = model.DueDate.Format("2006-01-02")
	}

	currency := model.CurrencyCode
	doc.TaxTotal = xmlTaxTotal{
		TaxAmount:   amount(model.TotalVAT(), currency),
		TaxSubtotal: make([]xmlTaxSubtotal, 0, len(model.VATBreakdown)),
	}
	for _, entry := range model.VATBreakdown {
		doc.TaxTotal.TaxSubtotal = append(doc.TaxTotal.TaxSubtotal, xmlTaxSubtotal{
			TaxableAmount: amount(entry.TaxableAmount, currency),
			TaxAmount:     amount(entry.TaxAmount, currency),
			TaxCategory:   taxCategory(entry.Category, entry.Rate),
		})
	}

	doc.MonetaryTotal = xmlMonetaryTotal{
		LineExtensionAmount: amount(model.Totals.LineExtension, currency),
		TaxExclusiveAmount:  amount(model.Totals.TaxExclusive, currency),
		TaxInclusiveAmount:  amount(model.Totals.TaxInclusive, currency),
		PayableAmount:       amount(model.Totals.Payable, currency),
	}

	doc.InvoiceLines = make([]xmlInvoiceLine, 0, len(model.Lines))
	for _, line := range model.Lines {
		doc.InvoiceLines = append(doc.InvoiceLines, xmlInvoiceLine{
			ID:                  line.ID,
			InvoicedQuantity:    xmlQuantity{Value: line.Quantity.String(), UnitCode: unitCodeEach},
			LineExtensionAmount: amount(line.LineTotal, currency),
			Item: xmlItem{
				Name:                  line.Description,
				ClassifiedTaxCategory: taxCategory(line.VATCategory, line.VATRate),
			},
			Price: xmlPrice{PriceAmount: amount(line.UnitPrice, currency)},
		})
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(xmlDeclaration) + len(body))
	buf.WriteString(xmlDeclaration)
	buf.Write(body)
	return buf.Bytes(), nil
}

func party(p invoicedomain.Party) xmlParty {
	out := xmlParty{
		PartyName:        p.Name,
		PostalAddress:    xmlPostalAddress{StreetName: p.Address, Country: xmlCountry{IdentificationCode: countryCode}},
		RegistrationName: p.Name,
	}
	if p.TRN != "" {
		out.PartyTaxScheme = &xmlPartyTaxScheme{
			CompanyID: p.TRN,
			TaxScheme: xmlTaxScheme{ID: taxSchemeVAT},
		}
	}
	return out
}

func amount(v decimal.Decimal, currency string) xmlAmount {
	return xmlAmount{Value: v.StringFixed(2), CurrencyID: currency}
}

func taxCategory(category invoicedomain.VATCategory, rate decimal.Decimal) xmlTaxCategory {
	return xmlTaxCategory{
		ID:        string(category),
		Percent:   rate.Mul(decimal.NewFromInt(100)).StringFixed(2),
		TaxScheme: xmlTaxScheme{ID: taxSchemeVAT},
	}
}

func checkEncodable(model *invoicedomain.InvoiceModel) error {
	texts := []struct {
		field string
		value string
	}{
		{"invoice_number", model.InvoiceNumber},
		{"supplier.name", model.Supplier.Name},
		{"supplier.address", model.Supplier.Address},
		{"customer.name", model.Customer.Name},
		{"customer.address", model.Customer.Address},
	}
	for _, line := range model.Lines {
		texts = append(texts, struct {
			field string
			value string
		}{"lines." + line.ID + ".description", line.Description})
	}

	for _, t := range texts {
		if !utf8.ValidString(t.value) {
			return fmt.Errorf("%s: %w", t.field, ErrUnencodableText)
		}
		for _, r := range t.value {
			if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
				return fmt.Errorf("%s: %w", t.field, ErrUnencodableText)
			}
		}
	}
	return nil
}
