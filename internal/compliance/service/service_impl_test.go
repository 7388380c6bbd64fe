package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	compliancedomain "github.com/mizanlabs/mizan/internal/compliance/domain"
	invoicedomain "github.com/mizanlabs/mizan/internal/invoice/domain"
	"github.com/mizanlabs/mizan/internal/invoice/qr"
	"github.com/mizanlabs/mizan/internal/taxrate"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newService(t *testing.T) compliancedomain.Service {
	t.Helper()
	rates, err := taxrate.NewHolder(zap.NewNop())
	require.NoError(t, err)
	return NewService(ServiceParam{Log: zap.NewNop(), Rates: rates})
}

func buildRequest() invoicedomain.BuildRequest {
	return invoicedomain.BuildRequest{
		InvoiceNumber: "INV-20240115-000042",
		IssueDate:     time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		CurrencyCode:  "AED",
		Supplier:      invoicedomain.Party{Name: "Al Noor Trading LLC", TRN: "100123456700003", Address: "Dubai"},
		Customer:      invoicedomain.Party{Name: "Falcon Logistics FZE", TRN: "100765432100003", Address: "Sharjah"},
		Lines: []invoicedomain.LineRequest{
			{Description: "Consulting services", Quantity: d("10"), UnitPrice: d("500"), VATCategory: invoicedomain.VATCategoryStandard},
			{Description: "Export freight", Quantity: d("1"), UnitPrice: d("2000"), VATCategory: invoicedomain.VATCategoryZeroRated},
		},
	}
}

func TestBuildDocument_EndToEnd(t *testing.T) {
	svc := newService(t)

	doc, issues, err := svc.BuildDocument(context.Background(), buildRequest())
	require.NoError(t, err)
	require.Empty(t, issues)
	require.NotNil(t, doc)

	assert.True(t, doc.Valid)
	assert.Empty(t, doc.Issues)
	assert.Len(t, doc.XMLHash, 64)
	assert.Equal(t, HashXML(doc.XML), doc.XMLHash)
	assert.Equal(t, "2023-06", doc.RateVersion)

	fields, err := qr.Decode(doc.QRPayload)
	require.NoError(t, err)
	require.Len(t, fields, 6)

	name, _ := qr.Value(fields, qr.TagSellerName)
	assert.Equal(t, "Al Noor Trading LLC", name)
	trn, _ := qr.Value(fields, qr.TagSellerTRN)
	assert.Equal(t, "100123456700003", trn)
	total, _ := qr.Value(fields, qr.TagInvoiceTotal)
	assert.Equal(t, "7250.00", total)
	vat, _ := qr.Value(fields, qr.TagVATTotal)
	assert.Equal(t, "250.00", vat)
	hash, _ := qr.Value(fields, qr.TagXMLHash)
	assert.Equal(t, doc.XMLHash, hash)
}

func TestBuildDocument_Idempotent(t *testing.T) {
	svc := newService(t)
	req := buildRequest()

	first, _, err := svc.BuildDocument(context.Background(), req)
	require.NoError(t, err)
	second, _, err := svc.BuildDocument(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.XML, second.XML, "regeneration must be byte-for-byte idempotent")
	assert.Equal(t, first.XMLHash, second.XMLHash)
	assert.Equal(t, first.QRPayload, second.QRPayload)
}

func TestBuildDocument_ValidationIssuesAbortPipeline(t *testing.T) {
	svc := newService(t)
	req := buildRequest()
	req.Supplier.TRN = "bad"
	req.Lines = nil

	doc, issues, err := svc.BuildDocument(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, doc)
	require.Len(t, issues, 2)
}

func TestBuildDocument_NoRatesForHistoricDate(t *testing.T) {
	svc := newService(t)
	req := buildRequest()
	req.IssueDate = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := svc.BuildDocument(context.Background(), req)
	assert.ErrorIs(t, err, taxrate.ErrNoApplicableRates)
}

func TestHashBinding_MutatedXMLDetected(t *testing.T) {
	svc := newService(t)

	doc, _, err := svc.BuildDocument(context.Background(), buildRequest())
	require.NoError(t, err)
	require.True(t, doc.Valid)

	cfg := taxrate.DefaultConfig()

	// Flip a single byte of the serialized XML: the recomputed hash no
	// longer matches the hash or the QR payload.
	mutated := make([]byte, len(doc.XML))
	copy(mutated, doc.XML)
	mutated[len(mutated)/2] ^= 0x01

	issues := Validate(doc.Model, mutated, doc.XMLHash, doc.QRPayload, cfg)
	require.NotEmpty(t, issues)

	fields := make(map[string]bool)
	for _, issue := range issues {
		fields[issue.Field] = true
	}
	assert.True(t, fields["xml_hash"])
	assert.True(t, fields["qr_payload"])
}

func TestHashXML(t *testing.T) {
	// SHA-256 of the empty input, a fixed reference value.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashXML(nil))

	a := HashXML([]byte("<Invoice/>"))
	b := HashXML([]byte("<Invoice />"))
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
