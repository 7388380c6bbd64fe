package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	compliancedomain "github.com/mizanlabs/mizan/internal/compliance/domain"
	compliancerepo "github.com/mizanlabs/mizan/internal/compliance/repository"
	complianceservice "github.com/mizanlabs/mizan/internal/compliance/service"
	"github.com/mizanlabs/mizan/internal/config"
	invoicedomain "github.com/mizanlabs/mizan/internal/invoice/domain"
	invoicerepo "github.com/mizanlabs/mizan/internal/invoice/repository"
	invoiceservice "github.com/mizanlabs/mizan/internal/invoice/service"
	obsmetrics "github.com/mizanlabs/mizan/internal/observability/metrics"
	"github.com/mizanlabs/mizan/internal/providers/pdf"
	taxdomain "github.com/mizanlabs/mizan/internal/tax/domain"
	taxrepo "github.com/mizanlabs/mizan/internal/tax/repository"
	taxservice "github.com/mizanlabs/mizan/internal/tax/service"
	"github.com/mizanlabs/mizan/internal/taxrate"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&invoicedomain.InvoiceRecord{},
		&invoicedomain.InvoiceLineRecord{},
		&compliancedomain.DocumentRecord{},
		&taxdomain.TaxFiling{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	rates, err := taxrate.NewHolder(zap.NewNop())
	require.NoError(t, err)

	log := zap.NewNop()
	metrics := obsmetrics.NewWith(prometheus.NewRegistry())

	taxSvc := taxservice.NewService(taxservice.ServiceParam{
		Log:        log,
		Rates:      rates,
		Repository: taxrepo.NewRepository(db),
		GenID:      node,
	})
	complianceSvc := complianceservice.NewService(complianceservice.ServiceParam{Log: log, Rates: rates})
	documents := compliancerepo.NewRepository(db)
	invoiceSvc := invoiceservice.NewService(invoiceservice.ServiceParam{
		Log:        log,
		DB:         db,
		Repository: invoicerepo.NewRepository(db),
		Documents:  documents,
		Compliance: complianceSvc,
		GenID:      node,
	})

	s := NewServer(ServerParams{
		Gin:        NewEngine(log, metrics),
		Cfg:        config.Config{AppName: "mizan", Environment: "test"},
		DB:         db,
		GenID:      node,
		TaxSvc:     taxSvc,
		InvoiceSvc: invoiceSvc,
		Documents:  documents,
		Rates:      rates,
		PDF:        pdf.New(),
		Metrics:    metrics,
	})
	s.RegisterRoutes()
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func invoicePayload() map[string]any {
	return map[string]any{
		"invoice_number": "INV-20240115-000042",
		"issue_date":     "2024-01-15T00:00:00Z",
		"currency_code":  "AED",
		"supplier":       map[string]any{"name": "Al Noor Trading LLC", "trn": "100123456700003", "address": "Dubai"},
		"customer":       map[string]any{"name": "Falcon Logistics FZE", "trn": "100765432100003", "address": "Sharjah"},
		"lines": []map[string]any{
			{"description": "Consulting services", "quantity": "10", "unit_price": "500", "vat_category": "S"},
			{"description": "Export freight", "quantity": "1", "unit_price": "2000", "vat_category": "Z"},
		},
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCalculateCIT(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/v1/tax/cit", map[string]any{
		"taxable_income":    "800000",
		"is_small_business": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data taxdomain.CITResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, taxdomain.RuleSmallBusinessRelief, resp.Data.RuleApplied)
	assert.Equal(t, "38250.00", resp.Data.CITAmount.StringFixed(2))
}

func TestCalculateCIT_NegativeIncome(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/v1/tax/cit", map[string]any{
		"taxable_income": "-1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestCalculateVAT_RecordsFiling(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/v1/tax/vat", map[string]any{
		"taxable_sales":     "100000",
		"taxable_purchases": "40000",
		"period_start":      "2024-01-01T00:00:00Z",
		"period_end":        "2024-03-31T00:00:00Z",
		"record":            true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data taxdomain.VATResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "3000.00", resp.Data.NetVATDue.StringFixed(2))

	list := doJSON(t, s, http.MethodGet, "/v1/tax/filings?kind=vat", nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "VAT")
}

func TestListTaxRates(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/v1/tax/rates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2023-06")
}

func TestFinalizeInvoiceEndToEnd(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/v1/invoices", invoicePayload())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data invoicedomain.FinalizeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Invoice)
	assert.Len(t, resp.Data.XMLHash, 64)
	assert.NotEmpty(t, resp.Data.QRPayload)

	id := resp.Data.Invoice.ID.String()

	get := doJSON(t, s, http.MethodGet, "/v1/invoices/"+id, nil)
	assert.Equal(t, http.StatusOK, get.Code)

	doc := doJSON(t, s, http.MethodGet, "/v1/invoices/"+id+"/document", nil)
	assert.Equal(t, http.StatusOK, doc.Code)
	assert.Contains(t, doc.Body.String(), resp.Data.XMLHash)

	xml := doJSON(t, s, http.MethodGet, "/v1/invoices/"+id+"/document/xml", nil)
	assert.Equal(t, http.StatusOK, xml.Code)
	assert.Equal(t, resp.Data.XMLHash, xml.Header().Get("X-Document-Hash"))
	assert.Contains(t, xml.Body.String(), "<Invoice")

	pdfResp := doJSON(t, s, http.MethodGet, "/v1/invoices/"+id+"/pdf", nil)
	assert.Equal(t, http.StatusOK, pdfResp.Code)
	assert.Equal(t, "application/pdf", pdfResp.Header().Get("Content-Type"))
}

func TestFinalizeInvoice_ValidationIssues(t *testing.T) {
	s := newTestServer(t)

	payload := invoicePayload()
	payload["supplier"] = map[string]any{"name": "Al Noor Trading LLC", "trn": "bad"}

	w := doJSON(t, s, http.MethodPost, "/v1/invoices", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "supplier.trn")
}

func TestAmendInvoice(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/v1/invoices", invoicePayload())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data invoicedomain.FinalizeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	id := resp.Data.Invoice.ID.String()

	payload := invoicePayload()
	payload["lines"] = []map[string]any{
		{"description": "Consulting services", "quantity": "10", "unit_price": "500", "vat_category": "S"},
	}

	amend := doJSON(t, s, http.MethodPost, "/v1/invoices/"+id+"/amend", payload)
	require.Equal(t, http.StatusOK, amend.Code)

	var amended struct {
		Data invoicedomain.FinalizeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(amend.Body.Bytes(), &amended))
	require.NotNil(t, amended.Data.AmendsDocumentID)
	assert.Equal(t, resp.Data.DocumentID, *amended.Data.AmendsDocumentID)
}

func TestGetInvoice_NotFound(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/v1/invoices/12345", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
