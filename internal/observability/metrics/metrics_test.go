package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWith(prometheus.NewRegistry())

	m.ObserveHTTPRequest("POST", "/v1/invoices", "200", 20*time.Millisecond)
	m.ObserveHTTPRequest("POST", "/v1/invoices", "200", 5*time.Millisecond)
	m.RecordTaxCalculation("cit", "SMALL_BUSINESS_RELIEF")
	m.RecordDocument(true)
	m.RecordDocument(false)
	m.RecordInvoiceFinalized("FINAL", "AED", 7250)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/v1/invoices", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.taxCalculations.WithLabelValues("cit", "SMALL_BUSINESS_RELIEF")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentsBuilt.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentsBuilt.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesFinalized.WithLabelValues("FINAL")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "", "500", time.Second)
		m.RecordTaxCalculation("", "")
		m.RecordDocument(true)
		m.RecordInvoiceFinalized("", "", 0)
	})
}
