// Package metrics exposes the Prometheus instruments for the tax engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application-level instruments.
type Metrics struct {
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	taxCalculations   *prometheus.CounterVec
	documentsBuilt    *prometheus.CounterVec
	invoicesFinalized *prometheus.CounterVec
	invoiceAmount     *prometheus.HistogramVec
}

// New registers the instruments on the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the instruments on reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mizan_http_requests_total",
		Help: "Counts HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mizan_http_request_duration_seconds",
		Help:    "HTTP request latency per method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	taxCalculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mizan_tax_calculations_total",
		Help: "Tax calculations by kind and applied rule.",
	}, []string{"kind", "rule"})

	documentsBuilt := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mizan_compliance_documents_total",
		Help: "Compliance documents built, by validation outcome.",
	}, []string{"valid"})

	invoicesFinalized := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mizan_invoices_finalized_total",
		Help: "Invoices finalized or amended, by status.",
	}, []string{"status"})

	invoiceAmount := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mizan_invoice_amount",
		Help:    "Payable amount distribution per currency.",
		Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
	}, []string{"currency"})

	reg.MustRegister(
		httpRequests,
		httpDuration,
		taxCalculations,
		documentsBuilt,
		invoicesFinalized,
		invoiceAmount,
	)

	return &Metrics{
		httpRequests:      httpRequests,
		httpDuration:      httpDuration,
		taxCalculations:   taxCalculations,
		documentsBuilt:    documentsBuilt,
		invoicesFinalized: invoicesFinalized,
		invoiceAmount:     invoiceAmount,
	}
}

// ObserveHTTPRequest records one request and its latency.
func (m *Metrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, sanitizeLabel(route), status).Inc()
	m.httpDuration.WithLabelValues(method, sanitizeLabel(route)).Observe(duration.Seconds())
}

// RecordTaxCalculation increments the calculation counter.
func (m *Metrics) RecordTaxCalculation(kind, rule string) {
	if m == nil {
		return
	}
	m.taxCalculations.WithLabelValues(sanitizeLabel(kind), sanitizeLabel(rule)).Inc()
}

// RecordDocument counts a built compliance document by outcome.
func (m *Metrics) RecordDocument(valid bool) {
	if m == nil {
		return
	}
	label := "false"
	if valid {
		label = "true"
	}
	m.documentsBuilt.WithLabelValues(label).Inc()
}

// RecordInvoiceFinalized counts a finalized invoice and observes its amount.
func (m *Metrics) RecordInvoiceFinalized(status, currency string, amount float64) {
	if m == nil {
		return
	}
	m.invoicesFinalized.WithLabelValues(sanitizeLabel(status)).Inc()
	m.invoiceAmount.WithLabelValues(sanitizeLabel(currency)).Observe(amount)
}

func sanitizeLabel(val string) string {
	if val == "" {
		return "unknown"
	}
	return val
}
