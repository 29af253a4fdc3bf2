package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpDuration      *prometheus.HistogramVec
	mattersMoved      *prometheus.CounterVec
	invoicesFinalized prometheus.Counter
	invoiceTotal      prometheus.Counter
	intakeOutcomes    *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on registerer and serves gatherer.
func NewWithRegistry(registerer prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		gatherer: gatherer,
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "legalos_http_request_duration_seconds",
				Help:    "HTTP request latency by route and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		mattersMoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legalos_matters_moved_total",
				Help: "Matters moved to a board stage.",
			},
			[]string{"stage"},
		),
		invoicesFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "legalos_invoices_finalized_total",
			Help: "Invoices issued from the finance terminal.",
		}),
		invoiceTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "legalos_invoiced_amount_total",
			Help: "Sum of GST-inclusive invoice totals issued, in kina.",
		}),
		intakeOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legalos_intake_sessions_total",
				Help: "Intake sessions by source and resulting state.",
			},
			[]string{"source", "state"},
		),
	}
	registerer.MustRegister(m.httpDuration, m.mattersMoved, m.invoicesFinalized, m.invoiceTotal, m.intakeOutcomes)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) MatterMoved(stage string) {
	if m == nil {
		return
	}
	m.mattersMoved.WithLabelValues(stage).Inc()
}

func (m *Metrics) InvoiceFinalized(total float64) {
	if m == nil {
		return
	}
	m.invoicesFinalized.Inc()
	m.invoiceTotal.Add(total)
}

func (m *Metrics) IntakeOutcome(source, state string) {
	if m == nil {
		return
	}
	m.intakeOutcomes.WithLabelValues(source, state).Inc()
}
