// Package metrics provides Prometheus metrics for defineview.
package metrics

import (
	"net/http"
	"time"

	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Parse outcomes recorded by ObserveParse.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds all Prometheus metrics for defineview on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// Extraction metrics
	DocumentsParsedTotal *prometheus.CounterVec
	ParseDuration        prometheus.Histogram

	// Resolution metrics
	MaterializationsTotal *prometheus.CounterVec
	RowsMaterializedTotal *prometheus.CounterVec
	DiagnosticsTotal      *prometheus.CounterVec

	// Session metrics
	SessionsLoaded prometheus.Gauge
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	m := &Metrics{registry: reg}

	m.DocumentsParsedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "defineview_documents_parsed_total",
			Help: "Total number of Define-XML documents parsed",
		},
		[]string{"status"},
	)

	m.ParseDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "defineview_parse_duration_seconds",
			Help:    "Duration of Define-XML extraction in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	m.MaterializationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "defineview_materializations_total",
			Help: "Total number of value-level metadata tables materialized",
		},
		[]string{"dataset"},
	)

	m.RowsMaterializedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "defineview_rows_materialized_total",
			Help: "Total number of materialized rows by kind",
		},
		[]string{"kind"},
	)

	m.DiagnosticsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "defineview_diagnostics_total",
			Help: "Total number of resolution diagnostics by kind",
		},
		[]string{"kind"},
	)

	m.SessionsLoaded = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "defineview_sessions_loaded",
			Help: "Number of Define-XML sessions currently loaded",
		},
	)

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveParse records one extraction attempt.
func (m *Metrics) ObserveParse(d time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	m.DocumentsParsedTotal.WithLabelValues(status).Inc()
	m.ParseDuration.Observe(d.Seconds())
}

// ObserveResult records one materialized table and its diagnostics.
func (m *Metrics) ObserveResult(res *vlm.Result) {
	if res == nil {
		return
	}
	m.MaterializationsTotal.WithLabelValues(res.Dataset).Inc()

	var base, dup int
	for _, row := range res.Rows {
		if row.IsDuplicate() {
			dup++
		} else {
			base++
		}
	}
	m.RowsMaterializedTotal.WithLabelValues("base").Add(float64(base))
	m.RowsMaterializedTotal.WithLabelValues("duplicate").Add(float64(dup))

	for kind, n := range res.Diagnostics.Counts() {
		m.DiagnosticsTotal.WithLabelValues(string(kind)).Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteToTextfile writes the current values in the node exporter textfile
// format.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
