// Package metrics exposes Prometheus counters for the registration form.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"regform/src/core/ports"
)

var _ ports.FormMetrics = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	Validations     *prometheus.CounterVec
	Submissions     *prometheus.CounterVec
	DirectoryLoads  *prometheus.CounterVec
	DirectoryLength prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regform_validations_total",
			Help: "Validation passes by result",
		}, []string{"result"}),
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regform_submissions_total",
			Help: "Submit attempts by outcome",
		}, []string{"outcome"}),
		DirectoryLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regform_country_directory_loads_total",
			Help: "Country directory loads by outcome",
		}, []string{"outcome"}),
		DirectoryLength: factory.NewGauge(prometheus.GaugeOpts{
			Name: "regform_country_directory_size",
			Help: "Number of countries in the loaded directory",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regform_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "regform_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveValidation counts a validation pass.
func (m *Metrics) ObserveValidation(valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.Validations.WithLabelValues(result).Inc()
}

// ObserveSubmission counts a submit attempt.
func (m *Metrics) ObserveSubmission(outcome string) {
	m.Submissions.WithLabelValues(outcome).Inc()
}

// ObserveDirectoryLoad counts a load and, on success, records its size.
func (m *Metrics) ObserveDirectoryLoad(err error, size int) {
	if err != nil {
		m.DirectoryLoads.WithLabelValues("error").Inc()
		return
	}
	m.DirectoryLoads.WithLabelValues("ok").Inc()
	m.DirectoryLength.Set(float64(size))
}

// ObserveRequest records a finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
