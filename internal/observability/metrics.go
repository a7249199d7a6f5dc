package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	latencySeconds        *prometheus.HistogramVec
	errorsTotal           *prometheus.CounterVec
	stageSubmissionsTotal *prometheus.CounterVec
	attachmentBytesTotal  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the orders API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orders_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		stageSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_stage_submissions_total",
			Help: "Workflow stage submissions by stage and outcome.",
		}, []string{"stage", "outcome"})

		attachmentBytesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_attachment_bytes_total",
			Help: "Attachment bytes written per workflow stage.",
		}, []string{"stage"})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal, stageSubmissionsTotal, attachmentBytesTotal)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// StageSubmissions exposes the counter for workflow stage submissions.
func StageSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return stageSubmissionsTotal
}

// AttachmentBytes exposes the counter for attachment bytes written.
func AttachmentBytes() *prometheus.CounterVec {
	RegisterMetrics()
	return attachmentBytesTotal
}

// MetricsHandler exposes the Prometheus scrape endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
