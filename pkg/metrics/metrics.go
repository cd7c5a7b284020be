// Package metrics provides Prometheus instrumentation.
//
// It pre-defines the HTTP metrics every endpoint records plus counters for
// the domain events worth alerting on (orders, logins, OTP outcomes).
//
// Wire it up once in internal/kernel/http.go:
//
//	r.Use(metrics.Middleware())
//	r.HandleFunc("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nexus",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nexus",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// QueueJobsProcessed counts processed queue jobs by status.
	QueueJobsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "queue",
			Name:      "jobs_processed_total",
			Help:      "Total queue jobs processed.",
		},
		[]string{"status"}, // "success" | "failed"
	)

	// QueueJobDuration tracks how long queue jobs take.
	QueueJobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nexus",
			Subsystem: "queue",
			Name:      "job_duration_seconds",
			Help:      "Duration of queue job processing in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"job_type"},
	)

	// LoginsTotal counts login attempts by outcome
	// ("success" | "bad_credentials" | "unverified" | "rate_limited").
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// OTPIssued counts one-time codes issued by purpose.
	OTPIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "auth",
			Name:      "otp_issued_total",
			Help:      "Total one-time codes issued.",
		},
		[]string{"purpose"},
	)

	// OTPVerifications counts verification attempts by result
	// ("ok" | "mismatch" | "no_valid_code" | "attempts_exceeded").
	OTPVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "auth",
			Name:      "otp_verifications_total",
			Help:      "Total one-time code verification attempts by result.",
		},
		[]string{"result"},
	)

	// OrdersCreated counts orders placed.
	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nexus",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Total orders created.",
	})

	// OrdersCancelled counts orders cancelled, by who triggered it.
	OrdersCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "orders",
			Name:      "cancelled_total",
			Help:      "Total orders cancelled.",
		},
		[]string{"by"}, // "customer" | "admin"
	)

	// PaymentsTotal counts payment results applied via webhook.
	PaymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "payments",
			Name:      "events_total",
			Help:      "Total payment webhook events applied.",
		},
		[]string{"result"}, // "paid" | "failed" | "ignored" | "bad_signature"
	)
)

// DefaultRegistry is the Prometheus registry used by the application.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		QueueJobsProcessed,
		QueueJobDuration,
		LoginsTotal,
		OTPIssued,
		OTPVerifications,
		OrdersCreated,
		OrdersCancelled,
		PaymentsTotal,
	)
}

// Register adds a prometheus.Collector to the registry.
func Register(c prometheus.Collector) error {
	return DefaultRegistry.Register(c)
}

// MustRegister panics if registration fails.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// responseRecorder wraps http.ResponseWriter to capture the status code.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records duration, total, and in-flight metrics per request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path // raw path; normalize in high-cardinality APIs

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rr.status)

			RequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler exposes the Prometheus metrics page. Mount on GET /metrics.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// RecordQueueJob records a queue job result.
func RecordQueueJob(jobType, status string, start time.Time) {
	QueueJobsProcessed.WithLabelValues(status).Inc()
	QueueJobDuration.WithLabelValues(jobType).Observe(time.Since(start).Seconds())
}
