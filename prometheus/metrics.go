package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login attempts by outcome ("success" or a failure reason)
	LoginCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhub_login_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	// Tenant registrations
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskhub_tenant_register_total",
			Help: "Total number of tenant registrations",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhub_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Access gate denials
	AccessDeniedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhub_access_denied_total",
			Help: "Total number of requests denied by the access gate",
		},
		[]string{"reason"},
	)

	// Creations rejected by the quota check
	QuotaRejectedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhub_quota_rejected_total",
			Help: "Total number of creations rejected because a tenant limit was reached",
		},
		[]string{"resource"}, // resource is "users" or "projects"
	)

	// Audit writes that failed and were dropped
	AuditFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhub_audit_failures_total",
			Help: "Total number of audit entries that could not be written",
		},
		[]string{"action"},
	)

	// Rejected session tokens by error type
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhub_auth_errors_total",
			Help: "Total number of rejected authentication attempts by error type",
		},
		[]string{"error_type"},
	)

	// Resource operation counter
	ResourceOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhub_resource_operations_total",
			Help: "Total number of successful resource mutations",
		},
		[]string{"resource", "operation"}, // operation can be "create", "update", "delete"
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskhub_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskhub_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "taskhub_info",
			Help: "Information about the taskhub service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AccessDeniedCounter)
	prometheus.MustRegister(QuotaRejectedCounter)
	prometheus.MustRegister(AuditFailureCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(ResourceOperationCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation starts a timer; call the returned func when the operation ends
func TrackDBOperation(operation string) func() {
	startTime := time.Now()
	return func() {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(startTime).Seconds())
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordLogin records a login attempt by outcome
func RecordLogin(result string) {
	LoginCounter.With(prometheus.Labels{"result": result}).Inc()
}

// RecordRegistration records a completed tenant registration
func RecordRegistration() {
	RegisterCounter.Inc()
}

// RecordAccessDenied records an access gate denial by reason
func RecordAccessDenied(reason string) {
	AccessDeniedCounter.With(prometheus.Labels{"reason": reason}).Inc()
}

// RecordQuotaRejected records a creation blocked by a tenant limit
func RecordQuotaRejected(resource string) {
	QuotaRejectedCounter.With(prometheus.Labels{"resource": resource}).Inc()
}

// RecordAuditFailure records a dropped audit entry
func RecordAuditFailure(action string) {
	AuditFailureCounter.With(prometheus.Labels{"action": action}).Inc()
}

// RecordAuthError records a rejected session token by error type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"error_type": errorType}).Inc()
}

// RecordResourceOperation records a successful mutation
func RecordResourceOperation(resource, operation string) {
	ResourceOperationCounter.With(prometheus.Labels{
		"resource":  resource,
		"operation": operation,
	}).Inc()
}
