package prometheus

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"ecofood/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	LoginCounter      prometheus.Counter
	RegisterCounter   prometheus.Counter
	AuthErrorsCounter prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Product metrics
	ProductOperationsCounter prometheus.CounterVec
	ProductStockGauge        prometheus.GaugeVec

	// Order workflow metrics
	OrderOperationsCounter prometheus.CounterVec

	initOnce sync.Once
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	initOnce.Do(func() {
		prefix := config.Metrics.Prefix

		HttpRequestsTotal = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		LoginCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_login_attempts_total",
				Help: "Total number of login attempts",
			},
		)

		RegisterCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_register_attempts_total",
				Help: "Total number of registration attempts",
			},
		)

		AuthErrorsCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_errors_total",
				Help: "Total number of authentication errors by reason",
			},
			[]string{"reason"},
		)

		DbOperationDuration = *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		)

		ProductOperationsCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_product_operations_total",
				Help: "Total number of product operations",
			},
			[]string{"operation"},
		)

		ProductStockGauge = *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_product_stock",
				Help: "Current stock level for products",
			},
			[]string{"product_id", "product_name"},
		)

		OrderOperationsCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_order_operations_total",
				Help: "Total number of order workflow operations by outcome",
			},
			[]string{"operation", "outcome"},
		)
	})
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordAuthError increments the auth error counter for the given reason
func RecordAuthError(reason string) {
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordOrderOperation increments the counter for order workflow operations
func RecordOrderOperation(operation string, outcome string) {
	OrderOperationsCounter.WithLabelValues(operation, outcome).Inc()
}

// UpdateProductStock updates the gauge for a product's stock level
func UpdateProductStock(productID uint, productName string, quantity int) {
	ProductStockGauge.WithLabelValues(strconv.FormatUint(uint64(productID), 10), productName).Set(float64(quantity))
}

// GetPrometheusHandler returns an HTTP handler for exposing Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
