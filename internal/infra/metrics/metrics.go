package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Spok95/storekeeper/internal/infra/db"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storekeeper_operations_total",
			Help: "Total number of store operations by result.",
		},
		[]string{"operation", "result"},
	)
	operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storekeeper_operation_duration_seconds",
			Help:    "Histogram of store operation durations.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)
	searchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storekeeper_search_results",
			Help:    "Number of products returned by fuzzy search.",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storekeeper_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(operationsTotal)
	prometheus.MustRegister(operationDuration)
	prometheus.MustRegister(searchResults)
	prometheus.MustRegister(httpRequestsTotal)
}

// ObserveOperation записывает итог и длительность операции хранилища.
func ObserveOperation(operation string, started time.Time, err error) {
	operationsTotal.WithLabelValues(operation, classifyResult(err)).Inc()
	operationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func ObserveSearch(results int) {
	searchResults.Observe(float64(results))
}

func RecordRequest(method, route string, statusCode int) {
	httpRequestsTotal.WithLabelValues(method, route, classifyStatus(statusCode)).Inc()
}

func classifyResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, db.ErrNotFound):
		return "not_found"
	case errors.Is(err, db.ErrConstraint):
		return "constraint"
	case errors.Is(err, db.ErrUnavailable):
		return "unavailable"
	}
	return "error"
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// Handler отдаёт метрики Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
