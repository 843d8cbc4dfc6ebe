// Package metrics exposes the dispatch Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"laundry/internal/core/domain/model/order"
)

const namespace = "laundry"

// Recorder owns every collector of the service. It satisfies the metrics interfaces of the
// command handlers, the pricing oracle, the reconciliation job and the HTTP middleware.
type Recorder struct {
	ordersCreated       *prometheus.CounterVec
	dispatchFailures    *prometheus.CounterVec
	statusChanges       *prometheus.CounterVec
	notificationErrors  *prometheus.CounterVec
	oracleAttempts      *prometheus.CounterVec
	oracleDuration      prometheus.Histogram
	loadCorrections     prometheus.Counter
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Total number of dispatched orders",
		}, []string{"express"}),
		dispatchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_failures_total",
			Help:      "Total number of failed order operations by reason",
		}, []string{"reason"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Total number of applied order status changes",
		}, []string{"from", "to"}),
		notificationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Total number of notifications that could not be published",
		}, []string{"event"}),
		oracleAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_attempts_total",
			Help:      "Total number of pricing oracle calls by outcome",
		}, []string{"outcome"}),
		oracleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_request_duration_seconds",
			Help:      "Duration of pricing oracle calls",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16},
		}),
		loadCorrections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partner_load_corrections_total",
			Help:      "Total number of partner load values repaired by reconciliation",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	reg.MustRegister(
		r.ordersCreated,
		r.dispatchFailures,
		r.statusChanges,
		r.notificationErrors,
		r.oracleAttempts,
		r.oracleDuration,
		r.loadCorrections,
		r.httpRequestsTotal,
		r.httpRequestDuration,
	)
	return r
}

func (r *Recorder) OrderCreated(isExpress bool) {
	r.ordersCreated.WithLabelValues(strconv.FormatBool(isExpress)).Inc()
}

func (r *Recorder) DispatchFailed(reason string) {
	r.dispatchFailures.WithLabelValues(reason).Inc()
}

func (r *Recorder) StatusChanged(from, to order.Status) {
	r.statusChanges.WithLabelValues(from.String(), to.String()).Inc()
}

func (r *Recorder) NotificationFailed(event string) {
	r.notificationErrors.WithLabelValues(event).Inc()
}

// OracleAttempt records one call to the pricing model.
func (r *Recorder) OracleAttempt(outcome string, took time.Duration) {
	r.oracleAttempts.WithLabelValues(outcome).Inc()
	r.oracleDuration.Observe(took.Seconds())
}

func (r *Recorder) LoadCorrected(n int) {
	r.loadCorrections.Add(float64(n))
}

// HTTPRequest records a served request. path must be the route pattern, not the raw URL.
func (r *Recorder) HTTPRequest(method, path string, status int, took time.Duration) {
	code := strconv.Itoa(status)
	r.httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	r.httpRequestDuration.WithLabelValues(method, path, code).Observe(took.Seconds())
}
