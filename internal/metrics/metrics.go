package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels
const (
	OutcomeSuccess          = "success"
	OutcomeNotFound         = "not_found"
	OutcomeExpired          = "expired"
	OutcomeExhausted        = "exhausted"
	OutcomeCapReached       = "cap_reached"
	OutcomeDuplicate        = "duplicate"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeDeclined         = "declined"
	OutcomeAmountMismatch   = "amount_mismatch"
	OutcomeReplay           = "replay"
	OutcomeCancelled        = "cancelled"
	OutcomeError            = "error"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Business Metrics
	VoucherCollectTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voucher_collect_total",
			Help: "Voucher collect attempts by outcome",
		},
		[]string{"outcome"},
	)

	OrdersPlacedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Orders placed by payment method code",
		},
		[]string{"payment_method"},
	)

	PaymentCallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "Gateway return and IPN callbacks by outcome",
		},
		[]string{"outcome"},
	)

	OrdersExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_expired_total",
			Help: "Unpaid online orders cancelled by the expiry job",
		},
	)
)

// RecordHTTPRequest records one served request. route is the matched
// pattern, not the raw path.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordVoucherCollect(outcome string) {
	VoucherCollectTotal.WithLabelValues(outcome).Inc()
}

func RecordOrderPlaced(paymentMethod string) {
	OrdersPlacedTotal.WithLabelValues(paymentMethod).Inc()
}

func RecordPaymentCallback(outcome string) {
	PaymentCallbacksTotal.WithLabelValues(outcome).Inc()
}

func RecordOrdersExpired(n int64) {
	if n > 0 {
		OrdersExpiredTotal.Add(float64(n))
	}
}
