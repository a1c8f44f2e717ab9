// Package observability exposes Prometheus metrics for the marketplace
// core: payment and deposit outcomes, transferred volume, and HTTP
// request counts. Scraped via the /metrics endpoint when enabled.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Billing Metrics ────────────────────────────────────────────────────────

// PaymentsTotal tracks job payments by outcome.
var PaymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gighall",
	Subsystem: "billing",
	Name:      "payments_total",
	Help:      "Total job payment attempts by outcome.",
}, []string{"outcome"})

// PaymentVolumeCents tracks the total amount moved by successful payments.
var PaymentVolumeCents = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gighall",
	Subsystem: "billing",
	Name:      "payment_volume_cents_total",
	Help:      "Total cents transferred from clients to contractors.",
})

// DepositsTotal tracks deposits by outcome.
var DepositsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gighall",
	Subsystem: "billing",
	Name:      "deposits_total",
	Help:      "Total deposit attempts by outcome.",
}, []string{"outcome"})

// DepositVolumeCents tracks the total amount deposited.
var DepositVolumeCents = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gighall",
	Subsystem: "billing",
	Name:      "deposit_volume_cents_total",
	Help:      "Total cents deposited by clients.",
})

// PaymentDuration tracks end-to-end payment transaction latency.
var PaymentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "gighall",
	Subsystem: "billing",
	Name:      "payment_duration_seconds",
	Help:      "Wall time of the payment transaction, begin to commit.",
	Buckets:   prometheus.DefBuckets,
})

// Outcome labels for the counters above.
const (
	OutcomeOK                = "ok"
	OutcomeNotFound          = "not_found"
	OutcomeAccessDenied      = "access_denied"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomeLimitExceeded     = "limit_exceeded"
	OutcomeTxFailure         = "tx_failure"
)

// ─── HTTP Metrics ───────────────────────────────────────────────────────────

// HTTPRequests tracks requests by route pattern and status class.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gighall",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by route and status code.",
}, []string{"route", "code"})
