// Package metrics defines and registers all custom Prometheus metrics for the
// customer portal API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Request lifecycle metrics ────────────────────────────────────────────────

// RequestsSubmittedTotal counts Submit outcomes.
// Label:
//   - result: "created", "replayed" or the error kind (e.g. "invalid_input")
var RequestsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_submitted_total",
		Help:      "Total number of request submissions, by result.",
	},
	[]string{"result"},
)

// RequestsAnsweredTotal counts Answer outcomes.
// Label:
//   - result: "answered" or the error kind (e.g. "invalid_state")
var RequestsAnsweredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_answered_total",
		Help:      "Total number of answer attempts, by result.",
	},
	[]string{"result"},
)

// ── Identity metrics ─────────────────────────────────────────────────────────

// IdentityEventsTotal counts identity transitions published by the auth service.
// Label:
//   - type: "signed_up", "signed_in", "signed_out", "password_recovery", "password_updated"
var IdentityEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_events_total",
		Help:      "Total number of identity state changes, by type.",
	},
	[]string{"type"},
)

// ── Notification metrics ─────────────────────────────────────────────────────

// NotificationsTotal counts notification outcomes.
// Labels:
//   - type: notification type (e.g. "request_answered")
//   - result: "delivered", "failed" or "dropped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications, by type and result.",
	},
	[]string{"type", "result"},
)

// NotificationQueueDepth tracks the number of notifications waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDeliveryDuration measures delivery time including retries.
var NotificationDeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_delivery_duration_seconds",
		Help:      "Duration of notification delivery from dequeue to final attempt.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)

// ── HTTP guard metrics ───────────────────────────────────────────────────────

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter, by route.",
	},
	[]string{"route"},
)

// InFlightRejectedTotal counts requests rejected because an identical one was
// still being processed.
var InFlightRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inflight_rejected_total",
		Help:      "Total number of requests rejected while an identical request was in flight.",
	},
	[]string{"route"},
)
