// Package metrics defines the custom Prometheus metrics of the services API.
// HTTP request metrics come from the echoprometheus middleware; the counters
// here track domain outcomes that status codes alone do not reveal.
//
// All metrics are registered with the default registry through promauto, so
// they are exposed on /metrics as soon as the package is imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "monochrome"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - action: "register" or "login"
//   - result: "success", "invalid_credentials", "conflict", "invalid", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register/login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsCreatedTotal counts bookings accepted by the API.
// Labels:
//   - owner: "user" when placed with a valid bearer token, else "anonymous"
//   - replay: "true" when answered from the idempotency store
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created, by owner kind and replay.",
	},
	[]string{"owner", "replay"},
)

// BookingStatusChangesTotal counts admin status writes.
// Label:
//   - status: the status written
var BookingStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_status_changes_total",
		Help:      "Total number of booking status updates, by new status.",
	},
	[]string{"status"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// ServiceMutationsTotal counts catalog writes.
// Label:
//   - op: "create", "update" or "delete"
var ServiceMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_mutations_total",
		Help:      "Total number of catalog create/update/delete operations.",
	},
	[]string{"op"},
)
