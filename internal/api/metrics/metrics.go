// Package metrics defines and registers the custom Prometheus metrics for the
// dashboard's auth subsystem. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// DenialsTotal counts access denials at the guard.
// Label:
//   - reason: denial category (not_authenticated, session_expired,
//     account_inactive, insufficient_role, unknown_resource)
var DenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denials_total",
		Help:      "Total number of access denials, by reason.",
	},
	[]string{"reason"},
)

// SessionRestoresTotal counts attempts to resurrect a durable session at
// process start.
// Label:
//   - result: "restored" or "anonymous"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session restore attempts, by result.",
	},
	[]string{"result"},
)

// SessionActive reports whether a session is currently active (1) or the
// process is anonymous (0).
var SessionActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_active",
		Help:      "Whether an authenticated session is currently active.",
	},
)
