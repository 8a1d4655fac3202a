// Package metrics defines and registers all custom Prometheus metrics for
// companywatch. It is the single source of truth for metric names, labels,
// and help strings.
//
// Every metric is registered with the default Prometheus registry through
// promauto on package initialisation; the console exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "companywatch"

// ── Remote API metrics ────────────────────────────────────────────────────────

// RemoteRequestsTotal counts calls to the remote API.
// Labels:
//   - endpoint: logical endpoint name (e.g. "login", "me", "generate_pdf")
//   - outcome: "ok", "unauthorized", "rejected" or "network"
var RemoteRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_requests_total",
		Help:      "Total number of remote API calls, by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// RemoteRequestDuration measures remote API round trips.
// Label:
//   - endpoint: logical endpoint name
var RemoteRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_request_duration_seconds",
		Help:      "Duration of remote API calls including body read.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state changes seen by the console.
// Label:
//   - to: "authenticated" or "anonymous"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions.",
	},
	[]string{"to"},
)

// LoginRedirectsTotal counts navigations to the login view.
// Label:
//   - cause: expiry cause, or "logout" for user initiated logouts
var LoginRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_redirects_total",
		Help:      "Total number of redirects to the login view, by cause.",
	},
	[]string{"cause"},
)

// ── Collection metrics ────────────────────────────────────────────────────────

// CollectionMutationsTotal counts subscription and filter mutations.
// Labels:
//   - collection: "subscriptions" or "filters"
//   - result: "ok" or "error"
var CollectionMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collection_mutations_total",
		Help:      "Total number of collection mutations, by collection and result.",
	},
	[]string{"collection", "result"},
)

// MutationQueueDepth tracks pending mutations in each serializer worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MutationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mutation_queue_depth",
		Help:      "Current number of mutations pending in each serializer worker channel.",
	},
	[]string{"worker_id"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsTotal counts submitted reports.
// Label:
//   - delivery: "file", "email" or "error"
var ReportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_total",
		Help:      "Total number of report requests, by delivery path.",
	},
	[]string{"delivery"},
)
