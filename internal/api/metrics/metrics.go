// Package metrics defines and registers all custom Prometheus metrics for
// the CivicFix API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry via promauto at
// package init; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "civicfix"

// ── Evidence verification metrics ─────────────────────────────────────────────

// VerificationsTotal counts photo-evidence verdicts.
// Labels:
//   - verdict: "accepted", "accepted_review", or "rejected"
//   - reason: rejection reason code (e.g. "location_mismatch"), "" for accepts
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Total number of photo evidence verifications, by verdict and rejection reason.",
	},
	[]string{"verdict", "reason"},
)

// ── Geocoding metrics ─────────────────────────────────────────────────────────

// GeocodeLookupsTotal counts reverse-geocoding lookups.
// Label:
//   - result: "ok", "cache_hit", "no_details", or "pending" (any degraded outcome)
var GeocodeLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_lookups_total",
		Help:      "Total number of reverse geocoding lookups, by result.",
	},
	[]string{"result"},
)

// GeocodeRequestDuration measures a single outgoing geocode lookup,
// including the time spent waiting for a rate-limit slot.
var GeocodeRequestDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "geocode_request_duration_seconds",
		Help:      "Duration of reverse geocoding lookups from slot wait to response.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// ── Issue metrics ─────────────────────────────────────────────────────────────

// IssuesCreatedTotal counts newly created issues.
// Labels:
//   - status: the initial issue status (usually "Open")
//   - needs_review: "true" when the report was flagged for manual review
var IssuesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issues_created_total",
		Help:      "Total number of issues created, by initial status and review flag.",
	},
	[]string{"status", "needs_review"},
)
