// Package metrics defines and registers all custom Prometheus metrics for the
// legacyapp collaboration API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; the /metrics endpoint serves that registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "legacyapp"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
// Label:
//   - role: "ProjectManager" or "Developer"
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users, by role.",
	},
	[]string{"role"},
)

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

// ── Entity metrics ────────────────────────────────────────────────────────────

// EntitiesCreatedTotal counts records created through the API.
// Label:
//   - kind: "project", "page", "workflow", "comment", "assignment"
var EntitiesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entities_created_total",
		Help:      "Total number of records created, by entity kind.",
	},
	[]string{"kind"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsTotal counts report generation requests.
// Label:
//   - result: "accepted", "coalesced" (joined an in-flight render) or "error"
var ReportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_total",
		Help:      "Total number of report generation requests, by result.",
	},
	[]string{"result"},
)

// ReportRequestDuration measures how long accepting a report request takes.
var ReportRequestDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_request_duration_seconds",
		Help:      "Duration of report requests from validation to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ReportQueueDepth tracks render jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ReportQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "report_queue_depth",
		Help:      "Current number of render jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ReportRenderDuration measures how long rendering and storing one PDF takes.
// Label:
//   - status: "ok" or "error"
var ReportRenderDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_render_duration_seconds",
		Help:      "Duration of PDF rendering from dequeue to storage.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"status"},
)
