// Package metrics defines and registers all custom Prometheus metrics for the
// expense reimbursement API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expense"

// SubmissionsTotal counts expenses that were successfully submitted.
// Label:
//   - category: the expense category (e.g. "Travel")
var SubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Total number of expenses successfully submitted, by category.",
	},
	[]string{"category"},
)

// DecisionsTotal counts decisions recorded on expenses.
// Label:
//   - action: "Approved" or "Rejected"
var DecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_total",
		Help:      "Total number of expense decisions recorded, by action.",
	},
	[]string{"action"},
)

// WorkflowErrorsTotal counts workflow operations that failed.
// Label:
//   - kind: error kind ("invalid_input", "not_found", "forbidden", "conflict", "internal")
var WorkflowErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workflow_errors_total",
		Help:      "Total number of failed workflow operations, by error kind.",
	},
	[]string{"kind"},
)

// DecisionDuration measures how long a decision takes end-to-end, including
// the transactional writes.
var DecisionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "decision_duration_seconds",
		Help:      "Duration of expense decision handling from request to commit.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)
