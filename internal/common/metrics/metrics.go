package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConversationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_conversations_created_total",
			Help: "Total number of conversations started",
		},
		[]string{"industry"},
	)

	TurnsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_turns_processed_total",
			Help: "Total number of user turns processed",
		},
		[]string{"industry", "outcome"},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lead_turn_duration_seconds",
			Help:    "Duration of user turn processing in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"industry"},
	)

	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_classifications_total",
			Help: "Total number of finalized classifications by status",
		},
		[]string{"industry", "status"},
	)

	LedgerAppendFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_ledger_append_failures_total",
			Help: "Classification records that could not be persisted",
		},
		[]string{"backend"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_notifications_sent_total",
			Help: "Hot lead notifications by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)
)
