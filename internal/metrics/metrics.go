package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "event_submissions_total", Help: "Accepted submissions by form"},
		[]string{"form"},
	)
	ValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "event_validation_failures_total", Help: "Rejected submissions by form"},
		[]string{"form"},
	)
	ModerationActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "event_moderation_actions_total", Help: "Console writes by entity and op"},
		[]string{"entity", "op"},
	)
	ProcessedEvents = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "feed_processed_total", Help: "Total processed outbox events"},
	)
	FailedEvents = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "feed_failed_total", Help: "Total failed outbox events"},
	)
	DLQEvents = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "feed_dlq_total", Help: "Total events inserted into DLQ"},
	)
	Subscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "feed_stream_subscribers", Help: "Open websocket snapshot streams"},
	)
)

func Register() {
	prometheus.MustRegister(Submissions, ValidationFailures, ModerationActions, ProcessedEvents, FailedEvents, DLQEvents, Subscribers)
}
