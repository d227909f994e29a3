package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		deliveriesTotal,
		deletionsScheduledTotal,
		deletionsExecutedTotal,
	)
}

var (
	deliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_deliveries_total",
			Help: "File deliveries by outcome (sent/failed).",
		},
		[]string{"outcome"},
	)

	deletionsScheduledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "file_deletions_scheduled_total",
			Help: "Delayed deletions scheduled after delivery.",
		},
	)

	deletionsExecutedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_deletions_executed_total",
			Help: "Delayed deletions that ran, by deletion outcome (deleted/gone).",
		},
		[]string{"outcome"},
	)
)

func IncDelivery(sent bool) {
	outcome := "failed"
	if sent {
		outcome = "sent"
	}
	deliveriesTotal.WithLabelValues(outcome).Inc()
}

func IncDeletionScheduled() { deletionsScheduledTotal.Inc() }

func IncDeletionExecuted(deleted bool) {
	outcome := "gone"
	if deleted {
		outcome = "deleted"
	}
	deletionsExecutedTotal.WithLabelValues(outcome).Inc()
}
