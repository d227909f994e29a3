package metrics

import (
	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		gateDecisionsTotal,
		verificationsTotal,
	)
}

var (
	gateDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_decisions_total",
			Help: "Access gate decisions by kind.",
		},
		[]string{"kind"},
	)

	verificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verifications_total",
			Help: "Verification challenge outcomes.",
		},
		[]string{"outcome"}, // 'success', 'rejected'
	)
)

func IncGateDecision(kind model.DecisionKind) {
	gateDecisionsTotal.WithLabelValues(string(kind)).Inc()
}

func IncVerification(success bool) {
	outcome := "rejected"
	if success {
		outcome = "success"
	}
	verificationsTotal.WithLabelValues(outcome).Inc()
}
