package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(paymentsTotal)
}

var paymentsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "payments_total",
		Help: "Payment orders by status (opened/paid/not_found).",
	},
	[]string{"status"},
)

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(status).Inc()
}
