package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(broadcastDeliveriesTotal)
}

var broadcastDeliveriesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bot_broadcast_deliveries_total",
		Help: "Per-recipient broadcast delivery results.",
	},
	[]string{"outcome"}, // sent | failed
)

func AddBroadcastDeliveries(outcome string, n int) {
	if n > 0 {
		broadcastDeliveriesTotal.WithLabelValues(outcome).Add(float64(n))
	}
}
