// Package metrics exposes Prometheus collectors for the order bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Updates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderbot_updates_total",
		Help: "Inbound Telegram updates by kind.",
	}, []string{"kind"})

	QuantityChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderbot_quantity_changes_total",
		Help: "Accepted order line changes (op=set|remove).",
	}, []string{"op"})

	ScheduledRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderbot_scheduled_runs_total",
		Help: "Scheduled action executions by action and result.",
	}, []string{"action", "result"})

	RegisteredClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orderbot_registered_clients",
		Help: "Registered ordering points.",
	})

	OpenOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orderbot_open_orders",
		Help: "Registered clients with a non-empty open order.",
	})
)

// ObserveRegistry refreshes the registry gauges.
func ObserveRegistry(registered, withOrders int) {
	RegisteredClients.Set(float64(registered))
	OpenOrders.Set(float64(withOrders))
}
