package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the storefront.
type Metrics struct {
	TicketsOpened     prometheus.Counter
	TicketsClosed     prometheus.Counter
	OrdersConfirmed   prometheus.Counter
	OrdersRejected    *prometheus.CounterVec
	ItemsUpserted     prometheus.Counter
	ItemsDeleted      prometheus.Counter
	SettlementSeconds prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TicketsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shopfront_tickets_opened_total",
			Help: "Total number of shopping tickets opened",
		}),
		TicketsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shopfront_tickets_closed_total",
			Help: "Total number of tickets closed and deleted",
		}),
		OrdersConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shopfront_orders_confirmed_total",
			Help: "Total number of orders settled successfully",
		}),
		OrdersRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfront_orders_rejected_total",
			Help: "Total number of order confirmations rejected, by reason",
		}, []string{"reason"}),
		ItemsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shopfront_catalog_items_upserted_total",
			Help: "Total number of catalog item creates and edits",
		}),
		ItemsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shopfront_catalog_items_deleted_total",
			Help: "Total number of catalog item deletions",
		}),
		SettlementSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "shopfront_settlement_duration_seconds",
			Help:    "Latency of order settlement including channel creation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}
