package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus metrics.
type Metrics struct {
	TransfersCompleted prometheus.Counter
	TransferErrors     *prometheus.CounterVec
	TransferDuration   prometheus.Histogram
	TransferAmount     prometheus.Histogram

	AccountsOpened prometheus.Counter
	AccountsClosed prometheus.Counter

	UsersRegistered prometheus.Counter
}

// New creates the application metrics and registers them with the default
// Prometheus registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates the application metrics registered with reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransfersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "transferd_transfers_completed_total",
			Help: "Total number of completed transfers",
		}),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transferd_transfer_errors_total",
				Help: "Total number of transfer errors by kind",
			},
			[]string{"kind"},
		),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "transferd_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "transferd_transfer_amount",
			Help:    "Transfer amounts in minor currency units",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
		}),
		AccountsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "transferd_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),
		AccountsClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "transferd_accounts_closed_total",
			Help: "Total number of accounts closed",
		}),
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "transferd_users_registered_total",
			Help: "Total number of registered users",
		}),
	}
}
