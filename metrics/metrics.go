package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ConfigsEvaluated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stochopt_configs_evaluated_total",
			Help: "Stochastic configurations evaluated by the search (by outcome: ok, skipped).",
		},
		[]string{"outcome"},
	)

	TradesSimulated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stochopt_trades_simulated_total",
			Help: "Total number of closed simulated trades (by direction).",
		},
		[]string{"direction"},
	)

	SignalsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stochopt_signals_skipped_total",
			Help: "Entry signals skipped because of exchange floors or equity (by reason).",
		},
		[]string{"reason"},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stochopt_search_duration_seconds",
			Help:    "Wall time of a full configuration search.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		},
	)

	BestNetProfit = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stochopt_best_net_profit",
			Help: "Net profit of the best configuration of the last search.",
		},
	)
)

func init() {
	prometheus.MustRegister(ConfigsEvaluated, TradesSimulated, SignalsSkipped, SearchDuration, BestNetProfit)
}
