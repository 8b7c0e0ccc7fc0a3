package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 风控流水线的 Prometheus 指标
var (
	metricRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "argus",
			Subsystem: "risk",
			Name:      "runs_total",
			Help:      "Total number of risk pipeline runs by result",
		},
		[]string{"result"}, // ok / failed / skipped
	)

	metricRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "argus",
			Subsystem: "risk",
			Name:      "run_duration_seconds",
			Help:      "Duration of a full risk pipeline run in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	metricAccountsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "argus",
			Subsystem: "risk",
			Name:      "accounts_total",
			Help:      "Total number of accounts handled by result",
		},
		[]string{"result"}, // processed / skipped / failed
	)

	metricAlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "argus",
			Subsystem: "risk",
			Name:      "alerts_total",
			Help:      "Total number of risk alerts by delivery result",
		},
		[]string{"result"}, // sent / failed
	)
)
