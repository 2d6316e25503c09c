package chartcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chart_cache_hits_total",
		Help: "Percentage lookups served from cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chart_cache_misses_total",
		Help: "Percentage lookups that required a computation",
	})

	cacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chart_cache_size",
		Help: "Number of cached percentage entries",
	})

	fetchRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bar_fetch_requests_total",
		Help: "Bar fetches issued to the market data provider",
	})

	fetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bar_fetch_errors_total",
		Help: "Bar fetch failures and anomalies by reason",
	}, []string{"reason"})
)
