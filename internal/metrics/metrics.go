// Package metrics exposes Prometheus collectors for the sync pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesDiscoveredTotal prometheus.Counter
	crawlErrorsTotal     prometheus.Counter
	decisionsTotal       *prometheus.CounterVec
	notificationsTotal   *prometheus.CounterVec
	deliveryCacheSize    prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		pagesDiscoveredTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pagewatch_pages_discovered_total",
				Help: "Total number of document nodes discovered by the crawl.",
			},
		)

		crawlErrorsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pagewatch_crawl_errors_total",
				Help: "Total number of sub-trees skipped due to fetch failures.",
			},
		)

		decisionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagewatch_eligibility_decisions_total",
				Help: "Total eligibility decisions, labeled by reason.",
			},
			[]string{"reason"},
		)

		notificationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagewatch_notifications_total",
				Help: "Total notification deliveries, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		deliveryCacheSize = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pagewatch_delivery_cache_size",
				Help: "Number of ids in the delivery cache after the last run.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveDiscovered increments the discovered-pages counter.
func ObserveDiscovered() {
	pagesDiscoveredTotal.Inc()
}

// ObserveCrawlError increments the skipped-sub-tree counter.
func ObserveCrawlError() {
	crawlErrorsTotal.Inc()
}

// ObserveDecision increments the decision counter for the given reason.
func ObserveDecision(reason string) {
	decisionsTotal.WithLabelValues(reason).Inc()
}

// ObserveNotification increments the delivery counter for the given outcome.
func ObserveNotification(outcome string) {
	notificationsTotal.WithLabelValues(outcome).Inc()
}

// SetCacheSize records the delivery cache size.
func SetCacheSize(n int) {
	deliveryCacheSize.Set(float64(n))
}
