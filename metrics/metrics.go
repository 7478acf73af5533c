// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gharbari",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route template, method and status code.",
	}, []string{"route", "method", "code"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gharbari",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route template and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	GatewayCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gharbari",
		Name:      "storage_gateway_calls_total",
		Help:      "Object storage gateway calls by operation and outcome.",
	}, []string{"op", "outcome"})

	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gharbari",
		Name:      "listing_cache_lookups_total",
		Help:      "Listing cache lookups by result (hit, miss, error).",
	}, []string{"result"})

	OrphanedAssets = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gharbari",
		Name:      "orphaned_assets_total",
		Help:      "Remote assets recorded for the sweep after a failed delete.",
	})

	MailSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gharbari",
		Name:      "mail_sent_total",
		Help:      "Outgoing mail by transport and outcome.",
	}, []string{"transport", "outcome"})
)

// Registry is the registry served on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequests,
		HTTPDuration,
		GatewayCalls,
		CacheLookups,
		OrphanedAssets,
		MailSent,
	)
}

// Outcome labels an error as "ok" or "error".
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
