// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons a page view never reaches the event store.
const (
	DropBufferFull  = "buffer_full"
	DropWriteFailed = "write_failed"
	DropBot         = "bot"
)

var (
	PageViewsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_page_views_accepted_total",
		Help: "Page views queued for storage.",
	})

	PageViewsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_page_views_stored_total",
		Help: "Page views written to the event store.",
	})

	PageViewsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_page_views_dropped_total",
		Help: "Page views discarded before storage, by reason.",
	}, []string{"reason"})

	ReportRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_analytics_reports_total",
		Help: "Analytics report requests by HTTP status.",
	}, []string{"status"})

	ReportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "folio_analytics_report_duration_seconds",
		Help:    "Time to authorize, read and aggregate one report.",
		Buckets: prometheus.DefBuckets,
	})
)
