// Package metrics exposes prometheus instrumentation for the outbound
// marketplace calls and the report pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketflow_api_requests_total",
		Help: "Outbound marketplace API requests by resource and status code.",
	}, []string{"marketplace", "resource", "status"})

	fetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketflow_fetch_failures_total",
		Help: "Per-account fetches that degraded to an empty table.",
	}, []string{"marketplace", "resource"})

	pipelineRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketflow_pipeline_runs_total",
		Help: "Completed report pipeline runs.",
	})

	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "marketflow_pipeline_duration_seconds",
		Help:    "Wall time of one full report pipeline run.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)

// APIRequest counts one outbound request. status 0 means the request
// never got a response.
func APIRequest(marketplace, resource string, status int) {
	apiRequests.WithLabelValues(marketplace, resource, strconv.Itoa(status)).Inc()
}

// FetchFailure counts one per-account fetch degraded to an empty table.
func FetchFailure(marketplace, resource string) {
	fetchFailures.WithLabelValues(marketplace, resource).Inc()
}

// PipelineRun records one completed pipeline run.
func PipelineRun(d time.Duration) {
	pipelineRuns.Inc()
	pipelineDuration.Observe(d.Seconds())
}
