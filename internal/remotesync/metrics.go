package remotesync

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ega_sync_jobs_total",
			Help: "Remote sync jobs by kind and result",
		},
		[]string{"kind", "result"},
	)

	syncJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ega_sync_job_duration_seconds",
			Help:    "Duration of remote sync jobs",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 5, 10},
		},
		[]string{"kind"},
	)

	syncQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ega_sync_queue_depth",
			Help: "Remote sync jobs waiting for the worker",
		},
	)
)

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "confirmed"
	case isUnavailable(err), errors.Is(err, context.DeadlineExceeded):
		return "degraded"
	default:
		return "rejected"
	}
}
