package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics tracks success/failure counts and run duration per cron job.
type CronJobMetrics struct {
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewCronJobMetrics registers the cron collectors against the given registerer.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	m := &CronJobMetrics{
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventa",
			Subsystem: "cron",
			Name:      "job_success_total",
			Help:      "Number of successful cron job runs.",
		}, []string{"job"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventa",
			Subsystem: "cron",
			Name:      "job_failure_total",
			Help:      "Number of failed cron job runs.",
		}, []string{"job"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "eventa",
			Subsystem: "cron",
			Name:      "job_duration_seconds",
			Help:      "Cron job run duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
	}
	if reg != nil {
		reg.MustRegister(m.successes, m.failures, m.duration)
	}
	return m
}

// IncSuccess records one successful run for the job.
func (m *CronJobMetrics) IncSuccess(job string) {
	if m == nil {
		return
	}
	m.successes.WithLabelValues(job).Inc()
}

// IncFailure records one failed run for the job.
func (m *CronJobMetrics) IncFailure(job string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(job).Inc()
}

// ObserveDuration records how long the job ran.
func (m *CronJobMetrics) ObserveDuration(job string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(job).Observe(d.Seconds())
}
