// Package metrics exposes Prometheus metrics for wrapped training jobs.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Collector holds job counters on its own registry so tests can create as
// many collectors as they like without duplicate-registration panics.
type Collector struct {
	registry    *prometheus.Registry
	startTime   time.Time
	jobsStarted prometheus.Counter
	jobsFailed  prometheus.Counter
	jobDuration prometheus.Histogram
}

// NewCollector creates a Collector with all metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
		jobsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trainkit_jobs_started_total",
			Help: "Total number of wrapped jobs started",
		}),
		jobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trainkit_jobs_failed_total",
			Help: "Total number of wrapped jobs that ended in failure",
		}),
		jobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trainkit_job_duration_seconds",
			Help:    "Duration of successfully completed jobs",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 10),
		}),
	}

	c.registry.MustRegister(c.jobsStarted)
	c.registry.MustRegister(c.jobsFailed)
	c.registry.MustRegister(c.jobDuration)

	return c
}

// JobStarted increments the started counter.
func (c *Collector) JobStarted() {
	c.jobsStarted.Inc()
}

// JobCompleted records the duration of a successful job.
func (c *Collector) JobCompleted(seconds float64) {
	c.jobDuration.Observe(seconds)
}

// JobFailed increments the failure counter.
func (c *Collector) JobFailed() {
	c.jobsFailed.Inc()
}

// Handler returns the /metrics HTTP handler for this collector.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Render returns the registry contents in Prometheus text format, for
// surfaces that want metrics without running an HTTP server.
func (c *Collector) Render() (string, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return "", fmt.Errorf("gather metrics: %w", err)
	}

	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.FmtText)
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			return "", fmt.Errorf("encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return buf.String(), nil
}

// Uptime reports how long this collector has existed, a proxy for the
// extension's lifetime.
func (c *Collector) Uptime() time.Duration {
	return time.Since(c.startTime)
}
