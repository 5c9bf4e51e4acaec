// Package metrics exposes Prometheus collectors for the HTTP surface,
// the analytics service and the job worker.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finlytics"

// Recorder holds the finlytics collectors. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	forecasts    *prometheus.CounterVec
	analyses     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	jobs         *prometheus.CounterVec
}

// New creates a Recorder on its own registry, with Go and process collectors
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		forecasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecasts_total",
			Help:      "Forecasts served by model and cache outcome.",
		}, []string{"model", "cached"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Trend analyses served by cache outcome.",
		}, []string{"cached"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "computation_duration_seconds",
			Help:      "Uncached computation time by operation.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"operation"}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Finished jobs by kind and terminal state.",
		}, []string{"kind", "state"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests, r.httpDuration, r.forecasts, r.analyses, r.latency, r.jobs,
	)
	return r
}

// Registry returns the registry the collectors live on
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveForecast counts one forecast. elapsed is only observed on a miss.
func (r *Recorder) ObserveForecast(model string, cached bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.forecasts.WithLabelValues(model, strconv.FormatBool(cached)).Inc()
	if !cached {
		r.latency.WithLabelValues("forecast").Observe(elapsed.Seconds())
	}
}

// ObserveAnalysis counts one analysis. elapsed is only observed on a miss.
func (r *Recorder) ObserveAnalysis(cached bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.analyses.WithLabelValues(strconv.FormatBool(cached)).Inc()
	if !cached {
		r.latency.WithLabelValues("analyze").Observe(elapsed.Seconds())
	}
}

// JobFinished counts a job reaching a terminal state
func (r *Recorder) JobFinished(kind, state string) {
	if r == nil {
		return
	}
	r.jobs.WithLabelValues(kind, state).Inc()
}

// FiberMiddleware records request counts and latency per route pattern
func (r *Recorder) FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if r == nil {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// Unmatched paths share one label to keep cardinality bounded
		route := c.Route().Path
		if status == fiber.StatusNotFound {
			route = "unmatched"
		}

		r.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		r.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
