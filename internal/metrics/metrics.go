package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "adoptionchart"

// Render outcomes
const (
	OutcomeRendered   = "rendered"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
	OutcomeNoSurface  = "no_surface"
	OutcomeCancelled  = "cancelled"
)

// Recorder owns the service's Prometheus collectors. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	renders       *prometheus.CounterVec
	renderSeconds prometheus.Histogram
	draws         *prometheus.CounterVec
	drawSeconds   *prometheus.HistogramVec
	fetches       *prometheus.CounterVec
	themeChanges  *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New creates a recorder registered on a fresh registry
func New() *Recorder {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates a recorder registered on reg
func NewWithRegistry(reg *prometheus.Registry) *Recorder {
	r := &Recorder{
		registry: reg,
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Chart renders by outcome.",
		}, []string{"outcome"}),
		renderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time from render start to chart installed or error shown.",
			Buckets:   prometheus.DefBuckets,
		}),
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_total",
			Help:      "Frames drawn by backend and result.",
		}, []string{"backend", "result"}),
		drawSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "draw_duration_seconds",
			Help:      "Time spent rendering one frame.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"backend"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Dataset fetches by result.",
		}, []string{"result"}),
		themeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "theme_changes_total",
			Help:      "Theme changes by resulting palette.",
		}, []string{"palette"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and code.",
		}, []string{"handler", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler", "method"}),
	}

	reg.MustRegister(
		r.renders, r.renderSeconds, r.draws, r.drawSeconds,
		r.fetches, r.themeChanges, r.httpRequests, r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveRender records one finished render
func (r *Recorder) ObserveRender(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.renders.WithLabelValues(outcome).Inc()
	r.renderSeconds.Observe(d.Seconds())
}

// ObserveDraw records one frame drawn by a chart backend
func (r *Recorder) ObserveDraw(backend string, d time.Duration, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.draws.WithLabelValues(backend, result).Inc()
	r.drawSeconds.WithLabelValues(backend).Observe(d.Seconds())
}

// ObserveFetch records one dataset fetch. result is "ok" or a short error
// class such as "status" or "parse".
func (r *Recorder) ObserveFetch(result string) {
	if r == nil {
		return
	}
	r.fetches.WithLabelValues(result).Inc()
}

// ObserveThemeChange records a switch to palette ("light" or "dark")
func (r *Recorder) ObserveThemeChange(palette string) {
	if r == nil {
		return
	}
	r.themeChanges.WithLabelValues(palette).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Instrument wraps next with request counting and latency for route name
func (r *Recorder) Instrument(name string, next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	labels := prometheus.Labels{"handler": name}
	return promhttp.InstrumentHandlerDuration(
		r.httpDuration.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(r.httpRequests.MustCurryWith(labels), next),
	)
}
