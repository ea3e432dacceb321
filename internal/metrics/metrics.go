// ABOUTME: Prometheus collectors for lookups, model use, flags and HTTP traffic.
// ABOUTME: Metrics implements the nutrition and targets observer hooks.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/harperreed/nourish/internal/nutrition"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every nourish collector on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	lookups      *prometheus.CounterVec
	modelLoads   *prometheus.CounterVec
	modelPredict *prometheus.CounterVec
	mealsFlagged *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nourish_nutrition_lookups_total",
			Help: "Nutrition source attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		modelLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nourish_model_loads_total",
			Help: "Target model load attempts by outcome.",
		}, []string{"outcome"}),
		modelPredict: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nourish_model_predictions_total",
			Help: "Target model predictions by outcome.",
		}, []string{"outcome"}),
		mealsFlagged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nourish_meals_flagged_total",
			Help: "Meals flagged as anomalous by reason.",
		}, []string{"reason"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nourish_http_requests_total",
			Help: "HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nourish_http_request_duration_seconds",
			Help:    "HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.lookups,
		m.modelLoads,
		m.modelPredict,
		m.mealsFlagged,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// LookupHit counts a source that produced a usable result.
func (m *Metrics) LookupHit(source string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(source, "hit").Inc()
}

// LookupMiss counts a source attempt that was skipped or failed.
func (m *Metrics) LookupMiss(source string, err error) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(source, nutrition.Kind(err)).Inc()
}

// ModelLoad counts a model load attempt.
func (m *Metrics) ModelLoad(err error) {
	if m == nil {
		return
	}
	m.modelLoads.WithLabelValues(outcome(err)).Inc()
}

// ModelPredict counts a model prediction attempt.
func (m *Metrics) ModelPredict(err error) {
	if m == nil {
		return
	}
	m.modelPredict.WithLabelValues(outcome(err)).Inc()
}

// MealFlagged counts a flagged meal.
func (m *Metrics) MealFlagged(reason string) {
	if m == nil {
		return
	}
	m.mealsFlagged.WithLabelValues(reason).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler records request count and latency for route.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequests.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
