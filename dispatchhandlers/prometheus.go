package dispatchhandlers

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vitalvas/strada/dispatch"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "strada").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "strada",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// PrometheusObserver records Prometheus metrics for every dispatch.
//
// Metrics collected:
//   - <ns>_dispatches_total: counter by method, route, and outcome
//   - <ns>_dispatch_duration_seconds: histogram by method and route
//   - <ns>_dispatch_errors_total: counter by method, route, and error class
//
// The route label is the matched template, so cardinality is bounded by
// the number of registered routes; unmatched dispatches share a single
// "unmatched" value. Metrics register on construction, so build one
// observer per registry.
type PrometheusObserver struct {
	dispatchesTotal  *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	dispatchErrors   *prometheus.CounterVec
}

// NewPrometheusObserver builds the observer and registers its metrics.
func NewPrometheusObserver(opts ...MetricsOption) *PrometheusObserver {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &PrometheusObserver{
		dispatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatches_total",
			Help:        "Total number of dispatches by method, route, and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "route", "outcome"}),

		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Dispatch duration in seconds, middleware and handler included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method", "route"}),

		dispatchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_errors_total",
			Help:        "Total number of dispatch errors by method, route, and error class",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "route", "class"}),
	}
}

// ObserveDispatch implements dispatch.Observer.
func (o *PrometheusObserver) ObserveDispatch(s dispatch.Stats) {
	route := routeLabel(s)

	o.dispatchesTotal.WithLabelValues(s.Method, route, s.Kind.String()).Inc()
	o.dispatchDuration.WithLabelValues(s.Method, route).Observe(s.Duration.Seconds())

	if s.Err != nil {
		o.dispatchErrors.WithLabelValues(s.Method, route, classifyError(s.Err)).Inc()
	}
}

func routeLabel(s dispatch.Stats) string {
	if s.Route != nil {
		return s.Route.Template()
	}

	return "unmatched"
}

// classifyError buckets dispatch errors by their taxonomy sentinel. Error
// messages never become label values, keeping cardinality flat.
func classifyError(err error) string {
	switch {
	case errors.Is(err, dispatch.ErrMiddleware):
		return "middleware"
	case errors.Is(err, dispatch.ErrInvalidHandler):
		return "invalid_handler"
	case errors.Is(err, dispatch.ErrInvalidMethod):
		return "invalid_method"
	default:
		return "handler"
	}
}
