package compose

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures composition metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "wingman").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for stage durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures composition metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
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
		Namespace: "wingman",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors of a Composer. A nil *Metrics
// records nothing.
type Metrics struct {
	compositions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	outputFiles  prometheus.Counter
	includeReads *prometheus.CounterVec
}

// NewMetrics registers composition metrics. Registering twice on the same
// registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		compositions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "compositions_total",
			Help:        "Total number of compositions by target and status",
			ConstLabels: config.ConstLabels,
		}, []string{"target", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "compose_duration_seconds",
			Help:        "Composition stage duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"stage"}),

		outputFiles: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "output_files_total",
			Help:        "Total number of output files assembled",
			ConstLabels: config.ConstLabels,
		}),

		includeReads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "include_reads_total",
			Help:        "Total number of include file reads by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),
	}
}

func (m *Metrics) observeStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(stage).Observe(seconds)
}

func (m *Metrics) recordComposition(target string, err error) {
	if m == nil {
		return
	}
	m.compositions.WithLabelValues(target, status(err)).Inc()
}

func (m *Metrics) recordOutputs(n int) {
	if m == nil {
		return
	}
	m.outputFiles.Add(float64(n))
}

func (m *Metrics) recordInclude(err error) {
	if m == nil {
		return
	}
	m.includeReads.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
