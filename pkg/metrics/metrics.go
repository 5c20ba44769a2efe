package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/shadowtree/pkg/shadow"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "shadowtree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for commit duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the commit duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "shadowtree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector holds the shadow tree metrics. It is safe for concurrent use.
type Collector struct {
	nodesCreated     *prometheus.CounterVec
	freshCreated     prometheus.Counter
	derivedCreated   prometheus.Counter
	childrenCopied   prometheus.Counter
	copiedLength     prometheus.Histogram
	nodesSealed      prometheus.Counter
	replaceFallbacks prometheus.Counter
	commitsTotal     *prometheus.CounterVec
	commitDuration   prometheus.Histogram
	generation       prometheus.Gauge
	generationNodes  prometheus.Gauge
}

// New creates a Collector and registers its metrics.
// It panics if the metrics are already registered with the registry.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	c := &Collector{
		nodesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_created_total",
			Help:        "Total number of shadow nodes constructed, by origin",
			ConstLabels: config.ConstLabels,
		}, []string{"origin"}),

		childrenCopied: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "children_copied_total",
			Help:        "Total number of shared children lists copied before mutation",
			ConstLabels: config.ConstLabels,
		}),

		copiedLength: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "children_copied_length",
			Help:        "Length of children lists copied before mutation",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 4, 16, 64, 256, 1024, 4096},
		}),

		nodesSealed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_sealed_total",
			Help:        "Total number of shadow nodes sealed",
			ConstLabels: config.ConstLabels,
		}),

		replaceFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "replace_fallbacks_total",
			Help:        "Total number of child replacements that ignored a stale index hint",
			ConstLabels: config.ConstLabels,
		}),

		commitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commits_total",
			Help:        "Total number of tree generation commits, by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Commit duration in seconds, including sealing",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		generation: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "generation",
			Help:        "Number of the latest committed tree generation",
			ConstLabels: config.ConstLabels,
		}),

		generationNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "generation_nodes",
			Help:        "Number of nodes reachable from the latest committed root",
			ConstLabels: config.ConstLabels,
		}),
	}
	c.freshCreated = c.nodesCreated.WithLabelValues(shadow.OriginFresh.String())
	c.derivedCreated = c.nodesCreated.WithLabelValues(shadow.OriginDerived.String())
	return c
}

// Install makes c the process-wide shadow.Observer. The returned function
// restores the previous observer.
func (c *Collector) Install() (restore func()) {
	prev := shadow.SetObserver(c)
	return func() { shadow.SetObserver(prev) }
}

// =============================================================================
// shadow.Observer
// =============================================================================

// NodeCreated counts a constructed node.
func (c *Collector) NodeCreated(origin shadow.Origin) {
	switch origin {
	case shadow.OriginFresh:
		c.freshCreated.Inc()
	case shadow.OriginDerived:
		c.derivedCreated.Inc()
	default:
		c.nodesCreated.WithLabelValues(origin.String()).Inc()
	}
}

// ChildrenCopied counts a copy-on-write list copy.
func (c *Collector) ChildrenCopied(length int) {
	c.childrenCopied.Inc()
	c.copiedLength.Observe(float64(length))
}

// NodeSealed counts a sealed node.
func (c *Collector) NodeSealed() {
	c.nodesSealed.Inc()
}

// ReplaceFallback counts a linear-scan replacement.
func (c *Collector) ReplaceFallback() {
	c.replaceFallbacks.Inc()
}

// =============================================================================
// Commit recording
// =============================================================================

// RecordCommit records a successful commit of generation with nodes
// reachable nodes.
func (c *Collector) RecordCommit(generation uint64, nodes int, duration time.Duration) {
	c.commitsTotal.WithLabelValues("success").Inc()
	c.commitDuration.Observe(duration.Seconds())
	c.generation.Set(float64(generation))
	c.generationNodes.Set(float64(nodes))
}

// RecordCommitError records a rejected commit.
func (c *Collector) RecordCommitError() {
	c.commitsTotal.WithLabelValues("error").Inc()
}
