package searchable

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

const (
	driverElasticsearch = "elasticsearch"
	driverBleve         = "bleve"
)

type clientConfig struct {
	driver string

	// elasticsearch
	hosts    []string
	username string
	password string
	sniff    bool
	timeout  time.Duration

	// bleve; empty keeps indexes in memory
	path string

	index string

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithElasticsearch connects the client to an Elasticsearch cluster.
// Hosts without a scheme get http://.
func WithElasticsearch(hosts ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverElasticsearch
		c.hosts = hosts
	})
}

// WithBasicAuth sets Elasticsearch credentials.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithSniff enables cluster node discovery.
func WithSniff() Option {
	return optionFunc(func(c *clientConfig) {
		c.sniff = true
	})
}

// WithTimeout bounds a single Elasticsearch round trip.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithBleve uses embedded bleve indexes stored under path.
// An empty path keeps everything in memory.
func WithBleve(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverBleve
		c.path = path
	})
}

// WithDefaultIndex sets the engine index used by indexes that do not name one.
// Default: "index".
func WithDefaultIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
