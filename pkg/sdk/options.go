package shopsearch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
	catalogStatus  string
	catalogTimeout time.Duration

	composer  Composer
	weights   *Weights
	limits    Limits
	stopwords []string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCatalog sets the WooCommerce REST base URL (ending in /wp-json/wc/v3)
// and the consumer credentials. Required.
func WithCatalog(baseURL, consumerKey, consumerSecret string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = baseURL
		c.consumerKey = consumerKey
		c.consumerSecret = consumerSecret
	})
}

// WithCatalogStatus sets the product status filter sent with every catalog
// request. Default "publish".
func WithCatalogStatus(status string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogStatus = status
	})
}

// WithCatalogTimeout bounds a single catalog request. Default 10s.
func WithCatalogTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogTimeout = d
	})
}

// WithHTTPClient sets the HTTP client used for catalog requests.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithComposer replaces the built-in message templates.
func WithComposer(comp Composer) Option {
	return optionFunc(func(c *clientConfig) {
		c.composer = comp
	})
}

// WithWeights overrides the relevance scoring weights.
func WithWeights(w Weights) Option {
	return optionFunc(func(c *clientConfig) {
		c.weights = &w
	})
}

// WithStopwords replaces the built-in stopword list used for keyword
// extraction. nil keeps the default.
func WithStopwords(words []string) Option {
	return optionFunc(func(c *clientConfig) {
		c.stopwords = words
	})
}

// WithLimits overrides result caps and retrieval pass sizes.
func WithLimits(l Limits) Option {
	return optionFunc(func(c *clientConfig) {
		c.limits = l
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *slog.Logger) Option {
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
