// Package catalog talks to the WooCommerce REST product API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/metrics"
	"github.com/kailas-cloud/shopsearch/internal/version"
)

// Upstream page size bounds.
const (
	MinPerPage = 1
	MaxPerPage = 100

	defaultStatus  = "publish"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

// Config holds the catalog connection settings. Credentials are fixed for the client lifetime.
type Config struct {
	BaseURL        string // e.g. https://shop.example/wp-json/wc/v3
	ConsumerKey    string
	ConsumerSecret string
	Status         string // product status filter, default "publish"
	Timeout        time.Duration
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

// Client is a read-only WooCommerce product catalog client.
type Client struct {
	endpoint string
	key      string
	secret   string
	status   string
	timeout  time.Duration
	http     *http.Client
	logger   *zap.Logger
}

var (
	_ domain.Catalog       = (*Client)(nil)
	_ domain.HealthChecker = (*Client)(nil)
)

// NewClient creates a catalog client.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse catalog base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("catalog base url must be http(s), got %q", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("catalog base url has no host: %q", cfg.BaseURL)
	}

	c := &Client{
		endpoint: base.String() + "/products",
		key:      cfg.ConsumerKey,
		secret:   cfg.ConsumerSecret,
		status:   cfg.Status,
		timeout:  cfg.Timeout,
		http:     cfg.HTTPClient,
		logger:   cfg.Logger,
	}
	if c.status == "" {
		c.status = defaultStatus
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

// Search runs one product search. The call is bounded by the client timeout
// regardless of the caller's deadline.
func (c *Client) Search(ctx context.Context, q domain.CatalogQuery) ([]product.Product, error) {
	pass := q.Pass
	if pass == "" {
		pass = "direct"
	}

	start := time.Now()
	products, err := c.fetch(ctx, q)
	duration := time.Since(start)
	metrics.CatalogRequestDuration.WithLabelValues(pass).Observe(duration.Seconds())

	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(pass, "error").Inc()
		return nil, err
	}

	metrics.CatalogRequestsTotal.WithLabelValues(pass, "success").Inc()
	metrics.CatalogProductsFetched.WithLabelValues(pass).Add(float64(len(products)))

	c.logger.Debug("catalog search",
		zap.String("pass", pass),
		zap.String("search", q.Search),
		zap.Int("per_page", q.PerPage),
		zap.Int("products", len(products)),
		zap.Duration("duration", duration),
	)
	return products, nil
}

// HealthCheck verifies the catalog answers an authenticated single-item listing.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.fetch(ctx, domain.CatalogQuery{PerPage: 1}); err != nil {
		return fmt.Errorf("catalog health: %w", err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, q domain.CatalogQuery) ([]product.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+c.params(q).Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "shopsearch/"+version.Version)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("catalog request timed out after %s: %w", c.timeout, domain.ErrUpstreamUnavailable)
		}
		return nil, fmt.Errorf("catalog request failed: %v: %w", err, domain.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, domain.NewUpstreamError(resp.StatusCode, extractMessage(body))
	}

	var dtos []productDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("decode catalog response: %v: %w", err, domain.ErrUpstreamUnavailable)
	}

	products := make([]product.Product, 0, len(dtos))
	for i := range dtos {
		products = append(products, dtos[i].toDomain())
	}
	return products, nil
}

func (c *Client) params(q domain.CatalogQuery) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	v.Set("per_page", strconv.Itoa(clampPerPage(q.PerPage)))
	v.Set("status", c.status)
	if q.OrderBy != "" {
		v.Set("orderby", q.OrderBy)
	}
	return v
}

func clampPerPage(n int) int {
	switch {
	case n < MinPerPage:
		return MinPerPage
	case n > MaxPerPage:
		return MaxPerPage
	default:
		return n
	}
}

// extractMessage pulls the "message" field from a WooCommerce error body.
func extractMessage(body []byte) string {
	var parsed struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(body))
}
