package shopsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain/search/keyword"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/relevance"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
	"github.com/kailas-cloud/shopsearch/internal/transport/catalog"
	searchuc "github.com/kailas-cloud/shopsearch/internal/usecase/search"
)

// Operation names reported by the observer.
const (
	opSearch   = "search"
	opChat     = "chat"
	opProducts = "products"
	opPing     = "ping"
)

type searchUseCase interface {
	Search(ctx context.Context, text string, limit int) (result.Response, error)
	Chat(ctx context.Context, message string) result.Response
	Legacy(ctx context.Context, text string) ([]result.LegacyItem, error)
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Composer phrases the message accompanying a result set.
type Composer interface {
	Compose(ctx context.Context, s Summary) string
}

// Client is the shopsearch SDK entry point. It is safe for concurrent use.
type Client struct {
	svc     searchUseCase
	catalog healthChecker
	obs     *observer
}

// New creates a Client for the configured catalog. No connection is made.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.baseURL == "" {
		return nil, errors.New("shopsearch: catalog base URL required (use WithCatalog)")
	}

	cat, err := catalog.NewClient(catalog.Config{
		BaseURL:        cfg.baseURL,
		ConsumerKey:    cfg.consumerKey,
		ConsumerSecret: cfg.consumerSecret,
		Status:         cfg.catalogStatus,
		Timeout:        cfg.catalogTimeout,
		HTTPClient:     cfg.httpClient,
		Logger:         zap.NewNop(),
	})
	if err != nil {
		return nil, fmt.Errorf("shopsearch: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return wireClient(cat, cat, cfg, obs), nil
}

func wireClient(cat searchuc.Catalog, health healthChecker, cfg *clientConfig, obs *observer) *Client {
	var scorer *relevance.Scorer
	if cfg.weights != nil {
		scorer = relevance.NewScorer(*cfg.weights)
	}
	var extractor *keyword.Extractor
	if cfg.stopwords != nil {
		extractor = keyword.NewExtractor(cfg.stopwords)
	}
	var comp searchuc.Composer
	if cfg.composer != nil {
		comp = &composerAdapter{inner: cfg.composer}
	}
	return &Client{
		svc:     searchuc.New(cat, extractor, scorer, comp, cfg.limits),
		catalog: health,
		obs:     obs,
	}
}

// Search ranks catalog products for query. limit is clamped to 1..20; zero
// selects the default. A blank query fails with ErrEmptyQuery; a catalog
// outage fails with ErrSearchFailed.
func (c *Client) Search(ctx context.Context, query string, limit int) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSearch, start, err) }()

	resp, err := c.svc.Search(ctx, query, limit)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}
	return fromResponse(&resp), nil
}

// Chat answers a conversational message such as "do you have shower chairs?".
// It never fails; problems are reported in the message.
func (c *Client) Chat(ctx context.Context, message string) Result {
	start := time.Now()
	resp := c.svc.Chat(ctx, message)
	c.obs.observe(opChat, start, nil)
	return fromResponse(&resp)
}

// Products returns minimal records for query. A blank query lists the
// newest published products.
func (c *Client) Products(ctx context.Context, query string) (_ []LegacyProduct, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opProducts, start, err) }()

	items, err := c.svc.Legacy(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	return fromLegacy(items), nil
}

// Ping checks that the catalog answers authenticated requests.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opPing, start, err) }()

	if err = c.catalog.HealthCheck(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// composerAdapter wraps a public Composer to satisfy the internal one.
type composerAdapter struct {
	inner Composer
}

func (a *composerAdapter) Compose(ctx context.Context, s result.Summary) string {
	return a.inner.Compose(ctx, Summary{
		Query:      s.Query,
		Count:      s.Count,
		InStock:    s.InStock,
		Categories: s.Categories,
		Names:      s.Names,
	})
}
