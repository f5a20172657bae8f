package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/keyword"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/ranking"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/relevance"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/request"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
	"github.com/kailas-cloud/shopsearch/internal/logger"
	"github.com/kailas-cloud/shopsearch/internal/metrics"
)

// Operation names, used as metric labels.
const (
	OpSearch = "search"
	OpChat   = "chat"
	OpLegacy = "legacy"
)

// Limits bounds result sizes and the retrieval plan.
type Limits struct {
	ChatLimit           int
	LegacyLimit         int
	FullQueryPageSize   int
	CombinedPageSize    int
	KeywordPageSize     int
	KeywordPasses       int
	PassTimeout         time.Duration
	MaxConcurrentPasses int
}

// DefaultLimits returns the standard result caps and pass sizes.
func DefaultLimits() Limits {
	return Limits{
		ChatLimit:           6,
		LegacyLimit:         5,
		FullQueryPageSize:   60,
		CombinedPageSize:    40,
		KeywordPageSize:     25,
		KeywordPasses:       3,
		PassTimeout:         8 * time.Second,
		MaxConcurrentPasses: 5,
	}
}

// withDefaults fills zero fields from DefaultLimits.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.ChatLimit <= 0 {
		l.ChatLimit = d.ChatLimit
	}
	if l.LegacyLimit <= 0 {
		l.LegacyLimit = d.LegacyLimit
	}
	if l.FullQueryPageSize <= 0 {
		l.FullQueryPageSize = d.FullQueryPageSize
	}
	if l.CombinedPageSize <= 0 {
		l.CombinedPageSize = d.CombinedPageSize
	}
	if l.KeywordPageSize <= 0 {
		l.KeywordPageSize = d.KeywordPageSize
	}
	if l.KeywordPasses <= 0 {
		l.KeywordPasses = d.KeywordPasses
	}
	if l.PassTimeout <= 0 {
		l.PassTimeout = d.PassTimeout
	}
	if l.MaxConcurrentPasses <= 0 {
		l.MaxConcurrentPasses = d.MaxConcurrentPasses
	}
	return l
}

// Service retrieves, scores and ranks catalog products for free-text queries.
type Service struct {
	catalog   Catalog
	extractor *keyword.Extractor
	scorer    *relevance.Scorer
	composer  Composer
	limits    Limits
	now       func() time.Time
}

// New creates a search service. Nil extractor, scorer or composer select the
// defaults; zero Limits fields take DefaultLimits values.
func New(
	catalog Catalog, extractor *keyword.Extractor, scorer *relevance.Scorer,
	composer Composer, limits Limits,
) *Service {
	if extractor == nil {
		extractor = keyword.NewExtractor(nil)
	}
	if scorer == nil {
		scorer = relevance.NewScorer(relevance.DefaultWeights())
	}
	if composer == nil {
		composer = result.NewTemplateComposer(nil)
	}
	return &Service{
		catalog:   catalog,
		extractor: extractor,
		scorer:    scorer,
		composer:  composer,
		limits:    limits.withDefaults(),
		now:       time.Now,
	}
}

// Search answers a query with scored products, a message and suggestions.
// A blank query fails with ErrEmptyQuery before any catalog call; a total
// retrieval failure yields ErrSearchFailed.
func (s *Service) Search(ctx context.Context, text string, limit int) (result.Response, error) {
	req, err := request.New(text, limit)
	if err != nil {
		return result.Response{}, err
	}

	out, err := s.rank(ctx, OpSearch, &req)
	if err != nil {
		return result.Response{}, err
	}
	return s.respond(ctx, req.Query(), out.Items, true), nil
}

// Chat answers a conversational message. Leading request phrases are stripped
// before keyword extraction. Chat never fails: an empty request or a catalog
// outage produces a friendly message with no products.
func (s *Service) Chat(ctx context.Context, message string) result.Response {
	text := keyword.StripIntent(message)
	req, err := request.New(text, s.limits.ChatLimit)
	if err != nil {
		return s.canned(text, result.PromptMessage)
	}

	out, err := s.rank(ctx, OpChat, &req)
	if err != nil {
		return s.canned(req.Query(), result.UnavailableMessage)
	}
	return s.respond(ctx, req.Query(), out.Items, false)
}

// Legacy answers the backward-compatible product listing: the same pipeline
// capped at the legacy limit, reshaped to minimal records. A blank query lists
// the newest published products without scoring.
func (s *Service) Legacy(ctx context.Context, text string) ([]result.LegacyItem, error) {
	if strings.TrimSpace(text) == "" {
		return s.listing(ctx)
	}

	req, err := request.New(text, s.limits.LegacyLimit)
	if err != nil {
		return nil, err
	}

	out, err := s.rank(ctx, OpLegacy, &req)
	if err != nil {
		return nil, err
	}
	return result.NewLegacyItems(out.Items), nil
}

func (s *Service) listing(ctx context.Context) ([]result.LegacyItem, error) {
	products, err := s.catalog.Search(ctx, domain.CatalogQuery{Pass: PassListing, PerPage: s.limits.LegacyLimit})
	if err != nil {
		logger.FromContext(ctx).Error("catalog listing failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}
	products = products[:min(len(products), s.limits.LegacyLimit)]

	items := make([]result.LegacyItem, len(products))
	for i := range products {
		items[i] = result.NewLegacyItem(&products[i])
	}
	metrics.SearchResults.WithLabelValues(OpLegacy).Observe(float64(len(items)))
	return items, nil
}

// rank runs retrieval, deduplication, scoring and ranking for one request.
func (s *Service) rank(ctx context.Context, op string, req *request.Request) (ranking.Outcome, error) {
	keywords := s.extractor.Extract(req.Query())

	pool, err := s.retrieve(ctx, planPasses(req.Query(), keywords, &s.limits))
	if err != nil {
		return ranking.Outcome{}, err
	}
	pool = ranking.Dedup(pool)

	q := s.scorer.Prepare(keywords, req.Query())
	scored := make([]ranking.Scored, len(pool))
	for i := range pool {
		scored[i] = ranking.Scored{Product: pool[i], Score: q.Score(&pool[i])}
	}

	w := s.scorer.Weights()
	out := ranking.Rank(scored, w.ThresholdFor(len(keywords)), req.Limit())

	metrics.SearchResults.WithLabelValues(op).Observe(float64(len(out.Items)))
	if out.Fallback {
		metrics.SearchFallbackTotal.WithLabelValues(op).Inc()
	}
	logger.FromContext(ctx).Debug("ranked",
		zap.String("operation", op),
		zap.Strings("keywords", keywords),
		zap.Int("pool", len(pool)),
		zap.Int("threshold", out.Threshold),
		zap.Int("kept", out.Kept),
		zap.Int("returned", len(out.Items)),
		zap.Bool("fallback", out.Fallback),
	)
	return out, nil
}

func (s *Service) respond(ctx context.Context, query string, items []ranking.Scored, withScore bool) result.Response {
	summary := result.Summarize(query, items)
	return result.Response{
		Products:    result.NewItems(items, withScore),
		Message:     s.composer.Compose(ctx, summary),
		Suggestions: result.Suggestions(summary),
		Query:       query,
		Count:       len(items),
		Timestamp:   s.now().UTC(),
	}
}

func (s *Service) canned(query, message string) result.Response {
	return result.Response{
		Products:    []result.Item{},
		Message:     message,
		Suggestions: []string{},
		Query:       query,
		Timestamp:   s.now().UTC(),
	}
}
