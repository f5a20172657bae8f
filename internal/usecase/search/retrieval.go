package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/logger"
)

// Retrieval pass names, used as metric and log labels.
const (
	PassFullQuery = "full_query"
	PassCombined  = "combined_keywords"
	PassKeyword   = "keyword"
	PassListing   = "listing"
)

// pass is one outbound catalog query.
type pass struct {
	name    string
	term    string
	perPage int
	orderBy string
}

func (p pass) query() domain.CatalogQuery {
	return domain.CatalogQuery{Pass: p.name, Search: p.term, PerPage: p.perPage, OrderBy: p.orderBy}
}

// planPasses builds the retrieval plan: the full query ordered by upstream
// relevance, the combined keywords, then each of the leading keywords.
// A pass repeating an earlier term and ordering is skipped.
func planPasses(query string, keywords []string, l *Limits) []pass {
	passes := []pass{{
		name:    PassFullQuery,
		term:    query,
		perPage: l.FullQueryPageSize,
		orderBy: domain.OrderByRelevance,
	}}
	if len(keywords) == 0 {
		return passes
	}

	candidates := []pass{{
		name:    PassCombined,
		term:    strings.Join(keywords, " "),
		perPage: l.CombinedPageSize,
	}}
	for _, kw := range keywords[:min(len(keywords), l.KeywordPasses)] {
		candidates = append(candidates, pass{name: PassKeyword, term: kw, perPage: l.KeywordPageSize})
	}

	for _, c := range candidates {
		dup := false
		for _, p := range passes {
			if p.term == c.term && p.orderBy == c.orderBy {
				dup = true
				break
			}
		}
		if !dup {
			passes = append(passes, c)
		}
	}
	return passes
}

// retrieve runs the passes concurrently and merges their products in plan
// order. A failed pass contributes nothing; ErrSearchFailed is returned only
// when every pass failed.
func (s *Service) retrieve(ctx context.Context, passes []pass) ([]product.Product, error) {
	if len(passes) == 0 {
		return nil, nil
	}
	log := logger.FromContext(ctx)

	results := make([][]product.Product, len(passes))
	errs := make([]error, len(passes))

	var g errgroup.Group
	if s.limits.MaxConcurrentPasses > 0 {
		g.SetLimit(s.limits.MaxConcurrentPasses)
	}
	for i, p := range passes {
		g.Go(func() error {
			pctx, cancel := s.passContext(ctx)
			defer cancel()

			start := time.Now()
			products, err := s.catalog.Search(pctx, p.query())
			if err != nil {
				errs[i] = err
				log.Warn("retrieval pass failed",
					zap.String("pass", p.name),
					zap.String("term", p.term),
					zap.Duration("duration", time.Since(start)),
					zap.Error(err),
				)
				return nil
			}
			results[i] = products
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	total := 0
	for i := range passes {
		if errs[i] != nil {
			failed++
		}
		total += len(results[i])
	}
	if failed == len(passes) {
		log.Error("all retrieval passes failed", zap.Int("passes", failed), zap.Error(errs[0]))
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, errs[0])
	}

	pool := make([]product.Product, 0, total)
	for _, r := range results {
		pool = append(pool, r...)
	}
	return pool, nil
}

func (s *Service) passContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.limits.PassTimeout > 0 {
		return context.WithTimeout(ctx, s.limits.PassTimeout)
	}
	return context.WithCancel(ctx)
}
