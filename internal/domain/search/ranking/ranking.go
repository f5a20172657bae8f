// Package ranking deduplicates, filters and orders scored catalog products.
package ranking

import (
	"sort"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// FallbackSize caps the unranked result returned when nothing clears the threshold.
const FallbackSize = 3

// Scored is a product annotated with its relevance for one query.
type Scored struct {
	Product product.Product
	Score   int
}

// Outcome describes how a ranked list was produced.
type Outcome struct {
	Items     []Scored
	Threshold int
	Kept      int  // products at or above the threshold
	Fallback  bool // true when the threshold removed everything
}

// Dedup keeps the first occurrence of every product ID, preserving order.
func Dedup(pool []product.Product) []product.Product {
	if len(pool) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(pool))
	out := make([]product.Product, 0, len(pool))
	for _, p := range pool {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Rank keeps products scoring at least threshold, orders them by score, image
// presence and stock, and truncates to limit. scored must follow the
// deduplicated pool order: when no product survives, the first
// min(limit, FallbackSize) entries are returned unranked.
func Rank(scored []Scored, threshold, limit int) Outcome {
	if limit <= 0 {
		return Outcome{Threshold: threshold}
	}

	kept := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if s.Score >= threshold {
			kept = append(kept, s)
		}
	}

	if len(kept) == 0 {
		n := min(limit, FallbackSize, len(scored))
		items := make([]Scored, n)
		copy(items, scored[:n])
		return Outcome{Items: items, Threshold: threshold, Fallback: n > 0}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return less(&kept[j], &kept[i])
	})

	res := Outcome{Threshold: threshold, Kept: len(kept)}
	if len(kept) > limit {
		kept = kept[:limit]
	}
	res.Items = kept
	return res
}

// less orders a below b: lower score, then no image, then out of stock.
func less(a, b *Scored) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	if ai, bi := a.Product.HasImage(), b.Product.HasImage(); ai != bi {
		return !ai
	}
	if as, bs := a.Product.InStock(), b.Product.InStock(); as != bs {
		return !as
	}
	return false
}
