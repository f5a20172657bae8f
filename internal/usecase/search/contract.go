package search

import (
	"context"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
)

// Catalog runs one product search against the upstream store.
type Catalog interface {
	Search(ctx context.Context, q domain.CatalogQuery) ([]product.Product, error)
}

// Composer phrases the assistant message for a result set.
type Composer interface {
	Compose(ctx context.Context, s result.Summary) string
}
