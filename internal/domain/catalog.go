package domain

import (
	"context"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// Catalog ordering hints understood by the upstream store.
const (
	OrderByRelevance  = "relevance"
	OrderByPopularity = "popularity"
	OrderByDate       = "date"
)

// CatalogQuery is one request to the upstream catalog.
type CatalogQuery struct {
	Pass    string // retrieval pass label, used for logs and metrics
	Search  string
	PerPage int
	OrderBy string // empty leaves the upstream default
}

// Catalog is the shared product source contract between layers.
type Catalog interface {
	Search(ctx context.Context, q CatalogQuery) ([]product.Product, error)
}

// HealthChecker verifies availability of an external dependency.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
