package shopsearch

import (
	"time"

	"github.com/kailas-cloud/shopsearch/internal/domain/search/relevance"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/shopsearch/internal/usecase/search"
)

// Weights tunes the relevance scorer. Start from DefaultWeights.
type Weights = relevance.Weights

// DefaultWeights returns the built-in scoring weights and thresholds.
func DefaultWeights() Weights { return relevance.DefaultWeights() }

// Limits bounds result sizes and the retrieval plan. Zero fields take defaults.
type Limits = searchuc.Limits

// Product is one ranked search hit.
type Product struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Permalink        string  `json:"permalink"`
	ShortDescription string  `json:"short_description"`
	Description      string  `json:"description"`
	Image            string  `json:"image,omitempty"` // empty when the product has no image
	Price            string  `json:"price"`
	RegularPrice     string  `json:"regular_price"`
	SalePrice        string  `json:"sale_price"`
	InStock          bool    `json:"in_stock"`
	Categories       string  `json:"categories"`
	Rating           float64 `json:"rating"`
	ReviewCount      int     `json:"review_count"`
	RelevanceScore   int     `json:"relevance_score,omitempty"` // zero for chat results
}

// Result is a ranked answer to a search or chat request.
type Result struct {
	Products    []Product `json:"products"`
	Message     string    `json:"message"`
	Suggestions []string  `json:"suggestions"`
	Query       string    `json:"query"`
	Count       int       `json:"count"`
	Timestamp   time.Time `json:"timestamp"`
}

// LegacyProduct is the minimal record returned by Products.
type LegacyProduct struct {
	Name        string `json:"name"`
	Permalink   string `json:"permalink"`
	Description string `json:"description"`
}

// Summary describes a result set for a custom Composer.
type Summary struct {
	Query      string
	Count      int
	InStock    int
	Categories []string
	Names      []string
}

func fromResponse(r *result.Response) Result {
	out := Result{
		Products:    make([]Product, len(r.Products)),
		Message:     r.Message,
		Suggestions: r.Suggestions,
		Query:       r.Query,
		Count:       r.Count,
		Timestamp:   r.Timestamp,
	}
	for i := range r.Products {
		out.Products[i] = fromItem(&r.Products[i])
	}
	return out
}

func fromItem(it *result.Item) Product {
	p := Product{
		ID:               it.ID,
		Name:             it.Name,
		Permalink:        it.Permalink,
		ShortDescription: it.ShortDescription,
		Description:      it.Description,
		Price:            it.Price,
		RegularPrice:     it.RegularPrice,
		SalePrice:        it.SalePrice,
		InStock:          it.InStock,
		Categories:       it.Categories,
		Rating:           it.Rating,
		ReviewCount:      it.ReviewCount,
	}
	if it.Image != nil {
		p.Image = *it.Image
	}
	if it.RelevanceScore != nil {
		p.RelevanceScore = *it.RelevanceScore
	}
	return p
}

func fromLegacy(items []result.LegacyItem) []LegacyProduct {
	out := make([]LegacyProduct, len(items))
	for i, it := range items {
		out[i] = LegacyProduct{Name: it.Name, Permalink: it.Permalink, Description: it.Description}
	}
	return out
}
