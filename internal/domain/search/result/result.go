package result

import (
	"strings"
	"time"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/ranking"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/textnorm"
)

// MaxDescriptionLength caps display descriptions, in runes.
const MaxDescriptionLength = 200

// Item is a product as presented to callers.
type Item struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Permalink        string  `json:"permalink"`
	ShortDescription string  `json:"short_description"`
	Description      string  `json:"description"`
	Image            *string `json:"image"`
	Price            string  `json:"price"`
	RegularPrice     string  `json:"regular_price"`
	SalePrice        string  `json:"sale_price"`
	InStock          bool    `json:"in_stock"`
	Categories       string  `json:"categories"`
	Rating           float64 `json:"rating"`
	ReviewCount      int     `json:"review_count"`
	RelevanceScore   *int    `json:"relevance_score,omitempty"`
}

// LegacyItem is the minimal record served to backward-compatible callers.
type LegacyItem struct {
	Name        string `json:"name"`
	Permalink   string `json:"permalink"`
	Description string `json:"description"`
}

// Response is the outcome of a search or conversational request.
type Response struct {
	Products    []Item    `json:"products"`
	Message     string    `json:"message"`
	Suggestions []string  `json:"suggestions"`
	Query       string    `json:"query"`
	Count       int       `json:"count"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewItem maps a scored product to its display record.
// The relevance score is kept only when withScore is set.
func NewItem(s *ranking.Scored, withScore bool) Item {
	p := &s.Product
	item := Item{
		ID:               p.ID,
		Name:             textnorm.Normalize(p.Name),
		Permalink:        p.Permalink,
		ShortDescription: textnorm.Truncate(textnorm.Normalize(p.ShortDescription), MaxDescriptionLength),
		Description:      textnorm.Truncate(textnorm.Normalize(p.Description), MaxDescriptionLength),
		Price:            p.Price,
		RegularPrice:     p.RegularPrice,
		SalePrice:        p.SalePrice,
		InStock:          p.InStock(),
		Categories:       strings.Join(p.CategoryNames(), ", "),
		Rating:           p.AverageRating,
		ReviewCount:      p.RatingCount,
	}
	if img := p.FirstImage(); img != "" {
		item.Image = &img
	}
	if withScore {
		score := s.Score
		item.RelevanceScore = &score
	}
	return item
}

// NewItems maps a ranked list to display records.
func NewItems(scored []ranking.Scored, withScore bool) []Item {
	items := make([]Item, len(scored))
	for i := range scored {
		items[i] = NewItem(&scored[i], withScore)
	}
	return items
}

// NewLegacyItem maps a product to the minimal legacy record. The description
// is the raw short description, falling back to the long one.
func NewLegacyItem(p *product.Product) LegacyItem {
	desc := p.ShortDescription
	if desc == "" {
		desc = p.Description
	}
	return LegacyItem{Name: p.Name, Permalink: p.Permalink, Description: desc}
}

// NewLegacyItems maps a ranked list to legacy records.
func NewLegacyItems(scored []ranking.Scored) []LegacyItem {
	items := make([]LegacyItem, len(scored))
	for i := range scored {
		items[i] = NewLegacyItem(&scored[i].Product)
	}
	return items
}
