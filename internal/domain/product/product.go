// Package product holds the read-only catalog record searched by the service.
package product

// Stock statuses reported by the catalog.
const (
	StockInStock     = "instock"
	StockOutOfStock  = "outofstock"
	StockOnBackorder = "onbackorder"
)

// Image is a product image reference.
type Image struct {
	ID  int64
	Src string
	Alt string
}

// Term is a category or tag attached to a product.
type Term struct {
	ID   int64
	Name string
	Slug string
}

// Product is a catalog record. It is owned by the upstream catalog and never mutated here.
type Product struct {
	ID               int64
	Name             string
	Permalink        string
	ShortDescription string
	Description      string
	Categories       []Term
	Tags             []Term
	Price            string
	RegularPrice     string
	SalePrice        string
	StockStatus      string
	Images           []Image
	AverageRating    float64
	RatingCount      int
}

// InStock reports whether the catalog lists the product as in stock.
func (p *Product) InStock() bool { return p.StockStatus == StockInStock }

// HasImage reports whether the product has at least one image.
func (p *Product) HasImage() bool { return len(p.Images) > 0 }

// FirstImage returns the first image source, or "" when there is none.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Src
}

// CategoryNames returns category names in catalog order.
func (p *Product) CategoryNames() []string { return termNames(p.Categories) }

// TagNames returns tag names in catalog order.
func (p *Product) TagNames() []string { return termNames(p.Tags) }

func termNames(terms []Term) []string {
	if len(terms) == 0 {
		return nil
	}
	names := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names
}
