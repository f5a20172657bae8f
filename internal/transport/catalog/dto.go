package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// productDTO mirrors the subset of the WooCommerce product schema the service reads.
type productDTO struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Permalink        string     `json:"permalink"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"short_description"`
	Price            string     `json:"price"`
	RegularPrice     string     `json:"regular_price"`
	SalePrice        string     `json:"sale_price"`
	StockStatus      string     `json:"stock_status"`
	AverageRating    flexFloat  `json:"average_rating"`
	RatingCount      int        `json:"rating_count"`
	Categories       []termDTO  `json:"categories"`
	Tags             []termDTO  `json:"tags"`
	Images           []imageDTO `json:"images"`
}

type termDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type imageDTO struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

func (d *productDTO) toDomain() product.Product {
	p := product.Product{
		ID:               d.ID,
		Name:             d.Name,
		Permalink:        d.Permalink,
		ShortDescription: d.ShortDescription,
		Description:      d.Description,
		Price:            d.Price,
		RegularPrice:     d.RegularPrice,
		SalePrice:        d.SalePrice,
		StockStatus:      d.StockStatus,
		AverageRating:    float64(d.AverageRating),
		RatingCount:      d.RatingCount,
	}
	for _, t := range d.Categories {
		p.Categories = append(p.Categories, product.Term(t))
	}
	for _, t := range d.Tags {
		p.Tags = append(p.Tags, product.Term(t))
	}
	for _, img := range d.Images {
		if img.Src == "" {
			continue
		}
		p.Images = append(p.Images, product.Image(img))
	}
	return p
}

// flexFloat accepts a JSON number or a numeric string ("4.50"); anything else decodes as 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}
