package domain

import "github.com/shopspring/decimal"

// Product is the snapshot of a catalog product taken when it was put into a cart.
// The cart never re-fetches live pricing.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

// CatalogProduct is a product as the backend currently lists it.
type CatalogProduct struct {
	Snapshot    Product
	Description string
	CategoryID  string
	Stock       int
	IsFeatured  bool
	IsNew       bool
}

func (p CatalogProduct) InStock() bool {
	return p.Stock > 0
}
