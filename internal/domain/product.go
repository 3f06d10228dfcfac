package domain

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// ProductCategory groups catalog products. Digital products produce a
// download notification once ordered.
type ProductCategory string

const (
	CategoryBooks    ProductCategory = "books"
	CategoryToys     ProductCategory = "toys"
	CategoryKits     ProductCategory = "kits"
	CategoryDigital  ProductCategory = "digital"
	CategoryPrintout ProductCategory = "printables"
)

// Product is the catalog record the view layer hands to the cart.
// The cart copies its display fields; it never reads the catalog itself.
type Product struct {
	ID       string           `json:"id" validate:"required,max=64"`
	Title    string           `json:"title" validate:"required,max=200"`
	Image    string           `json:"image,omitempty" validate:"omitempty,max=2048"`
	Price    decimal.Decimal  `json:"price"`
	OldPrice *decimal.Decimal `json:"oldPrice,omitempty"`
	Category ProductCategory  `json:"category,omitempty" validate:"omitempty,oneof=books toys kits digital printables"`
	AgeRange string           `json:"ageRange,omitempty" validate:"omitempty,max=32"`
}

// IsDigital reports whether the product is delivered as a download.
func (p Product) IsDigital() bool {
	return p.Category == CategoryDigital || p.Category == CategoryPrintout
}
