package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a sellable item in the event catalog.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Category string
}

// Category groups products for presentation. Products keeps the catalog
// declaration order, which also fixes the order of cross-selling
// recommendations within the category.
type Category struct {
	Name     string
	Products []Product
}

// Repository defines read operations for the product catalog.
type Repository interface {
	Categories(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}

// Index provides product lookup over an ordered category list.
type Index struct {
	categories []Category
	byID       map[string]Product
}

// NewIndex builds a lookup index over the given categories. Category and
// product order is preserved.
func NewIndex(categories []Category) *Index {
	byID := make(map[string]Product)
	for _, c := range categories {
		for _, p := range c.Products {
			if _, ok := byID[p.ID]; !ok {
				byID[p.ID] = p
			}
		}
	}
	return &Index{categories: categories, byID: byID}
}

// Categories returns the ordered category list the index was built from.
func (ix *Index) Categories() []Category {
	return ix.categories
}

// Product looks up a product by ID.
func (ix *Index) Product(id string) (Product, bool) {
	p, ok := ix.byID[id]
	return p, ok
}
