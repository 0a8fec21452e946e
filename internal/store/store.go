// Package store provides an interface for product storage operations.
package store

import (
	"context"
)

// Product represents a product entity in the store.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Category    string
	InStock     bool
}

// NewProduct carries the fields of a product to create. A nil InStock means in stock.
// ID is only set when seeding; an empty ID gets a generated one.
type NewProduct struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Category    string
	InStock     *bool
}

// ProductPatch lists the fields to overwrite on update; nil fields keep their stored value.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	InStock     *bool
}

// ProductStore is an interface for product storage operations.
// Implementations hand out copies; callers never hold a reference to a stored record.
type ProductStore interface {
	// FindAll returns every product in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*Product, error)

	// Create appends the product under a fresh ID, or under product.ID when it is set.
	// Fails if the ID is already in use.
	Create(ctx context.Context, product NewProduct) (*Product, error)

	// Update applies the patch to an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, patch ProductPatch) (*Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id string) error
}

// DemoProducts is the catalog a fresh store can be seeded with.
func DemoProducts() []NewProduct {
	return []NewProduct{
		{
			ID:          "1",
			Name:        "Laptop",
			Description: "High-performance laptop",
			Price:       999.99,
			Category:    "Electronics",
		},
		{
			ID:          "2",
			Name:        "Smartphone",
			Description: "Latest smartphone model",
			Price:       699.99,
			Category:    "Electronics",
		},
	}
}
