package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	apperrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/google/uuid"
)

// inMemory implements ProductStore on a slice kept in insertion order.
// One RWMutex guards the slice: readers share it, every mutation is exclusive.
type inMemory struct {
	mu       sync.RWMutex
	products []Product
	newID    func() string
}

// Option configures the in-memory store.
type Option func(*inMemory)

// WithIDGenerator replaces the UUID generator used for new products.
func WithIDGenerator(gen func() string) Option {
	return func(s *inMemory) {
		s.newID = gen
	}
}

// NewInMemoryStore creates a new instance of ProductStore
func NewInMemoryStore(opts ...Option) ProductStore {
	s := &inMemory{
		products: make([]Product, 0),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSeededInMemoryStore creates a store that already holds the given products.
func NewSeededInMemoryStore(ctx context.Context, seed []NewProduct, opts ...Option) (ProductStore, error) {
	s := NewInMemoryStore(opts...)
	for _, p := range seed {
		if _, err := s.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to seed product %q: %w", p.Name, err)
		}
	}
	return s, nil
}

// FindAll returns a copy of all products.
func (s *inMemory) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.products), nil
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, apperrors.ErrProductNotFound
	}
	p := s.products[i]
	return &p, nil
}

// Create creates a new product and returns it.
func (s *inMemory) Create(_ context.Context, np NewProduct) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := np.ID
	if id == "" {
		id = s.newID()
	}
	if s.indexOf(id) >= 0 {
		return nil, fmt.Errorf("product id %q is already in use", id)
	}
	product := Product{
		ID:          id,
		Name:        np.Name,
		Description: np.Description,
		Price:       np.Price,
		Category:    np.Category,
		InStock:     true,
	}
	if np.InStock != nil {
		product.InStock = *np.InStock
	}
	s.products = append(s.products, product)

	return &product, nil
}

// Update merges the patch into the stored product and returns the result.
func (s *inMemory) Update(_ context.Context, id string, patch ProductPatch) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, apperrors.ErrProductNotFound
	}
	updated := s.products[i]
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Price != nil {
		updated.Price = *patch.Price
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}
	if patch.InStock != nil {
		updated.InStock = *patch.InStock
	}
	s.products[i] = updated

	return &updated, nil
}

// DeleteByID deletes a product by its ID.
func (s *inMemory) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return apperrors.ErrProductNotFound
	}
	s.products = slices.Delete(s.products, i, i+1)
	return nil
}

// indexOf must be called with the lock held.
func (s *inMemory) indexOf(id string) int {
	return slices.IndexFunc(s.products, func(p Product) bool {
		return p.ID == id
	})
}
