// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/catalog/internal/query"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/validation"
	"github.com/abgdnv/catalog/pkg/messaging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// List returns one page of the products matching the filter.
	List(ctx context.Context, params ListParams) (*PageDto, error)

	// Search returns every product whose name or description contains term.
	// Returns a validation error if term is empty.
	Search(ctx context.Context, term string) ([]ProductDto, error)

	// Stats aggregates stock and category counts over the whole catalog.
	Stats(ctx context.Context) (*StatsDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*ProductDto, error)

	// Create validates and adds a new product.
	Create(ctx context.Context, product validation.ProductCreate) (*ProductDto, error)

	// Update validates the payload and overwrites the supplied fields.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, product validation.ProductUpdate) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id string) error
}

// Limits bounds the page size of List.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
}

// Service implements ProductService.
type Service struct {
	store     store.ProductStore
	validator *validation.Validator
	publisher messaging.Publisher
	limits    Limits
	now       func() time.Time

	createdCounter metric.Int64Counter
	updatedCounter metric.Int64Counter
	deletedCounter metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided store and publisher.
func NewService(productStore store.ProductStore, publisher messaging.Publisher, limits Limits) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	if limits.DefaultLimit < 1 {
		limits.DefaultLimit = 10
	}
	if limits.MaxLimit < limits.DefaultLimit {
		limits.MaxLimit = limits.DefaultLimit
	}
	meter := otel.Meter("product-service")
	return &Service{
		store:          productStore,
		validator:      validation.New(),
		publisher:      publisher,
		limits:         limits,
		now:            time.Now,
		createdCounter: mustCounter(meter, "products_created", "Total number of created products"),
		updatedCounter: mustCounter(meter, "products_updated", "Total number of updated products"),
		deletedCounter: mustCounter(meter, "products_deleted", "Total number of deleted products"),
	}
}

func mustCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(fmt.Sprintf("failed to create %s counter: %v", name, err))
	}
	return counter
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

// ListParams holds the list filters and the requested page. Page or Limit below 1 select the defaults.
type ListParams struct {
	Category *string
	InStock  *bool
	Page     int
	Limit    int
}

// PageDto is the paginated envelope returned by List.
type PageDto struct {
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	Limit    int            `json:"limit"`
	Data     []ProductDto   `json:"data"`
	Next     *query.PageRef `json:"next,omitempty"`
	Previous *query.PageRef `json:"previous,omitempty"`
}

// StatsDto represents the aggregate counts of the catalog.
type StatsDto struct {
	TotalProducts int            `json:"totalProducts"`
	InStock       int            `json:"inStock"`
	OutOfStock    int            `json:"outOfStock"`
	Categories    map[string]int `json:"categories"`
}

// List filters a snapshot of the catalog and returns the requested page.
func (s *Service) List(ctx context.Context, params ListParams) (*PageDto, error) {
	products, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	page, limit := s.pageBounds(params.Page, params.Limit)
	result := query.List(products, query.Filter{Category: params.Category, InStock: params.InStock}, page, limit)

	return &PageDto{
		Total:    result.Total,
		Page:     result.Page,
		Limit:    result.Limit,
		Data:     toDtos(result.Data),
		Next:     result.Next,
		Previous: result.Previous,
	}, nil
}

func (s *Service) pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.limits.DefaultLimit
	}
	return page, min(limit, s.limits.MaxLimit)
}

// Search returns the matching products in catalog order.
func (s *Service) Search(ctx context.Context, term string) ([]ProductDto, error) {
	products, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	found, err := query.Search(products, term)
	if err != nil {
		return nil, err
	}
	return toDtos(found), nil
}

// Stats aggregates the current catalog.
func (s *Service) Stats(ctx context.Context) (*StatsDto, error) {
	products, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	stats := query.Aggregate(products)
	return &StatsDto{
		TotalProducts: stats.TotalProducts,
		InStock:       stats.InStock,
		OutOfStock:    stats.OutOfStock,
		Categories:    stats.Categories,
	}, nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindByID(ctx context.Context, id string) (*ProductDto, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	return toDto(product), nil
}

// Create validates the payload, stores the product and announces it.
func (s *Service) Create(ctx context.Context, create validation.ProductCreate) (*ProductDto, error) {
	if err := s.validator.Create(create); err != nil {
		return nil, err
	}
	product, err := s.store.Create(ctx, store.NewProduct{
		Name:        create.Name,
		Description: create.Description,
		Price:       create.Price,
		Category:    create.Category,
		InStock:     create.InStock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	dto := toDto(product)

	s.publish(ctx, SubjectProductCreated, dto.ID, dto)
	s.createdCounter.Add(ctx, 1)

	return dto, nil
}

// Update validates the payload and merges it into the stored product.
func (s *Service) Update(ctx context.Context, id string, update validation.ProductUpdate) (*ProductDto, error) {
	if err := s.validator.Update(update); err != nil {
		return nil, err
	}
	product, err := s.store.Update(ctx, id, toPatch(update))
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	dto := toDto(product)

	s.publish(ctx, SubjectProductUpdated, dto.ID, dto)
	s.updatedCounter.Add(ctx, 1)

	return dto, nil
}

// DeleteByID deletes a product by its ID.
func (s *Service) DeleteByID(ctx context.Context, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}

	s.publish(ctx, SubjectProductDeleted, id, nil)
	s.deletedCounter.Add(ctx, 1)

	return nil
}

// publish never fails the caller: the change is already committed.
func (s *Service) publish(ctx context.Context, subject, id string, product *ProductDto) {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event := ProductEvent{
		Carrier:    carrier,
		subject:    subject,
		ProductID:  id,
		Product:    product,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish product event", "subject", subject, "product_id", id, "error", err)
	}
}

// toPatch keeps only the fields the update really supplies. Empty name or category and a zero price
// are ignored, description and stock count whenever present.
func toPatch(update validation.ProductUpdate) store.ProductPatch {
	patch := store.ProductPatch{
		Description: update.Description,
		InStock:     update.InStock,
	}
	if update.Name != nil && *update.Name != "" {
		patch.Name = update.Name
	}
	if update.Price != nil && *update.Price != 0 {
		patch.Price = update.Price
	}
	if update.Category != nil && *update.Category != "" {
		patch.Category = update.Category
	}
	return patch
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		InStock:     product.InStock,
	}
}

func toDtos(products []store.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = *toDto(&products[i])
	}
	return dtos
}
