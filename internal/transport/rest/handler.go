// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/validation"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
)

// ProductAPI defines HTTP handlers for product-related endpoints.
type ProductAPI interface {
	List(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	FindByID(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	DeleteByID(w http.ResponseWriter, r *http.Request)

	Hello(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)

	RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler)
}

type api struct {
	service      service.ProductService
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewAPI creates a new instance of ProductAPI with the provided service.
// Request bodies larger than maxBodyBytes are rejected; zero means unlimited.
func NewAPI(service service.ProductService, logger *slog.Logger, maxBodyBytes int64) ProductAPI {
	return &api{
		service:      service,
		logger:       logger.With("component", "api"),
		maxBodyBytes: maxBodyBytes,
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
// Every /api/products route runs behind auth, including unknown sub-paths.
func (a *api) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/", a.Hello)
	r.Get("/healthz", a.HealthCheck)

	r.Route("/api/products", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", a.List)
		r.Post("/", a.Create)
		r.Get("/search", a.Search)
		r.Get("/stats", a.Stats)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.FindByID)
			r.Put("/", a.Update)
			r.Delete("/", a.DeleteByID)
		})
	})
}

// List returns a filtered page of products.
func (a *api) List(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	a.logger.DebugContext(r.Context(), "Received request to list products",
		"category", params.Category, "inStock", params.InStock, "page", params.Page, "limit", params.Limit)

	page, err := a.service.List(r.Context(), params)
	if err != nil {
		web.RespondErr(w, r, a.logger, err)
		return
	}
	a.logger.DebugContext(r.Context(), "Successfully listed products", "total", page.Total, "count", len(page.Data))
	web.RespondJSON(w, a.logger, http.StatusOK, page)
}

// Search returns every product matching the q parameter.
func (a *api) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	a.logger.DebugContext(r.Context(), "Received request to search products", "q", term)

	found, err := a.service.Search(r.Context(), term)
	if err != nil {
		web.RespondErr(w, r, a.logger, err)
		return
	}
	a.logger.DebugContext(r.Context(), "Search completed", "q", term, "count", len(found))
	web.RespondJSON(w, a.logger, http.StatusOK, found)
}

// Stats returns the aggregate counts of the catalog.
func (a *api) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.service.Stats(r.Context())
	if err != nil {
		web.RespondErr(w, r, a.logger, err)
		return
	}
	web.RespondJSON(w, a.logger, http.StatusOK, stats)
}

// FindByID retrieves a product by its ID.
func (a *api) FindByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	a.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)

	found, err := a.service.FindByID(r.Context(), id)
	if err != nil {
		web.RespondErr(w, r, a.logger, err)
		return
	}
	a.logger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, a.logger, http.StatusOK, found)
}

// Create handles the creation of a new product.
func (a *api) Create(w http.ResponseWriter, r *http.Request) {
	var payload validation.ProductCreate
	if err := web.DecodeJSON(w, r, a.maxBodyBytes, &payload); err != nil {
		web.RespondErr(w, r, a.logger, validation.DecodeCreateError(err, payload))
		return
	}
	a.logger.DebugContext(r.Context(), "Received request to create product", "product", payload)

	created, err := a.service.Create(r.Context(), payload)
	if err != nil {
		web.RespondErr(w, r, a.logger, err)
		return
	}
	a.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, a.logger, http.StatusCreated, created)
}

// Update overwrites the supplied fields of a product.
func (a *api) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var payload validation.ProductUpdate
	if err := web.DecodeJSON(w, r, a.maxBodyBytes, &payload); err != nil {
		web.RespondErr(w, r, a.logger, validation.DecodeError(err))
		return
	}
	a.logger.DebugContext(r.Context(), "Received request to update product", "ID", id)

	updated, err := a.service.Update(r.Context(), id, payload)
	if err != nil {
		web.RespondErr(w, r, a.logger, err)
		return
	}
	a.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID)
	web.RespondJSON(w, a.logger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (a *api) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	a.logger.DebugContext(r.Context(), "Received request to delete product", "ID", id)

	if err := a.service.DeleteByID(r.Context(), id); err != nil {
		web.RespondErr(w, r, a.logger, err)
		return
	}
	a.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// Hello answers the root liveness probe.
func (a *api) Hello(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello World!"))
}

// HealthCheck is a simple health check endpoint.
func (a *api) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// parseListParams reads the list filters. Invalid page or limit values are left at zero
// and replaced by the service defaults.
func parseListParams(r *http.Request) service.ListParams {
	params := service.ListParams{
		Page:  web.QueryIntOr(r, "page", 0, web.Gt(0)),
		Limit: web.QueryIntOr(r, "limit", 0, web.Gt(0)),
	}
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		params.Category = &category
	}
	if inStock, ok := web.QueryBool(r, "inStock"); ok {
		params.InStock = &inStock
	}
	return params
}
