// Package query implements filtering, pagination, search and statistics over a snapshot of the catalog.
package query

import (
	"strings"

	apperrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store"
)

// ErrMissingSearchTerm is returned by Search when the term is empty.
var ErrMissingSearchTerm = apperrors.Validation("Search query is required")

// Filter narrows a listing. Nil fields do not filter.
type Filter struct {
	Category *string
	InStock  *bool
}

// Match reports whether p passes every set predicate.
func (f Filter) Match(p store.Product) bool {
	if f.Category != nil && !strings.EqualFold(p.Category, *f.Category) {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	return true
}

// Apply returns the products matching f in their original order.
func (f Filter) Apply(products []store.Product) []store.Product {
	out := make([]store.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// PageRef points at a neighbouring page.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Page is one slice of a filtered listing together with navigation hints.
type Page struct {
	Total    int
	Page     int
	Limit    int
	Data     []store.Product
	Next     *PageRef
	Previous *PageRef
}

// Paginate cuts the window [(page-1)*limit, page*limit) out of products.
// page and limit must already be positive.
func Paginate(products []store.Product, page, limit int) Page {
	total := len(products)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	result := Page{
		Total: total,
		Page:  page,
		Limit: limit,
		Data:  products[start:end],
	}
	if page*limit < total {
		result.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		result.Previous = &PageRef{Page: page - 1, Limit: limit}
	}
	return result
}

// List filters products then paginates the result.
func List(products []store.Product, f Filter, page, limit int) Page {
	return Paginate(f.Apply(products), page, limit)
}

// Search returns the products whose name or description contains term, ignoring case.
func Search(products []store.Product, term string) ([]store.Product, error) {
	if term == "" {
		return nil, ErrMissingSearchTerm
	}
	needle := strings.ToLower(term)
	out := make([]store.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Stats is the aggregate view of the catalog.
type Stats struct {
	TotalProducts int
	InStock       int
	OutOfStock    int
	Categories    map[string]int
}

// Aggregate computes Stats in a single pass. Categories are keyed by their stored spelling.
func Aggregate(products []store.Product) Stats {
	s := Stats{
		TotalProducts: len(products),
		Categories:    make(map[string]int),
	}
	for _, p := range products {
		if p.InStock {
			s.InStock++
		} else {
			s.OutOfStock++
		}
		s.Categories[p.Category]++
	}
	return s
}
