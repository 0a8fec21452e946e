// Package e2e provides end-to-end tests for the ProductService application.
// The real application handler runs in an httptest.Server and every test starts
// from a freshly seeded in-memory catalog.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/catalog/internal/app"
	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	productURL = "/api/products"
	apiKey     = "e2e-secret"
)

// ProductServiceE2ESuite is a test suite for end-to-end tests of the ProductService.
type ProductServiceE2ESuite struct {
	suite.Suite
	server     *httptest.Server
	httpClient *http.Client
	appCfg     *config.Config
	logger     *slog.Logger
	ctx        context.Context
}

// testConfig creates a configuration for the ProductService application.
func testConfig() *config.Config {
	var cfg config.Config

	cfg.HTTPServer.Port = 8080 // not bound, httptest.Server picks its own port
	cfg.HTTPServer.MaxHeaderBytes = 1 << 20
	cfg.HTTPServer.Timeout.Read = 10 * time.Minute
	cfg.HTTPServer.Timeout.Write = 10 * time.Minute
	cfg.HTTPServer.Timeout.Idle = 60 * time.Minute
	cfg.HTTPServer.Timeout.ReadHeader = 5 * time.Minute
	cfg.Auth.APIKey = apiKey
	cfg.Catalog.Seed = true

	return &cfg
}

func (s *ProductServiceE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.appCfg = testConfig()
	require.NoError(s.T(), s.appCfg.Validate())
}

// SetupTest starts a server over a new seeded catalog, so every test is isolated.
func (s *ProductServiceE2ESuite) SetupTest() {
	deps, err := app.SetupDependencies(s.ctx, s.appCfg, messaging.NopPublisher{}, s.logger)
	require.NoError(s.T(), err)
	s.server = httptest.NewServer(app.SetupHttpHandler(deps, s.appCfg))
	s.httpClient = s.server.Client()
}

func (s *ProductServiceE2ESuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
	}
}

func TestProductServiceE2E(t *testing.T) {
	suite.Run(t, new(ProductServiceE2ESuite))
}

func (s *ProductServiceE2ESuite) TestRootIsPublic() {
	body, status := s.doRequest(http.MethodGet, "/", "", nil)
	s.Equal(http.StatusOK, status)
	s.Equal("Hello World!", string(body))

	_, status = s.doRequest(http.MethodGet, "/healthz", "", nil)
	s.Equal(http.StatusOK, status)
}

func (s *ProductServiceE2ESuite) TestAuthRunsFirst() {
	testCases := []struct {
		name   string
		method string
		path   string
		key    string
		body   any
	}{
		{name: "list without key", method: http.MethodGet, path: productURL},
		{name: "list with wrong key", method: http.MethodGet, path: productURL, key: "nope"},
		{name: "invalid create payload", method: http.MethodPost, path: productURL, body: map[string]any{"name": "Mouse", "price": -5}},
		{name: "search without q", method: http.MethodGet, path: productURL + "/search"},
		{name: "unknown product", method: http.MethodDelete, path: productURL + "/missing"},
		{name: "unknown sub-path", method: http.MethodGet, path: productURL + "/a/b/c"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			body, status := s.doRequest(tc.method, tc.path, tc.key, tc.body)
			s.Equal(http.StatusUnauthorized, status)
			s.JSONEq(`{"error":"Unauthorized"}`, string(body))
		})
	}
}

func (s *ProductServiceE2ESuite) TestSeededCatalog() {
	page := s.list("")

	s.Equal(2, page.Total)
	s.Equal(1, page.Page)
	s.Equal(10, page.Limit)
	s.Require().Len(page.Data, 2)
	s.Equal("Laptop", page.Data[0].Name)
	s.Equal(999.99, page.Data[0].Price)
	s.Equal("Smartphone", page.Data[1].Name)
	s.Nil(page.Next)
	s.Nil(page.Previous)

	for i, id := range []string{"1", "2"} {
		found, status := s.doAndDecodeProduct(http.MethodGet, productURL+"/"+id, nil)
		s.Equal(http.StatusOK, status)
		s.Equal(page.Data[i], found)
	}
}

func (s *ProductServiceE2ESuite) TestCreateFindUpdateDelete() {
	// create
	created, status := s.doAndDecodeProduct(http.MethodPost, productURL, map[string]any{
		"name": "Mouse", "description": "Wireless mouse", "price": 25.5, "category": "Accessories",
	})
	s.Require().Equal(http.StatusCreated, status)
	s.NotEmpty(created.ID)
	s.True(created.InStock)

	// find
	found, status := s.doAndDecodeProduct(http.MethodGet, productURL+"/"+created.ID, nil)
	s.Equal(http.StatusOK, status)
	s.Equal(created, found)

	// partial update keeps omitted fields
	updated, status := s.doAndDecodeProduct(http.MethodPut, productURL+"/"+created.ID, map[string]any{
		"price": 19.99, "inStock": false,
	})
	s.Equal(http.StatusOK, status)
	s.Equal("Mouse", updated.Name)
	s.Equal("Wireless mouse", updated.Description)
	s.Equal("Accessories", updated.Category)
	s.Equal(19.99, updated.Price)
	s.False(updated.InStock)

	// delete
	body, status := s.doRequest(http.MethodDelete, productURL+"/"+created.ID, apiKey, nil)
	s.Equal(http.StatusNoContent, status)
	s.Empty(body)

	body, status = s.doRequest(http.MethodGet, productURL+"/"+created.ID, apiKey, nil)
	s.Equal(http.StatusNotFound, status)
	s.JSONEq(`{"error":"Product not found"}`, string(body))
}

func (s *ProductServiceE2ESuite) TestCreateValidation() {
	testCases := []struct {
		name    string
		payload string
		message string
	}{
		{name: "negative price", payload: `{"name":"Mouse","price":-5,"category":"Electronics"}`, message: "Price must be a positive number"},
		{name: "string price", payload: `{"name":"Mouse","price":"5","category":"Electronics"}`, message: "Price must be a positive number"},
		{name: "missing name", payload: `{"price":5,"category":"Electronics"}`, message: "Name, price, and category are required"},
		{name: "missing price", payload: `{"name":"Mouse","category":"Electronics"}`, message: "Name, price, and category are required"},
		{name: "missing name and string price", payload: `{"price":"abc","category":"Electronics"}`, message: "Name, price, and category are required"},
		{name: "malformed", payload: `{"name":"Mouse"`, message: "Invalid request body"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			body, status := s.doRawRequest(http.MethodPost, productURL, apiKey, strings.NewReader(tc.payload))
			s.Equal(http.StatusBadRequest, status)
			s.JSONEq(`{"error":"`+tc.message+`"}`, string(body))
			s.Equal(2, s.list("").Total, "store must be unchanged")
		})
	}
}

func (s *ProductServiceE2ESuite) TestUpdateValidationLeavesProductUntouched() {
	id := s.list("").Data[0].ID

	body, status := s.doRequest(http.MethodPut, productURL+"/"+id, apiKey, map[string]any{"name": "Renamed", "price": -1})

	s.Equal(http.StatusBadRequest, status)
	s.JSONEq(`{"error":"Price must be a positive number"}`, string(body))
	found, _ := s.doAndDecodeProduct(http.MethodGet, productURL+"/"+id, nil)
	s.Equal("Laptop", found.Name)
	s.Equal(999.99, found.Price)
}

func (s *ProductServiceE2ESuite) TestUpdateZeroPriceKeepsStoredPrice() {
	id := s.list("").Data[0].ID

	updated, status := s.doAndDecodeProduct(http.MethodPut, productURL+"/"+id, map[string]any{"price": 0, "name": "Notebook"})

	s.Equal(http.StatusOK, status)
	s.Equal("Notebook", updated.Name)
	s.Equal(999.99, updated.Price)
	found, _ := s.doAndDecodeProduct(http.MethodGet, productURL+"/"+id, nil)
	s.Equal(updated, found)
}

func (s *ProductServiceE2ESuite) TestNotFound() {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		s.Run(method, func() {
			body, status := s.doRequest(method, productURL+"/does-not-exist", apiKey, map[string]any{"name": "x"})
			s.Equal(http.StatusNotFound, status)
			s.JSONEq(`{"error":"Product not found"}`, string(body))
		})
	}
}

func (s *ProductServiceE2ESuite) TestFilterElectronicsOutOfStock() {
	second := s.list("").Data[1]
	_, status := s.doAndDecodeProduct(http.MethodPut, productURL+"/"+second.ID, map[string]any{"inStock": false})
	s.Require().Equal(http.StatusOK, status)

	page := s.list("?category=electronics&inStock=false")

	s.Equal(1, page.Total)
	s.Require().Len(page.Data, 1)
	s.Equal(second.ID, page.Data[0].ID)
}

func (s *ProductServiceE2ESuite) TestPagination() {
	for i := 0; i < 3; i++ {
		_, status := s.doAndDecodeProduct(http.MethodPost, productURL, map[string]any{
			"name": "Book", "price": 10, "category": "Books",
		})
		s.Require().Equal(http.StatusCreated, status)
	}

	first := s.list("?page=1&limit=2")
	s.Equal(5, first.Total)
	s.Len(first.Data, 2)
	s.Require().NotNil(first.Next)
	s.Equal(2, first.Next.Page)
	s.Nil(first.Previous)

	last := s.list("?page=3&limit=2")
	s.Len(last.Data, 1)
	s.Nil(last.Next)
	s.Require().NotNil(last.Previous)
	s.Equal(2, last.Previous.Page)

	clamped := s.list("?page=0&limit=abc")
	s.Equal(1, clamped.Page)
	s.Equal(10, clamped.Limit)

	capped := s.list("?limit=1000")
	s.Equal(100, capped.Limit)
}

func (s *ProductServiceE2ESuite) TestSearch() {
	body, status := s.doRequest(http.MethodGet, productURL+"/search?q=LAPTOP", apiKey, nil)
	s.Equal(http.StatusOK, status)
	var found []service.ProductDto
	s.Require().NoError(json.Unmarshal(body, &found))
	s.Require().Len(found, 1)
	s.Equal("Laptop", found[0].Name)

	body, status = s.doRequest(http.MethodGet, productURL+"/search?q=chair", apiKey, nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq(`[]`, string(body))

	body, status = s.doRequest(http.MethodGet, productURL+"/search", apiKey, nil)
	s.Equal(http.StatusBadRequest, status)
	s.JSONEq(`{"error":"Search query is required"}`, string(body))
}

func (s *ProductServiceE2ESuite) TestStats() {
	id := s.list("").Data[0].ID
	_, status := s.doAndDecodeProduct(http.MethodPut, productURL+"/"+id, map[string]any{"inStock": false})
	s.Require().Equal(http.StatusOK, status)
	_, status = s.doAndDecodeProduct(http.MethodPost, productURL, map[string]any{"name": "Desk", "price": 300, "category": "Furniture"})
	s.Require().Equal(http.StatusCreated, status)

	body, status := s.doRequest(http.MethodGet, productURL+"/stats", apiKey, nil)

	s.Equal(http.StatusOK, status)
	s.JSONEq(`{"totalProducts":3,"inStock":2,"outOfStock":1,"categories":{"Electronics":2,"Furniture":1}}`, string(body))
}

// --------------------------------------------------------------------------
// ------------------------ Helper methods for E2E tests ---------------------
// --------------------------------------------------------------------------

func (s *ProductServiceE2ESuite) list(rawQuery string) service.PageDto {
	s.T().Helper()
	body, status := s.doRequest(http.MethodGet, productURL+rawQuery, apiKey, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var page service.PageDto
	s.Require().NoError(json.Unmarshal(body, &page))
	return page
}

// doAndDecodeProduct sends an authenticated request and decodes a product from a 200 or 201 response.
func (s *ProductServiceE2ESuite) doAndDecodeProduct(method, path string, payload any) (service.ProductDto, int) {
	s.T().Helper()
	body, status := s.doRequest(method, path, apiKey, payload)
	var product service.ProductDto
	if status == http.StatusOK || status == http.StatusCreated {
		s.Require().NoError(json.Unmarshal(body, &product))
	}
	return product, status
}

// doRequest sends payload as JSON. An empty key sends no auth header.
func (s *ProductServiceE2ESuite) doRequest(method, path, key string, payload any) ([]byte, int) {
	s.T().Helper()
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewBuffer(payloadBytes)
	}
	return s.doRawRequest(method, path, key, body)
}

func (s *ProductServiceE2ESuite) doRawRequest(method, path, key string, body io.Reader) ([]byte, int) {
	s.T().Helper()
	req, err := http.NewRequestWithContext(s.ctx, method, s.server.URL+path, body)
	s.Require().NoError(err, "Failed to create HTTP request")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set("x-api-key", key)
	}

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err, "HTTP request failed")
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err, "Failed to read response body")
	return bodyBytes, resp.StatusCode
}
