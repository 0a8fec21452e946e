package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusErr struct {
	status int
	msg    string
}

func (e *statusErr) Error() string         { return e.msg }
func (e *statusErr) HTTPStatus() int       { return e.status }
func (e *statusErr) PublicMessage() string { return e.msg }

func TestRespondErr(t *testing.T) {
	testCases := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "client error keeps its message",
			err:          &statusErr{status: http.StatusNotFound, msg: "Product not found"},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product not found"}`,
		},
		{
			name:         "wrapped client error is found",
			err:          fmt.Errorf("lookup: %w", &statusErr{status: http.StatusBadRequest, msg: "bad"}),
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"bad"}`,
		},
		{
			name:         "unknown error is hidden",
			err:          errors.New("connection reset by peer"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Internal Server Error"}`,
		},
		{
			name:         "server status error is hidden",
			err:          &statusErr{status: http.StatusInternalServerError, msg: "stack trace here"},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Internal Server Error"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			// when
			RespondErr(rr, req, discardLogger(), tc.err)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestRespondJSON_NilPayload(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondJSON(rr, discardLogger(), http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestQueryIntOr(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected int
	}{
		{name: "missing", query: "", expected: 10},
		{name: "valid", query: "limit=5", expected: 5},
		{name: "non numeric", query: "limit=abc", expected: 10},
		{name: "zero rejected by validator", query: "limit=0", expected: 10},
		{name: "negative rejected by validator", query: "limit=-3", expected: 10},
		{name: "overflow", query: "limit=99999999999", expected: 10},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
			assert.Equal(t, tc.expected, QueryIntOr(req, "limit", 10, Gte(1)))
		})
	}
}

func TestQueryBool(t *testing.T) {
	testCases := []struct {
		query           string
		expectedValue   bool
		expectedPresent bool
	}{
		{query: "", expectedValue: false, expectedPresent: false},
		{query: "inStock=true", expectedValue: true, expectedPresent: true},
		{query: "inStock=TRUE", expectedValue: false, expectedPresent: true},
		{query: "inStock=%20true", expectedValue: false, expectedPresent: true},
		{query: "inStock=false", expectedValue: false, expectedPresent: true},
		{query: "inStock=yes", expectedValue: false, expectedPresent: true},
		{query: "inStock=", expectedValue: false, expectedPresent: false},
	}
	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
			value, present := QueryBool(req, "inStock")
			assert.Equal(t, tc.expectedValue, value)
			assert.Equal(t, tc.expectedPresent, present)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Mouse"}`))
		var p payload
		require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, 1024, &p))
		assert.Equal(t, "Mouse", p.Name)
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 64)+`"}`))
		var p payload
		err := DecodeJSON(httptest.NewRecorder(), req, 16, &p)
		var maxErr *http.MaxBytesError
		assert.ErrorAs(t, err, &maxErr)
	})
}
