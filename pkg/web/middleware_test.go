package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestAPIKeyAuth(t *testing.T) {
	const header = "x-api-key"
	const secret = "s3cret"

	testCases := []struct {
		name               string
		headerValue        string
		setHeader          bool
		expectedStatusCode int
		shouldCallNext     bool
	}{
		{
			name:               "Success - matching key",
			headerValue:        secret,
			setHeader:          true,
			expectedStatusCode: http.StatusOK,
			shouldCallNext:     true,
		},
		{
			name:               "Failure - no header",
			expectedStatusCode: http.StatusUnauthorized,
			shouldCallNext:     false,
		},
		{
			name:               "Failure - empty header",
			headerValue:        "",
			setHeader:          true,
			expectedStatusCode: http.StatusUnauthorized,
			shouldCallNext:     false,
		},
		{
			name:               "Failure - wrong key",
			headerValue:        "guess",
			setHeader:          true,
			expectedStatusCode: http.StatusUnauthorized,
			shouldCallNext:     false,
		},
		{
			name:               "Failure - key with different case",
			headerValue:        "S3CRET",
			setHeader:          true,
			expectedStatusCode: http.StatusUnauthorized,
			shouldCallNext:     false,
		},
		{
			name:               "Failure - key prefix only",
			headerValue:        "s3c",
			setHeader:          true,
			expectedStatusCode: http.StatusUnauthorized,
			shouldCallNext:     false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})
			handler := APIKeyAuth(header, secret, discardLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			if tc.setHeader {
				req.Header.Set(header, tc.headerValue)
			}
			rr := httptest.NewRecorder()

			// when
			handler.ServeHTTP(rr, req)

			// then
			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.shouldCallNext, nextCalled)
			if !tc.shouldCallNext {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rr.Body.String())
				assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRequestIDInjector(t *testing.T) {
	testCases := []struct {
		name     string
		incoming string
	}{
		{name: "generates id when absent"},
		{name: "keeps incoming id", incoming: "incoming-id"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var seen string
			next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = middleware.GetReqID(r.Context())
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set("X-Request-Id", tc.incoming)
			}
			rr := httptest.NewRecorder()

			// when
			RequestIDInjector(next).ServeHTTP(rr, req)

			// then
			assert.NotEmpty(t, seen)
			assert.Equal(t, seen, rr.Header().Get("X-Request-Id"))
			if tc.incoming != "" {
				assert.Equal(t, tc.incoming, seen)
			}
		})
	}
}

func TestRecoverer(t *testing.T) {
	// given
	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	// when
	assert.NotPanics(t, func() {
		Recoverer(discardLogger())(next).ServeHTTP(rr, req)
	})

	// then
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
}

func TestStructuredLogger_PassesThrough(t *testing.T) {
	// given
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	// when
	StructuredLogger(discardLogger())(next).ServeHTTP(rr, req)

	// then
	assert.Equal(t, http.StatusTeapot, rr.Code)
}
