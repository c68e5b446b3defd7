package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appscope/appscope/internal/core"
	"github.com/appscope/appscope/internal/core/catalog"
	apperrors "github.com/appscope/appscope/internal/errors"
	"github.com/appscope/appscope/internal/server/handlers"
)

type stubCatalog struct {
	apps []core.App
	err  error
}

func (s *stubCatalog) LookupAll(context.Context, []string, catalog.LookupOptions, int) ([]core.App, error) {
	return s.apps, s.err
}

func (s *stubCatalog) Privacy(context.Context, string, catalog.PrivacyOptions) (*core.PrivacyDetails, error) {
	return &core.PrivacyDetails{}, s.err
}

func newTestServer(opts Options) *Server {
	opts.Host = "127.0.0.1"
	return New(opts)
}

func TestServerUsesStandardErrorHandlers(t *testing.T) {
	srv := newTestServer(Options{})

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var body apperrors.HTTPErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if body.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected error code NOT_FOUND, got %s", body.Error.Code)
	}
}

func TestServerMethodNotAllowed(t *testing.T) {
	srv := newTestServer(Options{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/version", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServerRoutesAppsAPI(t *testing.T) {
	srv := newTestServer(Options{
		Apps: &handlers.AppsHandler{Catalog: &stubCatalog{apps: []core.App{{ID: 1, Title: "One"}}}},
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/apps?ids=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/apps/1/privacy", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestServerWithoutAppsHandlerHasNoAPI(t *testing.T) {
	srv := newTestServer(Options{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/apps?ids=1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerThrottlesAPI(t *testing.T) {
	srv := newTestServer(Options{
		InboundRPS:   1,
		InboundBurst: 1,
		Apps:         &handlers.AppsHandler{Catalog: &stubCatalog{}},
	})

	first := httptest.NewRecorder()
	srv.Handler().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/v1/apps?ids=1", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	srv.Handler().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/v1/apps?ids=1", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Health stays outside the throttle.
	health := httptest.NewRecorder()
	srv.Handler().ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestServerHealthReflectsCheckers(t *testing.T) {
	hm := handlers.NewHealthManager("test")
	hm.RegisterChecker("catalog", handlers.HealthCheckerFunc(func(context.Context) error {
		return context.Canceled
	}))
	srv := newTestServer(Options{Health: hm})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminEndpointRequiresToken(t *testing.T) {
	srv := newTestServer(Options{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/signal", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
