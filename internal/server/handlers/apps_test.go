package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appscope/appscope/internal/core"
	"github.com/appscope/appscope/internal/core/catalog"
)

type fakeCatalog struct {
	ids        []string
	lookupOpts catalog.LookupOptions
	workers    int
	apps       []core.App
	lookupErr  error

	privacyID   string
	privacyOpts catalog.PrivacyOptions
	details     *core.PrivacyDetails
	privacyErr  error
}

func (f *fakeCatalog) LookupAll(_ context.Context, ids []string, opts catalog.LookupOptions, workers int) ([]core.App, error) {
	f.ids = ids
	f.lookupOpts = opts
	f.workers = workers
	return f.apps, f.lookupErr
}

func (f *fakeCatalog) Privacy(_ context.Context, appID string, opts catalog.PrivacyOptions) (*core.PrivacyDetails, error) {
	f.privacyID = appID
	f.privacyOpts = opts
	return f.details, f.privacyErr
}

func newAppsRouter(h *AppsHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/apps", h.Lookup)
	r.Get("/v1/apps/{id}/privacy", h.Privacy)
	return r
}

func TestLookupHandlerPassesQuery(t *testing.T) {
	fake := &fakeCatalog{apps: []core.App{{ID: 553834731, Title: "Candy Crush Saga"}}}
	router := newAppsRouter(&AppsHandler{Catalog: fake, Limit: 5, Workers: 2})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/apps?ids=553834731,1&ids=2&country=gb&lang=en_gb&id_field=id", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"553834731", "1", "2"}, fake.ids)
	assert.Equal(t, "gb", fake.lookupOpts.Country)
	assert.Equal(t, "en_gb", fake.lookupOpts.Language)
	assert.Equal(t, "id", fake.lookupOpts.IDField)
	assert.Equal(t, 5, fake.lookupOpts.Request.Limit)
	assert.Equal(t, 2, fake.workers)

	var body LookupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "Candy Crush Saga", body.Results[0].Title)
}

func TestLookupHandlerEmptyResultIsArray(t *testing.T) {
	router := newAppsRouter(&AppsHandler{Catalog: &fakeCatalog{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/apps?ids=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":0,"results":[]}`, rec.Body.String())
}

func TestLookupHandlerArgumentErrorIsBadRequest(t *testing.T) {
	fake := &fakeCatalog{lookupErr: &catalog.ArgumentError{Field: "ids", Message: "at least one id is required"}}
	router := newAppsRouter(&AppsHandler{Catalog: fake})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/apps", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPrivacyHandler(t *testing.T) {
	fake := &fakeCatalog{details: &core.PrivacyDetails{
		PrivacyTypes: []core.PrivacyType{{Identifier: "DATA_NOT_COLLECTED"}},
	}}
	router := newAppsRouter(&AppsHandler{Catalog: fake, Limit: 3})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/apps/553834731/privacy?country=GB", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "553834731", fake.privacyID)
	assert.Equal(t, "GB", fake.privacyOpts.Country)
	assert.Equal(t, 3, fake.privacyOpts.Request.Limit)

	var body PrivacyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "DATA_NOT_COLLECTED", body.Privacy.PrivacyTypes[0].Identifier)
}

func TestPrivacyHandlerMapsCatalogErrors(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"empty body":   {catalog.ErrNotFound, http.StatusNotFound},
		"scrape":       {&catalog.ScrapeError{Stage: catalog.StageScriptURL}, http.StatusBadGateway},
		"parse":        {&catalog.ParseError{What: "privacy response"}, http.StatusInternalServerError},
		"upstream 5xx": {&catalog.HTTPStatusError{StatusCode: 503}, http.StatusBadGateway},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			router := newAppsRouter(&AppsHandler{Catalog: &fakeCatalog{privacyErr: tc.err}})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/apps/1/privacy", nil))

			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
