package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/appscope/appscope/internal/core"
	"github.com/appscope/appscope/internal/core/catalog"
	"github.com/appscope/appscope/internal/metrics"
	"github.com/appscope/appscope/internal/observability"
)

// Catalog is the part of *catalog.Client the API serves.
type Catalog interface {
	LookupAll(ctx context.Context, ids []string, opts catalog.LookupOptions, workers int) ([]core.App, error)
	Privacy(ctx context.Context, appID string, opts catalog.PrivacyOptions) (*core.PrivacyDetails, error)
}

// LookupResponse is the body of GET /v1/apps.
type LookupResponse struct {
	Count   int        `json:"count"`
	Results []core.App `json:"results"`
}

// PrivacyResponse is the body of GET /v1/apps/{id}/privacy.
type PrivacyResponse struct {
	ID      string               `json:"id"`
	Country string               `json:"country,omitempty"`
	Privacy *core.PrivacyDetails `json:"privacy"`
}

// AppsHandler serves lookups and privacy disclosures.
type AppsHandler struct {
	Catalog Catalog

	// Limit is the outbound requests-per-second ceiling passed to every call.
	Limit int

	// Workers bounds concurrent lookup chunks.
	Workers int
}

// Lookup handles GET /v1/apps?ids=1,2&country=us&lang=en_us&id_field=id.
// ids may also be repeated.
func (h *AppsHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var ids []string
	for _, value := range query["ids"] {
		ids = append(ids, strings.Split(value, ",")...)
	}

	apps, err := h.Catalog.LookupAll(r.Context(), ids, catalog.LookupOptions{
		IDField:  query.Get("id_field"),
		Country:  query.Get("country"),
		Language: query.Get("lang"),
		Request:  catalog.RequestOptions{Limit: h.Limit},
	}, h.Workers)
	metrics.RecordOperation("lookup", catalog.KindOf(err).String())
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if apps == nil {
		apps = []core.App{}
	}
	writeJSON(w, http.StatusOK, LookupResponse{Count: len(apps), Results: apps})
}

// Privacy handles GET /v1/apps/{id}/privacy?country=US.
func (h *AppsHandler) Privacy(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "id")
	country := r.URL.Query().Get("country")

	details, err := h.Catalog.Privacy(r.Context(), appID, catalog.PrivacyOptions{
		Country: country,
		Request: catalog.RequestOptions{Limit: h.Limit},
	})
	metrics.RecordOperation("privacy", catalog.KindOf(err).String())
	if err != nil {
		if observability.ServerLogger != nil {
			observability.ServerLogger.Debug("Privacy fetch failed",
				zap.String("app_id", appID),
				zap.String("kind", catalog.KindOf(err).String()),
				zap.Error(err))
		}
		respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, PrivacyResponse{ID: appID, Country: country, Privacy: details})
}
