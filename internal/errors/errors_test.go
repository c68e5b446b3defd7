package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appscope/appscope/internal/core/catalog"
)

func TestFromCatalogError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"argument", &catalog.ArgumentError{Field: "id", Message: "either id or appId is required"}, CodeInvalidInput, http.StatusBadRequest},
		{"empty result", catalog.ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"upstream 404", &catalog.HTTPStatusError{StatusCode: 404}, CodeNotFound, http.StatusNotFound},
		{"upstream 500", &catalog.HTTPStatusError{StatusCode: 500}, CodeExternalService, http.StatusBadGateway},
		{"transport timeout", &catalog.TransportError{Err: context.DeadlineExceeded}, CodeTimeout, http.StatusGatewayTimeout},
		{"transport", &catalog.TransportError{Err: fmt.Errorf("connection refused")}, CodeExternalService, http.StatusBadGateway},
		{"scrape", &catalog.ScrapeError{Stage: catalog.StageToken}, CodeExternalService, http.StatusBadGateway},
		{"parse", &catalog.ParseError{What: "privacy response"}, CodeDataProcessing, http.StatusInternalServerError},
		{"other", fmt.Errorf("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			envelope := FromCatalogError(context.Background(), tc.err)
			require.NotNil(t, envelope)
			assert.Equal(t, tc.code, envelope.Code)
			assert.Equal(t, tc.status, HTTPStatusFromEnvelope(envelope))
		})
	}
}

func TestFromCatalogErrorScrapeCarriesStage(t *testing.T) {
	envelope := FromCatalogError(context.Background(), &catalog.ScrapeError{Stage: catalog.StageScriptURL})

	details := ResponseDetails(envelope)
	assert.Equal(t, "script_url", details["stage"])
	assert.Equal(t, "scrape", details["catalog_error"])
}

func TestFromCatalogErrorArgumentKeepsMessage(t *testing.T) {
	err := &catalog.ArgumentError{Field: "id", Message: "either id or appId is required"}

	envelope := FromCatalogError(context.Background(), err)

	assert.Equal(t, CodeInvalidInput, envelope.Code)
	assert.Equal(t, err.Error(), envelope.Message)
	assert.NotEmpty(t, envelope.CorrelationID)
	assert.Equal(t, "argument", ResponseDetails(envelope)["catalog_error"])
}

func TestRespondWithErrorWritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/apps/1/privacy", nil)

	RespondWithError(rec, req, catalog.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, CodeNotFound, body.Error.Code)
	assert.Equal(t, "app not found (404)", body.Error.Message)
	assert.NotEmpty(t, body.Error.RequestID)
}

func TestEnsureEnvelopePassesEnvelopesThrough(t *testing.T) {
	original := NewRateLimitedError("slow down")
	assert.Same(t, original, EnsureEnvelope(original))

	wrapped := EnsureEnvelope(fmt.Errorf("plain"))
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatusFromCode(CodeRateLimited))
}
