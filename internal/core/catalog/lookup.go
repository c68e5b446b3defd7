package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/appscope/appscope/internal/core"
)

// ID fields accepted by the lookup endpoint.
const (
	IDFieldTrackID  = "id"
	IDFieldBundleID = "bundleId"
)

// LookupOptions parameterize a batched lookup.
type LookupOptions struct {
	IDField  string
	Country  string
	Language string
	Request  RequestOptions
}

type lookupResponse struct {
	ResultCount  int                `json:"resultCount"`
	Results      *[]json.RawMessage `json:"results"`
	ErrorMessage string             `json:"errorMessage"`
}

type wrapperProbe struct {
	WrapperType *string `json:"wrapperType"`
}

// Lookup resolves ids to cleaned app records in one request. Entries whose
// wrapper marks them as something other than an app record are dropped.
func (c *Client) Lookup(ctx context.Context, ids []string, opts LookupOptions) ([]core.App, error) {
	endpoint, err := c.LookupURL(ids, opts)
	if err != nil {
		return nil, err
	}

	body, err := c.exec.Do(ctx, RequestSpec{URL: endpoint, Options: opts.Request})
	if err != nil {
		return nil, err
	}

	var payload lookupResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ParseError{What: "lookup response", Err: err}
	}
	if payload.Results == nil {
		parseErr := &ParseError{What: "lookup response: results missing"}
		if payload.ErrorMessage != "" {
			parseErr.Err = errors.New(payload.ErrorMessage)
		}
		return nil, parseErr
	}

	results := *payload.Results
	apps := make([]core.App, 0, len(results))
	for i, raw := range results {
		var probe wrapperProbe
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, &ParseError{What: fmt.Sprintf("lookup result %d", i), Err: err}
		}
		if !isAppRecord(probe.WrapperType) {
			continue
		}

		var entry core.RawApp
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, &ParseError{What: fmt.Sprintf("lookup result %d", i), Err: err}
		}
		apps = append(apps, core.CleanApp(entry))
	}

	return apps, nil
}

// LookupURL builds the batched lookup request URL.
func (c *Client) LookupURL(ids []string, opts LookupOptions) (string, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if value := strings.TrimSpace(id); value != "" {
			cleaned = append(cleaned, url.QueryEscape(value))
		}
	}
	if len(cleaned) == 0 {
		return "", &ArgumentError{Field: "ids", Message: "at least one id is required"}
	}

	idField := strings.TrimSpace(opts.IDField)
	switch idField {
	case "":
		idField = IDFieldTrackID
	case IDFieldTrackID, IDFieldBundleID:
	default:
		return "", &ArgumentError{Field: "id_field", Message: fmt.Sprintf("unsupported id field %q", idField)}
	}

	country := strings.TrimSpace(opts.Country)
	if country == "" {
		country = c.config.Country
	}
	if country == "" {
		country = DefaultLookupCountry
	}

	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = c.config.Language
	}

	var b strings.Builder
	b.WriteString(c.config.LookupURL)
	b.WriteString("?")
	b.WriteString(idField)
	b.WriteString("=")
	b.WriteString(strings.Join(cleaned, ","))
	b.WriteString("&country=")
	b.WriteString(url.QueryEscape(country))
	b.WriteString("&entity=software")
	if language != "" {
		b.WriteString("&lang=")
		b.WriteString(url.QueryEscape(language))
	}
	return b.String(), nil
}

func isAppRecord(wrapperType *string) bool {
	if wrapperType == nil {
		return true
	}
	switch *wrapperType {
	case "software", "track":
		return true
	default:
		return false
	}
}
