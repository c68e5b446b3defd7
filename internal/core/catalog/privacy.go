package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/appscope/appscope/internal/core"
)

// PrivacyOptions parameterize a privacy fetch.
type PrivacyOptions struct {
	Country string
	Request RequestOptions
}

type privacyResponse struct {
	Data []struct {
		Attributes struct {
			PrivacyDetails *core.PrivacyDetails `json:"privacyDetails"`
		} `json:"attributes"`
	} `json:"data"`
}

// Privacy fetches the privacy disclosures for appID using a freshly
// discovered bearer token.
func (c *Client) Privacy(ctx context.Context, appID string, opts PrivacyOptions) (*core.PrivacyDetails, error) {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return nil, &ArgumentError{Field: "id", Message: "either id or appId is required"}
	}
	country := c.PrivacyCountry(opts.Country)

	token, err := c.DiscoverToken(ctx, appID, TokenOptions{Country: country, Request: opts.Request})
	if err != nil {
		return nil, err
	}

	body, err := c.exec.Do(ctx, RequestSpec{
		URL: c.PrivacyURL(appID, country),
		Headers: map[string]string{
			"Origin":        c.config.StorefrontOrigin,
			"Authorization": "Bearer " + token,
		},
		Options: opts.Request,
	})
	if err != nil {
		return nil, err
	}

	return ParsePrivacy(body)
}

// PrivacyURL is the authenticated catalog endpoint for an app's disclosures.
func (c *Client) PrivacyURL(appID, country string) string {
	return fmt.Sprintf("%s/v1/catalog/%s/apps/%s?platform=web&fields=privacyDetails",
		c.config.APIURL, url.PathEscape(country), url.PathEscape(appID))
}

// ParsePrivacy extracts data[0].attributes.privacyDetails. An empty body is
// ErrNotFound; anything else that does not match the shape is a ParseError.
func ParsePrivacy(body []byte) (*core.PrivacyDetails, error) {
	if len(body) == 0 {
		return nil, ErrNotFound
	}

	var payload privacyResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ParseError{What: "privacy response", Err: err}
	}
	if len(payload.Data) == 0 {
		return nil, &ParseError{What: "privacy response: data is empty"}
	}

	details := payload.Data[0].Attributes.PrivacyDetails
	if details == nil {
		return nil, &ParseError{What: "privacy response: attributes.privacyDetails missing"}
	}
	return details, nil
}
