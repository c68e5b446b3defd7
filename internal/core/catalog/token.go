package catalog

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	scriptPathPattern = regexp.MustCompile(`^/assets/index[^"]+\.js$`)
	tokenPattern      = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`)
)

// TokenOptions parameterize token discovery.
type TokenOptions struct {
	Country string
	Request RequestOptions
}

// StorefrontURL is the public listing page the script bundle is found on.
func (c *Client) StorefrontURL(appID, country string) string {
	return fmt.Sprintf("%s/%s/app/id%s", c.config.StorefrontOrigin, url.PathEscape(country), url.PathEscape(appID))
}

// DiscoverToken derives a bearer token from the storefront page: page ->
// script bundle URL -> token. Nothing is cached; each call starts over.
func (c *Client) DiscoverToken(ctx context.Context, appID string, opts TokenOptions) (string, error) {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return "", &ArgumentError{Field: "id", Message: "app id is required"}
	}
	country := c.PrivacyCountry(opts.Country)

	origin, err := resolveOrigin(c.config.StorefrontOrigin)
	if err != nil {
		return "", &ArgumentError{Field: "storefront_origin", Message: err.Error()}
	}

	pageURL := c.StorefrontURL(appID, country)
	page, err := c.exec.Do(ctx, RequestSpec{URL: pageURL, Options: opts.Request})
	if err != nil {
		return "", err
	}

	scriptURL, err := ScriptURLFromPage(origin, page)
	if err != nil {
		return "", withURL(err, pageURL)
	}

	script, err := c.exec.Do(ctx, RequestSpec{URL: scriptURL, Options: opts.Request})
	if err != nil {
		return "", err
	}

	token, err := TokenFromScript(script)
	if err != nil {
		return "", withURL(err, scriptURL)
	}

	if info, ok := InspectToken(token); ok {
		c.exec.logger().Debug("Discovered bearer token",
			zap.String("issuer", info.Issuer),
			zap.Time("expires_at", info.ExpiresAt))
	}

	return token, nil
}

// ScriptURLFromPage returns origin + the path of the first
// `<script src="/assets/index...js">` in html.
func ScriptURLFromPage(origin *url.URL, html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", &ScrapeError{Stage: StageScriptURL}
	}

	var path string
	doc.Find("script[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if scriptPathPattern.MatchString(src) {
			path = src
			return false
		}
		return true
	})
	if path == "" {
		return "", &ScrapeError{Stage: StageScriptURL}
	}

	return strings.TrimRight(origin.String(), "/") + path, nil
}

// TokenFromScript returns the first compact-JWT-shaped substring of js.
func TokenFromScript(js []byte) (string, error) {
	match := tokenPattern.Find(js)
	if match == nil {
		return "", &ScrapeError{Stage: StageToken}
	}
	return string(match), nil
}

// TokenInfo holds unverified claims read from a bearer token.
type TokenInfo struct {
	Issuer    string
	ExpiresAt time.Time
}

// InspectToken reads the token's claims without verifying the signature. It
// is informational only: a token that does not parse is still usable.
func InspectToken(token string) (TokenInfo, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, false
	}

	var info TokenInfo
	if issuer, err := claims.GetIssuer(); err == nil {
		info.Issuer = issuer
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, true
}

func withURL(err error, source string) error {
	if scrape, ok := err.(*ScrapeError); ok {
		scrape.URL = source
	}
	return err
}

// PrivacyCountry resolves the storefront country used for token discovery
// and privacy requests: the explicit value, then the configured country,
// then DefaultPrivacyCountry.
func (c *Client) PrivacyCountry(country string) string {
	if value := strings.TrimSpace(country); value != "" {
		return value
	}
	if c.config.Country != "" {
		return c.config.Country
	}
	return DefaultPrivacyCountry
}
