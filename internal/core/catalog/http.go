package catalog

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/appscope/appscope/internal/core/engine"
	"github.com/appscope/appscope/internal/metrics"
)

const defaultTimeout = 15 * time.Second

// Logger is the subset of logging used by the catalog client. Both
// *zap.Logger and the gofulmen logger satisfy it.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
}

// RequestOptions are per-call transport settings.
type RequestOptions struct {
	// Method defaults to GET.
	Method string
	// Headers are merged under the per-request headers.
	Headers map[string]string
	// Transport replaces the client's round tripper for both http and https.
	Transport http.RoundTripper
	// Timeout overrides the client timeout when positive.
	Timeout time.Duration
	// Limit is the requests-per-second ceiling; 0 disables limiting.
	Limit int
}

// RequestSpec describes a single outbound request.
type RequestSpec struct {
	URL     string
	Headers map[string]string
	Options RequestOptions
}

// Executor issues single-attempt HTTP requests gated by a shared limiter.
type Executor struct {
	Client    *http.Client
	Limiter   *engine.RateLimiter
	Logger    Logger
	UserAgent string
}

// Do admits the request through the limiter, performs it once and returns
// the body. Non-success statuses return *HTTPStatusError, failures without a
// response return *TransportError.
func (e *Executor) Do(ctx context.Context, call RequestSpec) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	method := call.Options.Method
	if method == "" {
		method = http.MethodGet
	}

	logger := e.logger()
	logger.Debug("Making request",
		zap.String("method", method),
		zap.String("url", call.URL),
		zap.Strings("headers", headerNames(call)),
		zap.Int("limit", call.Options.Limit))

	if err := e.Limiter.Admit(ctx, call.Options.Limit); err != nil {
		return nil, &TransportError{URL: call.URL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, call.URL, nil)
	if err != nil {
		return nil, &ArgumentError{Field: "url", Message: err.Error()}
	}
	if e.UserAgent != "" {
		req.Header.Set("User-Agent", e.UserAgent)
	}
	for key, value := range call.Options.Headers {
		req.Header.Set(key, value)
	}
	for key, value := range call.Headers {
		req.Header.Set(key, value)
	}

	host := req.URL.Hostname()
	startedAt := time.Now()

	resp, err := e.client(call.Options).Do(req)
	if err != nil {
		metrics.RecordOutboundError(host, KindTransport.String())
		logger.Debug("Request error", zap.String("url", call.URL), zap.Error(err))
		return nil, &TransportError{URL: call.URL, Err: err}
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordOutboundError(host, KindTransport.String())
		return nil, &TransportError{URL: call.URL, Err: err}
	}

	metrics.RecordOutboundRequest(host, strconv.Itoa(resp.StatusCode), time.Since(startedAt))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		logger.Debug("Request error",
			zap.String("url", call.URL),
			zap.Int("status", resp.StatusCode))
		return nil, &HTTPStatusError{
			URL:        call.URL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header.Clone(),
			Body:       body,
		}
	}

	logger.Debug("Finished request",
		zap.String("url", call.URL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(startedAt)))

	return body, nil
}

func (e *Executor) client(opts RequestOptions) *http.Client {
	base := e.Client
	if base == nil {
		base = &http.Client{Timeout: defaultTimeout}
	}
	if opts.Transport == nil && opts.Timeout <= 0 {
		return base
	}

	client := *base
	if opts.Transport != nil {
		client.Transport = opts.Transport
	}
	if opts.Timeout > 0 {
		client.Timeout = opts.Timeout
	}
	return &client
}

func (e *Executor) logger() Logger {
	if e != nil && e.Logger != nil {
		return e.Logger
	}
	return zap.NewNop()
}

// headerNames lists header names only; values may carry credentials.
func headerNames(call RequestSpec) []string {
	names := make([]string, 0, len(call.Headers)+len(call.Options.Headers))
	for key := range call.Options.Headers {
		names = append(names, key)
	}
	for key := range call.Headers {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

func resolveOrigin(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &url.Error{Op: "parse", URL: raw, Err: errMissingHost}
	}
	return &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}, nil
}
