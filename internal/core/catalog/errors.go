package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies every error returned by this package.
type Kind int

const (
	KindNone Kind = iota
	KindArgument
	KindTransport
	KindHTTPStatus
	KindScrape
	KindEmptyResult
	KindParse
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindArgument:
		return "argument"
	case KindTransport:
		return "transport"
	case KindHTTPStatus:
		return "http_status"
	case KindScrape:
		return "scrape"
	case KindEmptyResult:
		return "empty_result"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// KindOf reports which variant err belongs to.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var (
		argErr    *ArgumentError
		transport *TransportError
		status    *HTTPStatusError
		scrape    *ScrapeError
		parse     *ParseError
	)
	switch {
	case errors.As(err, &argErr):
		return KindArgument
	case errors.Is(err, ErrNotFound):
		return KindEmptyResult
	case errors.As(err, &scrape):
		return KindScrape
	case errors.As(err, &status):
		return KindHTTPStatus
	case errors.As(err, &parse):
		return KindParse
	case errors.As(err, &transport):
		return KindTransport
	default:
		return KindUnknown
	}
}

// ErrNotFound is returned when the authenticated endpoint answers with an
// empty body.
var ErrNotFound = errors.New("app not found (404)")

// ArgumentError reports a missing or invalid caller argument. No request is
// made when it is returned.
type ArgumentError struct {
	Field   string
	Message string
}

func (e *ArgumentError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TransportError wraps a failure that produced no HTTP response (DNS,
// connection reset, timeout).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError carries the response of a non-success status.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("response code %s (%s)", status, e.URL)
}

// NotFound reports whether the upstream answered 404.
func (e *HTTPStatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Stage identifies the token discovery step whose assumption broke.
type Stage string

const (
	StageScriptURL Stage = "script_url"
	StageToken     Stage = "token"
)

// ScrapeError means the storefront page or script bundle no longer has the
// expected structure. Retrying will not help.
type ScrapeError struct {
	Stage Stage
	URL   string
}

func (e *ScrapeError) Error() string {
	switch e.Stage {
	case StageScriptURL:
		return "could not find app store script bundle URL"
	case StageToken:
		return "could not find authorization token in script bundle"
	default:
		return fmt.Sprintf("scrape failed at stage %s", e.Stage)
	}
}

// ParseError reports malformed JSON or a missing expected field in an
// otherwise successful response.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse %s", e.What)
	}
	return fmt.Sprintf("parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
