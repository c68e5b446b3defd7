package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/appscope/appscope/internal/core/engine"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestExecutorReturnsBodyOnSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "appscope-test", r.Header.Get("User-Agent"))
		require.Equal(t, "yes", r.Header.Get("X-Extra"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	exec := &Executor{Client: server.Client(), UserAgent: "appscope-test"}
	body, err := exec.Do(context.Background(), RequestSpec{
		URL:     server.URL,
		Options: RequestOptions{Headers: map[string]string{"X-Extra": "yes"}},
	})
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))
}

func TestExecutorStatusErrorCarriesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("busy"))
	}))
	defer server.Close()

	exec := &Executor{Client: server.Client()}
	_, err := exec.Do(context.Background(), RequestSpec{URL: server.URL})

	var status *HTTPStatusError
	require.ErrorAs(t, err, &status)
	require.Equal(t, http.StatusServiceUnavailable, status.StatusCode)
	require.Equal(t, "busy", string(status.Body))
	require.Equal(t, "3", status.Header.Get("Retry-After"))
	require.False(t, status.NotFound())
}

func TestExecutorTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset by peer")
	exec := &Executor{}

	_, err := exec.Do(context.Background(), RequestSpec{
		URL: "https://catalog.invalid/lookup",
		Options: RequestOptions{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, cause
		})},
	})

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	require.ErrorIs(t, err, cause)
	require.Equal(t, KindTransport, KindOf(err))
}

func TestExecutorUsesRequestTransport(t *testing.T) {
	var calls atomic.Int32
	exec := &Executor{Client: &http.Client{}}

	body, err := exec.Do(context.Background(), RequestSpec{
		URL: "https://catalog.invalid/page",
		Options: RequestOptions{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			calls.Add(1)
			return &http.Response{
				StatusCode: http.StatusOK,
				Status:     "200 OK",
				Header:     http.Header{},
				Body:       io.NopCloser(strings.NewReader("proxied")),
				Request:    req,
			}, nil
		})},
	})
	require.NoError(t, err)
	require.Equal(t, "proxied", string(body))
	require.Equal(t, int32(1), calls.Load())
	require.Nil(t, exec.Client.Transport)
}

func TestExecutorTimeoutOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	exec := &Executor{Client: server.Client()}
	_, err := exec.Do(context.Background(), RequestSpec{
		URL:     server.URL,
		Options: RequestOptions{Timeout: 50 * time.Millisecond},
	})
	require.Equal(t, KindTransport, KindOf(err))
}

func TestExecutorHonorsLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	exec := &Executor{Client: server.Client(), Limiter: engine.NewRateLimiter()}
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := exec.Do(context.Background(), RequestSpec{
			URL:     fmt.Sprintf("%s/%d", server.URL, i),
			Options: RequestOptions{Limit: 2},
		})
		require.NoError(t, err)
	}

	require.Equal(t, int32(3), calls.Load())
	require.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}

func TestExecutorCancelledWhileWaiting(t *testing.T) {
	limiter := engine.NewRateLimiter()
	require.NoError(t, limiter.Admit(context.Background(), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	exec := &Executor{Limiter: limiter}
	_, err := exec.Do(ctx, RequestSpec{URL: "https://catalog.invalid", Options: RequestOptions{Limit: 1}})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{nil, KindNone},
		{&ArgumentError{Field: "id"}, KindArgument},
		{fmt.Errorf("wrapped: %w", ErrNotFound), KindEmptyResult},
		{&ScrapeError{Stage: StageToken}, KindScrape},
		{&HTTPStatusError{StatusCode: 500}, KindHTTPStatus},
		{&ParseError{What: "x"}, KindParse},
		{&TransportError{Err: io.ErrUnexpectedEOF}, KindTransport},
		{errors.New("other"), KindUnknown},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, KindOf(tc.err), "%v", tc.err)
	}
	require.Equal(t, "empty_result", KindEmptyResult.String())
}
