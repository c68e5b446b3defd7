package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/appscope/appscope/internal/config"
	"github.com/appscope/appscope/internal/core/catalog"
)

func TestResolveIDs(t *testing.T) {
	ids, err := resolveIDs([]string{"1,2", " 3 "}, "", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3"}, ids)

	stdin := strings.NewReader("# comment\n4\n\n5,6\n")
	ids, err = resolveIDs([]string{"1"}, "-", stdin)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "4", "5", "6"}, ids)

	path := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte("7\n8\n"), 0o600))
	ids, err = resolveIDs(nil, path, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"7", "8"}, ids)

	_, err = resolveIDs([]string{" , "}, "", nil)
	require.Error(t, err)
}

func TestConfigureViperReadsEnvironment(t *testing.T) {
	t.Setenv("APPSCOPE_RATE_LIMIT_REQUESTS_PER_SECOND", "7")
	t.Setenv("APPSCOPE_RATE_LIMIT_BACKEND", "redis")

	v := viper.New()
	configureViper(v, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := config.Load(v)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.RateLimit.RequestsPerSecond)
	require.Equal(t, config.BackendRedis, cfg.RateLimit.Backend)
}

func TestNewLimiterBackends(t *testing.T) {
	cfg := &config.Config{RateLimit: config.RateLimitConfig{Backend: config.BackendMemory}}
	limiter, redisStore, err := newLimiter(cfg)
	require.NoError(t, err)
	require.NotNil(t, limiter)
	require.Nil(t, redisStore)

	cfg.RateLimit.Backend = config.BackendRedis
	cfg.RateLimit.Redis.Addr = "127.0.0.1:0"
	limiter, redisStore, err = newLimiter(cfg)
	require.NoError(t, err)
	require.NotNil(t, redisStore)
	require.Same(t, redisStore, limiter.Store)
	require.NoError(t, redisStore.Close())

	cfg.RateLimit.Backend = "etcd"
	_, _, err = newLimiter(cfg)
	require.Error(t, err)
}

func TestExitCodeFor(t *testing.T) {
	require.Equal(t, foundry.ExitExternalServiceUnavailable, ExitCodeFor(&catalog.ScrapeError{Stage: catalog.StageToken}))
	require.Equal(t, foundry.ExitExternalServiceUnavailable, ExitCodeFor(&catalog.HTTPStatusError{StatusCode: 500}))
	require.Equal(t, foundry.ExitFailure, ExitCodeFor(&catalog.ArgumentError{Field: "ids"}))
	require.Equal(t, foundry.ExitFailure, ExitCodeFor(fmt.Errorf("boom")))
}

func TestMarketsCommand(t *testing.T) {
	var out bytes.Buffer
	marketsCmd.SetOut(&out)
	t.Cleanup(func() { marketsCmd.SetOut(nil) })

	require.NoError(t, marketsCmd.RunE(marketsCmd, []string{"GB", "zz"}))
	require.Contains(t, out.String(), "143444")
	require.Contains(t, out.String(), "143441")
}

func TestLookupCommandAgainstCatalog(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		_, _ = fmt.Fprint(w, `{"resultCount":1,"results":[{"wrapperType":"software","trackId":553834731,"bundleId":"com.midasplayer.apps.candycrushsaga","trackName":"Candy Crush Saga"}]}`)
	}))
	defer server.Close()

	v := viper.New()
	config.SetDefaults(v)
	v.Set("catalog.lookup_url", server.URL)
	_, err := config.Load(v)
	require.NoError(t, err)

	var out bytes.Buffer
	lookupCmd.SetOut(&out)
	require.NoError(t, lookupCmd.Flags().Set("output", "json"))
	t.Cleanup(func() {
		lookupCmd.SetOut(nil)
		_ = lookupCmd.Flags().Set("output", "table")
	})

	require.NoError(t, runLookup(lookupCmd, []string{"553834731"}))
	require.Len(t, queries, 1)
	require.Contains(t, queries[0], "id=553834731")
	require.Contains(t, out.String(), "\"bundleId\": \"com.midasplayer.apps.candycrushsaga\"")
}

func TestNewTokenReportUsesResolvedCountry(t *testing.T) {
	configured := catalog.New(catalog.Config{Country: "gb"})

	report := newTokenReport(configured, " 553834731 ", "", "opaque")
	require.Equal(t, "553834731", report.AppID)
	require.Equal(t, "gb", report.Country)
	require.Empty(t, report.Issuer)

	report = newTokenReport(configured, "1", "FR", "opaque")
	require.Equal(t, "FR", report.Country)

	report = newTokenReport(catalog.New(catalog.Config{}), "1", "", "opaque")
	require.Equal(t, catalog.DefaultPrivacyCountry, report.Country)
}
