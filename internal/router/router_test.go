package router

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/finlytics/internal/cache"
	"github.com/soltixdb/finlytics/internal/config"
	"github.com/soltixdb/finlytics/internal/logging"
	"github.com/soltixdb/finlytics/internal/metrics"
	"github.com/soltixdb/finlytics/internal/queue"
	"github.com/soltixdb/finlytics/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = strings.Repeat("k", 40)

func newTestRouter(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.APIKeys = []string{testKey}

	logger := logging.NewNop()
	store := cache.NewMemory(16, cfg.Cache.TTL, cache.DefaultCodec())
	q := queue.NewMemoryQueue()
	t.Cleanup(func() { _ = q.Close() })

	analytics := services.NewAnalyticsService(logger, store, cfg.Analytics)
	jobStore, err := cache.New(cfg.Jobs.StoreConfig())
	require.NoError(t, err)
	jobs := services.NewJobService(logger, q, jobStore, analytics, cfg.Queue.Subject)
	rec := metrics.New()
	analytics.SetMetrics(rec)
	jobs.SetMetrics(rec)
	return New(logger, analytics, jobs, rec, *cfg)
}

func TestRouter_HealthIsPublic(t *testing.T) {
	app := newTestRouter(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(logging.RequestIDHeader))
}

func TestRouter_V1RequiresKey(t *testing.T) {
	app := newTestRouter(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/models", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/v1/models", nil)
	req.Header.Set("X-API-Key", testKey)
	req.Header.Set(logging.RequestIDHeader, "req-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-123", resp.Header.Get(logging.RequestIDHeader))
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	app := newTestRouter(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Scrape is public
	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "finlytics_http_requests_total")
	assert.Contains(t, string(body), `route="/health"`)
}
