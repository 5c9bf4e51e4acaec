package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/finlytics/internal/cache"
	"github.com/soltixdb/finlytics/internal/config"
	"github.com/soltixdb/finlytics/internal/logging"
	"github.com/soltixdb/finlytics/internal/queue"
	"github.com/soltixdb/finlytics/internal/services"
	"github.com/stretchr/testify/require"
)

const testSubject = "finlytics.jobs.test"

type testEnv struct {
	queue *queue.MemoryQueue
	jobs  *services.JobService
}

// newTestApp wires the handlers over in-memory cache and queue backends.
// No job worker runs until the test starts one.
func newTestApp(t *testing.T) (*fiber.App, *testEnv) {
	t.Helper()
	logger := logging.NewNop()
	mem := cache.NewMemory(64, time.Minute, cache.DefaultCodec())
	q := queue.NewMemoryQueue()
	t.Cleanup(func() { _ = q.Close() })

	analytics := services.NewAnalyticsService(logger, mem, config.DefaultConfig().Analytics)
	jobStore := cache.NewMemory(64, time.Minute, cache.DefaultCodec())
	jobs := services.NewJobService(logger, q, jobStore, analytics, testSubject)
	h := New(logger, analytics, jobs)

	app := fiber.New()
	app.Get("/health", h.Health)
	v1 := app.Group("/v1")
	v1.Get("/models", h.Models)
	v1.Get("/forecast", h.Forecast)
	v1.Post("/forecast", h.ForecastPost)
	v1.Post("/analyze", h.Analyze)
	v1.Post("/ratios", h.Ratios)
	v1.Post("/jobs", h.SubmitJob)
	v1.Get("/jobs/:id", h.GetJob)
	app.Use(h.NotFound)

	return app, &testEnv{queue: q, jobs: jobs}
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, dst), string(body))
}
