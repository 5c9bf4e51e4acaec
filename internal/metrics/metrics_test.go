package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.ObserveForecast("moving_average", false, time.Millisecond)
		r.ObserveAnalysis(true, 0)
		r.JobFinished("forecast", "succeeded")
	})

	app := fiber.New()
	app.Use(r.FiberMiddleware())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.ObserveForecast("moving_average", false, 2*time.Millisecond)
	r.ObserveForecast("moving_average", true, 0)
	r.ObserveForecast("moving_average", true, 0)
	r.ObserveAnalysis(false, time.Millisecond)
	r.JobFinished("analyze", "failed")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.forecasts.WithLabelValues("moving_average", "false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.forecasts.WithLabelValues("moving_average", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.analyses.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.jobs.WithLabelValues("analyze", "failed")))

	// Only the two misses reach the latency histogram
	assert.Equal(t, 2, testutil.CollectAndCount(r.latency))

	n, err := testutil.GatherAndCount(r.Registry(), "finlytics_forecasts_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRecorder_FiberMiddleware(t *testing.T) {
	r := New()

	app := fiber.New()
	app.Use(r.FiberMiddleware())
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendString(c.Params("id")) })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	for _, path := range []string{"/items/1", "/items/2", "/teapot", "/boom"} {
		_, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "/items/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "/teapot", "418")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "/boom", "500")))
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.JobFinished("forecast", "succeeded")

	app := fiber.New()
	app.Get("/metrics", r.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `finlytics_jobs_total{kind="forecast",state="succeeded"} 1`), text)
	assert.Contains(t, text, "go_goroutines")
}
