package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/soltixdb/finlytics/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel).With("component", "test")

	logger.Info("fitted", "model", "linear_trend", "points", 12)
	logger.Error("failed", "error", errors.New("boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "fitted", lines[0]["message"])
	assert.Equal(t, "test", lines[0]["component"])
	assert.Equal(t, "linear_trend", lines[0]["model"])
	assert.Equal(t, float64(12), lines[0]["points"])
	assert.Equal(t, "boom", lines[1]["error"])
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestLogger_Context(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	ctx := WithLogger(context.Background(), logger)
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithJobID(ctx, "job-9")

	assert.Same(t, logger, FromContext(ctx))
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Same(t, Global(), FromContext(context.Background()))

	InfoCtx(ctx, "done")
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "req-1", lines[0]["request_id"])
	assert.Equal(t, "job-9", lines[0]["job_id"])
}

func TestNewFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := NewFromConfig(config.LoggingConfig{
		Level:      "warn",
		Format:     "json",
		OutputPath: path,
	}, "finlytics-test")
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("filtered")
	logger.Warn("kept", "k", 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := decodeLines(t, bytes.NewBuffer(data))
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["message"])
	assert.Equal(t, "finlytics-test", lines[0]["service"])

	_, err = NewFromConfig(config.LoggingConfig{Level: "info", Format: "console", OutputPath: "stderr"}, "finlytics")
	assert.NoError(t, err)
}

func TestFiberMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	app := fiber.New()
	app.Use(FiberMiddleware(logger, DefaultMiddlewareConfig()))

	var seen string
	app.Get("/ok", func(c *fiber.Ctx) error {
		seen = RequestID(c.UserContext())
		return c.SendString("ok")
	})
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("up") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	id := resp.Header.Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, seen)

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set(RequestIDHeader, "given")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "given", resp.Header.Get(RequestIDHeader))

	_, err = app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2, "health checks are not logged")
	assert.Equal(t, "Request completed", lines[0]["message"])
	assert.Equal(t, "/ok", lines[0]["path"])
	assert.Equal(t, "given", lines[1]["request_id"])
}

func TestFromContextOr(t *testing.T) {
	fallback := NewNop()
	assert.Same(t, fallback, FromContextOr(context.Background(), fallback))

	scoped := NewNop()
	ctx := WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, FromContextOr(ctx, fallback))
	assert.Same(t, scoped, FromContext(ctx))
}
