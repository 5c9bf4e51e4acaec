package services

import (
	"errors"
	"testing"
	"time"

	"github.com/soltixdb/finlytics/internal/cache"
	"github.com/soltixdb/finlytics/internal/config"
	"github.com/soltixdb/finlytics/internal/logging"
	"github.com/stretchr/testify/require"
)

func newTestAnalyticsService(t *testing.T) (*AnalyticsService, *cache.Memory) {
	t.Helper()
	mem := cache.NewMemory(64, time.Minute, cache.DefaultCodec())
	return NewAnalyticsService(logging.NewNop(), mem, config.DefaultConfig().Analytics), mem
}

func series(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		v := values[i]
		out[i] = &v
	}
	return out
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func requireServiceError(t *testing.T, err error, code string) *ServiceError {
	t.Helper()
	require.Error(t, err)
	var se *ServiceError
	require.True(t, errors.As(err, &se), "expected *ServiceError, got %T", err)
	require.Equal(t, code, se.Code, se.Message)
	return se
}
