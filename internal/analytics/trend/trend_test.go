package trend

import (
	"math"
	"testing"

	"github.com/soltixdb/finlytics/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTrend(t *testing.T) {
	tests := []struct {
		name   string
		series analytics.Series
		window int
		want   Label
	}{
		{"increasing", analytics.Series{1, 2, 3}, 3, LabelUptrend},
		{"decreasing", analytics.Series{9, 6, 3}, 3, LabelDowntrend},
		{"constant", analytics.Series{5, 5, 5}, 3, LabelSideways},
		{"tiny slope", analytics.Series{1, 1.005, 1.01}, 3, LabelSideways},
		{"only tail counts", analytics.Series{100, 1, 2, 3}, 3, LabelUptrend},
		{"insufficient", analytics.Series{1, 2}, 3, LabelInsufficientData},
		{"empty", analytics.Series{}, 3, LabelInsufficientData},
		{"missing in window", analytics.Series{1, math.NaN(), 3}, 3, LabelSideways},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectTrend(tt.series, tt.window)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectTrend_ThresholdIsAbsolute(t *testing.T) {
	// Slope 0.02 per period is an uptrend regardless of the series level
	got, err := DetectTrend(analytics.Series{1e6, 1e6 + 0.02, 1e6 + 0.04}, 3)
	require.NoError(t, err)
	assert.Equal(t, LabelUptrend, got)
}

func TestDetectTrend_InvalidWindow(t *testing.T) {
	_, err := DetectTrend(analytics.Series{1, 2, 3}, 1)
	assert.ErrorIs(t, err, analytics.ErrInvalidWindow)
}
