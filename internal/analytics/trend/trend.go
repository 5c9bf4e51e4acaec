// Package trend provides growth, trend, smoothing, volatility and seasonality
// analytics over a single analytics.Series. Every function is pure and safe
// for concurrent use.
package trend

import (
	"fmt"

	"github.com/soltixdb/finlytics/internal/analytics"
	"gonum.org/v1/gonum/stat"
)

// Label classifies the direction of a series
type Label string

const (
	LabelUptrend          Label = "Uptrend"
	LabelDowntrend        Label = "Downtrend"
	LabelSideways         Label = "Sideways"
	LabelInsufficientData Label = "Insufficient Data"
)

// DefaultWindow is the number of trailing observations used for trend detection
const DefaultWindow = 3

// slopeThreshold is absolute, in the series' own units
const slopeThreshold = 0.01

// DetectTrend fits a least squares line over the last window observations
// against a 0-based local index and classifies its slope.
//
// Fewer than window observations give LabelInsufficientData. A missing value
// inside the window makes the slope undefined, which classifies as Sideways.
func DetectTrend(s analytics.Series, window int) (Label, error) {
	if window < 2 {
		return "", fmt.Errorf("%w: trend window must be >= 2, got %d", analytics.ErrInvalidWindow, window)
	}
	if len(s) < window {
		return LabelInsufficientData, nil
	}

	return classify(slope(s.Tail(window))), nil
}

// slope returns the least squares slope of values against 0..n-1
func slope(values []float64) float64 {
	x := make([]float64, len(values))
	for i := range x {
		x[i] = float64(i)
	}
	_, beta := stat.LinearRegression(x, values, nil, false)
	return beta
}

func classify(slope float64) Label {
	switch {
	case slope > slopeThreshold:
		return LabelUptrend
	case slope < -slopeThreshold:
		return LabelDowntrend
	default:
		return LabelSideways
	}
}
