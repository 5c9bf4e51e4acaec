package trend

import (
	"github.com/soltixdb/finlytics/internal/analytics"
)

// Metrics is the composite trend report for a series
type Metrics struct {
	Trend        Label
	RecentGrowth float64 // last vs second-to-last, percent
	PeriodGrowth float64 // last vs first, percent
	Volatility   float64 // std of period-over-period change, percent, not annualized
	Mean         float64
	StdDev       float64
	Min          float64
	Max          float64
}

// ComputeMetrics builds the composite report over the last lookback
// observations, or the whole series when lookback <= 0.
// Undefined fields hold the undefined sentinel.
func ComputeMetrics(s analytics.Series, lookback int) Metrics {
	data := s.Tail(lookback)

	// DefaultWindow is always a valid window, so the error can be ignored
	label, _ := DetectTrend(data, DefaultWindow)

	recent, period := analytics.Undefined(), analytics.Undefined()
	if n := len(data); n >= 2 {
		recent = GrowthRate(data[n-1], data[n-2])
		period = GrowthRate(data[n-1], data[0])
	}

	return Metrics{
		Trend:        label,
		RecentGrowth: recent,
		PeriodGrowth: period,
		Volatility:   data.PctChange().StdDev() * 100,
		Mean:         data.Mean(),
		StdDev:       data.StdDev(),
		Min:          data.Min(),
		Max:          data.Max(),
	}
}
