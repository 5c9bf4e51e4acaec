package trend

import (
	"math"

	"github.com/soltixdb/finlytics/internal/analytics"
)

// GrowthRate returns the period-over-period change in percent.
// A zero previous value gives the undefined sentinel.
func GrowthRate(current, previous float64) float64 {
	if previous == 0 {
		return analytics.Undefined()
	}
	return (current - previous) / math.Abs(previous) * 100
}

// CAGR returns the compound growth rate per period in percent.
// A non-positive begin value or zero periods gives the undefined sentinel.
func CAGR(begin, end float64, periods int) float64 {
	if begin <= 0 || periods == 0 {
		return analytics.Undefined()
	}
	return (math.Pow(end/begin, 1/float64(periods)) - 1) * 100
}
