package anomaly

import (
	"github.com/soltixdb/finlytics/internal/analytics"
	"gonum.org/v1/gonum/stat"
)

// ZScores returns the standard score of every value against the mean and
// population standard deviation of values.
// Zero spread gives undefined scores.
func ZScores(values []float64) []float64 {
	scores := make([]float64, len(values))
	if len(values) == 0 {
		return scores
	}

	mean, stdDev := stat.PopMeanStdDev(values, nil)
	for i, v := range values {
		scores[i] = CalculateZScore(v, mean, stdDev)
	}
	return scores
}

// CalculateZScore calculates Z-Score for a single value given mean and stdDev
func CalculateZScore(value, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return analytics.Undefined()
	}
	return stat.StdScore(value, mean, stdDev)
}
