package trend

import (
	"fmt"

	"github.com/soltixdb/finlytics/internal/analytics"
	"gonum.org/v1/gonum/stat"
)

// SeasonalThreshold is the strength above which a series is reported seasonal
const SeasonalThreshold = 0.3

// SeasonalityResult reports the phase-variance seasonality score
type SeasonalityResult struct {
	IsSeasonal bool
	Strength   float64
	Period     int
}

// DetectSeasonality scores seasonality as the mean within-phase variance
// divided by the variance of the whole series.
//
// Phase bucket i holds every period-th observation starting at offset i.
// Variances are population variances. A high ratio (> 0.3) is reported as
// seasonal. Note that this is the inverse of the usual reading, where a
// seasonal series has consistent phases and therefore a low ratio; the
// polarity is kept as is for compatibility.
//
// Fewer than 2*period observations give a zero-strength, non-seasonal result.
// A missing value makes its bucket variance undefined, so the strength is
// undefined and the series is not reported seasonal.
func DetectSeasonality(s analytics.Series, period int) (SeasonalityResult, error) {
	if period < 1 {
		return SeasonalityResult{}, fmt.Errorf("%w: seasonal period must be >= 1, got %d", analytics.ErrInvalidWindow, period)
	}
	if len(s) < 2*period {
		return SeasonalityResult{Period: period}, nil
	}

	bucketVars := make([]float64, period)
	for phase := 0; phase < period; phase++ {
		bucket := make([]float64, 0, len(s)/period+1)
		for i := phase; i < len(s); i += period {
			bucket = append(bucket, s[i])
		}
		bucketVars[phase] = stat.PopVariance(bucket, nil)
	}

	observed, _ := s.Observed()
	totalVar := stat.PopVariance(observed, nil)

	strength := 0.0
	if totalVar > 0 {
		strength = stat.Mean(bucketVars, nil) / totalVar
	}

	return SeasonalityResult{
		IsSeasonal: strength > SeasonalThreshold,
		Strength:   strength,
		Period:     period,
	}, nil
}
