package forecast

import (
	"github.com/soltixdb/finlytics/internal/analytics"
	"gonum.org/v1/gonum/stat"
)

// LinearTrend fits an ordinary least squares line of value on a standardized
// time index.
//
// The index 0..n-1 is standardized with its mean and population standard
// deviation. Both are frozen at Fit time and reused verbatim by Predict, so
// the slope reported by Trend is per standardized-index unit, not per period.
// Use TrendPerPeriod for the per-period slope.
type LinearTrend struct {
	n         int
	center    float64 // mean of the training index
	scale     float64 // population std of the training index (1 if zero)
	intercept float64
	slope     float64
	fitted    bool
}

// NewLinearTrend creates a new linear trend model
func NewLinearTrend() *LinearTrend {
	return &LinearTrend{}
}

func init() {
	RegisterModel("linear_trend", func(Params) (Model, error) {
		return NewLinearTrend(), nil
	})
}

// Name returns the algorithm name
func (m *LinearTrend) Name() string {
	return "linear_trend"
}

// Fit standardizes the time index and regresses the values on it
func (m *LinearTrend) Fit(data analytics.Series) error {
	if len(data) == 0 {
		return analytics.ErrEmptySeries
	}
	if data.HasMissing() {
		return ErrMissingValues
	}

	n := len(data)
	index := make([]float64, n)
	for i := range index {
		index[i] = float64(i)
	}

	center, scale := stat.PopMeanStdDev(index, nil)
	if scale == 0 {
		scale = 1
	}

	z := make([]float64, n)
	for i, x := range index {
		z[i] = (x - center) / scale
	}

	var intercept, slope float64
	if n == 1 {
		// A single point carries no slope
		intercept = data[0]
	} else {
		intercept, slope = stat.LinearRegression(z, data, nil, false)
	}

	m.n = n
	m.center = center
	m.scale = scale
	m.intercept = intercept
	m.slope = slope
	m.fitted = true
	return nil
}

// Fitted reports whether Fit has succeeded
func (m *LinearTrend) Fitted() bool {
	return m.fitted
}

// Predict evaluates the fitted line at indices n..n+horizon-1 using the
// standardization frozen at Fit time
func (m *LinearTrend) Predict(horizon int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if err := checkHorizon(horizon); err != nil {
		return nil, err
	}

	forecasts := make([]float64, horizon)
	for i := range forecasts {
		x := float64(m.n + i)
		forecasts[i] = m.intercept + m.slope*(x-m.center)/m.scale
	}
	return forecasts, nil
}

// Trend returns the regression slope per standardized-index unit
func (m *LinearTrend) Trend() (float64, error) {
	if !m.fitted {
		return 0, ErrNotFitted
	}
	return m.slope, nil
}

// TrendPerPeriod returns the slope per raw period (Trend divided by the
// frozen index standard deviation)
func (m *LinearTrend) TrendPerPeriod() (float64, error) {
	if !m.fitted {
		return 0, ErrNotFitted
	}
	return m.slope / m.scale, nil
}

// Parameters returns the fitted coefficients and frozen standardization
func (m *LinearTrend) Parameters() map[string]interface{} {
	if !m.fitted {
		return map[string]interface{}{}
	}
	return map[string]interface{}{
		"slope":       m.slope,
		"intercept":   m.intercept,
		"index_mean":  m.center,
		"index_scale": m.scale,
	}
}
