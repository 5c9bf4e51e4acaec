package forecast

import (
	"fmt"

	"github.com/soltixdb/finlytics/internal/analytics"
)

// ExponentialSmoothing implements simple exponential smoothing.
// The whole history is folded into one level and the forecast is flat.
type ExponentialSmoothing struct {
	alpha  float64
	level  float64
	fitted bool
}

// NewExponentialSmoothing creates a new exponential smoothing model
func NewExponentialSmoothing(alpha float64) (*ExponentialSmoothing, error) {
	if !(alpha > 0 && alpha <= 1) {
		return nil, fmt.Errorf("alpha must be in (0, 1], got %v", alpha)
	}
	return &ExponentialSmoothing{alpha: alpha}, nil
}

func init() {
	RegisterModel("exponential_smoothing", func(p Params) (Model, error) {
		return NewExponentialSmoothing(p.Alpha)
	})
}

// Name returns the algorithm name
func (m *ExponentialSmoothing) Name() string {
	return "exponential_smoothing"
}

// Fit seeds the level with the first observation and folds in the rest.
// A missing observation makes the level undefined.
func (m *ExponentialSmoothing) Fit(data analytics.Series) error {
	if len(data) == 0 {
		return analytics.ErrEmptySeries
	}

	level := data[0]
	for _, v := range data[1:] {
		level = m.alpha*v + (1-m.alpha)*level
	}

	m.level = level
	m.fitted = true
	return nil
}

// Fitted reports whether Fit has succeeded
func (m *ExponentialSmoothing) Fitted() bool {
	return m.fitted
}

// Level returns the fitted level
func (m *ExponentialSmoothing) Level() (float64, error) {
	if !m.fitted {
		return 0, ErrNotFitted
	}
	return m.level, nil
}

// Predict returns the fitted level repeated horizon times
func (m *ExponentialSmoothing) Predict(horizon int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if err := checkHorizon(horizon); err != nil {
		return nil, err
	}
	return repeat(m.level, horizon), nil
}

// Parameters returns the model hyperparameters and fitted level
func (m *ExponentialSmoothing) Parameters() map[string]interface{} {
	params := map[string]interface{}{"alpha": m.alpha}
	if m.fitted && !analytics.IsUndefined(m.level) {
		params["level"] = m.level
	}
	return params
}
