package forecast

import (
	"fmt"

	"github.com/soltixdb/finlytics/internal/analytics"
)

// MovingAverage forecasts each period as the mean of the trailing window,
// feeding every forecast back into the window for the next step
type MovingAverage struct {
	window int
	data   analytics.Series
}

// NewMovingAverage creates a new moving-average model
func NewMovingAverage(window int) (*MovingAverage, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: moving average window must be >= 1, got %d", analytics.ErrInvalidWindow, window)
	}
	return &MovingAverage{window: window}, nil
}

func init() {
	RegisterModel("moving_average", func(p Params) (Model, error) {
		return NewMovingAverage(p.Window)
	})
}

// Name returns the algorithm name
func (m *MovingAverage) Name() string {
	return "moving_average"
}

// Window returns the configured window size
func (m *MovingAverage) Window() int {
	return m.window
}

// Fit stores a private copy of the training series
func (m *MovingAverage) Fit(data analytics.Series) error {
	if len(data) == 0 {
		return analytics.ErrEmptySeries
	}
	m.data = data.Clone()
	return nil
}

// Fitted reports whether Fit has succeeded
func (m *MovingAverage) Fitted() bool {
	return m.data != nil
}

// Predict extends a working buffer one step at a time. Each step is the mean
// of the last window entries of the buffer (all of them if fewer exist), so
// later forecasts mix real and previously forecast values.
func (m *MovingAverage) Predict(horizon int) ([]float64, error) {
	if !m.Fitted() {
		return nil, ErrNotFitted
	}
	if err := checkHorizon(horizon); err != nil {
		return nil, err
	}

	buf := make(analytics.Series, len(m.data), len(m.data)+horizon)
	copy(buf, m.data)

	forecasts := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		next := buf.Tail(m.window).Mean()
		forecasts[i] = next
		buf = append(buf, next)
	}
	return forecasts, nil
}

// Parameters returns the model hyperparameters
func (m *MovingAverage) Parameters() map[string]interface{} {
	return map[string]interface{}{"window": m.window}
}
