package trend

import (
	"fmt"
	"math"

	"github.com/soltixdb/finlytics/internal/analytics"
	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear annualizes rolling volatility
const TradingDaysPerYear = 252

// MovingAverage returns the rolling arithmetic mean. Positions before the
// first full window, and windows holding a missing value, are undefined.
func MovingAverage(s analytics.Series, window int) (analytics.Series, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: moving average window must be >= 1, got %d", analytics.ErrInvalidWindow, window)
	}
	return rolling(s, window, func(w []float64) float64 {
		return stat.Mean(w, nil)
	}), nil
}

// ExponentialMovingAverage returns the unadjusted exponential moving average
// with smoothing factor 2/(span+1).
//
// A missing observation keeps the previous average but decays its weight, so
// the next observation counts for more than alpha. Leading missing values stay
// undefined until the first observation.
func ExponentialMovingAverage(s analytics.Series, span int) (analytics.Series, error) {
	if span < 1 {
		return nil, fmt.Errorf("%w: span must be >= 1, got %d", analytics.ErrInvalidWindow, span)
	}

	alpha := 2 / (float64(span) + 1)
	out := make(analytics.Series, len(s))
	if len(s) == 0 {
		return out, nil
	}

	avg := s[0]
	oldWeight := 1.0
	out[0] = avg
	for i := 1; i < len(s); i++ {
		cur := s[i]
		observed := !math.IsNaN(cur)
		switch {
		case !math.IsNaN(avg):
			oldWeight *= 1 - alpha
			if observed {
				if avg != cur {
					avg = (oldWeight*avg + alpha*cur) / (oldWeight + alpha)
				}
				oldWeight = 1
			}
		case observed:
			avg = cur
		}
		out[i] = avg
	}
	return out, nil
}

// Volatility returns the rolling sample standard deviation of the
// period-over-period percentage change, annualized by sqrt(252)
func Volatility(s analytics.Series, window int) (analytics.Series, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: volatility window must be >= 1, got %d", analytics.ErrInvalidWindow, window)
	}
	annualize := math.Sqrt(TradingDaysPerYear)
	return rolling(s.PctChange(), window, func(w []float64) float64 {
		if len(w) < 2 {
			return analytics.Undefined()
		}
		return stat.StdDev(w, nil) * annualize
	}), nil
}

// rolling applies fn to every full trailing window without missing values
func rolling(s analytics.Series, window int, fn func([]float64) float64) analytics.Series {
	out := make(analytics.Series, len(s))
	for i := range s {
		if i+1 < window {
			out[i] = analytics.Undefined()
			continue
		}
		w := s[i+1-window : i+1]
		if w.HasMissing() {
			out[i] = analytics.Undefined()
			continue
		}
		out[i] = fn(w)
	}
	return out
}
