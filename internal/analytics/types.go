// Package analytics provides the series type and shared helpers used by the
// forecasting, trend and anomaly packages.
package analytics

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmptySeries is returned when an operation needs at least one observation
	ErrEmptySeries = errors.New("series is empty")
	// ErrInvalidWindow is returned for non-positive window, span or period arguments
	ErrInvalidWindow = errors.New("invalid window size")
	// ErrLengthMismatch is returned when paired series differ in length
	ErrLengthMismatch = errors.New("series must have the same length")
)

// Undefined returns the sentinel for a mathematically undefined result.
// It is a NaN, so it never compares equal to anything, itself included;
// use IsUndefined to test for it.
func Undefined() float64 {
	return math.NaN()
}

// IsUndefined reports whether v is the undefined/missing sentinel
func IsUndefined(v float64) bool {
	return math.IsNaN(v)
}

// Series is an ordered, equally spaced sequence of observations.
// The position of an observation is its index. Missing observations are NaN.
type Series []float64

// Len returns the number of positions, missing ones included
func (s Series) Len() int {
	return len(s)
}

// Clone returns a copy that can be appended to without touching s
func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Tail returns the last n positions. n <= 0 or n >= Len returns the whole series.
func (s Series) Tail(n int) Series {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// HasMissing reports whether any position holds the missing sentinel
func (s Series) HasMissing() bool {
	for _, v := range s {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Observed returns the non-missing values together with their original positions
func (s Series) Observed() (values []float64, positions []int) {
	values = make([]float64, 0, len(s))
	positions = make([]int, 0, len(s))
	for i, v := range s {
		if math.IsNaN(v) {
			continue
		}
		values = append(values, v)
		positions = append(positions, i)
	}
	return values, positions
}

// Mean returns the mean of observed values, or Undefined if none are observed
func (s Series) Mean() float64 {
	values, _ := s.Observed()
	if len(values) == 0 {
		return Undefined()
	}
	return stat.Mean(values, nil)
}

// StdDev returns the sample standard deviation (n-1 denominator) of observed values.
// Fewer than two observations give Undefined.
func (s Series) StdDev() float64 {
	values, _ := s.Observed()
	if len(values) < 2 {
		return Undefined()
	}
	return stat.StdDev(values, nil)
}

// Min returns the smallest observed value, or Undefined if none are observed
func (s Series) Min() float64 {
	values, _ := s.Observed()
	if len(values) == 0 {
		return Undefined()
	}
	return floats.Min(values)
}

// Max returns the largest observed value, or Undefined if none are observed
func (s Series) Max() float64 {
	values, _ := s.Observed()
	if len(values) == 0 {
		return Undefined()
	}
	return floats.Max(values)
}

// PctChange returns the fractional change between consecutive positions.
// Position 0, and any position whose own or previous value is missing, is NaN.
// A zero previous value yields ±Inf (or NaN for 0/0).
//
// Gaps are not forward-filled: {1, NaN, 2} gives {NaN, NaN, NaN}, where a
// pad-then-diff pct_change gives {NaN, 0, 1}. Volatility over a gappy series
// therefore sees fewer changes, none of them spanning a gap.
func (s Series) PctChange() Series {
	out := make(Series, len(s))
	if len(s) == 0 {
		return out
	}
	out[0] = Undefined()
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1], s[i]
		if math.IsNaN(prev) || math.IsNaN(cur) {
			out[i] = Undefined()
			continue
		}
		out[i] = cur/prev - 1
	}
	return out
}

// FromNullable builds a Series from optional values; nil entries become missing
func FromNullable(values []*float64) Series {
	out := make(Series, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = Undefined()
			continue
		}
		out[i] = *v
	}
	return out
}

// Nullable converts v to a pointer, mapping the undefined sentinel and
// infinities to nil so the value can be encoded as JSON null
func Nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// NullableSlice applies Nullable to every element
func NullableSlice(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = Nullable(v)
	}
	return out
}
