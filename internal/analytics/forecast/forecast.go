package forecast

import (
	"errors"
	"fmt"
	"sort"

	"github.com/soltixdb/finlytics/internal/analytics"
)

var (
	// ErrNotFitted is returned when Predict or Trend is called before Fit
	ErrNotFitted = errors.New("model not fitted: call Fit first")
	// ErrInvalidHorizon is returned for a negative forecast horizon
	ErrInvalidHorizon = errors.New("horizon must not be negative")
	// ErrMissingValues is returned by models that cannot fit across missing observations
	ErrMissingValues = errors.New("series contains missing values")
)

// Model is the capability shared by every forecasting variant.
//
// A Model starts unfitted. Fit captures derived state from the training series;
// Predict is a pure read of that state and may be called any number of times.
// Fit must not be called concurrently on the same instance. Predict on a fitted
// instance performs no mutation and is safe for concurrent use.
type Model interface {
	// Name returns the algorithm name
	Name() string
	// Fit captures state from historical data
	Fit(data analytics.Series) error
	// Predict generates horizon values following the end of the training series
	Predict(horizon int) ([]float64, error)
	// Fitted reports whether Fit has succeeded
	Fitted() bool
	// Parameters returns the hyperparameters and fitted state for reporting
	Parameters() map[string]interface{}
}

// Params holds hyperparameters for the model registry
type Params struct {
	Window int     // Window size for moving average
	Alpha  float64 // Smoothing factor for exponential smoothing (0 < alpha <= 1)
}

// DefaultParams returns default model hyperparameters
func DefaultParams() Params {
	return Params{
		Window: 3,
		Alpha:  0.3,
	}
}

// Constructor builds an unfitted model from hyperparameters
type Constructor func(params Params) (Model, error)

// Registry holds available model constructors
var modelRegistry = make(map[string]Constructor)

// RegisterModel adds a model constructor to the registry
func RegisterModel(name string, constructor Constructor) {
	modelRegistry[name] = constructor
}

// New returns a fresh, unfitted model by name
func New(name string, params Params) (Model, error) {
	constructor, ok := modelRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown forecast model: %s", name)
	}
	return constructor(params)
}

// Available returns the sorted list of registered model names
func Available() []string {
	names := make([]string, 0, len(modelRegistry))
	for name := range modelRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkHorizon validates a horizon for Predict
func checkHorizon(horizon int) error {
	if horizon < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidHorizon, horizon)
	}
	return nil
}

// repeat returns value repeated n times
func repeat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}
