package services

import (
	"math"

	"github.com/soltixdb/finlytics/internal/analytics"
)

// ForecastRequest asks for a forecast of one series.
// Nil optional fields take the configured defaults.
type ForecastRequest struct {
	Series  []*float64 `json:"series"`
	Model   string     `json:"model,omitempty"`
	Horizon *int       `json:"horizon,omitempty"`
	Window  *int       `json:"window,omitempty"`
	Alpha   *float64   `json:"alpha,omitempty"`
}

// ForecastSummary compares the end of the input with the forecast
type ForecastSummary struct {
	Model         string   `json:"model"`
	LastActual    *float64 `json:"last_actual"`
	FirstForecast *float64 `json:"first_forecast"`
	AvgForecast   *float64 `json:"avg_forecast"`
	ChangePercent *float64 `json:"change_percent"`
	ForecastMin   *float64 `json:"forecast_min"`
	ForecastMax   *float64 `json:"forecast_max"`
}

// ModelInfo describes the fitted model
type ModelInfo struct {
	Algorithm      string                 `json:"algorithm"`
	Parameters     map[string]interface{} `json:"parameters"`
	DataPoints     int                    `json:"data_points"`
	Trend          *float64               `json:"trend,omitempty"`
	TrendPerPeriod *float64               `json:"trend_per_period,omitempty"`
}

// ForecastResponse is the result of a forecast
type ForecastResponse struct {
	Forecast  []*float64      `json:"forecast"`
	Summary   ForecastSummary `json:"summary"`
	ModelInfo ModelInfo       `json:"model_info"`
	Cached    bool            `json:"cached"`
}

// AnalyzeRequest asks for the full trend report of one series.
// Nil optional fields take the configured defaults.
type AnalyzeRequest struct {
	Series           []*float64 `json:"series"`
	Benchmark        []*float64 `json:"benchmark,omitempty"` // correlated against Series when present
	TrendWindow      *int       `json:"trend_window,omitempty"`
	SeasonalPeriod   *int       `json:"seasonal_period,omitempty"`
	AnomalyThreshold *float64   `json:"anomaly_threshold,omitempty"`
	MovingWindow     *int       `json:"moving_window,omitempty"`
	EMASpan          *int       `json:"ema_span,omitempty"`
	VolatilityWindow *int       `json:"volatility_window,omitempty"`
	Lookback         *int       `json:"lookback,omitempty"`
	CAGRPeriods      *int       `json:"cagr_periods,omitempty"` // defaults to the span between first and last observation
}

// MetricsReport is the composite trend summary
type MetricsReport struct {
	Trend        string   `json:"trend"`
	RecentGrowth *float64 `json:"recent_growth"`
	PeriodGrowth *float64 `json:"period_growth"`
	Volatility   *float64 `json:"volatility"`
	Mean         *float64 `json:"mean"`
	StdDev       *float64 `json:"std_dev"`
	Min          *float64 `json:"min"`
	Max          *float64 `json:"max"`
}

// SeasonalityReport is the phase-variance seasonality score
type SeasonalityReport struct {
	IsSeasonal bool     `json:"is_seasonal"`
	Strength   *float64 `json:"strength"`
	Period     int      `json:"period"`
}

// AnomalyReport is one flagged observation
type AnomalyReport struct {
	Position int     `json:"position"`
	Value    float64 `json:"value"`
	ZScore   float64 `json:"z_score"`
	Type     string  `json:"type"`
}

// AnalysisReport is the result of an analysis
type AnalysisReport struct {
	DataPoints       int               `json:"data_points"`
	Missing          int               `json:"missing"`
	Trend            string            `json:"trend"`
	Metrics          MetricsReport     `json:"metrics"`
	Seasonality      SeasonalityReport `json:"seasonality"`
	AnomalyThreshold float64           `json:"anomaly_threshold"`
	Anomalies        []AnomalyReport   `json:"anomalies"`
	MovingAverage    []*float64        `json:"moving_average"`
	EMA              []*float64        `json:"ema"`
	Volatility       []*float64        `json:"volatility"`
	CAGR             *float64          `json:"cagr"`
	Correlation      *float64          `json:"correlation,omitempty"`
	Cached           bool              `json:"cached"`
}

// sanitizeParameters replaces non-finite float parameters with nil so the map
// stays JSON-encodable
func sanitizeParameters(params map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			out[k] = nil
			continue
		}
		out[k] = v
	}
	return out
}

func nullable(v float64) *float64 {
	return analytics.Nullable(v)
}
