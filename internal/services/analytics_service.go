package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soltixdb/finlytics/internal/analytics"
	"github.com/soltixdb/finlytics/internal/analytics/anomaly"
	"github.com/soltixdb/finlytics/internal/analytics/forecast"
	"github.com/soltixdb/finlytics/internal/analytics/ratios"
	"github.com/soltixdb/finlytics/internal/analytics/trend"
	"github.com/soltixdb/finlytics/internal/cache"
	"github.com/soltixdb/finlytics/internal/config"
	"github.com/soltixdb/finlytics/internal/logging"
	"github.com/soltixdb/finlytics/internal/metrics"
)

// AnalyticsService runs forecasts and trend analyses
type AnalyticsService struct {
	logger   *logging.Logger
	cache    cache.Cache
	defaults config.AnalyticsConfig
	metrics  *metrics.Recorder
}

// NewAnalyticsService creates a new AnalyticsService. A nil cache disables caching.
func NewAnalyticsService(logger *logging.Logger, c cache.Cache, defaults config.AnalyticsConfig) *AnalyticsService {
	if c == nil {
		c = cache.Nop{}
	}
	return &AnalyticsService{
		logger:   logger,
		cache:    c,
		defaults: defaults,
	}
}

// SetMetrics attaches a Prometheus recorder
func (s *AnalyticsService) SetMetrics(rec *metrics.Recorder) {
	s.metrics = rec
}

// Models lists the registered forecasting models
func (s *AnalyticsService) Models() []string {
	return forecast.Available()
}

// log returns the request-scoped logger tagged with the context fields
func (s *AnalyticsService) log(ctx context.Context) *logging.Logger {
	return logging.FromContextOr(ctx, s.logger).WithContext(ctx)
}

// validateSeries converts and bounds-checks an input series
func (s *AnalyticsService) validateSeries(field string, values []*float64) (analytics.Series, error) {
	if len(values) == 0 {
		return nil, NewServiceErrorWithDetails(CodeInvalidSeries, field+" is empty",
			map[string]interface{}{"field": field})
	}
	if len(values) > s.defaults.MaxSeriesLength {
		return nil, NewServiceErrorWithDetails(CodeInvalidSeries,
			fmt.Sprintf("%s exceeds %d points", field, s.defaults.MaxSeriesLength),
			map[string]interface{}{"field": field, "length": len(values), "max_length": s.defaults.MaxSeriesLength})
	}
	return analytics.FromNullable(values), nil
}

// lookup reads a cached result; failures other than a miss are logged and ignored
func (s *AnalyticsService) lookup(ctx context.Context, key string, dst interface{}) bool {
	err := s.cache.Get(ctx, key, dst)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.log(ctx).Warn("Cache read failed", "key", key, "error", err)
	}
	return false
}

func (s *AnalyticsService) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log(ctx).Warn("Cache write failed", "key", key, "error", err)
	}
}

// Forecast fits the requested model and predicts the horizon
func (s *AnalyticsService) Forecast(ctx context.Context, req *ForecastRequest) (*ForecastResponse, error) {
	start := time.Now()

	name := req.Model
	if name == "" {
		name = s.defaults.Model
	}

	params := forecast.Params{Window: s.defaults.Window, Alpha: s.defaults.Alpha}
	if req.Window != nil {
		params.Window = *req.Window
	}
	if req.Alpha != nil {
		params.Alpha = *req.Alpha
	}

	horizon := s.defaults.Horizon
	if req.Horizon != nil {
		horizon = *req.Horizon
	}
	if horizon < 0 || horizon > s.defaults.MaxHorizon {
		return nil, NewServiceErrorWithDetails(CodeInvalidParameters,
			fmt.Sprintf("horizon must be between 0 and %d", s.defaults.MaxHorizon),
			map[string]interface{}{"horizon": horizon})
	}

	model, err := forecast.New(name, params)
	if err != nil {
		if !isRegistered(name) {
			return nil, NewServiceErrorWithDetails(CodeInvalidModel, err.Error(),
				map[string]interface{}{"available_models": forecast.Available()})
		}
		return nil, NewServiceError(CodeInvalidParameters, err.Error())
	}

	series, err := s.validateSeries("series", req.Series)
	if err != nil {
		return nil, err
	}

	key, err := cache.Key("forecast", name, params, horizon, req.Series)
	if err != nil {
		return nil, NewServiceError(CodeInternal, err.Error())
	}
	var cached ForecastResponse
	if s.lookup(ctx, key, &cached) {
		cached.Cached = true
		s.metrics.ObserveForecast(name, true, 0)
		return &cached, nil
	}

	if err := model.Fit(series); err != nil {
		if errors.Is(err, forecast.ErrMissingValues) || errors.Is(err, analytics.ErrEmptySeries) {
			return nil, NewServiceErrorWithDetails(CodeInvalidSeries, err.Error(),
				map[string]interface{}{"model": name})
		}
		return nil, NewServiceError(CodeInternal, err.Error())
	}

	predictions, err := model.Predict(horizon)
	if err != nil {
		if errors.Is(err, forecast.ErrNotFitted) {
			return nil, NewServiceError(CodeNotFitted, err.Error())
		}
		return nil, NewServiceError(CodeInvalidParameters, err.Error())
	}

	summary := forecast.Summarize(series, predictions, model.Name())
	resp := &ForecastResponse{
		Forecast: analytics.NullableSlice(predictions),
		Summary: ForecastSummary{
			Model:         summary.Model,
			LastActual:    nullable(summary.LastActual),
			FirstForecast: nullable(summary.FirstForecast),
			AvgForecast:   nullable(summary.AvgForecast),
			ChangePercent: nullable(summary.ChangePercent),
			ForecastMin:   nullable(summary.ForecastMin),
			ForecastMax:   nullable(summary.ForecastMax),
		},
		ModelInfo: ModelInfo{
			Algorithm:  model.Name(),
			Parameters: sanitizeParameters(model.Parameters()),
			DataPoints: len(series),
		},
	}

	if lt, ok := model.(*forecast.LinearTrend); ok {
		if slope, err := lt.Trend(); err == nil {
			resp.ModelInfo.Trend = nullable(slope)
		}
		if slope, err := lt.TrendPerPeriod(); err == nil {
			resp.ModelInfo.TrendPerPeriod = nullable(slope)
		}
	}

	s.store(ctx, key, resp)
	s.metrics.ObserveForecast(name, false, time.Since(start))

	s.log(ctx).Info("Forecast completed",
		"model", name,
		"data_points", len(series),
		"horizon", horizon,
		"latency_ms", time.Since(start).Milliseconds())

	return resp, nil
}

func isRegistered(name string) bool {
	for _, n := range forecast.Available() {
		if n == name {
			return true
		}
	}
	return false
}

// analyzeDefaults fills nil options from configuration. Explicit zeros are kept.
func (s *AnalyticsService) analyzeDefaults(req AnalyzeRequest) AnalyzeRequest {
	req.TrendWindow = defaultInt(req.TrendWindow, s.defaults.TrendWindow)
	req.SeasonalPeriod = defaultInt(req.SeasonalPeriod, s.defaults.SeasonalPeriod)
	req.MovingWindow = defaultInt(req.MovingWindow, s.defaults.Window)
	req.EMASpan = defaultInt(req.EMASpan, s.defaults.EMASpan)
	req.VolatilityWindow = defaultInt(req.VolatilityWindow, s.defaults.VolatilityWindow)
	req.Lookback = defaultInt(req.Lookback, s.defaults.Lookback)
	if req.AnomalyThreshold == nil {
		threshold := s.defaults.AnomalyThreshold
		req.AnomalyThreshold = &threshold
	}
	return req
}

func defaultInt(v *int, fallback int) *int {
	if v != nil {
		return v
	}
	return &fallback
}

// Analyze builds the trend, seasonality, anomaly and smoothing report
func (s *AnalyticsService) Analyze(ctx context.Context, in *AnalyzeRequest) (*AnalysisReport, error) {
	start := time.Now()
	req := s.analyzeDefaults(*in)

	if *req.AnomalyThreshold < 0 {
		return nil, NewServiceError(CodeInvalidParameters, "anomaly_threshold cannot be negative")
	}

	series, err := s.validateSeries("series", req.Series)
	if err != nil {
		return nil, err
	}

	var benchmark analytics.Series
	if len(req.Benchmark) > 0 {
		if benchmark, err = s.validateSeries("benchmark", req.Benchmark); err != nil {
			return nil, err
		}
	}

	key, err := cache.Key("analyze", req)
	if err != nil {
		return nil, NewServiceError(CodeInternal, err.Error())
	}
	var cached AnalysisReport
	if s.lookup(ctx, key, &cached) {
		cached.Cached = true
		s.metrics.ObserveAnalysis(true, 0)
		return &cached, nil
	}

	label, err := trend.DetectTrend(series, *req.TrendWindow)
	if err != nil {
		return nil, invalidParameter("trend_window", err)
	}
	seasonality, err := trend.DetectSeasonality(series, *req.SeasonalPeriod)
	if err != nil {
		return nil, invalidParameter("seasonal_period", err)
	}
	ma, err := trend.MovingAverage(series, *req.MovingWindow)
	if err != nil {
		return nil, invalidParameter("moving_window", err)
	}
	ema, err := trend.ExponentialMovingAverage(series, *req.EMASpan)
	if err != nil {
		return nil, invalidParameter("ema_span", err)
	}
	vol, err := trend.Volatility(series, *req.VolatilityWindow)
	if err != nil {
		return nil, invalidParameter("volatility_window", err)
	}

	values, positions := series.Observed()
	tm := trend.ComputeMetrics(series, *req.Lookback)

	report := &AnalysisReport{
		DataPoints: len(series),
		Missing:    len(series) - len(values),
		Trend:      string(label),
		Metrics: MetricsReport{
			Trend:        string(tm.Trend),
			RecentGrowth: nullable(tm.RecentGrowth),
			PeriodGrowth: nullable(tm.PeriodGrowth),
			Volatility:   nullable(tm.Volatility),
			Mean:         nullable(tm.Mean),
			StdDev:       nullable(tm.StdDev),
			Min:          nullable(tm.Min),
			Max:          nullable(tm.Max),
		},
		Seasonality: SeasonalityReport{
			IsSeasonal: seasonality.IsSeasonal,
			Strength:   nullable(seasonality.Strength),
			Period:     seasonality.Period,
		},
		AnomalyThreshold: *req.AnomalyThreshold,
		Anomalies:        []AnomalyReport{},
		MovingAverage:    analytics.NullableSlice(ma),
		EMA:              analytics.NullableSlice(ema),
		Volatility:       analytics.NullableSlice(vol),
	}

	for _, f := range anomaly.Anomalies(anomaly.IdentifyAnomalies(series, *req.AnomalyThreshold)) {
		report.Anomalies = append(report.Anomalies, AnomalyReport{
			Position: f.Position,
			Value:    f.Value,
			ZScore:   f.ZScore,
			Type:     string(f.Type),
		})
	}

	if len(values) >= 2 {
		periods := positions[len(positions)-1] - positions[0]
		if req.CAGRPeriods != nil {
			periods = *req.CAGRPeriods
		}
		report.CAGR = nullable(trend.CAGR(values[0], values[len(values)-1], periods))
	}

	if benchmark != nil {
		corr, err := trend.Correlation(series, benchmark)
		if err != nil {
			return nil, NewServiceErrorWithDetails(CodeInvalidSeries, err.Error(),
				map[string]interface{}{"series_length": len(series), "benchmark_length": len(benchmark)})
		}
		report.Correlation = nullable(corr)
	}

	s.store(ctx, key, report)
	s.metrics.ObserveAnalysis(false, time.Since(start))

	s.log(ctx).Info("Analysis completed",
		"data_points", report.DataPoints,
		"trend", report.Trend,
		"anomalies", len(report.Anomalies),
		"latency_ms", time.Since(start).Milliseconds())

	return report, nil
}

func invalidParameter(field string, err error) *ServiceError {
	return NewServiceErrorWithDetails(CodeInvalidParameters, err.Error(),
		map[string]interface{}{"field": field})
}

// Ratios evaluates every available ratio for each statement.
// Undefined ratios encode as nil.
func (s *AnalyticsService) Ratios(ctx context.Context, statements []ratios.Statement) ([]map[string]*float64, error) {
	if len(statements) == 0 {
		return nil, NewServiceError(CodeInvalidParameters, "statements is empty")
	}
	if len(statements) > s.defaults.MaxSeriesLength {
		return nil, NewServiceError(CodeInvalidParameters,
			fmt.Sprintf("at most %d statements per request", s.defaults.MaxSeriesLength))
	}

	out := make([]map[string]*float64, len(statements))
	for i, st := range statements {
		computed := ratios.Compute(st)
		row := make(map[string]*float64, len(computed))
		for name, v := range computed {
			row[name] = nullable(v)
		}
		out[i] = row
	}

	s.log(ctx).Debug("Ratios computed", "statements", len(statements))
	return out, nil
}
