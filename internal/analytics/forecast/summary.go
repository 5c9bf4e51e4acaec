package forecast

import (
	"github.com/soltixdb/finlytics/internal/analytics"
)

// Summary compares the end of the actual series with a forecast
type Summary struct {
	Model         string
	LastActual    float64
	FirstForecast float64
	AvgForecast   float64
	ChangePercent float64
	ForecastMin   float64
	ForecastMax   float64
}

// Summarize reduces an actual series and its forecast into comparison statistics.
//
// An empty actual gives LastActual 0 and an empty forecast gives FirstForecast 0,
// with the forecast mean and range undefined. ChangePercent is 0 when LastActual
// is 0 rather than undefined; this differs from the ratio package, which returns
// the undefined sentinel on a zero denominator. Summarize never fails.
func Summarize(actual, forecast []float64, modelName string) Summary {
	lastActual := 0.0
	if len(actual) > 0 {
		lastActual = actual[len(actual)-1]
	}

	firstForecast := 0.0
	if len(forecast) > 0 {
		firstForecast = forecast[0]
	}

	changePercent := 0.0
	if lastActual != 0 {
		changePercent = (firstForecast - lastActual) / lastActual * 100
	}

	f := analytics.Series(forecast)
	return Summary{
		Model:         modelName,
		LastActual:    lastActual,
		FirstForecast: firstForecast,
		AvgForecast:   f.Mean(),
		ChangePercent: changePercent,
		ForecastMin:   f.Min(),
		ForecastMax:   f.Max(),
	}
}
