package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/finlytics/internal/services"
)

// Forecast handles GET forecast requests.
// series is a comma separated list where an empty item is a missing value.
// GET /v1/forecast?series=1,2,,4&model=moving_average&horizon=3
func (h *Handler) Forecast(c *fiber.Ctx) error {
	series, err := parseSeries(c.Query("series"))
	if err != nil {
		return h.respondError(c, services.NewServiceErrorWithDetails(services.CodeInvalidSeries,
			err.Error(), map[string]interface{}{"field": "series"}))
	}

	req := &services.ForecastRequest{
		Series: series,
		Model:  c.Query("model"),
	}
	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"horizon", &req.Horizon},
		{"window", &req.Window},
	} {
		if raw := c.Query(p.name); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return h.respondError(c, queryParameterError(p.name, raw))
			}
			*p.dst = &v
		}
	}
	if raw := c.Query("alpha"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return h.respondError(c, queryParameterError("alpha", raw))
		}
		req.Alpha = &v
	}

	return h.executeForecast(c, req)
}

// ForecastPost handles POST forecast requests
// POST /v1/forecast
func (h *Handler) ForecastPost(c *fiber.Ctx) error {
	var body services.ForecastRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}
	return h.executeForecast(c, &body)
}

func (h *Handler) executeForecast(c *fiber.Ctx, req *services.ForecastRequest) error {
	result, err := h.analytics.Forecast(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(result)
}

// parseSeries splits a comma separated list of numbers.
// Empty items decode as nil (missing).
func parseSeries(s string) ([]*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]*float64, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("series item %d is not a finite number: %q", i, part)
		}
		out[i] = &v
	}
	return out, nil
}

func queryParameterError(name, raw string) *services.ServiceError {
	return services.NewServiceErrorWithDetails(services.CodeInvalidParameters,
		name+" must be a number", map[string]interface{}{"field": name, "value": raw})
}
