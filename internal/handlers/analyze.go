package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/finlytics/internal/models"
	"github.com/soltixdb/finlytics/internal/services"
)

// Analyze builds the trend report for a series
// POST /v1/analyze
func (h *Handler) Analyze(c *fiber.Ctx) error {
	var body services.AnalyzeRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	report, err := h.analytics.Analyze(c.UserContext(), &body)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(report)
}

// Ratios evaluates financial ratios per statement
// POST /v1/ratios
func (h *Handler) Ratios(c *fiber.Ctx) error {
	var body models.RatiosRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	results, err := h.analytics.Ratios(c.UserContext(), body.Statements)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.RatiosResponse{Results: results})
}
