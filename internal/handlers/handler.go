package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/finlytics/internal/logging"
	"github.com/soltixdb/finlytics/internal/models"
	"github.com/soltixdb/finlytics/internal/services"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Handler contains all HTTP handlers
type Handler struct {
	logger    *logging.Logger
	analytics *services.AnalyticsService
	jobs      *services.JobService
}

// New creates a new handler instance
func New(logger *logging.Logger, analytics *services.AnalyticsService, jobs *services.JobService) *Handler {
	return &Handler{
		logger:    logger,
		analytics: analytics,
		jobs:      jobs,
	}
}

// respondError writes a service error with its mapped status.
// Anything else is reported as an internal error.
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	se := services.AsServiceError(err)
	status := se.HTTPStatus()
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("Request failed",
			"path", c.Path(),
			"request_id", logging.RequestID(c.UserContext()),
			"error", err)
	}
	return c.Status(status).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    se.Code,
			Message: se.Message,
			Path:    c.Path(),
			Details: se.Details,
		},
	})
}

// invalidJSON reports a body that could not be decoded
func invalidJSON(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_JSON",
			Message: "Failed to parse JSON body",
			Path:    c.Path(),
			Details: map[string]interface{}{"error": err.Error()},
		},
	})
}
