package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/finlytics/internal/logging"
	"github.com/soltixdb/finlytics/internal/models"
	"github.com/soltixdb/finlytics/internal/services"
)

// ErrorHandler returns a custom error handler middleware.
// Service errors keep their code and details; fiber errors keep their status.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		detail := models.ErrorDetail{
			Code:    "ERROR",
			Message: "Internal Server Error",
		}

		var se *services.ServiceError
		var fe *fiber.Error
		switch {
		case errors.As(err, &se):
			status = se.HTTPStatus()
			detail.Code = se.Code
			detail.Message = se.Message
			detail.Details = se.Details
		case errors.As(err, &fe):
			status = fe.Code
			detail.Message = fe.Message
		}

		log := logger.Warn
		if status >= fiber.StatusInternalServerError {
			log = logger.Error
		}
		log("Request error",
			"path", c.Path(),
			"method", c.Method(),
			"status", status,
			"request_id", logging.RequestID(c.UserContext()),
			"error", err,
		)

		return c.Status(status).JSON(models.ErrorResponse{Error: detail})
	}
}
