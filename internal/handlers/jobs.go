package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/finlytics/internal/models"
	"github.com/soltixdb/finlytics/internal/services"
)

// SubmitJob queues a forecast or analyze job
// POST /v1/jobs
func (h *Handler) SubmitJob(c *fiber.Ctx) error {
	var job services.Job
	if err := c.BodyParser(&job); err != nil {
		return invalidJSON(c, err)
	}

	id, err := h.jobs.Submit(c.UserContext(), &job)
	if err != nil {
		return h.respondError(c, err)
	}

	statusURL := "/v1/jobs/" + id
	c.Location(statusURL)
	return c.Status(fiber.StatusAccepted).JSON(models.JobAcceptedResponse{
		JobID:     id,
		State:     string(services.JobPending),
		StatusURL: statusURL,
	})
}

// GetJob returns the state of a job and its result once finished
// GET /v1/jobs/:id
func (h *Handler) GetJob(c *fiber.Ctx) error {
	status, err := h.jobs.Status(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(status)
}
