package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/soltixdb/finlytics/internal/config"
	"github.com/soltixdb/finlytics/internal/handlers"
	"github.com/soltixdb/finlytics/internal/logging"
	"github.com/soltixdb/finlytics/internal/metrics"
	"github.com/soltixdb/finlytics/internal/middleware"
	"github.com/soltixdb/finlytics/internal/services"
)

// Setup configures all routes and middlewares. rec may be nil.
func Setup(app *fiber.App, logger *logging.Logger, analytics *services.AnalyticsService,
	jobs *services.JobService, rec *metrics.Recorder, cfg config.Config,
) *handlers.Handler {
	h := handlers.New(logger, analytics, jobs)

	// Global middlewares
	app.Use(rec.FiberMiddleware())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger, logging.DefaultMiddlewareConfig()))

	// Health check and scrape endpoint (no auth required)
	app.Get("/health", h.Health)
	if rec != nil && cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, rec.Handler())
	}

	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)
	v1 := app.Group("/v1", authMiddleware)

	v1.Get("/models", h.Models)

	// Synchronous analytics
	v1.Get("/forecast", h.Forecast)
	v1.Post("/forecast", h.ForecastPost)
	v1.Post("/analyze", h.Analyze)
	v1.Post("/ratios", h.Ratios)

	// Queued jobs
	v1.Post("/jobs", h.SubmitJob)
	v1.Get("/jobs/:id", h.GetJob)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, analytics *services.AnalyticsService,
	jobs *services.JobService, rec *metrics.Recorder, cfg config.Config,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Finlytics",
		DisableStartupMessage: !cfg.IsDevelopment(),
		EnablePrintRoutes:     cfg.IsDevelopment(),
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, analytics, jobs, rec, cfg)

	return app
}
