// Package httpapi exposes the planner over HTTP/JSON.
package httpapi

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/radar-mms/ccl/internal/config"
	"github.com/radar-mms/ccl/internal/metrics"
	"github.com/radar-mms/ccl/internal/services"
)

// Dependencies are the collaborators shared by all handlers
type Dependencies struct {
	Planner *services.PlannerService
	Config  *config.Config
	Logger  *slog.Logger
}

// NewApp creates a fiber app with every route registered
func NewApp(deps *Dependencies) *fiber.App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "ccl",
		ReadTimeout:           deps.Config.Server.ReadTimeout,
		WriteTimeout:          deps.Config.Server.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return newError(c, e.Code, "http_error", e.Message)
			}
			return errInternal(c, err.Error())
		},
	})
	SetupRoutes(app, deps)
	return app
}

// SetupRoutes registers middleware and the v1 API on app
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(recover.New())

	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(requestid.New())
	app.Use(AccessLogMiddleware(deps.Logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(deps.Config.Server.CorsOrigins, ","),
	}))

	app.Get("/v1/health", HealthHandler())
	app.Get("/v1/version", VersionHandler())

	v1 := app.Group("/v1")
	v1.Post("/traverse", TraverseHandler(deps))
	v1.Post("/orthodrom", OrthodromHandler(deps))
	v1.Get("/zoom", ZoomHandler(deps))
	v1.Get("/pixel", PixelHandler(deps))
	v1.Post("/tiles", TilesHandler(deps))
}

// HealthHandler returns a basic liveness check
func HealthHandler() fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"uptime": time.Since(startedAt).String(),
		})
	}
}
