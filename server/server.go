// Package server assembles the Fiber application: middleware, error
// handling and the /api routes.
package server

import (
	"storefront_backend/config"
	"storefront_backend/internal/metrics"
	"storefront_backend/internal/ws"
	"storefront_backend/middleware"
	"storefront_backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Hub     *ws.Hub
	Metrics *metrics.ServerMetrics
}

func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Storefront Backend",
		ServerHeader: "Storefront Backend Server/1.0",
		ErrorHandler: errorHandler(d.Config),
	})

	middleware.SetupMiddleware(app, d.Config)
	app.Use(d.Metrics.Middleware())

	jwt := utils.NewJWTManager(d.Config.JWTSecret, d.Config.JWTExpiration)
	registerRoutes(app, d, middleware.NewAuth(d.DB, jwt), jwt)

	middleware.SetupNotFoundHandler(app)
	return app
}

func errorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// Retrieve the custom statuscode if it's a *fiber.Error
		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
		}

		body := fiber.Map{"error": "Something went wrong!"}
		if cfg.IsDevelopment() {
			body["message"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}
