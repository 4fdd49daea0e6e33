package handlers

import (
	"time"

	"teslo/internal/middleware"
	"teslo/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Dependencies are the services exposed over HTTP.
type Dependencies struct {
	Auth     *services.AuthService
	Products *services.ProductService
	Logger   *zap.Logger
}

// Register mounts the health check and every /api/v1 route on app.
func Register(app *fiber.App, deps Dependencies) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	apiV1 := app.Group("/api/v1")
	authRequired := middleware.AuthRequired(deps.Auth)

	NewAuthHandler(deps.Auth).RegisterRoutes(apiV1, authRequired)
	NewProductHandler(deps.Products).RegisterRoutes(apiV1, authRequired)
	NewSeedHandler(deps.Products, deps.Logger.Named("seed")).RegisterRoutes(apiV1, authRequired)
}
