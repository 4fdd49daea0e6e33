package handlers

import (
	"teslo/internal/middleware"
	"teslo/internal/models"
	"teslo/internal/seed"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SeedHandler resets the catalog to the demo data.
type SeedHandler struct {
	catalog seed.Catalog
	logger  *zap.Logger
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(catalog seed.Catalog, logger *zap.Logger) *SeedHandler {
	return &SeedHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers the admin-only seed route.
func (h *SeedHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/seed", authRequired, middleware.RoleRequired(models.RoleAdmin), h.HandleSeed)
}

// HandleSeed replaces the catalog with the seed products.
func (h *SeedHandler) HandleSeed(c *fiber.Ctx) error {
	n, err := seed.Run(c.UserContext(), h.catalog, middleware.CurrentUser(c), h.logger)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Seed executed",
		"inserted": n,
	})
}
