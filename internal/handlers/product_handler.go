package handlers

import (
	"fmt"

	"teslo/internal/middleware"
	"teslo/internal/models"
	"teslo/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes. Reads are public; writes go
// through authRequired, and deletes additionally need an admin role.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:term", h.HandleGetProduct)
	productRoutes.Post("/", authRequired, h.HandleCreateProduct)
	productRoutes.Patch("/:id", authRequired, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", authRequired, middleware.RoleRequired(models.RoleAdmin), h.HandleDeleteProduct)
	productRoutes.Delete("/", authRequired, middleware.RoleRequired(models.RoleSuperUser), h.HandleDeleteAllProducts)
}

// HandleGetProducts returns one page of products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	var q services.PaginationQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid query parameters",
			"error":   err.Error(),
		})
	}

	page, err := h.service.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// HandleGetProduct resolves :term as an ID, slug or title.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.FindOnePlain(c.UserContext(), c.Params("term"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product owned by the authenticated user.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req services.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	product, err := h.service.Create(c.UserContext(), req, middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct patches the product with the given ID.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := uuid.Validate(id); err != nil || len(id) != 36 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Validation failed (uuid is expected), got %q", id),
		})
	}

	var req services.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	product, err := h.service.Update(c.UserContext(), id, req, middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes the product matched by :id.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Remove(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", id),
	})
}

// HandleDeleteAllProducts wipes the catalog.
func (h *ProductHandler) HandleDeleteAllProducts(c *fiber.Ctx) error {
	n, err := h.service.DeleteAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "All products deleted",
		"deleted": n,
	})
}
