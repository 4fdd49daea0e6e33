package handlers

import (
	"teslo/internal/middleware"
	"teslo/internal/models"
	"teslo/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/check-status", authRequired, h.HandleCheckStatus)
	authRoutes.Get("/private", authRequired, h.HandlePrivate)
	authRoutes.Get("/private_guard", authRequired,
		middleware.RoleRequired(models.RoleAdmin, models.RoleSuperUser), h.HandlePrivateGuard)
	authRoutes.Get("/private_guard_decorator", authRequired, middleware.RoleRequired(), h.HandlePrivateGuard)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	resp, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	resp, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// HandleCheckStatus returns the current user with a renewed token.
func (h *AuthHandler) HandleCheckStatus(c *fiber.Ctx) error {
	resp, err := h.authService.CheckAuthStatus(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// HandlePrivate echoes the authenticated user and the raw request headers.
func (h *AuthHandler) HandlePrivate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{
		"user":       user,
		"email":      user.Email,
		"rawHeaders": c.GetReqHeaders(),
	})
}

// HandlePrivateGuard returns the user that passed the route's role guard.
func (h *AuthHandler) HandlePrivateGuard(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}
