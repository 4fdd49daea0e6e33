package middleware

import (
	"context"
	"errors"
	"strings"

	"teslo/internal/models"
	"teslo/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserKey is the Locals key holding the authenticated *models.User.
const UserKey = "user"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		user, err := auth.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			if errors.Is(err, services.ErrInactiveUser) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "User is inactive, talk with an admin",
				})
			}
			var internal *services.InternalError
			if errors.As(err, &internal) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Internal server error",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// RoleRequired rejects users holding none of roles. It must run after AuthRequired.
func RoleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "User not found in request",
			})
		}
		if !user.HasAnyRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "User " + user.FullName + " needs a valid role: [" + strings.Join(roles, ", ") + "]",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}
