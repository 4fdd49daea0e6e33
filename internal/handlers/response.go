package handlers

import (
	"errors"

	"teslo/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors to HTTP responses. Internal causes are
// never written to the client.
func respondError(c *fiber.Ctx, err error) error {
	var (
		verr *services.ValidationError
		dup  *services.DuplicateError
		nf   *services.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	case errors.As(err, &dup):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": dup.Detail,
		})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": nf.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Please check if the email or the password is correct",
		})
	case errors.Is(err, services.ErrInactiveUser):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "User is inactive, talk with an admin",
		})
	case errors.Is(err, services.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
