package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/services"
)

// Envelope status values. Every response carries one of them.
const (
	statusSuccess = "SUCCESS"
	statusFail    = "FAIL"
)

func success(c *fiber.Ctx, code int, payload fiber.Map) error {
	body := fiber.Map{"status": statusSuccess}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(code).JSON(body)
}

func fail(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  statusFail,
		"message": message,
	})
}

// failFromError maps service errors onto the envelope. Unrecognized errors
// surface as a generic 500 so internals never leak to clients.
func failFromError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrDuplicateEmail):
		return fail(c, fiber.StatusBadRequest, "user already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		return fail(c, fiber.StatusBadRequest, "email or password is not correct")
	case errors.Is(err, services.ErrInvalidLink):
		return fail(c, fiber.StatusNotFound, "invalid link")
	case errors.Is(err, services.ErrInvalidStatus):
		return fail(c, fiber.StatusBadRequest, err.Error())
	default:
		return fail(c, fiber.StatusInternalServerError, "internal server error")
	}
}
