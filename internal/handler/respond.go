package handler

import (
	"errors"

	"github.com/airsightlab/airsight-backend/internal/port"
	"github.com/gofiber/fiber/v3"
)

// respondError translates a service error into the structured response
// envelope. Unexpected failures surface the underlying message verbatim.
func respondError(c fiber.Ctx, err error) error {
	var validationErr *port.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": validationErr.Details,
		})
	}

	var upstreamErr *port.UpstreamError
	if errors.As(err, &upstreamErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": upstreamErr.Error(),
		})
	}

	switch {
	case errors.Is(err, port.ErrInvalidCredentials),
		errors.Is(err, port.ErrInvalidOrExpiredToken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, port.ErrUserExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, port.ErrUserNotFound), errors.Is(err, port.ErrStepNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, port.ErrEmailSend):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Server error",
			"details": []string{err.Error()},
		})
	}
}
