package response

import (
	"errors"

	"room-scheduler/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data any) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusServiceUnavailable, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// FromError maps domain errors onto status codes
func FromError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrDecodeFailure),
		errors.Is(err, domain.ErrExpiredCredential),
		errors.Is(err, domain.ErrMissingCredential):
		return Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrUnknownMajor):
		return NotFound(c, err.Error())
	case errors.Is(err, domain.ErrInvalidWindow):
		return BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrSourceUnavailable):
		return ServiceUnavailable(c, "schedule source unavailable")
	default:
		return InternalServerError(c, "internal server error")
	}
}
