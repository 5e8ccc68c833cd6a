package booking

import (
	"errors"

	"subercraftex/logger"
	bookingService "subercraftex/services/booking"
	"subercraftex/types"

	"github.com/gofiber/fiber/v2"
)

// respondError maps the booking error taxonomy to HTTP. Anything
// unrecognised is logged and reported as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var conflict *bookingService.ConflictError
	switch {
	case errors.As(err, &conflict):
		return fail(c, fiber.StatusConflict, "Conflict", conflict.Reason)
	case errors.Is(err, bookingService.ErrValidation):
		return fail(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, bookingService.ErrInvalidState):
		return fail(c, fiber.StatusBadRequest, "Invalid booking state", err.Error())
	case errors.Is(err, bookingService.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "Forbidden", "You are not allowed to access this booking")
	case errors.Is(err, bookingService.ErrServiceUnavailable):
		return fail(c, fiber.StatusNotFound, "Not found", "Service not found or inactive")
	case errors.Is(err, bookingService.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Not found", "Booking not found")
	case errors.Is(err, bookingService.ErrEstimatorUnavailable):
		return fail(c, fiber.StatusServiceUnavailable, "Unavailable", err.Error())
	default:
		logger.Error("Unhandled booking error", err, "method", c.Method(), "path", c.Path())
		return fail(c, fiber.StatusInternalServerError, "Internal server error", "Something went wrong")
	}
}

func fail(c *fiber.Ctx, status int, message, detail string) error {
	return c.Status(status).JSON(types.ApiResponse{
		Message: message,
		Status:  status,
		Error:   detail,
	})
}

func ok(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(types.ApiResponse{
		Message: message,
		Status:  status,
		Data:    data,
	})
}
