package service

import (
	"errors"
	"strconv"

	"subercraftex/logger"
	"subercraftex/services/availability"
	"subercraftex/types"
	bookingTypes "subercraftex/types/booking"

	"github.com/gofiber/fiber/v2"
)

type AvailabilityController struct {
	Calculator *availability.Calculator
}

func NewAvailabilityController(calc *availability.Calculator) *AvailabilityController {
	return &AvailabilityController{Calculator: calc}
}

// Show returns open start times per date for one service.
func (ac *AvailabilityController) Show(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid service id",
			Status:  fiber.StatusBadRequest,
			Error:   "id must be a positive integer",
		})
	}

	var q bookingTypes.AvailabilityQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid query",
			Status:  fiber.StatusBadRequest,
			Error:   err.Error(),
		})
	}
	if err := q.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Validation failed",
			Status:  fiber.StatusBadRequest,
			Error:   err.Error(),
		})
	}

	slots, err := ac.Calculator.Slots(c.UserContext(), uint(id), q.Start, q.End)
	if errors.Is(err, availability.ErrInvalidWindow) {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Validation failed",
			Status:  fiber.StatusBadRequest,
			Error:   err.Error(),
		})
	}
	if err != nil {
		logger.Error("Failed to compute availability", err, "service_id", id)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Internal server error",
			Status:  fiber.StatusInternalServerError,
			Error:   "Something went wrong",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Availability retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    slots,
	})
}
