package booking

import (
	"subercraftex/middleware"
	bookingTypes "subercraftex/types/booking"

	"github.com/gofiber/fiber/v2"
)

func (bc *BookingController) SendQuote(c *fiber.Ctx) error {
	id, valid := bookingID(c)
	if !valid {
		return invalidID(c)
	}
	var req bookingTypes.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := req.Validate(); err != nil {
		return fail(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}

	b, err := bc.Bookings.SendQuote(c.UserContext(), middleware.GetActor(c), id, req.ToInput())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "Quote sent successfully", b)
}

func (bc *BookingController) RespondQuote(c *fiber.Ctx) error {
	id, valid := bookingID(c)
	if !valid {
		return invalidID(c)
	}
	var req bookingTypes.QuoteResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := req.Validate(); err != nil {
		return fail(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}

	b, err := bc.Bookings.RespondQuote(c.UserContext(), middleware.GetActor(c), id, *req.Approve)
	if err != nil {
		return respondError(c, err)
	}
	msg := "Quote rejected"
	if *req.Approve {
		msg = "Quote approved"
	}
	return ok(c, fiber.StatusOK, msg, b)
}

func (bc *BookingController) EstimateQuote(c *fiber.Ctx) error {
	id, valid := bookingID(c)
	if !valid {
		return invalidID(c)
	}
	est, err := bc.Bookings.EstimateQuote(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "Quote estimate generated", est)
}
