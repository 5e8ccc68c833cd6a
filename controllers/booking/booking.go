package booking

import (
	"strconv"

	"subercraftex/middleware"
	bookingModel "subercraftex/models/booking"
	bookingService "subercraftex/services/booking"
	bookingTypes "subercraftex/types/booking"

	"github.com/gofiber/fiber/v2"
)

// BookingController handles /api/bookings.
type BookingController struct {
	Bookings *bookingService.Service
}

func NewBookingController(bookings *bookingService.Service) *BookingController {
	return &BookingController{Bookings: bookings}
}

func bookingID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func invalidID(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "Invalid booking id", "id must be a positive integer")
}

// Index lists bookings: the caller's own, or all of them for staff with all=true.
func (bc *BookingController) Index(c *fiber.Ctx) error {
	filter := bookingService.ListFilter{
		Upcoming: c.QueryBool("upcoming"),
		All:      c.QueryBool("all"),
	}
	if s := c.Query("status"); s != "" {
		status := bookingModel.BookingStatus(s)
		filter.Status = &status
	}

	bookings, err := bc.Bookings.List(c.UserContext(), middleware.GetActor(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "Bookings retrieved successfully", bookings)
}

// Store reserves a new booking. Guests may book.
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.BookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := req.Validate(); err != nil {
		return fail(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}

	created, err := bc.Bookings.Reserve(c.UserContext(), middleware.GetActor(c), req.ToInput())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, "Booking created successfully", created)
}

func (bc *BookingController) Show(c *fiber.Ctx) error {
	id, valid := bookingID(c)
	if !valid {
		return invalidID(c)
	}
	b, err := bc.Bookings.Get(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "Booking retrieved successfully", b)
}

// Update reschedules or changes status depending on which fields are sent.
func (bc *BookingController) Update(c *fiber.Ctx) error {
	id, valid := bookingID(c)
	if !valid {
		return invalidID(c)
	}
	var req bookingTypes.BookingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := req.Validate(); err != nil {
		return fail(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}

	ctx := c.UserContext()
	actor := middleware.GetActor(c)

	if req.IsStatusChange() {
		updated, err := bc.Bookings.SetStatus(ctx, actor, id, bookingModel.BookingStatus(*req.Status), req.Reason)
		if err != nil {
			return respondError(c, err)
		}
		return ok(c, fiber.StatusOK, "Booking status updated successfully", updated)
	}

	// A partial reschedule keeps the other half of the current schedule.
	date, start := req.ScheduledDate, req.ScheduledTime
	if date == nil || *date == "" || start == nil || *start == "" {
		current, err := bc.Bookings.Get(ctx, actor, id)
		if err != nil {
			return respondError(c, err)
		}
		if date == nil || *date == "" {
			date = current.ScheduledDate
		}
		if start == nil || *start == "" {
			start = current.ScheduledTime
		}
		if date == nil || start == nil {
			return fail(c, fiber.StatusBadRequest, "Validation failed", "scheduledDate and scheduledTime are both required for an unscheduled booking")
		}
	}

	updated, err := bc.Bookings.Reschedule(ctx, actor, id, *date, *start)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "Booking rescheduled successfully", updated)
}

// Destroy cancels the booking; rows are never deleted.
func (bc *BookingController) Destroy(c *fiber.Ctx) error {
	id, valid := bookingID(c)
	if !valid {
		return invalidID(c)
	}
	var req bookingTypes.CancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
		}
		if err := req.Validate(); err != nil {
			return fail(c, fiber.StatusBadRequest, "Validation failed", err.Error())
		}
	}

	cancelled, err := bc.Bookings.Cancel(c.UserContext(), middleware.GetActor(c), id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "Booking cancelled successfully", cancelled)
}

// AcquireMaterials commits reserved materials so cancellation no longer restocks them.
func (bc *BookingController) AcquireMaterials(c *fiber.Ctx) error {
	id, valid := bookingID(c)
	if !valid {
		return invalidID(c)
	}
	var req bookingTypes.AcquireRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
		}
		if err := req.Validate(); err != nil {
			return fail(c, fiber.StatusBadRequest, "Validation failed", err.Error())
		}
	}

	b, err := bc.Bookings.AcquireMaterials(c.UserContext(), middleware.GetActor(c), id, req.MaterialIDs)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "Materials acquired successfully", b)
}
