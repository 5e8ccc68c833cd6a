package booking

import (
	"errors"

	bookingModel "subercraftex/models/booking"
	bookingService "subercraftex/services/booking"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator adds the "clock" tag: a start time ParseClock accepts. The
// service stores it zero-padded.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := bookingModel.ParseClock(fl.Field().String())
		return err == nil
	})
	return v
}

type MaterialLineRequest struct {
	MaterialID uint `json:"materialId" validate:"required,gt=0"`
	Quantity   int  `json:"quantity" validate:"required,gt=0"`
}

// BookingCreateRequest is the body of POST /api/bookings.
type BookingCreateRequest struct {
	ServiceID        uint                  `json:"serviceId" validate:"required,gt=0"`
	ServiceType      string                `json:"serviceType" validate:"omitempty,oneof=on_site custom_production collect_repair"`
	CustomerName     string                `json:"customerName" validate:"required,max=255"`
	CustomerEmail    string                `json:"customerEmail" validate:"required,email,max=255"`
	CustomerPhone    *string               `json:"customerPhone" validate:"omitempty,max=30"`
	CollectionMethod *string               `json:"collectionMethod" validate:"omitempty,oneof=pickup drop_off"`
	ScheduledDate    *string               `json:"scheduledDate" validate:"omitempty,datetime=2006-01-02"`
	ScheduledTime    *string               `json:"scheduledTime" validate:"omitempty,clock"`
	Notes            *string               `json:"notes" validate:"omitempty,max=2000"`
	Materials        []MaterialLineRequest `json:"materials" validate:"omitempty,dive"`
}

func present(s *string) bool {
	return s != nil && *s != ""
}

// Validate checks the tags and the rules that depend on serviceType.
func (r *BookingCreateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	t := bookingModel.ServiceType(r.ServiceType)
	if t == "" {
		t = bookingModel.ServiceTypeOnSite
	}
	if t.RequiresSchedule() && (!present(r.ScheduledDate) || !present(r.ScheduledTime)) {
		return errors.New("scheduledDate and scheduledTime are required for on-site bookings")
	}
	if t == bookingModel.ServiceTypeCollectRepair && !present(r.CollectionMethod) {
		return errors.New("collectionMethod is required for collect-repair bookings")
	}
	return nil
}

func (r *BookingCreateRequest) ToInput() bookingService.ReserveInput {
	in := bookingService.ReserveInput{
		ServiceID:     r.ServiceID,
		ServiceType:   bookingModel.ServiceType(r.ServiceType),
		ScheduledDate: r.ScheduledDate,
		ScheduledTime: r.ScheduledTime,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
	}
	if present(r.CollectionMethod) {
		m := bookingModel.CollectionMethod(*r.CollectionMethod)
		in.CollectionMethod = &m
	}
	for _, line := range r.Materials {
		in.Materials = append(in.Materials, bookingService.MaterialLine{MaterialID: line.MaterialID, Quantity: line.Quantity})
	}
	return in
}

// BookingUpdateRequest is the body of PATCH /api/bookings/{id}: either a
// reschedule or a status change.
type BookingUpdateRequest struct {
	ScheduledDate *string `json:"scheduledDate" validate:"omitempty,datetime=2006-01-02"`
	ScheduledTime *string `json:"scheduledTime" validate:"omitempty,clock"`
	Status        *string `json:"status"`
	Reason        *string `json:"reason" validate:"omitempty,max=1000"`
}

var ErrNoRecognizedField = errors.New("provide scheduledDate/scheduledTime or status")

func (r *BookingUpdateRequest) IsReschedule() bool {
	return present(r.ScheduledDate) || present(r.ScheduledTime)
}

func (r *BookingUpdateRequest) IsStatusChange() bool {
	return present(r.Status)
}

func (r *BookingUpdateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	switch {
	case r.IsReschedule() && r.IsStatusChange():
		return errors.New("reschedule and status change must be sent separately")
	case !r.IsReschedule() && !r.IsStatusChange():
		return ErrNoRecognizedField
	}
	if r.IsStatusChange() && !bookingModel.BookingStatus(*r.Status).IsValid() {
		return errors.New("unknown status")
	}
	return nil
}

type CancelRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=1000"`
}

func (r *CancelRequest) Validate() error {
	return validate.Struct(r)
}

type QuoteRequest struct {
	MaterialCost float64 `json:"materialCost" validate:"gte=0"`
	LaborCost    float64 `json:"laborCost" validate:"gte=0"`
	DownPayment  float64 `json:"downPayment" validate:"gte=0"`
	Notes        *string `json:"notes" validate:"omitempty,max=2000"`
}

func (r *QuoteRequest) Validate() error {
	return validate.Struct(r)
}

func (r *QuoteRequest) ToInput() bookingService.QuoteInput {
	return bookingService.QuoteInput{
		MaterialCost: r.MaterialCost,
		LaborCost:    r.LaborCost,
		DownPayment:  r.DownPayment,
		Notes:        r.Notes,
	}
}

type QuoteResponseRequest struct {
	Approve *bool `json:"approve" validate:"required"`
}

func (r *QuoteResponseRequest) Validate() error {
	return validate.Struct(r)
}

// AvailabilityQuery is the query string of GET /api/services/{id}/availability.
type AvailabilityQuery struct {
	Start string `query:"start" validate:"required,datetime=2006-01-02"`
	End   string `query:"end" validate:"required,datetime=2006-01-02"`
}

func (q *AvailabilityQuery) Validate() error {
	return validate.Struct(q)
}

// AcquireRequest is the body of POST /api/bookings/{id}/materials/acquire.
// An empty list acquires every pending line.
type AcquireRequest struct {
	MaterialIDs []uint `json:"materialIds" validate:"omitempty,dive,gt=0"`
}

func (r *AcquireRequest) Validate() error {
	return validate.Struct(r)
}
