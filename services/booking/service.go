package booking

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"subercraftex/config"
	"subercraftex/logger"
	bookingModel "subercraftex/models/booking"
	"subercraftex/models/material"
	"subercraftex/models/service"
	"subercraftex/services/booking_event"
	"subercraftex/services/notification"
	"subercraftex/types/auth"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Notifier receives jobs after a mutation has committed.
type Notifier interface {
	Dispatch(ctx context.Context, job notification.Job)
}

// Service owns the booking lifecycle: reservation, reschedule, status
// changes, cancellation with restock, and the quote flow.
type Service struct {
	db        *gorm.DB
	notifier  Notifier
	estimator Estimator
	loc       *time.Location
	now       func() time.Time
}

func NewService(db *gorm.DB, notifier Notifier, cfg config.BookingConfig) *Service {
	return &Service{
		db:       db,
		notifier: notifier,
		loc:      cfg.Location(),
		now:      time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *Service) WithClock(fn func() time.Time) *Service {
	s.now = fn
	return s
}

// WithEstimator enables draft quote estimation.
func (s *Service) WithEstimator(e Estimator) *Service {
	s.estimator = e
	return s
}

type MaterialLine struct {
	MaterialID uint
	Quantity   int
}

type ReserveInput struct {
	ServiceID        uint
	ServiceType      bookingModel.ServiceType
	CollectionMethod *bookingModel.CollectionMethod
	ScheduledDate    *string
	ScheduledTime    *string
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    *string
	Notes            *string
	Materials        []MaterialLine
}

type ListFilter struct {
	Status   *bookingModel.BookingStatus
	Upcoming bool
	All      bool
}

func (s *Service) today() time.Time {
	return now.With(s.now().In(s.loc)).BeginningOfDay()
}

// checkDate rejects malformed and past dates and returns the stored form.
func (s *Service) checkDate(date string) (string, error) {
	d, err := bookingModel.ParseDate(date, s.loc)
	if err != nil {
		return "", validationf("%v", err)
	}
	if d.Before(s.today()) {
		return "", validationf("scheduledDate %s is in the past", date)
	}
	return d.Format(bookingModel.DateLayout), nil
}

// checkClock returns the zero-padded form every slot comparison uses.
func checkClock(start string) (string, error) {
	canonical, err := bookingModel.NormalizeClock(start)
	if err != nil {
		return "", validationf("%v", err)
	}
	return canonical, nil
}

func (s *Service) validateReserve(in *ReserveInput) error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	if in.ServiceID == 0 {
		return validationf("serviceId is required")
	}
	if in.CustomerName == "" {
		return validationf("customerName is required")
	}
	if in.CustomerEmail == "" {
		return validationf("customerEmail is required")
	}
	if _, err := mail.ParseAddress(in.CustomerEmail); err != nil {
		return validationf("customerEmail is not a valid email address")
	}
	if in.ServiceType == "" {
		in.ServiceType = bookingModel.ServiceTypeOnSite
	}
	if !in.ServiceType.IsValid() {
		return validationf("unknown serviceType %q", in.ServiceType)
	}

	hasDate := in.ScheduledDate != nil && *in.ScheduledDate != ""
	hasTime := in.ScheduledTime != nil && *in.ScheduledTime != ""
	if in.ServiceType.RequiresSchedule() && (!hasDate || !hasTime) {
		return validationf("scheduledDate and scheduledTime are required for on-site bookings")
	}
	if hasTime && !hasDate {
		return validationf("scheduledTime requires scheduledDate")
	}
	if hasDate {
		date, err := s.checkDate(*in.ScheduledDate)
		if err != nil {
			return err
		}
		in.ScheduledDate = &date
	} else {
		in.ScheduledDate = nil
	}
	if hasTime {
		start, err := checkClock(*in.ScheduledTime)
		if err != nil {
			return err
		}
		in.ScheduledTime = &start
	} else {
		in.ScheduledTime = nil
	}

	if in.ServiceType == bookingModel.ServiceTypeCollectRepair {
		if in.CollectionMethod == nil || !in.CollectionMethod.IsValid() {
			return validationf("collectionMethod must be pickup or drop_off for collect-repair bookings")
		}
	} else {
		in.CollectionMethod = nil
	}

	for _, line := range in.Materials {
		if line.MaterialID == 0 || line.Quantity <= 0 {
			return validationf("materials need a materialId and a positive quantity")
		}
	}
	return nil
}

// lockService loads an active service and holds its row lock until the
// transaction ends, serializing slot checks per service.
func lockService(tx *gorm.DB, id uint) (*service.Service, error) {
	var svc service.Service
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_active = ?", id, true).
		First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrServiceUnavailable
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func lockBooking(tx *gorm.DB, id uint) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// checkSlot enforces slot exclusivity and the per-day cap among live
// bookings, ignoring excludeID.
func checkSlot(tx *gorm.DB, svc *service.Service, date, start string, excludeID uint) error {
	live := tx.Model(&bookingModel.Booking{}).
		Where("service_id = ? AND scheduled_date = ? AND status IN ?", svc.ID, date, bookingModel.LiveStatuses)
	if excludeID != 0 {
		live = live.Where("id <> ?", excludeID)
	}

	var taken int64
	if err := live.Session(&gorm.Session{}).Where("scheduled_time = ?", start).Count(&taken).Error; err != nil {
		return err
	}
	if taken > 0 {
		return ErrSlotTaken
	}

	if svc.MaxBookingsPerDay != nil {
		var day int64
		if err := live.Session(&gorm.Session{}).Count(&day).Error; err != nil {
			return err
		}
		if day >= int64(*svc.MaxBookingsPerDay) {
			return ErrDayCapacityReached
		}
	}
	return nil
}

// translateWriteError maps the live-slot unique index to ErrSlotTaken.
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlotTaken
	}
	return err
}

// Reserve admits a new booking if its slot is free and the day has
// capacity, all inside one transaction. The confirmation is enqueued
// after commit.
func (s *Service) Reserve(ctx context.Context, actor auth.Actor, in ReserveInput) (*bookingModel.Booking, error) {
	if err := s.validateReserve(&in); err != nil {
		return nil, err
	}

	var created bookingModel.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		svc, err := lockService(tx, in.ServiceID)
		if err != nil {
			return err
		}
		duration, err := svc.DurationMinutes()
		if err != nil {
			return fmt.Errorf("service %d: %w", svc.ID, err)
		}

		b := bookingModel.Booking{
			BookingNumber:    NewBookingNumber(s.now()),
			ServiceID:        svc.ID,
			CustomerName:     in.CustomerName,
			CustomerEmail:    in.CustomerEmail,
			CustomerPhone:    in.CustomerPhone,
			ServiceType:      in.ServiceType,
			CollectionMethod: in.CollectionMethod,
			ScheduledDate:    in.ScheduledDate,
			ScheduledTime:    in.ScheduledTime,
			Status:           bookingModel.InitialStatus(in.ServiceType),
			Notes:            in.Notes,
			CreatedBy:        actor.Label(),
		}
		if !actor.IsGuest() {
			id := actor.ID
			b.CustomerID = &id
		}
		if in.ServiceType == bookingModel.ServiceTypeOnSite {
			b.Price = svc.Price
		}

		if b.ScheduledTime != nil {
			if b.Status.IsLive() {
				if err := checkSlot(tx, svc, *b.ScheduledDate, *b.ScheduledTime, 0); err != nil {
					return err
				}
			}
			end, nextDay, err := bookingModel.EndTime(*b.ScheduledTime, duration)
			if err != nil {
				return validationf("%v", err)
			}
			b.EndTime = &end
			b.EndsNextDay = nextDay
		}

		if err := tx.Omit(clause.Associations).Create(&b).Error; err != nil {
			return translateWriteError(err)
		}

		lines, total, err := reserveMaterials(tx, b.ID, in.Materials)
		if err != nil {
			return err
		}
		if len(lines) > 0 && in.ServiceType == bookingModel.ServiceTypeOnSite {
			b.Price += total
			if err := tx.Model(&b).Update("price", b.Price).Error; err != nil {
				return err
			}
		}

		if err := booking_event.Record(tx, &b, bookingModel.EventCreated, nil, nil, actor.Label()); err != nil {
			return err
		}
		created = b
		created.Service = *svc
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("booking created", "booking_number", created.BookingNumber, "service_id", created.ServiceID, "status", created.Status)
	s.notify(ctx, notification.KindBookingConfirmed, &created, "")

	return s.load(ctx, created.ID)
}

// reserveMaterials freezes current prices on new BookingMaterial rows and
// takes the quantities out of available stock.
func reserveMaterials(tx *gorm.DB, bookingID uint, lines []MaterialLine) ([]bookingModel.BookingMaterial, float64, error) {
	var (
		rows  []bookingModel.BookingMaterial
		total float64
	)
	for _, line := range lines {
		var m material.Material
		err := tx.Where("id = ? AND is_active = ?", line.MaterialID, true).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, validationf("material %d not found", line.MaterialID)
		}
		if err != nil {
			return nil, 0, err
		}

		res := tx.Model(&material.Material{}).
			Where("id = ? AND stock_quantity >= ?", m.ID, line.Quantity).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
		if res.Error != nil {
			return nil, 0, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, 0, ErrInsufficientStock
		}

		rows = append(rows, bookingModel.BookingMaterial{
			BookingID:      bookingID,
			MaterialID:     m.ID,
			Quantity:       line.Quantity,
			PriceAtBooking: m.Price,
		})
		total += m.Price * float64(line.Quantity)
	}
	if len(rows) > 0 {
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return nil, 0, err
		}
	}
	return rows, total, nil
}

// restockMaterials returns the quantity of every unacquired material row
// to stock. Acquired rows are left alone.
func restockMaterials(tx *gorm.DB, bookingID uint) error {
	var rows []bookingModel.BookingMaterial
	if err := tx.Where("booking_id = ? AND acquired = ?", bookingID, false).Find(&rows).Error; err != nil {
		return err
	}
	for _, r := range rows {
		err := tx.Model(&material.Material{}).
			Where("id = ?", r.MaterialID).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", r.Quantity)).Error
		if err != nil {
			return fmt.Errorf("restock material %d: %w", r.MaterialID, err)
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context, id uint) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	err := s.db.WithContext(ctx).
		Preload("Service").
		Preload("Quote").
		Preload("Materials.Material").
		Preload("Payments").
		Preload("Progress", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Get returns one booking with its nested records. Only the owner and
// staff may read it.
func (s *Service) Get(ctx context.Context, actor auth.Actor, id uint) (*bookingModel.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !b.IsOwnedBy(actor.ID) {
		return nil, ErrForbidden
	}
	return b, nil
}

// List returns the actor's bookings, or every booking for staff asking
// for all of them.
func (s *Service) List(ctx context.Context, actor auth.Actor, f ListFilter) ([]bookingModel.Booking, error) {
	if f.All && !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if actor.IsGuest() {
		return nil, ErrForbidden
	}

	q := s.db.WithContext(ctx).Model(&bookingModel.Booking{}).Preload("Service")
	if !f.All {
		q = q.Where("customer_id = ?", actor.ID)
	}
	if f.Status != nil {
		if !f.Status.IsValid() {
			return nil, validationf("unknown status %q", *f.Status)
		}
		q = q.Where("status = ?", *f.Status)
	}
	if f.Upcoming {
		q = q.Where("scheduled_date >= ? AND status NOT IN ?",
			s.today().Format(bookingModel.DateLayout),
			[]bookingModel.BookingStatus{bookingModel.BookingStatusCompleted, bookingModel.BookingStatusCancelled}).
			Order("scheduled_date ASC, scheduled_time ASC")
	} else {
		q = q.Order("created_at DESC, id DESC")
	}

	var out []bookingModel.Booking
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Reschedule moves a booking to a new date and time after re-running the
// slot check against every other live booking.
func (s *Service) Reschedule(ctx context.Context, actor auth.Actor, id uint, date, start string) (*bookingModel.Booking, error) {
	date, err := s.checkDate(date)
	if err != nil {
		return nil, err
	}
	start, err = checkClock(start)
	if err != nil {
		return nil, err
	}

	var updated bookingModel.Booking
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockBooking(tx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !b.IsOwnedBy(actor.ID) {
			return ErrForbidden
		}
		if err := b.Status.CheckAction(bookingModel.ActionReschedule); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}

		svc, err := lockService(tx, b.ServiceID)
		if err != nil {
			return err
		}
		duration, err := svc.DurationMinutes()
		if err != nil {
			return fmt.Errorf("service %d: %w", svc.ID, err)
		}
		if b.Status.IsLive() {
			if err := checkSlot(tx, svc, date, start, b.ID); err != nil {
				return err
			}
		}
		end, nextDay, err := bookingModel.EndTime(start, duration)
		if err != nil {
			return validationf("%v", err)
		}

		at := s.now()
		b.PreviousScheduledDate = b.ScheduledDate
		b.PreviousScheduledTime = b.ScheduledTime
		b.ScheduledDate = &date
		b.ScheduledTime = &start
		b.EndTime = &end
		b.EndsNextDay = nextDay
		b.RescheduledAt = &at
		b.RescheduleCount++
		b.UpdatedBy = actor.Label()
		if err := tx.Omit(clause.Associations).Save(b).Error; err != nil {
			return translateWriteError(err)
		}

		note := fmt.Sprintf("moved to %s %s", date, start)
		if err := booking_event.Record(tx, b, bookingModel.EventRescheduled, &b.Status, &note, actor.Label()); err != nil {
			return err
		}
		updated = *b
		updated.Service = *svc
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("booking rescheduled", "booking_number", updated.BookingNumber, "date", date, "time", start)
	s.notify(ctx, notification.KindRescheduled, &updated, "")
	return s.load(ctx, updated.ID)
}

// SetStatus applies a generic status change. Admins may choose any status;
// owners may only cancel, which takes the Cancel path.
func (s *Service) SetStatus(ctx context.Context, actor auth.Actor, id uint, to bookingModel.BookingStatus, reason *string) (*bookingModel.Booking, error) {
	if !to.IsValid() {
		return nil, validationf("unknown status %q", to)
	}
	if to == bookingModel.BookingStatusCancelled {
		return s.Cancel(ctx, actor, id, reason)
	}

	var (
		updated bookingModel.Booking
		from    bookingModel.BookingStatus
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockBooking(tx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !b.IsOwnedBy(actor.ID) {
			return ErrForbidden
		}
		if err := bookingModel.CanTransition(b.Status, to, actor.IsAdmin()); err != nil {
			return mapTransitionError(err)
		}

		// Re-entering a live status must not double-book the slot.
		if to.IsLive() && !b.Status.IsLive() && b.ScheduledTime != nil {
			svc, err := lockService(tx, b.ServiceID)
			if err != nil {
				return err
			}
			if err := checkSlot(tx, svc, *b.ScheduledDate, *b.ScheduledTime, b.ID); err != nil {
				return err
			}
		}

		from = b.Status
		b.Status = to
		b.UpdatedBy = actor.Label()
		if bookingModel.EffectsOf(to).Has(bookingModel.EffectStampCompleted) {
			at := s.now()
			b.CompletedAt = &at
		}
		if err := tx.Omit(clause.Associations).Save(b).Error; err != nil {
			return translateWriteError(err)
		}
		if err := booking_event.Record(tx, b, bookingModel.EventStatusChanged, &from, reason, actor.Label()); err != nil {
			return err
		}
		updated = *b
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("booking status changed", "booking_number", updated.BookingNumber, "from", from, "to", to)
	full, err := s.load(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, notification.KindStatusChanged, full, "")
	return full, nil
}

func mapTransitionError(err error) error {
	switch {
	case errors.Is(err, bookingModel.ErrTransitionForbidden):
		return fmt.Errorf("%w: %v", ErrForbidden, err)
	case errors.Is(err, bookingModel.ErrUnknownStatus):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	case errors.Is(err, bookingModel.ErrTerminalState), errors.Is(err, bookingModel.ErrActionNotAllowed):
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	default:
		return err
	}
}

// Cancel moves a booking to cancelled, stamps the reason and time, and
// returns unacquired materials to stock.
func (s *Service) Cancel(ctx context.Context, actor auth.Actor, id uint, reason *string) (*bookingModel.Booking, error) {
	var updated bookingModel.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockBooking(tx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !b.IsOwnedBy(actor.ID) {
			return ErrForbidden
		}
		if err := b.Status.CheckAction(bookingModel.ActionCancel); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}

		from := b.Status
		effects := bookingModel.EffectsOf(bookingModel.BookingStatusCancelled)
		b.Status = bookingModel.BookingStatusCancelled
		b.UpdatedBy = actor.Label()
		if effects.Has(bookingModel.EffectStampCancelled) {
			at := s.now()
			b.CancelledAt = &at
			if reason != nil && strings.TrimSpace(*reason) != "" {
				r := strings.TrimSpace(*reason)
				b.CancellationReason = &r
			}
		}
		if err := tx.Omit(clause.Associations).Save(b).Error; err != nil {
			return err
		}
		if effects.Has(bookingModel.EffectRestock) {
			if err := restockMaterials(tx, b.ID); err != nil {
				return err
			}
		}
		if err := booking_event.Record(tx, b, bookingModel.EventCancelled, &from, b.CancellationReason, actor.Label()); err != nil {
			return err
		}
		updated = *b
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("booking cancelled", "booking_number", updated.BookingNumber, "by", actor.Label())
	full, err := s.load(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	reasonText := ""
	if full.CancellationReason != nil {
		reasonText = *full.CancellationReason
	}
	s.notify(ctx, notification.KindCancelled, full, reasonText)
	return full, nil
}

func (s *Service) notify(ctx context.Context, kind notification.Kind, b *bookingModel.Booking, reason string) {
	if s.notifier == nil {
		return
	}
	job := notification.NewJob(kind)
	job.BookingID = b.ID
	job.BookingNumber = b.BookingNumber
	job.To = b.CustomerEmail
	job.CustomerName = b.CustomerName
	job.ServiceName = b.Service.Name
	job.Status = b.Status.String()
	job.Reason = reason
	job.Amount = b.Price
	if b.ScheduledDate != nil {
		job.ScheduledDate = *b.ScheduledDate
	}
	if b.ScheduledTime != nil {
		job.ScheduledTime = *b.ScheduledTime
	}
	if b.EndTime != nil {
		job.EndTime = *b.EndTime
	}
	s.notifier.Dispatch(ctx, job)
}
