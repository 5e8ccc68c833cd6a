package booking

import (
	"context"
	"errors"
	"fmt"

	"subercraftex/logger"
	bookingModel "subercraftex/models/booking"
	"subercraftex/services/booking_event"
	"subercraftex/services/notification"
	"subercraftex/types/auth"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuoteInput struct {
	MaterialCost float64
	LaborCost    float64
	DownPayment  float64
	Notes        *string
}

func (in QuoteInput) validate() error {
	if in.MaterialCost < 0 || in.LaborCost < 0 || in.DownPayment < 0 {
		return validationf("quote amounts cannot be negative")
	}
	if in.DownPayment > in.MaterialCost+in.LaborCost {
		return validationf("downPayment cannot exceed the total cost")
	}
	return nil
}

// Estimate is a draft quote suggested for staff review.
type Estimate struct {
	MaterialCost float64 `json:"material_cost"`
	LaborCost    float64 `json:"labor_cost"`
	Notes        string  `json:"notes"`
}

// Estimator drafts a quote for a booking.
type Estimator interface {
	Estimate(ctx context.Context, b *bookingModel.Booking) (*Estimate, error)
}

// SendQuote attaches or replaces the booking's quote, sets the booking
// price to the quote total and moves it to quote_sent.
func (s *Service) SendQuote(ctx context.Context, actor auth.Actor, id uint, in QuoteInput) (*bookingModel.Booking, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var bookingID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockBooking(tx, id)
		if err != nil {
			return err
		}
		if err := b.Status.CheckAction(bookingModel.ActionSendQuote); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}

		total := in.MaterialCost + in.LaborCost
		q := bookingModel.Quote{BookingID: b.ID}
		err = tx.Where("booking_id = ?", b.ID).First(&q).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		q.MaterialCost = in.MaterialCost
		q.LaborCost = in.LaborCost
		q.TotalCost = total
		q.DownPayment = in.DownPayment
		q.Notes = in.Notes
		q.Status = bookingModel.QuoteStatusSent
		q.SentAt = s.now()
		q.RespondedAt = nil
		q.CreatedBy = actor.Label()
		if err := tx.Save(&q).Error; err != nil {
			return err
		}

		from := b.Status
		b.Status = bookingModel.BookingStatusQuoteSent
		b.Price = total
		b.UpdatedBy = actor.Label()
		if err := tx.Omit(clause.Associations).Save(b).Error; err != nil {
			return err
		}
		note := fmt.Sprintf("quote total %.2f", total)
		if err := booking_event.Record(tx, b, bookingModel.EventQuoteSent, &from, &note, actor.Label()); err != nil {
			return err
		}
		bookingID = b.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	full, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	logger.Info("quote sent", "booking_number", full.BookingNumber, "total", full.Price)
	s.notify(ctx, notification.KindQuoteSent, full, "")
	return full, nil
}

// RespondQuote records the owner's decision on a sent quote. Approval
// moves the booking to awaiting_payment when a down payment is due and to
// quote_approved otherwise; rejection returns it to quote_pending.
func (s *Service) RespondQuote(ctx context.Context, actor auth.Actor, id uint, approve bool) (*bookingModel.Booking, error) {
	var bookingID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockBooking(tx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !b.IsOwnedBy(actor.ID) {
			return ErrForbidden
		}
		if err := b.Status.CheckAction(bookingModel.ActionRespondQuote); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}

		var q bookingModel.Quote
		err = tx.Where("booking_id = ? AND status = ?", b.ID, bookingModel.QuoteStatusSent).First(&q).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: no open quote", ErrInvalidState)
		}
		if err != nil {
			return err
		}

		at := s.now()
		q.RespondedAt = &at
		from := b.Status
		event := bookingModel.EventQuoteRejected
		if approve {
			q.Status = bookingModel.QuoteStatusApproved
			event = bookingModel.EventQuoteApproved
			b.Status = bookingModel.BookingStatusQuoteApproved
			if q.DownPayment > 0 {
				b.Status = bookingModel.BookingStatusAwaitingPayment
			}
		} else {
			q.Status = bookingModel.QuoteStatusRejected
			b.Status = bookingModel.BookingStatusQuotePending
		}
		if err := tx.Save(&q).Error; err != nil {
			return err
		}
		b.UpdatedBy = actor.Label()
		if err := tx.Omit(clause.Associations).Save(b).Error; err != nil {
			return err
		}
		if err := booking_event.Record(tx, b, event, &from, nil, actor.Label()); err != nil {
			return err
		}
		bookingID = b.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	full, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	logger.Info("quote answered", "booking_number", full.BookingNumber, "approved", approve, "status", full.Status)
	s.notify(ctx, notification.KindStatusChanged, full, "")
	return full, nil
}

// EstimateQuote asks the configured estimator for a draft. Nothing is stored.
func (s *Service) EstimateQuote(ctx context.Context, actor auth.Actor, id uint) (*Estimate, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if s.estimator == nil {
		return nil, ErrEstimatorUnavailable
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.ServiceType == bookingModel.ServiceTypeOnSite {
		return nil, validationf("on-site bookings are priced by the service, not quoted")
	}
	est, err := s.estimator.Estimate(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("estimate quote: %w", err)
	}
	return est, nil
}
