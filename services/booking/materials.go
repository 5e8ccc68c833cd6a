package booking

import (
	"context"
	"fmt"

	"subercraftex/logger"
	bookingModel "subercraftex/models/booking"
	"subercraftex/services/booking_event"
	"subercraftex/types/auth"

	"gorm.io/gorm"
)

// AcquireMaterials marks reserved material rows as committed to the job.
// Acquired rows stay consumed when the booking is later cancelled. An empty
// materialIDs acquires every row still pending.
func (s *Service) AcquireMaterials(ctx context.Context, actor auth.Actor, id uint, materialIDs []uint) (*bookingModel.Booking, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockBooking(tx, id)
		if err != nil {
			return err
		}
		if b.Status.IsTerminal() {
			return fmt.Errorf("%w: %s", ErrInvalidState, bookingModel.ErrTerminalState)
		}

		q := tx.Model(&bookingModel.BookingMaterial{}).
			Where("booking_id = ? AND acquired = ?", b.ID, false)
		if len(materialIDs) > 0 {
			q = q.Where("material_id IN ?", materialIDs)
		}
		res := q.Update("acquired", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return validationf("no unacquired materials matched")
		}

		note := fmt.Sprintf("%d material line(s) acquired", res.RowsAffected)
		return booking_event.Record(tx, b, bookingModel.EventMaterialsAcquired, &b.Status, &note, actor.Label())
	})
	if err != nil {
		return nil, err
	}

	full, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	logger.Info("booking materials acquired", "booking_number", full.BookingNumber, "by", actor.Label())
	return full, nil
}
