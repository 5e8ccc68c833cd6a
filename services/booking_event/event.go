package booking_event

import (
	bookingModel "subercraftex/models/booking"

	"gorm.io/gorm"
)

// Record appends a timeline entry for b. It must run on the transaction
// that performed the mutation so the entry commits or rolls back with it.
func Record(tx *gorm.DB, b *bookingModel.Booking, eventType string, from *bookingModel.BookingStatus, note *string, createdBy string) error {
	ev := bookingModel.BookingStatusEvent{
		BookingID:  b.ID,
		EventType:  eventType,
		FromStatus: from,
		ToStatus:   b.Status,
		Note:       note,
		CreatedBy:  createdBy,
	}
	return tx.Create(&ev).Error
}

