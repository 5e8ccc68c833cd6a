package booking

import (
	"time"
)

// Event types recorded on the booking timeline.
const (
	EventCreated       = "created"
	EventRescheduled   = "rescheduled"
	EventStatusChanged = "status_changed"
	EventCancelled     = "cancelled"
	EventQuoteSent     = "quote_sent"
	EventQuoteApproved = "quote_approved"
	EventQuoteRejected = "quote_rejected"

	EventMaterialsAcquired = "materials_acquired"
)

// BookingStatusEvent is one entry of a booking's progress timeline.
type BookingStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint `gorm:"not null;index" json:"booking_id"`

	EventType  string         `gorm:"type:varchar(30);not null" json:"event_type"`
	FromStatus *BookingStatus `gorm:"type:varchar(30)" json:"from_status,omitempty"`
	ToStatus   BookingStatus  `gorm:"type:varchar(30);not null" json:"to_status"`
	Note       *string        `gorm:"type:text" json:"note,omitempty"`
	CreatedBy  string         `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the BookingStatusEvent model
func (BookingStatusEvent) TableName() string {
	return "booking_status_events"
}
