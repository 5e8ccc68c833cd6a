package booking

import (
	"subercraftex/models/material"
	"subercraftex/models/service"
	"time"
)

// Booking is a reservation of a service for a customer. Rows are never
// deleted; cancellation is a status.
type Booking struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingNumber string `gorm:"type:varchar(40);not null;unique" json:"booking_number"`

	ServiceID uint            `gorm:"not null;index" json:"service_id"`
	Service   service.Service `gorm:"foreignKey:ServiceID" json:"service"`

	// CustomerID is the token subject of the owner; nil for guest bookings.
	CustomerID    *string `gorm:"type:varchar(255);index" json:"customer_id,omitempty"`
	CustomerName  string  `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string  `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerPhone *string `gorm:"type:varchar(30)" json:"customer_phone,omitempty"`

	ServiceType      ServiceType       `gorm:"type:varchar(30);not null" json:"service_type"`
	CollectionMethod *CollectionMethod `gorm:"type:varchar(20)" json:"collection_method,omitempty"`

	ScheduledDate *string `gorm:"type:varchar(10);index" json:"scheduled_date,omitempty"` // YYYY-MM-DD
	ScheduledTime *string `gorm:"type:varchar(5)" json:"scheduled_time,omitempty"`        // HH:MM
	EndTime       *string `gorm:"type:varchar(5)" json:"end_time,omitempty"`              // HH:MM
	EndsNextDay   bool    `gorm:"not null;default:false" json:"ends_next_day"`

	Status BookingStatus `gorm:"type:varchar(30);not null;index" json:"status"`
	Price  float64       `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Notes  *string       `gorm:"type:text" json:"notes,omitempty"`

	CancellationReason *string    `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`

	PreviousScheduledDate *string    `gorm:"type:varchar(10)" json:"previous_scheduled_date,omitempty"`
	PreviousScheduledTime *string    `gorm:"type:varchar(5)" json:"previous_scheduled_time,omitempty"`
	RescheduledAt         *time.Time `json:"rescheduled_at,omitempty"`
	RescheduleCount       int        `gorm:"not null;default:0" json:"reschedule_count"`

	Materials []BookingMaterial    `gorm:"foreignKey:BookingID" json:"materials,omitempty"`
	Quote     *Quote               `gorm:"foreignKey:BookingID" json:"quote,omitempty"`
	Payments  []Payment            `gorm:"foreignKey:BookingID" json:"payments,omitempty"`
	Progress  []BookingStatusEvent `gorm:"foreignKey:BookingID" json:"progress,omitempty"`

	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string    `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsOwnedBy reports whether the given subject owns the booking.
func (b *Booking) IsOwnedBy(subject string) bool {
	return subject != "" && b.CustomerID != nil && *b.CustomerID == subject
}

// BookingMaterial freezes the price of a material reserved for a booking.
type BookingMaterial struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID uint `gorm:"not null;index" json:"booking_id"`

	MaterialID uint              `gorm:"not null;index" json:"material_id"`
	Material   material.Material `gorm:"foreignKey:MaterialID" json:"material"`

	Quantity       int     `gorm:"type:int;not null" json:"quantity"`
	PriceAtBooking float64 `gorm:"type:numeric(12,2);not null" json:"price_at_booking"`
	// Acquired marks inventory that has been committed and is never restocked on cancel.
	Acquired bool `gorm:"not null;default:false" json:"acquired"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type QuoteStatus string

const (
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusApproved QuoteStatus = "approved"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// Quote is a priced proposal for custom-production and collect-repair bookings.
type Quote struct {
	ID           uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID    uint        `gorm:"not null;unique" json:"booking_id"`
	MaterialCost float64     `gorm:"type:numeric(12,2);not null" json:"material_cost"`
	LaborCost    float64     `gorm:"type:numeric(12,2);not null" json:"labor_cost"`
	TotalCost    float64     `gorm:"type:numeric(12,2);not null" json:"total_cost"`
	DownPayment  float64     `gorm:"type:numeric(12,2);not null;default:0" json:"down_payment"`
	Notes        *string     `gorm:"type:text" json:"notes,omitempty"`
	Status       QuoteStatus `gorm:"type:varchar(20);not null" json:"status"`
	SentAt       time.Time   `json:"sent_at"`
	RespondedAt  *time.Time  `json:"responded_at,omitempty"`
	CreatedBy    string      `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// Payment is recorded by the payment collaborator and only read here.
type Payment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID uint      `gorm:"not null;index" json:"booking_id"`
	Amount    float64   `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method    string    `gorm:"type:varchar(50);not null" json:"method"`
	Reference *string   `gorm:"type:varchar(255)" json:"reference,omitempty"`
	Status    string    `gorm:"type:varchar(30);not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
