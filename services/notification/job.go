package notification

import (
	"time"

	"github.com/google/uuid"
)

// Kind names the message a job renders to.
type Kind string

const (
	KindBookingConfirmed Kind = "booking_confirmed"
	KindRescheduled      Kind = "booking_rescheduled"
	KindCancelled        Kind = "booking_cancelled"
	KindStatusChanged    Kind = "booking_status_changed"
	KindQuoteSent        Kind = "quote_sent"
)

// Job is a queued customer notification. It carries everything needed to
// render the message so the worker never reads the database.
type Job struct {
	ID            string    `json:"id"`
	Kind          Kind      `json:"kind"`
	BookingID     uint      `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	To            string    `json:"to"`
	CustomerName  string    `json:"customer_name"`
	ServiceName   string    `json:"service_name"`
	ScheduledDate string    `json:"scheduled_date,omitempty"`
	ScheduledTime string    `json:"scheduled_time,omitempty"`
	EndTime       string    `json:"end_time,omitempty"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
}

// NewJob stamps a job with a fresh ID and enqueue time.
func NewJob(kind Kind) Job {
	return Job{ID: uuid.NewString(), Kind: kind, EnqueuedAt: time.Now().UTC()}
}
