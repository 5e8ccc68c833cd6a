package notification

import (
	"fmt"
	"strings"
)

// Render builds the subject and plain-text body for a job.
func Render(job Job) (subject, body string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", job.CustomerName)

	switch job.Kind {
	case KindBookingConfirmed:
		subject = fmt.Sprintf("Booking %s received", job.BookingNumber)
		fmt.Fprintf(&b, "We have received your booking for %s.\n", job.ServiceName)
		writeSchedule(&b, job)
	case KindRescheduled:
		subject = fmt.Sprintf("Booking %s rescheduled", job.BookingNumber)
		fmt.Fprintf(&b, "Your booking for %s has been moved.\n", job.ServiceName)
		writeSchedule(&b, job)
	case KindCancelled:
		subject = fmt.Sprintf("Booking %s cancelled", job.BookingNumber)
		fmt.Fprintf(&b, "Your booking for %s has been cancelled.\n", job.ServiceName)
		if job.Reason != "" {
			fmt.Fprintf(&b, "Reason: %s\n", job.Reason)
		}
	case KindQuoteSent:
		subject = fmt.Sprintf("Your quote for booking %s", job.BookingNumber)
		fmt.Fprintf(&b, "Your quote for %s is ready: %.2f.\n", job.ServiceName, job.Amount)
		b.WriteString("Please review and approve it to continue.\n")
	default:
		subject = fmt.Sprintf("Booking %s updated", job.BookingNumber)
		fmt.Fprintf(&b, "Your booking for %s is now %s.\n", job.ServiceName, strings.ReplaceAll(job.Status, "_", " "))
	}

	fmt.Fprintf(&b, "\nBooking number: %s\n\nSuberCraftex\n", job.BookingNumber)
	return subject, b.String()
}

func writeSchedule(b *strings.Builder, job Job) {
	if job.ScheduledDate == "" {
		return
	}
	fmt.Fprintf(b, "Date: %s\n", job.ScheduledDate)
	if job.ScheduledTime != "" {
		fmt.Fprintf(b, "Time: %s - %s\n", job.ScheduledTime, job.EndTime)
	}
}
