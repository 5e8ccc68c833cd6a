package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"subercraftex/config"
	"subercraftex/models/booking"
	"subercraftex/models/service"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

var ErrInvalidWindow = errors.New("invalid availability window")

// Result maps a YYYY-MM-DD date to its ordered open start times.
type Result map[string][]string

type bookedSlot struct {
	ScheduledDate string
	ScheduledTime string
	EndTime       string
	EndsNextDay   bool
	Status        booking.BookingStatus
}

// Calculator derives open slots from working hours and stored bookings.
type Calculator struct {
	db          *gorm.DB
	open, close int
	horizonDays int
	loc         *time.Location
	now         func() time.Time
}

func NewCalculator(db *gorm.DB, cfg config.BookingConfig) (*Calculator, error) {
	open, err := booking.ParseClock(cfg.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("open time: %w", err)
	}
	closing, err := booking.ParseClock(cfg.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("close time: %w", err)
	}
	return &Calculator{
		db:          db,
		open:        open,
		close:       closing,
		horizonDays: cfg.HorizonDays,
		loc:         cfg.Location(),
		now:         time.Now,
	}, nil
}

// WithClock replaces the time source, for tests.
func (c *Calculator) WithClock(fn func() time.Time) *Calculator {
	c.now = fn
	return c
}

// Slots returns open start times per date in [start, end]. The window is
// capped at the configured horizon, past dates are skipped, and an unknown
// or inactive service yields an empty result.
func (c *Calculator) Slots(ctx context.Context, serviceID uint, start, end string) (Result, error) {
	from, err := booking.ParseDate(start, c.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	to, err := booking.ParseDate(end, c.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidWindow)
	}
	if c.horizonDays > 0 {
		if limit := from.AddDate(0, 0, c.horizonDays-1); to.After(limit) {
			to = limit
		}
	}

	result := Result{}

	var svc service.Service
	err = c.db.WithContext(ctx).Where("id = ? AND is_active = ?", serviceID, true).First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	duration, err := svc.DurationMinutes()
	if err != nil {
		return result, nil
	}

	current := c.now().In(c.loc)
	today := now.With(current).BeginningOfDay()
	if from.Before(today) {
		from = today
	}
	if to.Before(from) {
		return result, nil
	}

	var rows []bookedSlot
	err = c.db.WithContext(ctx).Model(&booking.Booking{}).
		Select("scheduled_date", "scheduled_time", "end_time", "ends_next_day", "status").
		Where("service_id = ? AND scheduled_date BETWEEN ? AND ?", svc.ID,
			from.AddDate(0, 0, -1).Format(booking.DateLayout), to.Format(booking.DateLayout)).
		Where("scheduled_time IS NOT NULL AND end_time IS NOT NULL AND status <> ?", booking.BookingStatusCancelled).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		date := day.Format(booking.DateLayout)
		if svc.MaxBookingsPerDay != nil && liveCount(rows, date) >= *svc.MaxBookingsPerDay {
			continue
		}
		plan := DayPlan{
			Open:      c.open,
			Close:     c.close,
			Duration:  duration,
			Buffer:    svc.BufferMinutes,
			Busy:      busyFrom(date, rows, svc.BufferMinutes),
			NotBefore: -1,
		}
		if day.Equal(today) {
			plan.NotBefore = current.Hour()*60 + current.Minute()
		}
		if slots := plan.OpenSlots(); len(slots) > 0 {
			result[date] = slots
		}
	}
	return result, nil
}

func liveCount(rows []bookedSlot, date string) int {
	n := 0
	for _, r := range rows {
		if r.ScheduledDate == date && r.Status.IsLive() {
			n++
		}
	}
	return n
}
