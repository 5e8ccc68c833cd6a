package service

import (
	"errors"
	"fmt"
	"time"
)

// DurationKind is the duration bucket a service is sold in.
type DurationKind string

const (
	DurationHalfHour   DurationKind = "half_hour"
	DurationOneHour    DurationKind = "one_hour"
	DurationTwoHours   DurationKind = "two_hours"
	DurationThreeHours DurationKind = "three_hours"
	DurationHalfDay    DurationKind = "half_day"
	DurationFullDay    DurationKind = "full_day"
	DurationCustom     DurationKind = "custom"
)

var durationMinutes = map[DurationKind]int{
	DurationHalfHour:   30,
	DurationOneHour:    60,
	DurationTwoHours:   120,
	DurationThreeHours: 180,
	DurationHalfDay:    240,
	DurationFullDay:    480,
}

var ErrInvalidDuration = errors.New("invalid service duration")

// Service is a bookable offering.
type Service struct {
	ID                    uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                  string       `gorm:"type:varchar(255);not null" json:"name"`
	Slug                  string       `gorm:"type:varchar(255);not null;unique" json:"slug"`
	Description           string       `gorm:"type:text" json:"description"`
	Price                 float64      `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Duration              DurationKind `gorm:"type:varchar(20);not null" json:"duration"`
	CustomDurationMinutes *int         `gorm:"type:int" json:"custom_duration_minutes,omitempty"`
	BufferMinutes         int          `gorm:"type:int;not null;default:0" json:"buffer_minutes"`
	MaxBookingsPerDay     *int         `gorm:"type:int" json:"max_bookings_per_day,omitempty"`
	IsActive              bool         `gorm:"not null" json:"is_active"`
	CreatedAt             time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// DurationMinutes resolves the duration bucket to minutes.
func (s Service) DurationMinutes() (int, error) {
	if s.Duration == DurationCustom {
		if s.CustomDurationMinutes == nil || *s.CustomDurationMinutes <= 0 {
			return 0, fmt.Errorf("%w: custom duration requires a positive minute count", ErrInvalidDuration)
		}
		return *s.CustomDurationMinutes, nil
	}
	m, ok := durationMinutes[s.Duration]
	if !ok {
		return 0, fmt.Errorf("%w: unknown duration %q", ErrInvalidDuration, s.Duration)
	}
	return m, nil
}

// Validate checks the duration invariant and the non-negative numeric fields.
func (s Service) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := s.DurationMinutes(); err != nil {
		return err
	}
	if s.BufferMinutes < 0 {
		return fmt.Errorf("buffer minutes cannot be negative")
	}
	if s.MaxBookingsPerDay != nil && *s.MaxBookingsPerDay <= 0 {
		return fmt.Errorf("max bookings per day must be positive")
	}
	return nil
}
