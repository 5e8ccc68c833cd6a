package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOOKING_OPEN_TIME", "")
	t.Setenv("NOTIFY_QUEUE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "09:00", cfg.Booking.OpenTime)
	assert.Equal(t, "18:00", cfg.Booking.CloseTime)
	assert.Equal(t, 30, cfg.Booking.HorizonDays)
	assert.Equal(t, "memory", cfg.Redis.Queue)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOOKING_OPEN_TIME", "08:30")
	t.Setenv("BOOKING_HORIZON_DAYS", "14")
	t.Setenv("NOTIFY_QUEUE", "redis")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "08:30", cfg.Booking.OpenTime)
	assert.Equal(t, 14, cfg.Booking.HorizonDays)
	assert.Equal(t, "redis", cfg.Redis.Queue)
}

func TestValidate(t *testing.T) {
	base := Config{
		Booking: BookingConfig{OpenTime: "09:00", CloseTime: "18:00", HorizonDays: 30},
		Redis:   RedisConfig{Queue: "memory"},
	}
	require.NoError(t, base.Validate())

	inverted := base
	inverted.Booking.CloseTime = "08:00"
	assert.Error(t, inverted.Validate())

	badHorizon := base
	badHorizon.Booking.HorizonDays = 0
	assert.Error(t, badHorizon.Validate())

	badQueue := base
	badQueue.Redis.Queue = "kafka"
	assert.Error(t, badQueue.Validate())
}

func TestBookingLocation_FallsBackToUTC(t *testing.T) {
	assert.Equal(t, "UTC", BookingConfig{Timezone: "Mars/Olympus"}.Location().String())
}
