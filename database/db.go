package database

import (
	"fmt"

	"subercraftex/config"
	"subercraftex/logger"
	"subercraftex/models/booking"
	"subercraftex/models/log"
	"subercraftex/models/material"
	"subercraftex/models/service"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the PostgreSQL connection described by cfg.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Error("Failed to connect to the database", err, "host", cfg.Host, "db", cfg.Name)
		return nil, err
	}
	logger.Success("Successfully connected to the database", "host", cfg.Host, "db", cfg.Name)

	DB = db
	return db, nil
}

// Migrate creates or updates every table and index the service owns.
func Migrate(db *gorm.DB) error {
	// Parents first so foreign keys resolve.
	stages := [][]interface{}{
		{&service.Service{}, &material.Material{}},
		{&booking.Booking{}},
		{&booking.BookingMaterial{}, &booking.Quote{}, &booking.Payment{}, &booking.BookingStatusEvent{}},
		{&log.Log{}},
	}
	for _, models := range stages {
		for _, model := range models {
			if err := db.AutoMigrate(model); err != nil {
				return fmt.Errorf("failed to migrate %T: %w", model, err)
			}
		}
	}
	if err := createIndexes(db); err != nil {
		return err
	}
	logger.Success("All migrations completed successfully")
	return nil
}

// createIndexes adds the composite indexes AutoMigrate cannot express.
func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		{
			name: "idx_bookings_service_date",
			sql:  "CREATE INDEX IF NOT EXISTS idx_bookings_service_date ON bookings(service_id, scheduled_date)",
		},
		{
			// At most one live booking per slot, even if an application check is bypassed.
			name: "idx_bookings_live_slot",
			sql: `CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_live_slot
				ON bookings(service_id, scheduled_date, scheduled_time)
				WHERE status IN ('pending', 'confirmed', 'in_progress') AND scheduled_time IS NOT NULL`,
		},
		{
			name: "idx_bookings_customer_created",
			sql:  "CREATE INDEX IF NOT EXISTS idx_bookings_customer_created ON bookings(customer_id, created_at)",
		},
		{
			name: "idx_booking_status_events_booking_created",
			sql:  "CREATE INDEX IF NOT EXISTS idx_booking_status_events_booking_created ON booking_status_events(booking_id, created_at)",
		},
	}
	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
