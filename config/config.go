package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Booking  BookingConfig
	Mail     MailConfig
	Gemini   GeminiConfig
	Logging  LoggingConfig
}

type AppConfig struct {
	Host        string
	Port        string
	Env         string
	FrontendURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// DSN builds the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Queue selects the notification queue backend: "memory" or "redis".
	Queue string
}

type AuthConfig struct {
	JWTSecret string
}

type BookingConfig struct {
	OpenTime    string // HH:MM
	CloseTime   string // HH:MM
	HorizonDays int
	Timezone    string
}

// Location resolves the configured timezone, falling back to UTC.
func (b BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type MailConfig struct {
	Enabled  bool
	From     string
	Host     string
	Port     int
	Username string
	Password string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type LoggingConfig struct {
	Level    string
	File     string
	Requests bool
}

// Load reads .env (when present) and the process environment into a Config.
func Load() (*Config, error) {
	// .env is optional; the environment alone is enough in containers.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Host:        v.GetString("APP_HOST"),
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			FrontendURL: v.GetString("FRONTEND_URL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_DATABASE"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Queue:    v.GetString("NOTIFY_QUEUE"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		Booking: BookingConfig{
			OpenTime:    v.GetString("BOOKING_OPEN_TIME"),
			CloseTime:   v.GetString("BOOKING_CLOSE_TIME"),
			HorizonDays: v.GetInt("BOOKING_HORIZON_DAYS"),
			Timezone:    v.GetString("BOOKING_TIMEZONE"),
		},
		Mail: MailConfig{
			Enabled:  v.GetBool("MAIL_ENABLED"),
			From:     v.GetString("MAIL_FROM"),
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
		},
		Gemini: GeminiConfig{
			APIKey: v.GetString("GEMINI_API_KEY"),
			Model:  v.GetString("GEMINI_MODEL"),
		},
		Logging: LoggingConfig{
			Level:    v.GetString("LOG_LEVEL"),
			File:     v.GetString("LOG_FILE"),
			Requests: v.GetBool("LOG_REQUESTS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_HOST", "0.0.0.0")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("FRONTEND_URL", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("NOTIFY_QUEUE", "memory")
	v.SetDefault("BOOKING_OPEN_TIME", "09:00")
	v.SetDefault("BOOKING_CLOSE_TIME", "18:00")
	v.SetDefault("BOOKING_HORIZON_DAYS", 30)
	v.SetDefault("BOOKING_TIMEZONE", "UTC")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash-lite")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "log/app/app.log")
}

// Validate rejects settings the booking core cannot work with.
func (c *Config) Validate() error {
	open, err := time.Parse("15:04", c.Booking.OpenTime)
	if err != nil {
		return fmt.Errorf("BOOKING_OPEN_TIME must be HH:MM: %w", err)
	}
	closing, err := time.Parse("15:04", c.Booking.CloseTime)
	if err != nil {
		return fmt.Errorf("BOOKING_CLOSE_TIME must be HH:MM: %w", err)
	}
	if !closing.After(open) {
		return fmt.Errorf("BOOKING_CLOSE_TIME must be after BOOKING_OPEN_TIME")
	}
	if c.Booking.HorizonDays <= 0 {
		return fmt.Errorf("BOOKING_HORIZON_DAYS must be positive")
	}
	switch c.Redis.Queue {
	case "memory", "redis":
	default:
		return fmt.Errorf("NOTIFY_QUEUE must be memory or redis, got %q", c.Redis.Queue)
	}
	return nil
}
