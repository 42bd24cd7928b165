package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN               string
	Port                string
	Environment         string
	JWTSecret           string
	FrontendURL         string
	AllowedOrigins      string
	MigrationsPath      string
	AvatarDir           string
	SlotDurationMinutes int
	BookingAutoConfirm  bool
	StripeSecretKey     string
	StripeWebhookSecret string
}

func Load() (*Config, error) {
	// .env is optional, real deployments set the environment directly
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:               os.Getenv("DB_DSN"),
		Port:                os.Getenv("PORT"),
		Environment:         os.Getenv("ENV"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		FrontendURL:         os.Getenv("FRONTEND_URL"),
		AllowedOrigins:      os.Getenv("ALLOWED_ORIGINS"),
		MigrationsPath:      os.Getenv("MIGRATIONS_PATH"),
		AvatarDir:           os.Getenv("AVATAR_DIR"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Port == "" {
		cfg.Port = "4000"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
	if cfg.AvatarDir == "" {
		cfg.AvatarDir = "public/avatars"
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}

	cfg.SlotDurationMinutes = 60
	if v := os.Getenv("SLOT_DURATION_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid SLOT_DURATION_MINUTES: %q", v)
		}
		cfg.SlotDurationMinutes = minutes
	}

	// Bookings are confirmed immediately unless approval is switched on.
	cfg.BookingAutoConfirm = true
	if v := os.Getenv("BOOKING_AUTO_CONFIRM"); v != "" {
		autoConfirm, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BOOKING_AUTO_CONFIRM: %q", v)
		}
		cfg.BookingAutoConfirm = autoConfirm
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}
