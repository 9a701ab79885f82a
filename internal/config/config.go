package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresDSN  string
	MongoURI     string
	RedisAddr    string
	RabbitURL    string
	JWTSecret    string
	HTTPAddr     string
	OTLPEndpoint string

	// ConflictBuffer is the +/- window scanned around a requested time when
	// checking a table for overlapping reservations.
	ConflictBuffer time.Duration
	// CheckInEarly / CheckInLate bound the allowed check-in window around a
	// reservation's scheduled time.
	CheckInEarly time.Duration
	CheckInLate  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		MongoURI:       os.Getenv("MONGO_URI"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ConflictBuffer: durationOr("CONFLICT_BUFFER", time.Hour),
		CheckInEarly:   durationOr("CHECKIN_EARLY", 30*time.Minute),
		CheckInLate:    durationOr("CHECKIN_LATE", 2*time.Hour),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
