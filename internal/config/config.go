package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	BotToken    string
	Port        string
	LogLevel    string
	Environment string

	// Campaign settings
	StartDate time.Time
	TotalDays int
	SendTime  SendTime
	Location  *time.Location

	// Content and persistence
	DataDir     string
	UsersFile   string
	DatabaseURL string
	RedisURL    string
}

// SendTime is the daily wall-clock send time in the campaign time zone
type SendTime struct {
	Hour   int
	Minute int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	// The time zone is explicit configuration; there is no host-local fallback.
	location, err := time.LoadLocation(getEnv("TIMEZONE", "Europe/Moscow"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	// The start date is midnight in the campaign zone, not UTC, so day
	// boundaries line up with the configured zone.
	startDate, err := time.ParseInLocation("2006-01-02", getEnv("START_DATE", "2025-12-08"), location)
	if err != nil {
		return nil, fmt.Errorf("invalid START_DATE: %w", err)
	}

	totalDays := getIntEnv("TOTAL_DAYS", 21)
	if totalDays < 1 {
		return nil, fmt.Errorf("TOTAL_DAYS must be positive, got %d", totalDays)
	}

	sendTime, err := parseSendTime(getEnv("SEND_TIME", "10:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEND_TIME: %w", err)
	}

	dataDir := getEnv("DATA_DIR", "data")

	return &Config{
		BotToken:    token,
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "production"),
		StartDate:   startDate,
		TotalDays:   totalDays,
		SendTime:    sendTime,
		Location:    location,
		DataDir:     dataDir,
		UsersFile:   getEnv("USERS_FILE", dataDir+"/users.json"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
	}, nil
}

// parseSendTime parses "HH:MM" into a SendTime
func parseSendTime(s string) (SendTime, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return SendTime{}, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return SendTime{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return SendTime{}, fmt.Errorf("invalid minute in %q", s)
	}
	return SendTime{Hour: hour, Minute: minute}, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
