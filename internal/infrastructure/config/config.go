// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Upstream operator API
	APIBaseURL     string
	APIToken       string
	RequestTimeout time.Duration

	// Export artifacts
	ExportDir string

	// Analytics thresholds
	CoverageWarnPercent float64
	ShortShiftHours     float64
	LongShiftHours      float64
	ShiftAlertRatio     float64
	StreakMinDays       int
	StreakHighlightDays int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 60)) * time.Second,

		APIBaseURL:     getEnv("OPERADORES_API_URL", "http://localhost:3000"),
		APIToken:       getEnv("OPERADORES_API_TOKEN", ""),
		RequestTimeout: time.Duration(getEnvAsInt("REQUEST_TIMEOUT", 30)) * time.Second,

		ExportDir: getEnv("EXPORT_DIR", "exports"),

		// The min/highlight streak thresholds are intentionally separate
		// knobs; the source system applied them independently.
		CoverageWarnPercent: getEnvAsFloat("COVERAGE_WARN_PERCENT", 80),
		ShortShiftHours:     getEnvAsFloat("SHORT_SHIFT_HOURS", 9),
		LongShiftHours:      getEnvAsFloat("LONG_SHIFT_HOURS", 10),
		ShiftAlertRatio:     getEnvAsFloat("SHIFT_ALERT_RATIO", 0.5),
		StreakMinDays:       getEnvAsInt("STREAK_MIN_DAYS", 2),
		StreakHighlightDays: getEnvAsInt("STREAK_HIGHLIGHT_DAYS", 3),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
