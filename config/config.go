package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// DefaultScanPath is where Android camera apps store captures.
const DefaultScanPath = "/sdcard/DCIM/Camera"

type Config struct {
	ImmichURL    string
	ImmichAPIKey string
	DeviceSerial string
	ScanPath     string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables only")
	}

	config := &Config{
		ImmichURL:    getEnv("IMMICH_URL", ""),
		ImmichAPIKey: getEnv("IMMICH_API_KEY", ""),
		DeviceSerial: getEnv("DEVICE_SERIAL", ""),
		ScanPath:     getEnv("SCAN_PATH", DefaultScanPath),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
