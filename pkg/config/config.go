package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type UIConfig struct {
	PageSize         int
	DebounceWindow   time.Duration
	OTPCooldown      time.Duration
	CarouselInterval time.Duration
}

type SessionConfig struct {
	// Path of the JSON file holding the bearer token and profile.
	// Empty means <user config dir>/pradhanportal/session.json.
	FilePath string
}

type Config struct {
	API     APIConfig
	UI      UIConfig
	Session SessionConfig
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded.")
	}

	return &Config{
		API: APIConfig{
			BaseURL:        getEnv("PORTAL_API_URL", "http://localhost:5000/api"),
			RequestTimeout: getDurationEnv("PORTAL_API_TIMEOUT", 10*time.Second),
		},
		UI: UIConfig{
			PageSize:         getIntEnv("PORTAL_PAGE_SIZE", 12),
			DebounceWindow:   time.Second,
			OTPCooldown:      30 * time.Second,
			CarouselInterval: 4 * time.Second,
		},
		Session: SessionConfig{
			FilePath: getEnv("PORTAL_SESSION_FILE", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
