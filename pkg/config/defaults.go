// Package config provides centralized default values for the NaijaReels client
package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err == nil {
			log.Println("Loading configuration overrides from .env file...")
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Backend Configuration
	BackendBaseURL string
	RequestTimeout time.Duration

	// Session Persistence
	StateDirectory string
	TokensFileName string
	UserFileName   string

	// Cache Configuration
	CacheEntryTTL   time.Duration
	CleanupInterval time.Duration
	CleanupVerbose  bool

	// Logging
	LogDirectory    string
	LogToFile       bool
	LogToConsole    bool
	LogJSONFormat   bool
	LogDefaultLevel string

	// Devstack (local stub backend)
	DevstackPort          string
	DevstackDBPath        string
	DevstackJWTSecret     string
	DevstackAccessTTL     time.Duration
	DevstackRefreshTTL    time.Duration
	DevstackWriteTimeout  time.Duration
	DevstackReadTimeout   time.Duration
	DevstackAllowedOrigin string
)

func init() {
	loadEnvFile()

	// Backend Configuration
	BackendBaseURL = getEnvString("NAIJAREELS_API_URL", "http://localhost:8000/api/")
	RequestTimeout = getEnvDuration("NAIJAREELS_REQUEST_TIMEOUT", 15*time.Second)

	// Session Persistence
	StateDirectory = getEnvString("NAIJAREELS_STATE_DIR", defaultStateDir())
	TokensFileName = getEnvString("NAIJAREELS_TOKENS_FILE", "tokens.json")
	UserFileName = getEnvString("NAIJAREELS_USER_FILE", "user.json")

	// Cache Configuration
	CacheEntryTTL = time.Duration(getEnvInt("CACHE_ENTRY_TTL_MINUTES", 10)) * time.Minute
	CleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 5)) * time.Minute
	CleanupVerbose = getEnvBool("CACHE_CLEANUP_VERBOSE", false)

	// Logging
	LogDirectory = getEnvString("NAIJAREELS_LOG_DIR", "logs")
	LogToFile = getEnvBool("NAIJAREELS_LOG_TO_FILE", false)
	LogToConsole = getEnvBool("NAIJAREELS_LOG_TO_CONSOLE", true)
	LogJSONFormat = getEnvBool("NAIJAREELS_LOG_JSON", false)
	LogDefaultLevel = getEnvString("NAIJAREELS_LOG_LEVEL", "info")

	// Devstack
	DevstackPort = getEnvString("DEVSTACK_PORT", "8000")
	DevstackDBPath = getEnvString("DEVSTACK_DB_PATH", "devstack.db")
	DevstackJWTSecret = getEnvString("DEVSTACK_JWT_SECRET", "devstack-local-secret")
	DevstackAccessTTL = getEnvDuration("DEVSTACK_ACCESS_TTL", 15*time.Minute)
	DevstackRefreshTTL = getEnvDuration("DEVSTACK_REFRESH_TTL", 24*time.Hour)
	DevstackReadTimeout = getEnvDuration("DEVSTACK_READ_TIMEOUT", 15*time.Second)
	DevstackWriteTimeout = getEnvDuration("DEVSTACK_WRITE_TIMEOUT", 15*time.Second)
	DevstackAllowedOrigin = getEnvString("DEVSTACK_ALLOWED_ORIGIN", "http://localhost:5173")
}

func defaultStateDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.naijareels"
	}
	return ".naijareels"
}
