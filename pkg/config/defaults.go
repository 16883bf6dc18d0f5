// Package config provides centralized default values for the Win2Win backend
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
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
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// External Backend
	BackendBaseURL string
	BackendTimeout time.Duration

	// Cookie Configuration
	ConsentCookieName string
	SessionCookieName string
	CookieTTL         time.Duration
	CookieSecure      bool

	// Admin Back-Office
	JWTSecret     string
	AdminPassword string
	AdminTokenTTL time.Duration

	// Websocket Activity Feed
	ActivityHeartbeatInterval time.Duration
	MaxActivityClients        int

	// Logging
	LogDirectory string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// External Backend
	BackendBaseURL = getEnvString("BACKEND_BASE_URL", "http://localhost:9000")
	BackendTimeout = getEnvDuration("BACKEND_TIMEOUT", 5*time.Second)

	// Cookie Configuration
	ConsentCookieName = getEnvString("CONSENT_COOKIE_NAME", "w2w_consent")
	SessionCookieName = getEnvString("SESSION_COOKIE_NAME", "w2w_session_id")
	CookieTTL = time.Duration(getEnvInt("COOKIE_TTL_DAYS", 365)) * 24 * time.Hour
	CookieSecure = getEnvBool("COOKIE_SECURE", true)

	// Admin Back-Office
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminPassword = getEnvString("ADMIN_PASSWORD", "")
	AdminTokenTTL = getEnvDuration("ADMIN_TOKEN_TTL", 24*time.Hour)

	// Websocket Activity Feed
	ActivityHeartbeatInterval = getEnvDuration("ACTIVITY_HEARTBEAT_INTERVAL", 30*time.Second)
	MaxActivityClients = getEnvInt("MAX_ACTIVITY_CLIENTS", 50)

	// Logging
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
}
