package app

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pairingbuds/buds/pkg/jwtx"
)

// defaultPublicPaths are admitted with no identity resolved. Exact-match
// only; this list is configuration, not routing logic.
var defaultPublicPaths = []string{
	"/login",
	"/refresh",
	"/signup",
	"/quotes/today",
	"/livez",
	"/readyz",
}

type Config struct {
	Issuer        string        // Issuer claim for tokens (default: buds)
	SigningSecret string        // Required: HMAC secret for token signing
	AccessTTL     time.Duration // Access token lifetime (default: 30m)
	RefreshTTL    time.Duration // Refresh token lifetime (default: 336h)
	PublicPaths   []string      // Comma-separated exact-match allow-list
	SecureCookies bool          // Set the Secure flag on token cookies (default: true)

	DatabaseFile string // Path to SQLite database file (default: ./buds.db)
	PepperFile   string // Path to password-hashing pepper file (default: ./pepper)
	RedisAddr    string // Session store address (default: localhost:6379)
	RedisPrefix  string // Session store key namespace (default: buds)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:        getEnvOrDefault("BUDS_ISSUER", "buds"),
		SigningSecret: os.Getenv("BUDS_SIGNING_SECRET"),
		AccessTTL: getEnvDurationOrDefault(
			"BUDS_ACCESS_TTL",
			jwtx.DefaultAccessTokenTTL,
		),
		RefreshTTL: getEnvDurationOrDefault(
			"BUDS_REFRESH_TTL",
			jwtx.DefaultRefreshTokenTTL,
		),
		PublicPaths:         defaultPublicPaths,
		SecureCookies:       getEnvBoolOrDefault("BUDS_SECURE_COOKIES", true),
		DatabaseFile:        getEnvOrDefault("BUDS_DATABASE_FILE", "buds.db"),
		PepperFile:          getEnvOrDefault("BUDS_PEPPER_FILE", "pepper"),
		RedisAddr:           getEnvOrDefault("BUDS_REDIS_ADDR", "localhost:6379"),
		RedisPrefix:         getEnvOrDefault("BUDS_REDIS_PREFIX", "buds"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if paths := os.Getenv("BUDS_PUBLIC_PATHS"); paths != "" {
		cfg.PublicPaths = nil
		for _, p := range strings.Split(paths, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.PublicPaths = append(cfg.PublicPaths, p)
			}
		}
	}

	return cfg
}

// Validate rejects configurations the service cannot safely start with.
func (cfg Config) Validate() error {
	if len(cfg.SigningSecret) < 32 {
		return errors.New("BUDS_SIGNING_SECRET must be set and at least 32 bytes")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if cfg.AccessTTL >= cfg.RefreshTTL {
		return errors.New("access TTL must be shorter than refresh TTL")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
