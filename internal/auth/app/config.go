package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/service"
	"github.com/aussiebroadwan/hubsite/pkg/jwtx"
)

// ErrMissingSigningSecret is returned by Validate when AUTH_SIGNING_SECRET is unset.
var ErrMissingSigningSecret = errors.New("AUTH_SIGNING_SECRET is required")

type Config struct {
	SigningSecret string // Required: HMAC secret for access and refresh tokens
	SuperAdminKey string // Optional: bootstrap key for the first superadmin (empty disables bootstrap)
	Issuer        string // Optional: iss claim (default: hubsite-auth)
	Audience      string // Optional: aud claim (default: hubsite)

	AccessTTL        time.Duration // Access token lifetime (default: 24h)
	RefreshTTL       time.Duration // Refresh token lifetime (default: 7 days)
	LockoutThreshold int           // Failed sign-ins before the account locks (default: 5)
	LockoutDuration  time.Duration // How long a lock lasts (default: 30m)
	ResetTTL         time.Duration // Password reset token lifetime (default: 30m)
	TOTPIssuer       string        // Issuer shown by authenticator apps (default: Hubsite)

	ResetURL           string // Optional: page that completes a password reset; the token is added as ?token=
	NotifyWebhookURL   string // Optional: endpoint that receives notifications (reset links) as JSON
	NotifyWebhookToken string // Optional: bearer token sent to the notification webhook

	DatabaseFile        string        // Path to SQLite database file (default: ./auth.db)
	CleanupSchedule     string        // Cron expression for housekeeping (default: @weekly)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		SigningSecret: os.Getenv("AUTH_SIGNING_SECRET"),
		SuperAdminKey: os.Getenv("AUTH_SUPERADMIN_KEY"),
		Issuer:        getEnvOrDefault("AUTH_ISSUER", jwtx.DefaultIssuer),
		Audience:      getEnvOrDefault("AUTH_AUDIENCE", jwtx.DefaultAudience),

		AccessTTL:        getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:       getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		LockoutThreshold: getEnvIntOrDefault("AUTH_LOCKOUT_THRESHOLD", service.DefaultMaxFailedAttempts),
		LockoutDuration:  getEnvDurationOrDefault("AUTH_LOCKOUT_DURATION", service.DefaultLockDuration),
		ResetTTL:         getEnvDurationOrDefault("AUTH_RESET_TTL", service.DefaultResetTokenTTL),
		TOTPIssuer:       getEnvOrDefault("AUTH_TOTP_ISSUER", "Hubsite"),

		ResetURL:           os.Getenv("AUTH_RESET_URL"),
		NotifyWebhookURL:   os.Getenv("AUTH_NOTIFY_WEBHOOK_URL"),
		NotifyWebhookToken: os.Getenv("AUTH_NOTIFY_WEBHOOK_TOKEN"),

		DatabaseFile:        getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		CleanupSchedule:     getEnvOrDefault("CLEANUP_SCHEDULE", service.DefaultCleanupSchedule),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate reports configuration the service cannot start without.
func (c Config) Validate() error {
	if c.SigningSecret == "" {
		return ErrMissingSigningSecret
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
