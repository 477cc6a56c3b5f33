package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int

	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	// Email verification
	VerificationTTL  time.Duration
	EmailSendTimeout time.Duration
	AppBaseURL       string

	// SMTP (optional; verification emails are skipped when unset)
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// OAuth providers (each optional)
	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURI  string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// Rate limiting
	RateLimit RateLimitConfig
}

// RateLimitConfig holds per-endpoint request budgets.
type RateLimitConfig struct {
	Enabled bool

	AuthRequests int
	AuthWindow   time.Duration

	VerifyRequests int
	VerifyWindow   time.Duration

	PollRequests int
	PollWindow   time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "zebra_board"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "zebra-board"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 15*time.Minute),

		VerificationTTL:  getEnvDuration("VERIFICATION_TTL", 24*time.Hour),
		EmailSendTimeout: getEnvDuration("EMAIL_SEND_TIMEOUT", 5*time.Second),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:8080"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Zebra Board"),

		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubRedirectURI:  getEnv("GITHUB_REDIRECT_URI", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),

		RateLimit: RateLimitConfig{
			Enabled:        getEnvBool("RATE_LIMIT_ENABLED", true),
			AuthRequests:   getEnvInt("RATE_LIMIT_AUTH_REQUESTS", 10),
			AuthWindow:     getEnvDuration("RATE_LIMIT_AUTH_WINDOW", 15*time.Minute),
			VerifyRequests: getEnvInt("RATE_LIMIT_VERIFY_REQUESTS", 30),
			VerifyWindow:   getEnvDuration("RATE_LIMIT_VERIFY_WINDOW", 10*time.Minute),
			PollRequests:   getEnvInt("RATE_LIMIT_POLL_REQUESTS", 60),
			PollWindow:     getEnvDuration("RATE_LIMIT_POLL_WINDOW", time.Minute),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// HasSMTP returns true if email delivery is configured.
func (c *Config) HasSMTP() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// HasGitHubOAuth returns true if GitHub OAuth is configured.
func (c *Config) HasGitHubOAuth() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// HasGoogleOAuth returns true if Google OAuth is configured.
func (c *Config) HasGoogleOAuth() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
