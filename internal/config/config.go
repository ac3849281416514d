package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	AllowedOrigins []string

	// TrustProxyHeaders lets X-Forwarded-For / X-Real-IP replace the peer
	// address. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool

	DatabaseURL string

	JWTSecret   string
	SessionTTL  time.Duration
	AdminID     string
	AdminSecret string

	MailHost     string
	MailPort     int
	MailUser     string
	MailPassword string
	MailFrom     string
	MailTimeout  time.Duration

	RabbitMQURL string

	KommoAPIToken string
	KommoBaseURL  string

	IntakeRateLimit int

	PriorityResponseWindow time.Duration
}

// Load reads the configuration from the environment. Call godotenv.Load
// before it to pick up a local .env file.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),

		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:   getEnv("JWT_SECRET", "change-this-to-a-random-secret-in-production"),
		SessionTTL:  getEnvDuration("SESSION_TTL", 24*time.Hour),
		AdminID:     getEnv("ADMIN_IDENTIFIER", "admin"),
		AdminSecret: getEnv("ADMIN_SECRET", "password"),

		MailHost:     os.Getenv("MAIL_HOST"),
		MailPort:     getEnvInt("MAIL_PORT", 587),
		MailUser:     os.Getenv("MAIL_USER"),
		MailPassword: os.Getenv("MAIL_PASS"),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@ambassador.portal"),
		MailTimeout:  getEnvDuration("MAIL_TIMEOUT", 15*time.Second),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		KommoAPIToken: os.Getenv("KOMMO_API_TOKEN"),
		KommoBaseURL:  getEnv("KOMMO_BASE_URL", "https://ambassador.kommo.com/api/v4"),

		IntakeRateLimit: getEnvInt("INTAKE_RATE_LIMIT", 10),

		PriorityResponseWindow: getEnvDuration("PRIORITY_RESPONSE_WINDOW", 30*time.Minute),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if c.AdminID == "" || c.AdminSecret == "" {
		return fmt.Errorf("ADMIN_IDENTIFIER and ADMIN_SECRET must not be empty")
	}
	if c.IntakeRateLimit <= 0 {
		return fmt.Errorf("INTAKE_RATE_LIMIT must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MailEnabled is true when an SMTP server is configured. Without one,
// coupon emails are only simulated in the logs.
func (c *Config) MailEnabled() bool {
	return c.MailHost != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
