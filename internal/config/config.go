package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Email EmailConfig

	Checkout CheckoutConfig

	Analytics AnalyticsConfig
}

// EmailConfig holds SMTP settings for outbound notifications.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// CheckoutConfig selects the hosted-checkout provider used for plan upgrades.
type CheckoutConfig struct {
	Provider      string
	SecretKey     string
	CorePrice     string
	CompletePrice string
	SuccessURL    string
	CancelURL     string
}

// AnalyticsConfig configures the optional product analytics sink.
type AnalyticsConfig struct {
	Enabled   bool
	Endpoint  string
	WebsiteID string
}

// Module wires configuration loading.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewImportPolicyHolder),
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "leavehub"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "leavehub"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     int(getenvInt64("DATABASE_MAX_IDLE_CONN", 5)),
		DBMaxOpenConn:     int(getenvInt64("DATABASE_MAX_OPEN_CONN", 25)),
		DBConnMaxLifetime: int(getenvInt64("DATABASE_CONN_MAX_LIFETIME", 300)),

		Email: EmailConfig{
			SMTPHost:     getenv("SMTP_HOST", ""),
			SMTPPort:     int(getenvInt64("SMTP_PORT", 587)),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "no-reply@leavehub.app"),
		},

		Checkout: CheckoutConfig{
			Provider:      strings.ToLower(getenv("CHECKOUT_PROVIDER", "noop")),
			SecretKey:     strings.TrimSpace(getenv("CHECKOUT_SECRET_KEY", "")),
			CorePrice:     strings.TrimSpace(getenv("CHECKOUT_CORE_PRICE", "")),
			CompletePrice: strings.TrimSpace(getenv("CHECKOUT_COMPLETE_PRICE", "")),
			SuccessURL:    getenv("CHECKOUT_SUCCESS_URL", "https://app.leavehub.app/settings/subscription?upgraded=1"),
			CancelURL:     getenv("CHECKOUT_CANCEL_URL", "https://app.leavehub.app/settings/subscription"),
		},

		Analytics: AnalyticsConfig{
			Enabled:   getenvBool("ANALYTICS_ENABLED", false),
			Endpoint:  strings.TrimSpace(getenv("ANALYTICS_ENDPOINT", "")),
			WebsiteID: strings.TrimSpace(getenv("ANALYTICS_WEBSITE_ID", "")),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
