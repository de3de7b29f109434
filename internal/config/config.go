package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	placeholderJWTSecret     = "change-this-jwt-secret"
	placeholderWebhookSecret = "change-this-secret"
	placeholderProductID     = "PRODUCT_ID"
)

// Config holds runtime configuration loaded from environment variables.
// It is built once at startup and handed to the server; handlers never
// read the environment themselves.
type Config struct {
	DatabaseURL          string
	JWTSecret            string
	JWTIssuer            string
	TokenTTLSeconds      int64
	WebhookSecret        string
	CheckoutBaseURL      string
	CheckoutProductID    string
	AdminEmails          []string
	MetricsDiskPath      string
	MetricsSampleSeconds int
	CorsOrigins          []string
}

func Load() Config {
	return Config{
		DatabaseURL:          mustEnv("DATABASE_URL"),
		JWTSecret:            envOr("JWT_SECRET", placeholderJWTSecret),
		JWTIssuer:            envOr("JWT_ISSUER", "r4academy"),
		TokenTTLSeconds:      int64(envOrInt("TOKEN_TTL_SECONDS", 604800)),
		WebhookSecret:        envOr("CAKTO_WEBHOOK_SECRET", placeholderWebhookSecret),
		CheckoutBaseURL:      envOr("CAKTO_CHECKOUT_URL", "https://pay.cakto.com.br/checkout"),
		CheckoutProductID:    envOr("CAKTO_PRODUCT_ID", placeholderProductID),
		AdminEmails:          parseCSV(envOr("ADMIN_EMAILS", "")),
		MetricsDiskPath:      envOr("METRICS_DISK_PATH", "/"),
		MetricsSampleSeconds: envOrInt("METRICS_SAMPLE_INTERVAL", 5),
		CorsOrigins:          parseCSV(envOr("CORS_ORIGINS", "")),
	}
}

// InsecureDefaults lists every secret still at its shipped placeholder.
// Callers log these at startup rather than accept them silently.
func (c Config) InsecureDefaults() []string {
	warnings := []string{}
	if c.JWTSecret == placeholderJWTSecret {
		warnings = append(warnings, "JWT_SECRET is unset, tokens are signed with the placeholder secret")
	}
	if c.WebhookSecret == placeholderWebhookSecret {
		warnings = append(warnings, "CAKTO_WEBHOOK_SECRET is unset, webhook signatures use the placeholder secret")
	}
	if c.CheckoutProductID == placeholderProductID {
		warnings = append(warnings, "CAKTO_PRODUCT_ID is unset, checkout links use a placeholder product")
	}
	return warnings
}

// IsAdminEmail reports whether the email is on the admin allow-list.
// Role is fixed at registration from this list.
func (c Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if strings.ToLower(admin) == email {
			return true
		}
	}
	return false
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

// envOrInt falls back on unparseable and non-positive values: every
// integer knob here feeds a TTL or a ticker interval, and a zero ticker
// period panics.
func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
