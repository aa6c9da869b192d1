package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Refresh token settings
	RefreshTokenExpiryDuration time.Duration
	RefreshTokenCookieName     string
	RefreshTokenCookiePath     string
	RefreshTokenSecret         string

	// External OAuth providers
	GoogleClientID  string `mapstructure:"GOOGLE_CLIENT_ID"`
	FrontendBaseURL string `mapstructure:"FRONTEND_BASE_URL"`

	// Analytics
	PosthogAPIKey   string `mapstructure:"POSTHOG_API_KEY"`
	PosthogEndpoint string `mapstructure:"POSTHOG_ENDPOINT"`

	// Proposal lifecycle settings
	ProposalValidityDays  int           `mapstructure:"PROPOSAL_VALIDITY_DAYS"`
	OutboxProcessInterval time.Duration `mapstructure:"OUTBOX_PROCESS_INTERVAL"`
	OutboxBatchSize       int           `mapstructure:"OUTBOX_BATCH_SIZE"`
}

const (
	insecureJWTSecret     = "a-very-secret-key-should-be-longer-and-random"
	insecureRefreshSecret = "default_insecure_refresh_secret_please_change_this_!@#$"
)

// durationOrDefault parses a duration string, falling back to def with a
// warning when the value is unparsable.
func durationOrDefault(key, raw string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s (%q), defaulting to %s", key, raw, def)
		return def
	}
	return d
}

// LoadConfig reads configuration from environment variables, with a .env file
// as a fallback when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", insecureJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "travel-proposal-app")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_NAME", "rtid")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_PATH", "/api/v1/auth")
	viper.SetDefault("REFRESH_TOKEN_SECRET", insecureRefreshSecret)
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://us.i.posthog.com")
	viper.SetDefault("PROPOSAL_VALIDITY_DAYS", 7)
	viper.SetDefault("OUTBOX_PROCESS_INTERVAL", "30s")
	viper.SetDefault("OUTBOX_BATCH_SIZE", 25)

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL is not set")
	}

	cfg.Port = viper.GetString("PORT")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == insecureJWTSecret {
		log.Println("Warning: JWT_SECRET is not set, using the default insecure key")
	}
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", viper.GetString("JWT_EXPIRY_DURATION"), time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RefreshTokenExpiryDuration = durationOrDefault("REFRESH_TOKEN_EXPIRY_DURATION", viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION"), 7*24*time.Hour)
	cfg.RefreshTokenCookieName = viper.GetString("REFRESH_TOKEN_COOKIE_NAME")
	cfg.RefreshTokenCookiePath = viper.GetString("REFRESH_TOKEN_COOKIE_PATH")
	cfg.RefreshTokenSecret = viper.GetString("REFRESH_TOKEN_SECRET")
	if cfg.RefreshTokenSecret == insecureRefreshSecret {
		log.Println("Warning: REFRESH_TOKEN_SECRET is not set, using the default insecure secret")
	}

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID is not set, Google sign-in disabled")
	}
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.ProposalValidityDays = viper.GetInt("PROPOSAL_VALIDITY_DAYS")
	if cfg.ProposalValidityDays <= 0 {
		cfg.ProposalValidityDays = 7
		log.Printf("Warning: invalid PROPOSAL_VALIDITY_DAYS, defaulting to %d", cfg.ProposalValidityDays)
	}

	cfg.OutboxProcessInterval = durationOrDefault("OUTBOX_PROCESS_INTERVAL", viper.GetString("OUTBOX_PROCESS_INTERVAL"), 30*time.Second)
	cfg.OutboxBatchSize = viper.GetInt("OUTBOX_BATCH_SIZE")
	if cfg.OutboxBatchSize <= 0 {
		cfg.OutboxBatchSize = 25
	}

	return cfg, nil
}
