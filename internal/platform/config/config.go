package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string

	// PaymentLinkTTL is the lifetime of freshly issued payment links.
	PaymentLinkTTL time.Duration
	// LinkExpirySchedule is the cron spec of the stale-link sweep.
	LinkExpirySchedule string

	// RateLimit uses the ulule/limiter formatted-rate syntax, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("PAYMENT_LINK_TTL", "24h")
	viper.SetDefault("LINK_EXPIRY_SCHEDULE", "@every 15m")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Payment link lifetime, e.g. "24h", "72h"
	linkTTLStr := viper.GetString("PAYMENT_LINK_TTL")
	linkTTL, err := time.ParseDuration(linkTTLStr)
	if err != nil || linkTTL <= 0 {
		linkTTL = 24 * time.Hour
		if linkTTLStr != "" {
			log.Printf("Warning: Invalid value for PAYMENT_LINK_TTL ('%s'). Defaulting to %s.\n", linkTTLStr, linkTTL.String())
		}
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTSecret = jwtSecret
	cfg.PaymentLinkTTL = linkTTL
	cfg.LinkExpirySchedule = viper.GetString("LINK_EXPIRY_SCHEDULE")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
