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

	// Auto-lock scheduler
	DraftLockThreshold time.Duration
	AutoLockInterval   time.Duration

	// Policy for deleting completed transactions
	ReverseDrawerOnDelete bool

	// Requests per minute per client IP; 0 disables rate limiting.
	RateLimitPerMinute int
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
	viper.SetDefault("DRAFT_LOCK_THRESHOLD", "24h")
	viper.SetDefault("AUTO_LOCK_INTERVAL", "10m")
	viper.SetDefault("REVERSE_DRAWER_ON_DELETE", false)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 120)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	draftLockStr := viper.GetString("DRAFT_LOCK_THRESHOLD")
	draftLockThreshold, err := time.ParseDuration(draftLockStr)
	if err != nil || draftLockThreshold <= 0 {
		draftLockThreshold = 24 * time.Hour
		log.Printf("Warning: Invalid value for DRAFT_LOCK_THRESHOLD ('%s'). Defaulting to %s.\n", draftLockStr, draftLockThreshold)
	}

	autoLockStr := viper.GetString("AUTO_LOCK_INTERVAL")
	autoLockInterval, err := time.ParseDuration(autoLockStr)
	if err != nil || autoLockInterval <= 0 {
		autoLockInterval = 10 * time.Minute
		log.Printf("Warning: Invalid value for AUTO_LOCK_INTERVAL ('%s'). Defaulting to %s.\n", autoLockStr, autoLockInterval)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.DraftLockThreshold = draftLockThreshold
	cfg.AutoLockInterval = autoLockInterval
	cfg.ReverseDrawerOnDelete = viper.GetBool("REVERSE_DRAWER_ON_DELETE")
	cfg.RateLimitPerMinute = viper.GetInt("RATE_LIMIT_PER_MINUTE")

	return cfg, nil
}
