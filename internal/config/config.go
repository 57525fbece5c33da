// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// MongoDB Configuration
	MongoURI            string        `mapstructure:"MONGO_URI"`
	MongoDBName         string        `mapstructure:"MONGO_DB_NAME"`
	MongoConnectTimeout time.Duration `mapstructure:"MONGO_CONNECT_TIMEOUT_SECONDS"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Payment Gateway Configuration
	StripeSecretKey  string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeAPIBaseURL string `mapstructure:"STRIPE_API_BASE_URL"`
	PaymentCurrency  string `mapstructure:"PAYMENT_CURRENCY"`

	// Cron Jobs
	SaleReconcileJobSchedule string `mapstructure:"SALE_RECONCILE_JOB_SCHEDULE"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "real-estate-db")
	v.SetDefault("MONGO_CONNECT_TIMEOUT_SECONDS", 10)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	// Firebase
	v.SetDefault("FIREBASE_PROJECT_ID", "") // Optional
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	// Payments
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_API_BASE_URL", "https://api.stripe.com")
	v.SetDefault("PAYMENT_CURRENCY", "usd")

	v.SetDefault("SALE_RECONCILE_JOB_SCHEDULE", "@hourly")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.MongoConnectTimeout = time.Duration(v.GetInt("MONGO_CONNECT_TIMEOUT_SECONDS")) * time.Second

	// Basic validation for critical configs
	if strings.TrimSpace(cfg.MongoURI) == "" {
		return nil, fmt.Errorf("FATAL: MONGO_URI is not set")
	}
	if strings.TrimSpace(cfg.FirebaseServiceAccountKeyPath) == "" {
		return nil, fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required for Firebase Admin SDK initialization")
	}
	if _, err := os.Stat(cfg.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", cfg.FirebaseServiceAccountKeyPath)
	}
	if strings.TrimSpace(cfg.StripeSecretKey) == "" {
		return nil, fmt.Errorf("FATAL: STRIPE_SECRET_KEY is not set. This is required for the payment gateway")
	}

	return &cfg, nil
}
