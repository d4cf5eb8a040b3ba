package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	BaseURL     string
	FrontendURL string

	MongoDBURI  string
	MongoDBName string

	JWTSecret    string
	JWTExpiresIn time.Duration

	StripeSecretKey     string
	StripeWebhookSecret string

	EmailHost     string
	EmailPort     int
	EmailUser     string
	EmailPassword string
	EmailFrom     string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		BaseURL:     getEnvWithDefault("BASE_URL", "http://localhost:8080"),
		FrontendURL: getEnvWithDefault("FRONTEND_URL", "http://localhost:3000"),

		MongoDBURI:  os.Getenv("MONGODB_URI"),
		MongoDBName: getEnvWithDefault("MONGODB_DB", "tripta"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailUser:     os.Getenv("EMAIL_USER"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     getEnvWithDefault("EMAIL_FROM", "Tripta <support@tripta.app>"),
	}

	port, err := strconv.Atoi(getEnvWithDefault("EMAIL_PORT", "465"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMAIL_PORT: %v", err)
	}
	cfg.EmailPort = port

	expires, err := time.ParseDuration(getEnvWithDefault("JWT_EXPIRES_IN", "72h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %v", err)
	}
	cfg.JWTExpiresIn = expires

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
