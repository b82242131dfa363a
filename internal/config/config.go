package config

import (
	"os"
	"strconv"
)

type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	PublishableKey string
}

type ResendConfig struct {
	APIKey      string
	FromAddress string
	FromName    string
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	FrontendURL string
	JWTSecret   string

	Stripe StripeConfig
	Resend ResendConfig
	R2     R2Config

	// AutoReconcileEnabled tells the confirmation page to trigger reconciliation
	// itself instead of waiting for the Stripe webhook. Meant for environments
	// where webhook delivery is unreliable (local dev without a tunnel).
	AutoReconcileEnabled bool
}

func LoadConfig() *Config {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
	}

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Stripe.PublishableKey = os.Getenv("STRIPE_PUBLISHABLE_KEY")

	cfg.Resend.APIKey = os.Getenv("RESEND_API_KEY")
	cfg.Resend.FromAddress = os.Getenv("EMAIL_FROM_ADDRESS")
	cfg.Resend.FromName = getEnv("EMAIL_FROM_NAME", "FitBody")

	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.PublicURL = os.Getenv("R2_PUBLIC_URL")

	cfg.AutoReconcileEnabled = getEnvBool("AUTO_RECONCILE_ENABLED", cfg.AppEnv != "production")

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
