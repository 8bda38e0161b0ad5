package main

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root application configuration, read from the environment
// (optionally seeded from a .env file).
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Log        LogConfig
	CORS       CORSConfig
	Plan       PlanConfig
	Classifier ClassifierConfig
	Billing    BillingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `env:"SERVER_ADDR"             env-default:"localhost:3000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int64         `env:"SERVER_MAX_UPLOAD_BYTES" env-default:"10485760"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string `env:"DB_URL"       env-required:"true"`
	MaxConns int32  `env:"DB_MAX_CONNS" env-default:"10"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173" env-separator:","`
}

// PlanConfig tunes the meal planner.
type PlanConfig struct {
	IncludeStepCalories bool `env:"PLAN_INCLUDE_STEP_CALORIES" env-default:"false"`
}

// ClassifierConfig selects and configures the dish classifier.
type ClassifierConfig struct {
	Provider      string        `env:"CLASSIFIER_PROVIDER"   env-default:"random"`
	Timeout       time.Duration `env:"CLASSIFIER_TIMEOUT"    env-default:"10s"`
	StubDelay     time.Duration `env:"CLASSIFIER_STUB_DELAY" env-default:"1500ms"`
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIModel   string        `env:"OPENAI_MODEL"          env-default:"gpt-4o-mini"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
}

// BillingConfig holds the trial length and Stripe settings. Stripe is
// optional; with no secret key the checkout endpoints report 503.
type BillingConfig struct {
	TrialDays           int    `env:"TRIAL_DAYS"            env-default:"7"`
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	StripePriceID       string `env:"STRIPE_PRICE_ID"`
	CheckoutSuccessURL  string `env:"CHECKOUT_SUCCESS_URL"  env-default:"http://localhost:5173/dashboard"`
	CheckoutCancelURL   string `env:"CHECKOUT_CANCEL_URL"   env-default:"http://localhost:5173/paywall"`
}

// StripeEnabled reports whether a Stripe secret key is configured.
func (b BillingConfig) StripeEnabled() bool {
	return b.StripeSecretKey != ""
}

// loadConfig reads .env (when present) and then the process environment.
func loadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate performs business-rule validation on the loaded configuration.
func (c *Config) Validate() error {
	switch c.Classifier.Provider {
	case "random":
	case "openai":
		if c.Classifier.OpenAIAPIKey == "" {
			return fmt.Errorf("classifier: OPENAI_API_KEY is required for the openai provider")
		}
	default:
		return fmt.Errorf("classifier: unknown provider %q (want random or openai)", c.Classifier.Provider)
	}

	if c.Classifier.Timeout <= 0 {
		return fmt.Errorf("classifier: timeout must be > 0 (got %s)", c.Classifier.Timeout)
	}
	if c.Billing.TrialDays < 0 {
		return fmt.Errorf("billing: trial_days must be >= 0 (got %d)", c.Billing.TrialDays)
	}
	if c.Billing.StripeEnabled() && (c.Billing.StripePriceID == "" || c.Billing.StripeWebhookSecret == "") {
		return fmt.Errorf("billing: STRIPE_PRICE_ID and STRIPE_WEBHOOK_SECRET are required with STRIPE_SECRET_KEY")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server: max_upload_bytes must be > 0")
	}
	return nil
}
