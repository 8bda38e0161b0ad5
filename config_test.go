package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/fitvision")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost:3000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Plan.IncludeStepCalories)
	assert.Equal(t, "random", cfg.Classifier.Provider)
	assert.Equal(t, 1500*time.Millisecond, cfg.Classifier.StubDelay)
	assert.Equal(t, 7, cfg.Billing.TrialDays)
	assert.False(t, cfg.Billing.StripeEnabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/fitvision")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com,https://admin.example.com")
	t.Setenv("PLAN_INCLUDE_STEP_CALORIES", "true")
	t.Setenv("CLASSIFIER_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TRIAL_DAYS", "14")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Plan.IncludeStepCalories)
	assert.Equal(t, "openai", cfg.Classifier.Provider)
	assert.Equal(t, 14, cfg.Billing.TrialDays)
}

func TestLoadConfig_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	_, err := loadConfig()
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:     ServerConfig{MaxUploadBytes: 1 << 20},
			Classifier: ClassifierConfig{Provider: "random", Timeout: time.Second},
			Billing:    BillingConfig{TrialDays: 7},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"unknown provider", func(c *Config) { c.Classifier.Provider = "gemini" }, "unknown provider"},
		{"openai without key", func(c *Config) { c.Classifier.Provider = "openai" }, "OPENAI_API_KEY"},
		{"zero timeout", func(c *Config) { c.Classifier.Timeout = 0 }, "timeout"},
		{"negative trial", func(c *Config) { c.Billing.TrialDays = -1 }, "trial_days"},
		{"stripe without price", func(c *Config) {
			c.Billing.StripeSecretKey = "sk_test"
			c.Billing.StripeWebhookSecret = "whsec"
		}, "STRIPE_PRICE_ID"},
		{"stripe complete", func(c *Config) {
			c.Billing.StripeSecretKey = "sk_test"
			c.Billing.StripeWebhookSecret = "whsec"
			c.Billing.StripePriceID = "price_1"
		}, ""},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadBytes = 0 }, "max_upload_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
