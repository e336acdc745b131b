package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string // empty = in-memory stores (dev/test)
	JWKSURL     string // empty = trusted X-User-ID header mode
	CORSOrigins string
	TablePrefix string
	// Completion provider configuration
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	Temperature   float64
	PersonaPrompt string
	// Quota configuration
	DefaultAllotment int
	PlansFile        string
	// Billing configuration
	StripeSecretKey     string
	StripeWebhookSecret string
	// Debug flags
	Debug bool
}

// DefaultPersonaPrompt is the system instruction sent ahead of every
// conversation unless PERSONA_PROMPT overrides it.
const DefaultPersonaPrompt = "Jesteś asystentem duchowym o nazwie Słowo Boże. " +
	"Odpowiadasz tylko po polsku, udzielając wskazówek biblijnych, modlitw i mądrości duchowej."

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		// Completion provider
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Model:         getEnv("MODEL", "gpt-4o"),
		Temperature:   getFloat("TEMPERATURE", 0.7),
		PersonaPrompt: getEnv("PERSONA_PROMPT", DefaultPersonaPrompt),
		// Quota
		DefaultAllotment: getInt("DEFAULT_ALLOTMENT", 10),
		PlansFile:        getEnv("PLANS_FILE", ""),
		// Billing
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		// Debug - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
