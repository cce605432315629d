package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"assessmate.app/casenote/core/db"
)

type Config struct {
	OTel          OTelConfig
	AnalysisLLM   LLMConfig
	GenerationLLM LLMConfig
	RateLimit     RateLimitConfig
	Env           string
	Port          string
	DB            db.Config
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type LLMConfig struct {
	Provider    string // "openai", "anthropic" or "google"
	APIKey      string
	BaseURL     string // Optional: for custom endpoints
	Model       string
	MaxTokens   int
	Temperature float64
}

// RateLimitConfig throttles outbound completion calls shared by both call sites.
// RequestsPerMinute <= 0 disables the limiter.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// Load loads configuration from environment variables.
// In development, it loads .env.server (or .env as a fallback) first.
func Load() (Config, error) {
	if getEnv("CASENOTE_ENV", "development") == "development" {
		if err := godotenv.Load(".env.server"); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	analysisProvider := getEnv("ANALYSIS_LLM_PROVIDER", "openai")
	generationProvider := getEnv("GENERATION_LLM_PROVIDER", analysisProvider)

	cfg := Config{
		Env:  getEnv("CASENOTE_ENV", "development"),
		Port: getEnv("PORT", "3001"),
		DB: db.Config{
			DSN:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvInt32("DB_MAX_CONNS", 4),
			MinConns: getEnvInt32("DB_MIN_CONNS", 1),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "casenote"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		AnalysisLLM: LLMConfig{
			Provider:    analysisProvider,
			APIKey:      getEnv("ANALYSIS_LLM_API_KEY", providerKey(analysisProvider)),
			BaseURL:     getEnv("ANALYSIS_LLM_BASE_URL", ""),
			Model:       getEnv("ANALYSIS_LLM_MODEL", defaultModel(analysisProvider)),
			MaxTokens:   getEnvInt("ANALYSIS_LLM_MAX_TOKENS", 1500),
			Temperature: getEnvFloat("ANALYSIS_LLM_TEMPERATURE", 0.3),
		},
		GenerationLLM: LLMConfig{
			Provider:    generationProvider,
			APIKey:      getEnv("GENERATION_LLM_API_KEY", providerKey(generationProvider)),
			BaseURL:     getEnv("GENERATION_LLM_BASE_URL", ""),
			Model:       getEnv("GENERATION_LLM_MODEL", defaultModel(generationProvider)),
			MaxTokens:   getEnvInt("GENERATION_LLM_MAX_TOKENS", 2000),
			Temperature: getEnvFloat("GENERATION_LLM_TEMPERATURE", 0.7),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvInt("LLM_REQUESTS_PER_MINUTE", 60),
			Burst:             getEnvInt("LLM_BURST", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks value ranges. Missing API keys are not an error: the server
// starts and reports llmConfigured=false on /health.
func (c Config) Validate() error {
	for name, llm := range map[string]LLMConfig{"ANALYSIS_LLM": c.AnalysisLLM, "GENERATION_LLM": c.GenerationLLM} {
		if !knownProvider(llm.Provider) {
			return fmt.Errorf("%s_PROVIDER: unsupported provider %q", name, llm.Provider)
		}
		if llm.MaxTokens <= 0 {
			return fmt.Errorf("%s_MAX_TOKENS must be positive", name)
		}
		if llm.Temperature < 0 || llm.Temperature > 2 {
			return fmt.Errorf("%s_TEMPERATURE must be between 0 and 2", name)
		}
	}
	if c.RateLimit.RequestsPerMinute > 0 && c.RateLimit.Burst <= 0 {
		return fmt.Errorf("LLM_BURST must be positive when rate limiting is enabled")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// LLMConfigured reports whether both call sites have a credential.
func (c Config) LLMConfigured() bool {
	return c.AnalysisLLM.Enabled() && c.GenerationLLM.Enabled()
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c LLMConfig) Enabled() bool {
	return c.APIKey != "" && knownProvider(c.Provider)
}

func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerMinute > 0
}

func knownProvider(p string) bool {
	return p == "openai" || p == "anthropic" || p == "google"
}

func providerKey(provider string) string {
	switch provider {
	case "anthropic":
		return getEnv("ANTHROPIC_API_KEY", "")
	case "google":
		return getEnv("GOOGLE_API_KEY", "")
	default:
		return getEnv("OPENAI_API_KEY", "")
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-sonnet-4-5-20250929"
	case "google":
		return "gemini-1.5-pro"
	default:
		return "gpt-4o-mini"
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
