package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Config holds all application configuration
// Supports environment variables with sensible defaults
//
// Environment Variables:
// Server Configuration:
// - HTTP_ADDR: Listen address (default: :8000)
// - LOG_LEVEL: DEBUG/INFO/WARN/ERROR (default: INFO)
//
// AI Provider Configuration:
// - AI_PROVIDER: Default provider, "gemini" or "openai" (default: gemini)
// - GEMINI_API_KEY / GEMINI_MODEL / GEMINI_TEMPERATURE
// - OPENAI_API_KEY / OPENAI_API_URL / OPENAI_MODEL / OPENAI_TEMPERATURE
// - AI_MAX_TOKENS_OVERVIEW (default: 500)
// - AI_MAX_TOKENS_DETAIL (default: 6000)
// - AI_TIMEOUT: request timeout in seconds (default: 60)
//
// Transcript Configuration:
// - TRANSCRIPT_LANGUAGES: comma-separated BCP-47 codes tried in order
//   (default: ko,en)
// - TRANSCRIPT_LIMIT_OVERVIEW: rune limit fed to overview prompts (default: 8000)
// - TRANSCRIPT_LIMIT_DETAIL: rune limit fed to detail prompts (default: 50000)
// - SCRAPERAPI_KEY: enables the proxying fetch tier when set
//
// Cache Configuration:
// - CACHE_TTL_HOURS: transcript cache TTL (default: 24)
// - CACHE_CLEANUP_CRON: cleanup schedule (default: "0 * * * *")
type Config struct {
	Server     ServerConfig     `json:"server"`
	AI         AIConfig         `json:"ai"`
	Transcript TranscriptConfig `json:"transcript"`
	Cache      CacheConfig      `json:"cache"`
}

type ServerConfig struct {
	Addr     string `json:"addr"`
	LogLevel string `json:"log_level"`
}

// AIConfig holds the configuration for the AI provider boundary.
// Both providers are configured; the factory picks one per request.
type AIConfig struct {
	DefaultProvider   string  `json:"default_provider"`
	GeminiAPIKey      string  `json:"gemini_api_key"`
	GeminiModel       string  `json:"gemini_model"`
	GeminiTemperature float64 `json:"gemini_temperature"`
	OpenAIAPIKey      string  `json:"openai_api_key"`
	OpenAIAPIURL      string  `json:"openai_api_url"`
	OpenAIModel       string  `json:"openai_model"`
	OpenAITemperature float64 `json:"openai_temperature"`
	MaxTokensOverview int     `json:"max_tokens_overview"`
	MaxTokensDetail   int     `json:"max_tokens_detail"`
	Timeout           int     `json:"timeout"`
}

// TranscriptConfig holds caption fetching and processing settings.
type TranscriptConfig struct {
	Languages     []language.Tag `json:"languages"`
	LimitOverview int            `json:"limit_overview"`
	LimitDetail   int            `json:"limit_detail"`
	ScraperAPIKey string         `json:"scraperapi_key"`
}

// LanguageCodes returns the preferred caption languages as BCP-47 strings.
func (c TranscriptConfig) LanguageCodes() []string {
	ret := make([]string, 0, len(c.Languages))
	for _, tag := range c.Languages {
		ret = append(ret, tag.String())
	}
	return ret
}

type CacheConfig struct {
	TTL         time.Duration `json:"ttl"`
	CleanupCron string        `json:"cleanup_cron"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment
// variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	languages, err := parseLanguages(getEnvString("TRANSCRIPT_LANGUAGES", "ko,en"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Addr:     getEnvString("HTTP_ADDR", ":8000"),
			LogLevel: getEnvString("LOG_LEVEL", "INFO"),
		},
		AI: AIConfig{
			DefaultProvider:   strings.ToLower(getEnvString("AI_PROVIDER", "gemini")),
			GeminiAPIKey:      getEnvString("GEMINI_API_KEY", ""),
			GeminiModel:       getEnvString("GEMINI_MODEL", "gemini-2.0-flash-exp"),
			GeminiTemperature: getEnvFloat("GEMINI_TEMPERATURE", 0.7),
			OpenAIAPIKey:      getEnvString("OPENAI_API_KEY", ""),
			OpenAIAPIURL:      getEnvString("OPENAI_API_URL", "https://api.openai.com/v1"),
			OpenAIModel:       getEnvString("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAITemperature: getEnvFloat("OPENAI_TEMPERATURE", 0.7),
			MaxTokensOverview: getEnvInt("AI_MAX_TOKENS_OVERVIEW", 500),
			MaxTokensDetail:   getEnvInt("AI_MAX_TOKENS_DETAIL", 6000),
			Timeout:           getEnvInt("AI_TIMEOUT", 60),
		},
		Transcript: TranscriptConfig{
			Languages:     languages,
			LimitOverview: getEnvInt("TRANSCRIPT_LIMIT_OVERVIEW", 8000),
			LimitDetail:   getEnvInt("TRANSCRIPT_LIMIT_DETAIL", 50000),
			ScraperAPIKey: getEnvString("SCRAPERAPI_KEY", ""),
		},
		Cache: CacheConfig{
			TTL:         time.Duration(getEnvInt("CACHE_TTL_HOURS", 24)) * time.Hour,
			CleanupCron: getEnvString("CACHE_CLEANUP_CRON", "0 * * * *"),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.AI.DefaultProvider != "gemini" && c.AI.DefaultProvider != "openai" {
		return fmt.Errorf("AI_PROVIDER must be gemini or openai, got %q", c.AI.DefaultProvider)
	}
	if len(c.Transcript.Languages) == 0 {
		return fmt.Errorf("TRANSCRIPT_LANGUAGES must list at least one language")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL_HOURS must be positive")
	}
	return nil
}

func parseLanguages(raw string) ([]language.Tag, error) {
	tags := make([]language.Tag, 0)
	for _, code := range strings.Split(raw, ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("invalid language code %q: %w", code, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
