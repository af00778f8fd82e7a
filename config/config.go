package config

import (
	"fmt"
	"os"
)

// Transcription provider names accepted in TRANSCRIBE_PROVIDER.
const (
	ProviderGoogle  = "google"
	ProviderWhisper = "whisper"
)

type Config struct {
	AppEnv string
	Port   string

	// Sentiment model selection.
	ModelDir       string
	DefaultVariant string
	VariantEN      string
	VariantHI      string
	VariantTE      string

	// Speech-to-text. Provider is picked explicitly or inferred from
	// whichever credentials are present; empty means transcription is
	// disabled.
	TranscribeProvider    string
	GoogleAPIKey          string
	GoogleCredentialsFile string
	OpenAIAPIKey          string

	// Optional integrations, disabled when unset.
	ValkeyAddress  string
	HistoryEnabled bool

	UploadLimit string
	LogLevel    string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		Port:                  getEnv("PORT", "8080"),
		ModelDir:              getEnv("SENTIMENT_MODEL_DIR", "./models"),
		DefaultVariant:        getEnv("SENTIMENT_MODEL_DEFAULT", ""),
		VariantEN:             getEnv("SENTIMENT_MODEL_EN", ""),
		VariantHI:             getEnv("SENTIMENT_MODEL_HI", ""),
		VariantTE:             getEnv("SENTIMENT_MODEL_TE", ""),
		TranscribeProvider:    getEnv("TRANSCRIBE_PROVIDER", ""),
		GoogleAPIKey:          getEnv("GOOGLE_SPEECH_API_KEY", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		ValkeyAddress:         getEnv("VALKEY_INIT_ADDRESS", ""),
		HistoryEnabled:        getEnv("ENABLE_HISTORY", "false") == "true",
		UploadLimit:           getEnv("MAX_UPLOAD_SIZE", "10M"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}

	if cfg.TranscribeProvider == "" {
		if cfg.GoogleAPIKey != "" || cfg.GoogleCredentialsFile != "" {
			cfg.TranscribeProvider = ProviderGoogle
		} else if cfg.OpenAIAPIKey != "" {
			cfg.TranscribeProvider = ProviderWhisper
		}
	}

	switch cfg.TranscribeProvider {
	case "", ProviderGoogle, ProviderWhisper:
	default:
		return nil, fmt.Errorf("TRANSCRIBE_PROVIDER must be %q or %q, got %q",
			ProviderGoogle, ProviderWhisper, cfg.TranscribeProvider)
	}
	if cfg.TranscribeProvider == ProviderGoogle && cfg.GoogleAPIKey == "" && cfg.GoogleCredentialsFile == "" {
		return nil, fmt.Errorf("GOOGLE_SPEECH_API_KEY or GOOGLE_APPLICATION_CREDENTIALS is required when TRANSCRIBE_PROVIDER is %q", ProviderGoogle)
	}
	if cfg.TranscribeProvider == ProviderWhisper && cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required when TRANSCRIBE_PROVIDER is %q", ProviderWhisper)
	}

	return cfg, nil
}

// VariantRoutes reports the per-language variant overrides, keyed by
// language tag, skipping languages left on the default.
func (c *Config) VariantRoutes() map[string]string {
	routes := make(map[string]string)
	for tag, variant := range map[string]string{
		"en": c.VariantEN,
		"hi": c.VariantHI,
		"te": c.VariantTE,
	} {
		if variant != "" {
			routes[tag] = variant
		}
	}
	return routes
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
