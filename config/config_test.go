package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so ambient values from the
// host cannot leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT",
		"SENTIMENT_MODEL_DIR", "SENTIMENT_MODEL_DEFAULT",
		"SENTIMENT_MODEL_EN", "SENTIMENT_MODEL_HI", "SENTIMENT_MODEL_TE",
		"TRANSCRIBE_PROVIDER", "GOOGLE_SPEECH_API_KEY",
		"GOOGLE_APPLICATION_CREDENTIALS", "OPENAI_API_KEY",
		"VALKEY_INIT_ADDRESS", "ENABLE_HISTORY",
		"MAX_UPLOAD_SIZE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./models", cfg.ModelDir)
	assert.Empty(t, cfg.TranscribeProvider, "no credentials means transcription stays disabled")
	assert.False(t, cfg.HistoryEnabled)
	assert.Equal(t, "10M", cfg.UploadLimit)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ProviderInference(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		wantProvider string
	}{
		{
			name:         "google api key",
			env:          map[string]string{"GOOGLE_SPEECH_API_KEY": "key"},
			wantProvider: ProviderGoogle,
		},
		{
			name:         "google credentials file",
			env:          map[string]string{"GOOGLE_APPLICATION_CREDENTIALS": "/etc/creds.json"},
			wantProvider: ProviderGoogle,
		},
		{
			name:         "openai key",
			env:          map[string]string{"OPENAI_API_KEY": "sk-test"},
			wantProvider: ProviderWhisper,
		},
		{
			name: "explicit provider wins over inference",
			env: map[string]string{
				"TRANSCRIBE_PROVIDER":   ProviderWhisper,
				"GOOGLE_SPEECH_API_KEY": "key",
				"OPENAI_API_KEY":        "sk-test",
			},
			wantProvider: ProviderWhisper,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, cfg.TranscribeProvider)
		})
	}
}

func TestLoad_ProviderValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "google without credentials",
			env:  map[string]string{"TRANSCRIBE_PROVIDER": ProviderGoogle},
		},
		{
			name: "whisper without key",
			env:  map[string]string{"TRANSCRIBE_PROVIDER": ProviderWhisper},
		},
		{
			name: "unknown provider",
			env:  map[string]string{"TRANSCRIBE_PROVIDER": "azure"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestVariantRoutes(t *testing.T) {
	clearEnv(t)
	t.Setenv("SENTIMENT_MODEL_HI", "bert-multilingual")
	t.Setenv("SENTIMENT_MODEL_EN", "vader")

	cfg, err := Load()
	require.NoError(t, err)

	routes := cfg.VariantRoutes()
	assert.Equal(t, map[string]string{
		"en": "vader",
		"hi": "bert-multilingual",
	}, routes)
}

func TestLoad_HistoryToggle(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENABLE_HISTORY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.HistoryEnabled)
}
