package transcribe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysent/polysent/internal/models"
)

func newTestWhisperClient(t *testing.T, handler http.Handler) *WhisperClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewWhisperClient("test-key",
		option.WithBaseURL(server.URL+"/"),
		option.WithMaxRetries(0))
	require.NoError(t, err)
	return client
}

func TestNewWhisperClientRequiresKey(t *testing.T) {
	_, err := NewWhisperClient("")
	require.Error(t, err)
}

func TestWhisperTranscribe(t *testing.T) {
	client := newTestWhisperClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "hi", r.FormValue("language"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": " नमस्ते दुनिया "})
	}))

	result, err := client.Transcribe(context.Background(), Audio{
		Content:     strings.NewReader("fake-webm"),
		Filename:    "clip.webm",
		ContentType: "audio/webm",
	}, models.LanguageHindi)
	require.NoError(t, err)

	assert.Equal(t, "नमस्ते दुनिया", result.Text)
	assert.Equal(t, models.LanguageHindi, result.Language)
	assert.Equal(t, ProviderWhisper, result.Provider)
}

func TestWhisperTranscribeOmitsHintForOther(t *testing.T) {
	client := newTestWhisperClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Empty(t, r.FormValue("language"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "bonjour"})
	}))

	result, err := client.Transcribe(context.Background(), Audio{
		Content:     strings.NewReader("fake-webm"),
		Filename:    "clip.webm",
		ContentType: "audio/webm",
	}, models.LanguageOther)
	require.NoError(t, err)
	assert.Equal(t, "bonjour", result.Text)
}

func TestWhisperTranscribeEmptyText(t *testing.T) {
	client := newTestWhisperClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": ""})
	}))

	_, err := client.Transcribe(context.Background(), Audio{
		Content:     strings.NewReader("fake-webm"),
		Filename:    "clip.webm",
		ContentType: "audio/webm",
	}, models.LanguageEnglish)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no speech recognized")
}

func TestWhisperTranscribeServiceError(t *testing.T) {
	client := newTestWhisperClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusInternalServerError)
	}))

	_, err := client.Transcribe(context.Background(), Audio{
		Content:     strings.NewReader("fake-webm"),
		Filename:    "clip.webm",
		ContentType: "audio/webm",
	}, models.LanguageEnglish)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whisper transcription failed")
}
