package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/polysent/polysent/internal/models"
)

const (
	ProviderWhisper = "whisper"

	whisperRequestTimeout = 60 * time.Second
)

// WhisperClient transcribes audio with OpenAI's hosted Whisper model. It is
// the fallback backend for deployments without Google credentials.
type WhisperClient struct {
	client *openai.Client
}

func NewWhisperClient(apiKey string, opts ...option.RequestOption) (*WhisperClient, error) {
	if apiKey == "" {
		return nil, errors.New("whisper requires an openai api key")
	}

	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: whisperRequestTimeout}),
	}, opts...)
	client := openai.NewClient(opts...)
	slog.Info("[Whisper] Client initialized",
		slog.Duration("timeout", whisperRequestTimeout))

	return &WhisperClient{client: client}, nil
}

func (w *WhisperClient) Transcribe(ctx context.Context, audio Audio, lang models.Language) (Result, error) {
	params := openai.AudioTranscriptionNewParams{
		File:  openai.FileParam(audio.Content, audio.Filename, audio.ContentType),
		Model: openai.F(openai.AudioModelWhisper1),
	}
	// Whisper auto-detects when no hint is given, which is what we want
	// for LanguageOther.
	if lang.Supported() {
		params.Language = openai.F(string(lang))
	}

	start := time.Now()
	transcription, err := w.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("whisper transcription failed: %w", err)
	}

	text := strings.TrimSpace(transcription.Text)
	if text == "" {
		return Result{}, errors.New("no speech recognized in audio")
	}

	slog.Info("[Whisper] Transcription successful",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("transcript_length", len(text)))

	return Result{
		Text:     text,
		Language: lang,
		Provider: ProviderWhisper,
	}, nil
}
