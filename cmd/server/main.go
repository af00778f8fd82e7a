package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/polysent/polysent/config"
	"github.com/polysent/polysent/internal/clients"
	"github.com/polysent/polysent/internal/db"
	"github.com/polysent/polysent/internal/langdetect"
	"github.com/polysent/polysent/internal/logging"
	"github.com/polysent/polysent/internal/models"
	"github.com/polysent/polysent/internal/sentiment"
	"github.com/polysent/polysent/internal/server"
	"github.com/polysent/polysent/internal/transcribe"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	detector := langdetect.New()

	routes := make(map[models.Language]string)
	for tag, variant := range cfg.VariantRoutes() {
		routes[models.ParseLanguage(tag)] = variant
	}
	analyzer, err := sentiment.NewAnalyzer(sentiment.Options{
		ModelDir:       cfg.ModelDir,
		DefaultVariant: cfg.DefaultVariant,
		Routes:         routes,
	})
	if err != nil {
		slog.Error("[Main] Failed to load sentiment models", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer analyzer.Close()

	transcriber, err := buildTranscriber(cfg)
	if err != nil {
		slog.Error("[Main] Failed to initialize transcription", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var valkey *clients.ValkeyClient
	if cfg.ValkeyAddress != "" {
		valkey = clients.InitValkey()
		defer clients.CloseValkey()
	}

	if cfg.HistoryEnabled {
		db.InitDynamoDB()
	}

	srv := server.NewServer(cfg, detector, analyzer, transcriber, valkey)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	slog.Info("[Main] Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("[Main] Forced shutdown", slog.String("error", err.Error()))
	}
}

// buildTranscriber wires the configured speech backend, or none at all;
// the transcription endpoint reports unavailable when nil.
func buildTranscriber(cfg *config.Config) (transcribe.Transcriber, error) {
	switch cfg.TranscribeProvider {
	case config.ProviderGoogle:
		return transcribe.NewGoogleClient(context.Background(), transcribe.GoogleOptions{
			APIKey:          cfg.GoogleAPIKey,
			CredentialsFile: cfg.GoogleCredentialsFile,
		})
	case config.ProviderWhisper:
		return transcribe.NewWhisperClient(cfg.OpenAIAPIKey)
	default:
		return nil, nil
	}
}
