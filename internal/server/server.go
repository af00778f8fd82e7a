package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/polysent/polysent/config"
	"github.com/polysent/polysent/internal/clients"
	"github.com/polysent/polysent/internal/db"
	apperrors "github.com/polysent/polysent/internal/errors"
	"github.com/polysent/polysent/internal/models"
	"github.com/polysent/polysent/internal/pipeline"
	"github.com/polysent/polysent/internal/sentiment"
	"github.com/polysent/polysent/internal/transcribe"
)

// languageDetector is what handlers need from the detector: the primary
// detection plus a ranked candidate list for single-text responses.
type languageDetector interface {
	Detect(text string) (models.Language, float64)
	Candidates(text string, n int) []models.LanguageCandidate
}

// variantReporter describes the loaded classifier variants for /models.
type variantReporter interface {
	DefaultVariant() string
	VariantNames() []string
	Routes() map[models.Language]string
}

// historyStore persists batch runs for later listing and export (nil when
// history is disabled).
type historyStore interface {
	StoreAnalysis(ctx context.Context, record models.AnalysisRecord) error
	BatchInsertResults(ctx context.Context, batchID string, table models.ResultsTable) error
	GetAnalyses(ctx context.Context) ([]models.AnalysisRecord, error)
	GetResults(ctx context.Context, batchID string) (models.ResultsTable, error)
}

// recentFeed is the shared recent-analyses list plus the upload dedup set
// (nil when valkey is not configured).
type recentFeed interface {
	PushRecent(ctx context.Context, payload string) error
	GetRecent(ctx context.Context, count int64) ([]string, error)
	MarkUploadProcessed(ctx context.Context, hash string) error
	IsUploadProcessed(ctx context.Context, hash string) bool
	Ping(ctx context.Context) error
}

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	detector    languageDetector
	classifier  sentiment.Classifier
	variants    variantReporter
	pipe        *pipeline.Pipeline
	transcriber transcribe.Transcriber
	history     historyStore
	feed        recentFeed
	startTime   time.Time
}

func NewServer(cfg *config.Config, detector languageDetector, analyzer *sentiment.Analyzer, transcriber transcribe.Transcriber, valkey *clients.ValkeyClient) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.UploadLimit))
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:        e,
		config:      cfg,
		detector:    detector,
		classifier:  analyzer,
		variants:    analyzer,
		pipe:        pipeline.New(detector, analyzer),
		transcriber: transcriber,
		startTime:   time.Now(),
	}
	if valkey != nil {
		srv.feed = valkey
	}
	if cfg.HistoryEnabled {
		srv.history = dynamoHistory{}
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("[Server] Listening", slog.String("port", s.config.Port))
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// dynamoHistory adapts the db package to the historyStore interface.
type dynamoHistory struct{}

func (dynamoHistory) StoreAnalysis(ctx context.Context, record models.AnalysisRecord) error {
	return db.StoreAnalysis(ctx, record)
}

func (dynamoHistory) BatchInsertResults(ctx context.Context, batchID string, table models.ResultsTable) error {
	return db.BatchInsertResults(ctx, batchID, table)
}

func (dynamoHistory) GetAnalyses(ctx context.Context) ([]models.AnalysisRecord, error) {
	return db.GetAnalyses(ctx)
}

func (dynamoHistory) GetResults(ctx context.Context, batchID string) (models.ResultsTable, error) {
	return db.GetResults(ctx, batchID)
}
