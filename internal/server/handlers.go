package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/polysent/polysent/internal/aggregate"
	apperrors "github.com/polysent/polysent/internal/errors"
	"github.com/polysent/polysent/internal/export"
	"github.com/polysent/polysent/internal/metrics"
	"github.com/polysent/polysent/internal/models"
	"github.com/polysent/polysent/internal/pipeline"
)

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Result     models.SentimentResult     `json:"result"`
	Candidates []models.LanguageCandidate `json:"language_candidates,omitempty"`
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("request body must be JSON with a text field")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return apperrors.InputEmptyError("no text provided, please enter text to analyze")
	}

	result, candidates, err := s.analyzeText(text)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, analyzeResponse{Result: result, Candidates: candidates})
}

// analyzeText runs detection and classification for one text. Shared by the
// single-text and transcription endpoints.
func (s *Server) analyzeText(text string) (models.SentimentResult, []models.LanguageCandidate, error) {
	lang, langConfidence := s.detector.Detect(text)
	metrics.LanguageDetectionsTotal.WithLabelValues(string(lang)).Inc()

	variant := s.variantName(lang)
	started := time.Now()
	prediction, err := s.classifier.Classify(text, lang)
	metrics.ClassificationDuration.WithLabelValues(variant).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.ClassificationFailures.WithLabelValues(variant).Inc()
		return models.SentimentResult{}, nil, apperrors.InferenceError("sentiment analysis failed", err)
	}
	metrics.ClassificationsTotal.WithLabelValues(variant, string(prediction.Label)).Inc()

	result := models.SentimentResult{
		Text:               text,
		DetectedLanguage:   lang,
		LanguageConfidence: langConfidence,
		Label:              prediction.Label,
		Confidence:         prediction.Confidence,
		Scores:             prediction.Scores,
		Model:              prediction.Model,
	}
	return result, s.detector.Candidates(text, 3), nil
}

// variantName resolves which variant classifies texts in lang, for metric
// labels.
func (s *Server) variantName(lang models.Language) string {
	if s.variants == nil {
		return "unknown"
	}
	if v, ok := s.variants.Routes()[lang]; ok {
		return v
	}
	return s.variants.DefaultVariant()
}

type batchCharts struct {
	Sentiment *export.ChartConfig `json:"sentiment,omitempty"`
	Languages *export.ChartConfig `json:"languages,omitempty"`
}

type batchResponse struct {
	BatchID         string                     `json:"batch_id"`
	Source          string                     `json:"source"`
	Results         models.ResultsTable        `json:"results"`
	Summary         models.DistributionSummary `json:"summary"`
	Languages       models.LanguageStats       `json:"languages"`
	Charts          batchCharts                `json:"charts"`
	DuplicateUpload bool                       `json:"duplicate_upload,omitempty"`
}

func (s *Server) handleAnalyzeBatch(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.ValidationError("a csv file upload named 'file' is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return apperrors.InternalError("failed to open uploaded file", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return apperrors.InternalError("failed to read uploaded file", err)
	}

	ctx := c.Request().Context()

	var uploadHash string
	duplicate := false
	if s.feed != nil {
		sum := sha256.Sum256(content)
		uploadHash = hex.EncodeToString(sum[:])
		duplicate = s.feed.IsUploadProcessed(ctx, uploadHash)
	}

	source := pipeline.NewCSVSource(bytes.NewReader(content), c.FormValue("column"))
	records, err := source.Records(ctx)
	if err != nil {
		return err
	}

	batchID := uuid.NewString()
	started := time.Now()
	table := s.pipe.Run(records)
	elapsed := time.Since(started)

	summary := aggregate.Distribution(table)
	languages := aggregate.Languages(table)

	metrics.BatchesTotal.WithLabelValues(models.AnalysisSourceCSV).Inc()
	metrics.BatchRecords.Observe(float64(table.Len()))
	metrics.BatchDuration.Observe(elapsed.Seconds())

	record := models.AnalysisRecord{
		BatchID:       batchID,
		Source:        models.AnalysisSourceCSV,
		TotalRecords:  summary.TotalRecords,
		CountsByLabel: summary.CountsByLabel,
		CreatedAt:     time.Now().UTC(),
	}
	s.persistBatch(ctx, record, table)

	if s.feed != nil && uploadHash != "" {
		if err := s.feed.MarkUploadProcessed(ctx, uploadHash); err != nil {
			slog.Warn("[Server] Failed to mark upload processed", slog.String("error", err.Error()))
		}
	}

	return c.JSON(http.StatusOK, batchResponse{
		BatchID:   batchID,
		Source:    models.AnalysisSourceCSV,
		Results:   table,
		Summary:   summary,
		Languages: languages,
		Charts: batchCharts{
			Sentiment: export.BuildDistributionChart(summary, c.QueryParam("chart")),
			Languages: export.BuildLanguageChart(languages),
		},
		DuplicateUpload: duplicate,
	})
}

// persistBatch records the run in the history table and on the recent
// feed. Neither store is load bearing for the response, so failures are
// logged and the results still go back to the caller.
func (s *Server) persistBatch(ctx context.Context, record models.AnalysisRecord, table models.ResultsTable) {
	if s.history != nil {
		if err := s.history.StoreAnalysis(ctx, record); err != nil {
			slog.Error("[Server] Failed to store analysis record",
				slog.String("batch_id", record.BatchID),
				slog.String("error", err.Error()))
		} else if err := s.history.BatchInsertResults(ctx, record.BatchID, table); err != nil {
			slog.Error("[Server] Failed to store batch results",
				slog.String("batch_id", record.BatchID),
				slog.String("error", err.Error()))
		}
	}

	if s.feed != nil {
		payload, err := json.Marshal(record)
		if err != nil {
			return
		}
		if err := s.feed.PushRecent(ctx, string(payload)); err != nil {
			slog.Warn("[Server] Failed to push recent analysis", slog.String("error", err.Error()))
		}
	}
}

func (s *Server) handleExportResults(c echo.Context) error {
	if s.history == nil {
		return apperrors.NotFoundError("batch history is not enabled")
	}
	batchID := c.Param("id")

	table, err := s.history.GetResults(c.Request().Context(), batchID)
	if err != nil {
		return apperrors.InternalError("failed to load batch results", err)
	}
	if table.Len() == 0 {
		return apperrors.NotFoundError("no results found for batch").WithContext("batch_id", batchID)
	}

	var buf bytes.Buffer
	if err := export.WriteResults(&buf, table); err != nil {
		return apperrors.InternalError("failed to serialize results", err)
	}

	metrics.ExportsTotal.Inc()
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.Filename(batchID)))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
