package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "github.com/polysent/polysent/internal/errors"
	"github.com/polysent/polysent/internal/metrics"
	"github.com/polysent/polysent/internal/models"
	"github.com/polysent/polysent/internal/transcribe"
)

type transcribeResponse struct {
	Transcript transcribe.Result          `json:"transcript"`
	Result     *models.SentimentResult    `json:"result,omitempty"`
	Candidates []models.LanguageCandidate `json:"language_candidates,omitempty"`
}

func (s *Server) handleTranscribe(c echo.Context) error {
	if s.transcriber == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "transcription is not configured")
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return apperrors.ValidationError("an audio file upload named 'audio' is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return apperrors.InternalError("failed to open uploaded audio", err)
	}
	defer src.Close()

	lang := models.ParseLanguage(c.FormValue("language"))
	audio := transcribe.Audio{
		Content:     src,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}

	ctx := c.Request().Context()
	started := time.Now()
	transcript, err := s.transcriber.Transcribe(ctx, audio, lang)
	elapsed := time.Since(started)
	if err != nil {
		metrics.TranscriptionsTotal.WithLabelValues(providerLabel(transcript.Provider), "error").Inc()
		return apperrors.TranscriptionError("transcription failed, please re-record and try again", err)
	}
	metrics.TranscriptionsTotal.WithLabelValues(transcript.Provider, "success").Inc()
	metrics.TranscriptionDuration.WithLabelValues(transcript.Provider).Observe(elapsed.Seconds())

	resp := transcribeResponse{Transcript: transcript}
	if c.FormValue("analyze") == "true" {
		result, candidates, err := s.analyzeText(transcript.Text)
		if err != nil {
			return err
		}
		metrics.BatchesTotal.WithLabelValues(models.AnalysisSourceTranscript).Inc()
		resp.Result = &result
		resp.Candidates = candidates
	}

	return c.JSON(http.StatusOK, resp)
}

// providerLabel keeps metric labels non-empty when a failed transcription
// returns a zero result.
func providerLabel(provider string) string {
	if provider == "" {
		return "unknown"
	}
	return provider
}
