package server

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/polysent/polysent/internal/errors"
	"github.com/polysent/polysent/internal/models"
	"github.com/polysent/polysent/internal/pipeline"
)

// exampleTexts are the demo inputs offered for each supported language.
var exampleTexts = map[models.Language]string{
	models.LanguageEnglish: "I love this new technology! It's absolutely amazing and works perfectly.",
	models.LanguageHindi:   "यह बहुत अच्छा है! मुझे यह बहुत पसंद आया।",
	models.LanguageTelugu:  "ఇది చాలా బాగుంది! నాకు చాలా నచ్చింది.",
}

// sampleRows fill the downloadable sample CSV, one per supported language.
var sampleRows = []string{
	"I love this product!",
	"यह बहुत अच्छा है",
	"ఇది చాలా బాగుంది",
}

const sampleFilename = "sample_sentiment_analysis.csv"

func (s *Server) handleIndex(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "polysent",
		"status":  "ok",
	})
}

type modelsResponse struct {
	Default  string            `json:"default"`
	Variants []string          `json:"variants"`
	Routes   map[string]string `json:"routes"`
}

func (s *Server) handleModels(c echo.Context) error {
	if s.variants == nil {
		return apperrors.InternalError("model registry unavailable", nil)
	}

	routes := make(map[string]string)
	for lang, variant := range s.variants.Routes() {
		routes[string(lang)] = variant
	}

	return c.JSON(http.StatusOK, modelsResponse{
		Default:  s.variants.DefaultVariant(),
		Variants: s.variants.VariantNames(),
		Routes:   routes,
	})
}

type historyResponse struct {
	Analyses []models.AnalysisRecord `json:"analyses"`
}

func (s *Server) handleHistory(c echo.Context) error {
	if s.history == nil {
		return c.JSON(http.StatusOK, historyResponse{Analyses: []models.AnalysisRecord{}})
	}

	records, err := s.history.GetAnalyses(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load analysis history", err)
	}
	if records == nil {
		records = []models.AnalysisRecord{}
	}

	return c.JSON(http.StatusOK, historyResponse{Analyses: records})
}

type recentResponse struct {
	Analyses []json.RawMessage `json:"analyses"`
}

func (s *Server) handleRecent(c echo.Context) error {
	if s.feed == nil {
		return c.JSON(http.StatusOK, recentResponse{Analyses: []json.RawMessage{}})
	}

	entries, err := s.feed.GetRecent(c.Request().Context(), 0)
	if err != nil {
		return apperrors.InternalError("failed to load recent analyses", err)
	}

	payloads := make([]json.RawMessage, 0, len(entries))
	for _, entry := range entries {
		payloads = append(payloads, json.RawMessage(entry))
	}

	return c.JSON(http.StatusOK, recentResponse{Analyses: payloads})
}

func (s *Server) handleExamples(c echo.Context) error {
	examples := make(map[string]string, len(exampleTexts))
	for lang, text := range exampleTexts {
		examples[string(lang)] = text
	}
	return c.JSON(http.StatusOK, examples)
}

func (s *Server) handleSampleCSV(c echo.Context) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{{pipeline.DefaultTextColumn}}
	for _, text := range sampleRows {
		rows = append(rows, []string{text})
	}
	if err := w.WriteAll(rows); err != nil {
		return apperrors.InternalError("failed to build sample csv", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", sampleFilename))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
