// Package pipeline runs language detection and sentiment classification
// over batches of text records.
package pipeline

import (
	"log/slog"
	"strings"
	"time"

	"github.com/polysent/polysent/internal/models"
	"github.com/polysent/polysent/internal/sentiment"
)

// LanguageDetector is the slice of the detector the pipeline needs.
type LanguageDetector interface {
	Detect(text string) (models.Language, float64)
}

// Pipeline applies detection and classification to each record of a batch.
// Processing is a blocking sequential loop in input order; the only pauses
// are the model calls themselves.
type Pipeline struct {
	detector   LanguageDetector
	classifier sentiment.Classifier
}

func New(detector LanguageDetector, classifier sentiment.Classifier) *Pipeline {
	return &Pipeline{detector: detector, classifier: classifier}
}

// Run produces one result per record, input order preserved. A record that
// cannot be classified is annotated as unknown with zero confidence; a bad
// row never aborts the batch.
func (p *Pipeline) Run(records []models.TextRecord) models.ResultsTable {
	start := time.Now()

	table := make(models.ResultsTable, 0, len(records))
	for _, record := range records {
		table = append(table, p.processRecord(record))
	}

	slog.Info("[Pipeline] Batch processed",
		slog.Int("records", table.Len()),
		slog.Int("failed", table.FailedCount()),
		slog.Duration("elapsed", time.Since(start)))

	return table
}

func (p *Pipeline) processRecord(record models.TextRecord) models.SentimentResult {
	result := models.SentimentResult{
		RecordID: record.ID,
		Text:     record.RawText,
	}

	if strings.TrimSpace(record.RawText) == "" {
		result.DetectedLanguage = models.LanguageOther
		result.Label = models.SentimentUnknown
		result.Err = "record has no text"
		return result
	}

	lang, langConfidence := p.detector.Detect(record.RawText)
	result.DetectedLanguage = lang
	result.LanguageConfidence = langConfidence

	prediction, err := p.classifier.Classify(record.RawText, lang)
	if err != nil {
		slog.Warn("[Pipeline] Classification failed, marking record unknown",
			slog.Int("record_id", record.ID),
			slog.String("error", err.Error()))
		result.Label = models.SentimentUnknown
		result.Err = err.Error()
		return result
	}

	result.Label = prediction.Label
	result.Confidence = prediction.Confidence
	result.Scores = prediction.Scores
	result.Model = prediction.Model
	return result
}
