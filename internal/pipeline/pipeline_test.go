package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysent/polysent/internal/models"
	"github.com/polysent/polysent/internal/sentiment"
)

type stubDetector struct {
	lang models.Language
	conf float64
}

func (s stubDetector) Detect(text string) (models.Language, float64) {
	return s.lang, s.conf
}

type stubClassifier struct {
	predictions map[string]sentiment.Prediction
	failures    map[string]error
	calls       []string
}

func (s *stubClassifier) Classify(text string, lang models.Language) (sentiment.Prediction, error) {
	s.calls = append(s.calls, text)
	if err, ok := s.failures[text]; ok {
		return sentiment.Prediction{}, err
	}
	if pred, ok := s.predictions[text]; ok {
		return pred, nil
	}
	return sentiment.Prediction{Label: models.SentimentNeutral, Confidence: 0.5, Model: "stub"}, nil
}

func TestRunPreservesOrder(t *testing.T) {
	classifier := &stubClassifier{predictions: map[string]sentiment.Prediction{
		"first":  {Label: models.SentimentPositive, Confidence: 0.9, Model: "stub"},
		"second": {Label: models.SentimentNegative, Confidence: 0.8, Model: "stub"},
		"third":  {Label: models.SentimentNeutral, Confidence: 0.6, Model: "stub"},
	}}
	p := New(stubDetector{lang: models.LanguageEnglish, conf: 0.97}, classifier)

	table := p.Run([]models.TextRecord{
		{ID: 0, RawText: "first"},
		{ID: 1, RawText: "second"},
		{ID: 2, RawText: "third"},
	})

	require.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"first", "second", "third"}, classifier.calls)

	assert.Equal(t, 0, table[0].RecordID)
	assert.Equal(t, models.SentimentPositive, table[0].Label)
	assert.Equal(t, models.LanguageEnglish, table[0].DetectedLanguage)
	assert.InDelta(t, 0.97, table[0].LanguageConfidence, 1e-6)

	assert.Equal(t, 1, table[1].RecordID)
	assert.Equal(t, models.SentimentNegative, table[1].Label)

	assert.Equal(t, 2, table[2].RecordID)
	assert.Equal(t, models.SentimentNeutral, table[2].Label)
}

func TestRunIsolatesFailures(t *testing.T) {
	classifier := &stubClassifier{
		predictions: map[string]sentiment.Prediction{
			"good": {Label: models.SentimentPositive, Confidence: 0.9, Model: "stub"},
		},
		failures: map[string]error{
			"bad": errors.New("token length exceeded"),
		},
	}
	p := New(stubDetector{lang: models.LanguageEnglish, conf: 0.9}, classifier)

	table := p.Run([]models.TextRecord{
		{ID: 0, RawText: "good"},
		{ID: 1, RawText: "bad"},
		{ID: 2, RawText: "good"},
	})

	require.Equal(t, 3, table.Len(), "a bad row must never shrink the table")

	assert.Equal(t, models.SentimentPositive, table[0].Label)

	assert.True(t, table[1].Failed())
	assert.Equal(t, models.SentimentUnknown, table[1].Label)
	assert.Zero(t, table[1].Confidence)
	assert.Contains(t, table[1].Err, "token length exceeded")

	assert.Equal(t, models.SentimentPositive, table[2].Label)
	assert.Equal(t, 1, table.FailedCount())
}

func TestRunMarksEmptyRecordsWithoutClassifying(t *testing.T) {
	classifier := &stubClassifier{}
	p := New(stubDetector{lang: models.LanguageEnglish, conf: 0.9}, classifier)

	table := p.Run([]models.TextRecord{
		{ID: 0, RawText: "   "},
		{ID: 1, RawText: "real text"},
	})

	require.Equal(t, 2, table.Len())
	assert.True(t, table[0].Failed())
	assert.Equal(t, models.LanguageOther, table[0].DetectedLanguage)
	assert.Equal(t, []string{"real text"}, classifier.calls)
}

func TestRunEmptyBatch(t *testing.T) {
	p := New(stubDetector{}, &stubClassifier{})

	table := p.Run(nil)
	assert.Zero(t, table.Len())
}
