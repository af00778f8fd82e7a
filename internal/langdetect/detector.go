package langdetect

import (
	"log/slog"
	"strings"
	"time"

	"github.com/pemistahl/lingua-go"

	"github.com/polysent/polysent/internal/models"
)

// MinimumRelativeDistance is how far apart the two most likely languages
// must be before the detector commits to an answer. Below it, detection
// reports LanguageOther.
const MinimumRelativeDistance = 0.25

// Detector places free text in the supported language set. It is built once
// at startup with all of lingua's language models preloaded and is read-only
// afterwards, so a single instance is safe to share across requests.
type Detector struct {
	inner lingua.LanguageDetector
}

func New() *Detector {
	start := time.Now()
	inner := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		WithMinimumRelativeDistance(MinimumRelativeDistance).
		WithPreloadedLanguageModels().
		Build()
	slog.Info("[LangDetect] language models loaded",
		slog.Duration("took", time.Since(start)))

	return &Detector{inner: inner}
}

// Detect returns the detected language and the detector's confidence in it.
// Input that is empty, too short, ambiguous, or outside the supported set
// maps to LanguageOther rather than an error, so callers can still run the
// default classifier variant.
func (d *Detector) Detect(text string) (models.Language, float64) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.LanguageOther, 0
	}

	detected, ok := d.inner.DetectLanguageOf(text)
	if !ok {
		return models.LanguageOther, 0
	}

	confidence := d.inner.ComputeLanguageConfidence(text, detected)
	lang := fromLingua(detected)
	if !lang.Supported() {
		return models.LanguageOther, confidence
	}
	return lang, confidence
}

// Candidates returns the detector's ranked guesses, at most n. Languages
// outside the supported set keep their real name but carry the
// LanguageOther tag.
func (d *Detector) Candidates(text string, n int) []models.LanguageCandidate {
	text = strings.TrimSpace(text)
	if text == "" || n <= 0 {
		return nil
	}

	values := d.inner.ComputeLanguageConfidenceValues(text)
	if len(values) > n {
		values = values[:n]
	}

	candidates := make([]models.LanguageCandidate, 0, len(values))
	for _, cv := range values {
		lang := fromLingua(cv.Language())
		name := cv.Language().String()
		if lang.Supported() {
			name = lang.DisplayName()
		}
		candidates = append(candidates, models.LanguageCandidate{
			Language:   lang,
			Name:       name,
			Confidence: cv.Value(),
		})
	}
	return candidates
}

func fromLingua(l lingua.Language) models.Language {
	switch l {
	case lingua.English:
		return models.LanguageEnglish
	case lingua.Hindi:
		return models.LanguageHindi
	case lingua.Telugu:
		return models.LanguageTelugu
	default:
		return models.LanguageOther
	}
}
