package sentiment

import (
	"github.com/polysent/polysent/internal/models"
)

// Prediction is a single classifier verdict. Confidence is the probability
// of the winning label; Scores carries whatever per-label breakdown the
// variant produces, keyed by canonical label.
type Prediction struct {
	Label      models.SentimentLabel
	Confidence float64
	Scores     map[models.SentimentLabel]float64
	// Model names the variant that produced the verdict. The Analyzer
	// stamps it; it stays empty when no model ran.
	Model string
}

// Variant is one pretrained classifier backend. Implementations must be
// safe for concurrent use; text passed to Classify has already been
// cleaned, trimmed and truncated.
type Variant interface {
	Name() string
	Classify(text string) (Prediction, error)
}
