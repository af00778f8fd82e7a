package sentiment

import (
	"math"

	"github.com/jonreiter/govader"

	"github.com/polysent/polysent/internal/models"
)

// Compound scores within (-0.20, 0.20) read as neutral.
const vaderCompoundThreshold = 0.20

// VaderVariant scores text with the VADER lexicon. It is tuned for English;
// routing other languages to it degrades to neutral-ish output, which is why
// the default routing only ever selects it for English.
type VaderVariant struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderVariant() *VaderVariant {
	return &VaderVariant{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderVariant) Name() string { return VariantVader }

func (v *VaderVariant) Classify(text string) (Prediction, error) {
	scores := v.analyzer.PolarityScores(text)

	label := models.SentimentNeutral
	if scores.Compound >= vaderCompoundThreshold {
		label = models.SentimentPositive
	} else if scores.Compound <= -vaderCompoundThreshold {
		label = models.SentimentNegative
	}

	// VADER has no softmax; the compound magnitude stands in for the
	// winning label's probability.
	confidence := math.Abs(scores.Compound)
	if label == models.SentimentNeutral {
		confidence = 1 - math.Abs(scores.Compound)
	}

	return Prediction{
		Label:      label,
		Confidence: confidence,
		Scores: map[models.SentimentLabel]float64{
			models.SentimentPositive: scores.Positive,
			models.SentimentNeutral:  scores.Neutral,
			models.SentimentNegative: scores.Negative,
		},
	}, nil
}
