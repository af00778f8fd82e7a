package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysent/polysent/internal/models"
)

func TestVaderVariantPositive(t *testing.T) {
	v := NewVaderVariant()

	pred, err := v.Classify("I love this product, it is absolutely wonderful!")
	require.NoError(t, err)

	assert.Equal(t, models.SentimentPositive, pred.Label)
	assert.Greater(t, pred.Confidence, 0.2)
	assert.LessOrEqual(t, pred.Confidence, 1.0)
}

func TestVaderVariantNegative(t *testing.T) {
	v := NewVaderVariant()

	pred, err := v.Classify("This is terrible, I hate it and it broke immediately.")
	require.NoError(t, err)

	assert.Equal(t, models.SentimentNegative, pred.Label)
	assert.Greater(t, pred.Confidence, 0.2)
}

func TestVaderVariantNeutral(t *testing.T) {
	v := NewVaderVariant()

	pred, err := v.Classify("The package arrived on Tuesday.")
	require.NoError(t, err)

	assert.Equal(t, models.SentimentNeutral, pred.Label)
	assert.GreaterOrEqual(t, pred.Confidence, 0.0)
	assert.LessOrEqual(t, pred.Confidence, 1.0)
}

func TestVaderVariantScoreBreakdown(t *testing.T) {
	v := NewVaderVariant()

	pred, err := v.Classify("I love this!")
	require.NoError(t, err)

	require.Len(t, pred.Scores, 3)
	total := 0.0
	for _, label := range []models.SentimentLabel{
		models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative,
	} {
		score, ok := pred.Scores[label]
		assert.True(t, ok)
		total += score
	}
	assert.InDelta(t, 1.0, total, 0.01)
}
