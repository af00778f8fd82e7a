package sentiment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysent/polysent/internal/models"
)

type stubVariant struct {
	name  string
	pred  Prediction
	err   error
	calls int
}

func (s *stubVariant) Name() string { return s.name }

func (s *stubVariant) Classify(text string) (Prediction, error) {
	s.calls++
	if s.err != nil {
		return Prediction{}, s.err
	}
	return s.pred, nil
}

func stubAnalyzer(fallback *stubVariant, routes map[models.Language]*stubVariant) *Analyzer {
	a := &Analyzer{
		variants: map[string]Variant{fallback.name: fallback},
		routes:   make(map[models.Language]Variant, len(routes)),
		fallback: fallback.name,
	}
	for lang, v := range routes {
		a.variants[v.name] = v
		a.routes[lang] = v
	}
	return a
}

func TestAnalyzerRoutesByLanguage(t *testing.T) {
	multilingual := &stubVariant{
		name: VariantXLMRoberta,
		pred: Prediction{Label: models.SentimentNegative, Confidence: 0.8},
	}
	english := &stubVariant{
		name: VariantVader,
		pred: Prediction{Label: models.SentimentPositive, Confidence: 0.7},
	}
	a := stubAnalyzer(multilingual, map[models.Language]*stubVariant{
		models.LanguageEnglish: english,
	})

	pred, err := a.Classify("I love this", models.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, models.SentimentPositive, pred.Label)
	assert.Equal(t, VariantVader, pred.Model)
	assert.Equal(t, 1, english.calls)
	assert.Zero(t, multilingual.calls)

	pred, err = a.Classify("यह बहुत बुरा है", models.LanguageHindi)
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNegative, pred.Label)
	assert.Equal(t, VariantXLMRoberta, pred.Model)
	assert.Equal(t, 1, multilingual.calls)
}

func TestAnalyzerEmptyTextSkipsModel(t *testing.T) {
	fallback := &stubVariant{name: VariantXLMRoberta}
	a := stubAnalyzer(fallback, nil)

	for _, input := range []string{"", "   \n\t ", "https://example.com/only-a-link"} {
		pred, err := a.Classify(input, models.LanguageEnglish)
		require.NoError(t, err)
		assert.Equal(t, models.SentimentNeutral, pred.Label)
		assert.Zero(t, pred.Confidence)
		assert.Empty(t, pred.Model)
	}
	assert.Zero(t, fallback.calls, "empty input must never reach a variant")
}

func TestAnalyzerWrapsVariantErrors(t *testing.T) {
	boom := errors.New("model exploded")
	fallback := &stubVariant{name: VariantXLMRoberta, err: boom}
	a := stubAnalyzer(fallback, nil)

	_, err := a.Classify("some text", models.LanguageTelugu)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), VariantXLMRoberta)
}

func TestAnalyzerRoutesReport(t *testing.T) {
	fallback := &stubVariant{name: VariantXLMRoberta}
	english := &stubVariant{name: VariantVader}
	a := stubAnalyzer(fallback, map[models.Language]*stubVariant{
		models.LanguageEnglish: english,
	})

	routes := a.Routes()
	assert.Equal(t, VariantVader, routes[models.LanguageEnglish])
	assert.Equal(t, VariantXLMRoberta, routes[models.LanguageHindi])
	assert.Equal(t, VariantXLMRoberta, routes[models.LanguageTelugu])
	assert.Equal(t, VariantXLMRoberta, routes[models.LanguageOther])
}

func TestNewAnalyzerVaderOnly(t *testing.T) {
	a, err := NewAnalyzer(Options{DefaultVariant: VariantVader})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, VariantVader, a.DefaultVariant())
	assert.Equal(t, []string{VariantVader}, a.VariantNames())

	pred, err := a.Classify("I love this product, it is wonderful!", models.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, models.SentimentPositive, pred.Label)
	assert.Equal(t, VariantVader, pred.Model)
}

func TestNewAnalyzerUnknownVariant(t *testing.T) {
	_, err := NewAnalyzer(Options{DefaultVariant: "definitely-not-a-model"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-model")
}
