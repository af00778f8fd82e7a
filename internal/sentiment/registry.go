package sentiment

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/knights-analytics/hugot"

	"github.com/polysent/polysent/internal/models"
	"github.com/polysent/polysent/internal/textprep"
)

// Variant names accepted in configuration.
const (
	VariantXLMRoberta = "xlm-roberta"
	VariantBertStars  = "bert-multilingual"
	VariantVader      = "vader"
)

// Hugging Face repositories backing the transformer variants.
const (
	XLMRobertaRepo = "cardiffnlp/twitter-xlm-roberta-base-sentiment"
	BertStarsRepo  = "nlptown/bert-base-multilingual-uncased-sentiment"
)

// Classifier is the routing surface request handlers and the batch pipeline
// depend on.
type Classifier interface {
	Classify(text string, lang models.Language) (Prediction, error)
}

// Options configure which variant serves which language.
type Options struct {
	// ModelDir is where ONNX weights live or get downloaded to.
	ModelDir string
	// DefaultVariant classifies languages without an explicit route,
	// including LanguageOther. Defaults to the multilingual XLM-RoBERTa
	// model.
	DefaultVariant string
	// Routes maps a language to the variant that classifies it.
	Routes map[models.Language]string
}

// Analyzer routes text to the classifier variant configured for its
// language. It is built once at startup, loads every referenced model
// eagerly, and is read-only afterwards.
type Analyzer struct {
	session  *hugot.Session
	variants map[string]Variant
	routes   map[models.Language]Variant
	fallback string
}

func NewAnalyzer(opts Options) (*Analyzer, error) {
	if opts.DefaultVariant == "" {
		opts.DefaultVariant = VariantXLMRoberta
	}
	if opts.ModelDir == "" {
		opts.ModelDir = "./models"
	}

	needed := map[string]bool{opts.DefaultVariant: true}
	for _, name := range opts.Routes {
		needed[name] = true
	}

	a := &Analyzer{
		variants: make(map[string]Variant, len(needed)),
		routes:   make(map[models.Language]Variant, len(opts.Routes)),
		fallback: opts.DefaultVariant,
	}

	for name := range needed {
		variant, err := a.buildVariant(name, opts.ModelDir)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.variants[name] = variant
	}

	for lang, name := range opts.Routes {
		a.routes[lang] = a.variants[name]
	}

	slog.Info("[Sentiment] Analyzer ready",
		slog.String("default_variant", opts.DefaultVariant),
		slog.Int("variants", len(a.variants)))

	return a, nil
}

func (a *Analyzer) buildVariant(name, modelDir string) (Variant, error) {
	switch name {
	case VariantVader:
		return NewVaderVariant(), nil
	case VariantXLMRoberta, VariantBertStars:
		repo := XLMRobertaRepo
		if name == VariantBertStars {
			repo = BertStarsRepo
		}
		session, err := a.ortSession()
		if err != nil {
			return nil, err
		}
		modelPath, err := EnsureModel(repo, modelDir)
		if err != nil {
			return nil, err
		}
		return NewTransformerVariant(session, name, modelPath)
	default:
		return nil, fmt.Errorf("unknown sentiment variant %q", name)
	}
}

// ortSession lazily creates the hugot session shared by all transformer
// variants.
func (a *Analyzer) ortSession() (*hugot.Session, error) {
	if a.session != nil {
		return a.session, nil
	}
	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}
	a.session = session
	return session, nil
}

// Close releases the ONNX runtime session. Call once at shutdown.
func (a *Analyzer) Close() {
	if a.session == nil {
		return
	}
	if err := a.session.Destroy(); err != nil {
		slog.Warn("[Sentiment] Failed to destroy hugot session",
			slog.String("error", err.Error()))
	}
	a.session = nil
}

// Classify cleans text and runs the variant routed for lang. Input that is
// empty after cleaning returns neutral with zero confidence and an empty
// Model, without invoking any variant.
func (a *Analyzer) Classify(text string, lang models.Language) (Prediction, error) {
	cleaned := textprep.ForClassifier(text)
	if cleaned == "" {
		return Prediction{Label: models.SentimentNeutral, Confidence: 0}, nil
	}

	variant := a.variantFor(lang)
	prediction, err := variant.Classify(cleaned)
	if err != nil {
		return Prediction{}, fmt.Errorf("%s classification failed: %w", variant.Name(), err)
	}
	prediction.Model = variant.Name()

	return prediction, nil
}

func (a *Analyzer) variantFor(lang models.Language) Variant {
	if v, ok := a.routes[lang]; ok {
		return v
	}
	return a.variants[a.fallback]
}

// DefaultVariant returns the name of the variant serving unrouted languages.
func (a *Analyzer) DefaultVariant() string { return a.fallback }

// VariantNames lists the loaded variants in stable order.
func (a *Analyzer) VariantNames() []string {
	names := make([]string, 0, len(a.variants))
	for name := range a.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Routes reports the active language to variant mapping, fallback included.
func (a *Analyzer) Routes() map[models.Language]string {
	routes := make(map[models.Language]string, len(a.routes))
	for _, lang := range models.SupportedLanguages {
		routes[lang] = a.fallback
	}
	routes[models.LanguageOther] = a.fallback
	for lang, v := range a.routes {
		routes[lang] = v.Name()
	}
	return routes
}
