package sentiment

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/polysent/polysent/internal/models"
)

// classificationRunner is the slice of hugot's pipeline the variant needs;
// tests substitute a stub so they can run without the ONNX runtime.
type classificationRunner interface {
	RunPipeline(inputs []string) (*pipelines.TextClassificationOutput, error)
}

// TransformerVariant runs a pretrained ONNX sentiment model through hugot.
// The ONNX runtime session is not safe for concurrent runs of the same
// pipeline, so inference is serialized behind a mutex.
type TransformerVariant struct {
	name     string
	pipeline classificationRunner

	mu sync.Mutex
}

// NewTransformerVariant builds a text-classification pipeline on the shared
// hugot session for the model at modelPath.
func NewTransformerVariant(session *hugot.Session, name, modelPath string) (*TransformerVariant, error) {
	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      name + "Pipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s pipeline: %w", name, err)
	}

	return &TransformerVariant{name: name, pipeline: pipeline}, nil
}

func newTransformerWithRunner(name string, runner classificationRunner) *TransformerVariant {
	return &TransformerVariant{name: name, pipeline: runner}
}

func (t *TransformerVariant) Name() string { return t.name }

func (t *TransformerVariant) Classify(text string) (Prediction, error) {
	t.mu.Lock()
	output, err := t.pipeline.RunPipeline([]string{text})
	t.mu.Unlock()
	if err != nil {
		return Prediction{}, fmt.Errorf("inference failed: %w", err)
	}

	if output == nil || len(output.ClassificationOutputs) == 0 || len(output.ClassificationOutputs[0]) == 0 {
		return Prediction{}, errors.New("model returned no classification output")
	}

	best := output.ClassificationOutputs[0][0]
	label, ok := NormalizeLabel(best.Label)
	if !ok {
		// A label outside the known conventions still yields a result;
		// anything unplaceable reads as neutral.
		slog.Warn("[Sentiment] Unrecognized model label, reading as neutral",
			slog.String("variant", t.name),
			slog.String("label", best.Label))
		label = models.SentimentNeutral
	}

	scores := make(map[models.SentimentLabel]float64, len(output.ClassificationOutputs[0]))
	for _, c := range output.ClassificationOutputs[0] {
		if normalized, known := NormalizeLabel(c.Label); known {
			scores[normalized] += float64(c.Score)
		}
	}

	return Prediction{
		Label:      label,
		Confidence: float64(best.Score),
		Scores:     scores,
	}, nil
}

// EnsureModel makes sure the ONNX weights for repo exist under modelDir,
// downloading them from the Hugging Face hub on first use, and returns the
// local model path.
func EnsureModel(repo, modelDir string) (string, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	modelPath := filepath.Join(modelDir, strings.ReplaceAll(repo, "/", "_"))
	if _, err := os.Stat(modelPath); err == nil {
		slog.Info("[Sentiment] Using existing model", slog.String("path", modelPath))
		return modelPath, nil
	}

	slog.Info("[Sentiment] Model not found, downloading...", slog.String("repo", repo))
	downloadedPath, err := hugot.DownloadModel(repo, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("failed to download model %s: %w", repo, err)
	}
	slog.Info("[Sentiment] Model downloaded successfully", slog.String("path", downloadedPath))

	return downloadedPath, nil
}
