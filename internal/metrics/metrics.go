package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Classification Metrics
var (
	// ClassificationsTotal tracks classified texts by variant and resulting label
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_classifications_total",
			Help: "Total texts classified by variant and resulting label",
		},
		[]string{"variant", "label"},
	)

	// ClassificationDuration tracks single-text inference latency by variant
	ClassificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_classification_duration_seconds",
			Help:    "Single-text classification duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"variant"},
	)

	// ClassificationFailures tracks classification errors by variant
	ClassificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_classification_failures_total",
			Help: "Total classification errors by variant",
		},
		[]string{"variant"},
	)
)

// Language Detection Metrics
var (
	// LanguageDetectionsTotal tracks detections by resolved language tag
	LanguageDetectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "language_detections_total",
			Help: "Total language detections by resolved tag (en/hi/te/other)",
		},
		[]string{"language"},
	)
)

// Batch Metrics
var (
	// BatchesTotal tracks processed batches by input source
	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_batches_total",
			Help: "Total batches processed by input source (text/csv/transcript)",
		},
		[]string{"source"},
	)

	// BatchRecords tracks batch sizes in records
	BatchRecords = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_batch_records",
			Help:    "Records per processed batch",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		},
	)

	// BatchDuration tracks end-to-end batch processing duration
	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_batch_duration_seconds",
			Help:    "End-to-end batch processing duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 300},
		},
	)
)

// Transcription Metrics
var (
	// TranscriptionsTotal tracks transcription requests by provider and outcome
	TranscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcriptions_total",
			Help: "Total transcription requests by provider and status (success/error)",
		},
		[]string{"provider", "status"},
	)

	// TranscriptionDuration tracks transcription request latency by provider
	TranscriptionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transcription_duration_seconds",
			Help:    "Transcription request duration in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)
)

// Export Metrics
var (
	// ExportsTotal tracks CSV result exports served
	ExportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "result_exports_total",
			Help: "Total CSV result exports served",
		},
	)
)

// HTTP Error Metrics
// Note: http_errors_total{type} is provided by internal/errors package
