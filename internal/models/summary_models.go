package models

import "time"

// DistributionSummary is the label breakdown of one ResultsTable.
// Invariant: the counts sum to TotalRecords.
type DistributionSummary struct {
	CountsByLabel map[SentimentLabel]int     `json:"counts_by_label"`
	Percentages   map[SentimentLabel]float64 `json:"percentages"`
	TotalRecords  int                        `json:"total_records"`
}

// LanguageStats is the per-language breakdown of one ResultsTable.
type LanguageStats struct {
	CountsByLanguage  map[Language]int     `json:"counts_by_language"`
	PercentByLanguage map[Language]float64 `json:"percent_by_language"`
	UniqueLanguages   int                  `json:"unique_languages"`
}

// AnalysisRecord is the stored trace of one pipeline run: the summary plus
// enough metadata to list and re-export it later.
type AnalysisRecord struct {
	BatchID       string                 `json:"batch_id"`
	Source        string                 `json:"source"`
	TotalRecords  int                    `json:"total_records"`
	CountsByLabel map[SentimentLabel]int `json:"counts_by_label"`
	CreatedAt     time.Time              `json:"created_at"`
}

const (
	AnalysisSourceText       = "text"
	AnalysisSourceCSV        = "csv"
	AnalysisSourceTranscript = "transcript"
)
