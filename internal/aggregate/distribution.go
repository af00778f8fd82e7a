// Package aggregate derives summaries from results tables. Every function
// is a pure function of its input table, so recomputation is idempotent.
package aggregate

import "github.com/polysent/polysent/internal/models"

// Distribution counts labels across the table and derives percentages on a
// 0..100 scale. Labels with no occurrences still appear with zero values so
// charts get a stable label set.
func Distribution(table models.ResultsTable) models.DistributionSummary {
	summary := models.DistributionSummary{
		CountsByLabel: make(map[models.SentimentLabel]int, len(models.AllSentimentLabels)),
		Percentages:   make(map[models.SentimentLabel]float64, len(models.AllSentimentLabels)),
		TotalRecords:  table.Len(),
	}

	for _, label := range models.AllSentimentLabels {
		summary.CountsByLabel[label] = 0
		summary.Percentages[label] = 0
	}
	for _, result := range table {
		summary.CountsByLabel[result.Label]++
	}

	if summary.TotalRecords == 0 {
		return summary
	}
	for label, count := range summary.CountsByLabel {
		summary.Percentages[label] = 100 * float64(count) / float64(summary.TotalRecords)
	}

	return summary
}
