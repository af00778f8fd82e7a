// Package export serializes results tables into downloadable formats and
// chart descriptions.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/polysent/polysent/internal/models"
)

// DefaultFilename names single-shot downloads with no batch attached.
const DefaultFilename = "sentiment_analysis_results.csv"

var exportHeader = []string{
	"id",
	"text",
	"detected_language",
	"language_confidence",
	"label",
	"confidence",
}

// Filename derives the download name for a stored batch.
func Filename(batchID string) string {
	if batchID == "" {
		return DefaultFilename
	}
	return fmt.Sprintf("sentiment_analysis_results_%s.csv", batchID)
}

// WriteResults streams the table to w as CSV, one row per result in table
// order, header included. Confidence values use the shortest decimal form
// that parses back to the identical float, so exports survive a round trip.
func WriteResults(w io.Writer, table models.ResultsTable) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, result := range table {
		row := []string{
			strconv.Itoa(result.RecordID),
			result.Text,
			string(result.DetectedLanguage),
			formatFloat(result.LanguageConfidence),
			string(result.Label),
			formatFloat(result.Confidence),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", result.RecordID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ParseResults reads an export back into a results table. Columns may be
// reordered but all exported columns must be present.
func ParseResults(r io.Reader) (models.ResultsTable, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range exportHeader {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("column %q missing from export header", required)
		}
	}

	var table models.ResultsTable
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		id, err := strconv.Atoi(row[idx["id"]])
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", row[idx["id"]], err)
		}

		label := models.SentimentLabel(row[idx["label"]])
		if !label.Valid() {
			return nil, fmt.Errorf("invalid label %q", row[idx["label"]])
		}

		confidence, err := strconv.ParseFloat(row[idx["confidence"]], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid confidence %q: %w", row[idx["confidence"]], err)
		}
		langConfidence, err := strconv.ParseFloat(row[idx["language_confidence"]], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid language confidence %q: %w", row[idx["language_confidence"]], err)
		}

		table = append(table, models.SentimentResult{
			RecordID:           id,
			Text:               row[idx["text"]],
			DetectedLanguage:   models.Language(row[idx["detected_language"]]),
			LanguageConfidence: langConfidence,
			Label:              label,
			Confidence:         confidence,
		})
	}

	return table, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
