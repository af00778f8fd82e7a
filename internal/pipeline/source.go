package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/polysent/polysent/internal/errors"
	"github.com/polysent/polysent/internal/models"
	"github.com/polysent/polysent/internal/transcribe"
)

// DefaultTextColumn is the CSV column read when the user picks none.
const DefaultTextColumn = "text"

// Source yields the records one submission contributes to a batch. Typed
// text, CSV uploads and voice recordings all enter the pipeline through
// this one capability.
type Source interface {
	Records(ctx context.Context) ([]models.TextRecord, error)
}

// TextSource wraps directly typed text as a single-record source.
type TextSource struct {
	text string
}

func NewTextSource(text string) *TextSource {
	return &TextSource{text: text}
}

func (s *TextSource) Records(context.Context) ([]models.TextRecord, error) {
	if strings.TrimSpace(s.text) == "" {
		return nil, apperrors.InputEmptyError("no text supplied")
	}
	return []models.TextRecord{{ID: 0, RawText: s.text}}, nil
}

// CSVSource reads one record per data row out of an uploaded CSV, taking
// text from the configured column. Record IDs are data-row indexes starting
// at zero, header excluded.
type CSVSource struct {
	reader io.Reader
	column string
}

// NewCSVSource builds a source over r. The column name is the user's
// choice, matched against the header after whitespace trimming; it falls
// back to DefaultTextColumn when blank.
func NewCSVSource(r io.Reader, column string) *CSVSource {
	column = strings.TrimSpace(column)
	if column == "" {
		column = DefaultTextColumn
	}
	return &CSVSource{reader: r, column: column}
}

func (s *CSVSource) Records(context.Context) ([]models.TextRecord, error) {
	reader := csv.NewReader(s.reader)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.CSVFormatError("csv file is empty")
	}
	if err != nil {
		return nil, apperrors.CSVFormatError("failed to read csv header").
			WithContext("cause", err.Error())
	}

	columnIdx := -1
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "﻿")
		}
		if strings.TrimSpace(name) == s.column {
			columnIdx = i
			break
		}
	}
	if columnIdx < 0 {
		return nil, apperrors.CSVFormatError(fmt.Sprintf("column %q not found in csv header", s.column)).
			WithContext("header", header)
	}

	var records []models.TextRecord
	for rowIdx := 0; ; rowIdx++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A row the parser chokes on still occupies its slot; the
			// pipeline annotates it as unknown.
			records = append(records, models.TextRecord{ID: rowIdx})
			continue
		}

		var text string
		if columnIdx < len(row) {
			text = row[columnIdx]
		}
		records = append(records, models.TextRecord{ID: rowIdx, RawText: text})
	}

	if len(records) == 0 {
		return nil, apperrors.CSVFormatError("csv contains no data rows")
	}
	return records, nil
}

// TranscriptSource adapts a recorded clip into a single-record source, so
// voice input flows through the same pipeline as typed text.
type TranscriptSource struct {
	transcriber transcribe.Transcriber
	audio       transcribe.Audio
	lang        models.Language

	result *transcribe.Result
}

func NewTranscriptSource(t transcribe.Transcriber, audio transcribe.Audio, lang models.Language) *TranscriptSource {
	return &TranscriptSource{transcriber: t, audio: audio, lang: lang}
}

func (s *TranscriptSource) Records(ctx context.Context) ([]models.TextRecord, error) {
	result, err := s.transcriber.Transcribe(ctx, s.audio, s.lang)
	if err != nil {
		return nil, apperrors.TranscriptionError("transcription failed, please re-record and try again", err)
	}
	s.result = &result

	return []models.TextRecord{{ID: 0, RawText: result.Text}}, nil
}

// Transcript returns what the speech service produced, once Records has
// run, for callers that echo it back to the user.
func (s *TranscriptSource) Transcript() *transcribe.Result {
	return s.result
}
