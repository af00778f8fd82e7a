// Package transcribe turns recorded audio into text through an external
// speech-recognition service.
package transcribe

import (
	"context"
	"io"

	"github.com/polysent/polysent/internal/models"
)

// Audio is one recorded clip as it arrives from an upload.
type Audio struct {
	Content     io.Reader
	Filename    string
	ContentType string
}

// Result is a finished transcription. Language echoes the hint the service
// worked with unless it reported a different one.
type Result struct {
	Text       string          `json:"text"`
	Language   models.Language `json:"language"`
	Confidence float64         `json:"confidence"`
	Provider   string          `json:"provider"`
}

// Transcriber is implemented by each speech backend. lang is a hint; the
// services accept alternatives, so a wrong hint degrades accuracy rather
// than failing.
type Transcriber interface {
	Transcribe(ctx context.Context, audio Audio, lang models.Language) (Result, error)
}
