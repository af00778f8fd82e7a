package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polysent/polysent/internal/models"
	"github.com/polysent/polysent/internal/sentiment"
	"github.com/polysent/polysent/internal/transcribe"
)

func TestHandleTranscribe_Success(t *testing.T) {
	tr := &stubTranscriber{result: transcribe.Result{
		Text:       "this is wonderful",
		Language:   models.LanguageEnglish,
		Confidence: 0.93,
		Provider:   "google",
	}}
	srv := newTestServer(t, withTranscriber(tr))

	req := newUploadRequest(t, "/api/v1/transcribe", "audio", "clip.webm", "fake-audio-bytes", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	require.NoError(t, srv.handleTranscribe(c))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"text":"this is wonderful"`)
	assert.Contains(t, rec.Body.String(), `"provider":"google"`)
	// No analysis requested, so no sentiment result in the response.
	assert.NotContains(t, rec.Body.String(), `"label"`)
	assert.Equal(t, "clip.webm", tr.gotFilename)
}

func TestHandleTranscribe_WithAnalysis(t *testing.T) {
	tr := &stubTranscriber{result: transcribe.Result{
		Text:     "this is wonderful",
		Language: models.LanguageEnglish,
		Provider: "whisper",
	}}
	classifier := &stubClassifier{prediction: sentiment.Prediction{
		Label:      models.SentimentPositive,
		Confidence: 0.9,
		Model:      "xlm-roberta",
	}}
	srv := newTestServer(t, withTranscriber(tr), withClassifier(classifier))

	req := newUploadRequest(t, "/api/v1/transcribe", "audio", "clip.webm", "fake-audio-bytes",
		map[string]string{"analyze": "true"})
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	require.NoError(t, srv.handleTranscribe(c))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"label":"positive"`)
	assert.Contains(t, rec.Body.String(), `"text":"this is wonderful"`)
	assert.Equal(t, 1, classifier.calls)
}

func TestHandleTranscribe_LanguageHint(t *testing.T) {
	tr := &stubTranscriber{result: transcribe.Result{
		Text:     "यह बहुत अच्छा है",
		Language: models.LanguageHindi,
		Provider: "google",
	}}
	srv := newTestServer(t, withTranscriber(tr))

	req := newUploadRequest(t, "/api/v1/transcribe", "audio", "clip.webm", "fake-audio-bytes",
		map[string]string{"language": "hi"})
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	require.NoError(t, srv.handleTranscribe(c))
	assert.Equal(t, models.LanguageHindi, tr.gotLang)
}

func TestHandleTranscribe_ServiceFailure(t *testing.T) {
	tr := &stubTranscriber{err: fmt.Errorf("speech service timed out")}
	srv := newTestServer(t, withTranscriber(tr))

	req := newUploadRequest(t, "/api/v1/transcribe", "audio", "clip.webm", "fake-audio-bytes", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	_ = callHandler(srv.handleTranscribe, c)
	assert.Equal(t, 502, rec.Code)
	assert.Contains(t, rec.Body.String(), "transcription")
	assert.Contains(t, rec.Body.String(), `"retryable":true`)
	assert.Contains(t, rec.Body.String(), "please re-record")
}

func TestHandleTranscribe_NotConfigured(t *testing.T) {
	srv := newTestServer(t)

	req := newUploadRequest(t, "/api/v1/transcribe", "audio", "clip.webm", "fake-audio-bytes", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	err := callHandler(srv.handleTranscribe, c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Code)
}

func TestHandleTranscribe_MissingFile(t *testing.T) {
	tr := &stubTranscriber{}
	srv := newTestServer(t, withTranscriber(tr))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcribe", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	_ = callHandler(srv.handleTranscribe, c)
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "audio")
}
