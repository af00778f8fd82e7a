package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/polysent/polysent/internal/clients"
	"github.com/polysent/polysent/internal/models"
)

const (
	ProviderGoogle = "google-speech"

	googleSpeechEndpoint = "https://speech.googleapis.com/v1/speech:recognize"
	googleSpeechScope    = "https://www.googleapis.com/auth/cloud-platform"

	// Browser recorders hand us WebM/Opus at 48kHz; the service needs the
	// encoding spelled out for that container.
	audioEncoding   = "WEBM_OPUS"
	sampleRateHertz = 48000
)

type recognitionConfig struct {
	Encoding                   string   `json:"encoding"`
	SampleRateHertz            int      `json:"sampleRateHertz"`
	LanguageCode               string   `json:"languageCode"`
	AlternativeLanguageCodes   []string `json:"alternativeLanguageCodes,omitempty"`
	EnableAutomaticPunctuation bool     `json:"enableAutomaticPunctuation"`
}

type recognitionAudio struct {
	Content string `json:"content"`
}

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

type recognizeAlternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

type recognizeResult struct {
	Alternatives []recognizeAlternative `json:"alternatives"`
	LanguageCode string                 `json:"languageCode"`
}

type recognizeResponse struct {
	Results []recognizeResult `json:"results"`
}

// GoogleClient calls the Cloud Speech-to-Text REST API. It authenticates
// either with a service-account key file or a plain API key.
type GoogleClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// GoogleOptions configure the speech client. CredentialsFile wins over
// APIKey when both are set; BaseURL exists for tests.
type GoogleOptions struct {
	APIKey          string
	CredentialsFile string
	BaseURL         string
	Timeout         time.Duration
}

func NewGoogleClient(ctx context.Context, opts GoogleOptions) (*GoogleClient, error) {
	if opts.CredentialsFile == "" && opts.APIKey == "" {
		return nil, errors.New("google speech requires an api key or a service-account credentials file")
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = googleSpeechEndpoint
	}

	g := &GoogleClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     opts.APIKey,
	}

	if opts.CredentialsFile != "" {
		keyJSON, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read speech credentials: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(keyJSON, googleSpeechScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse speech credentials: %w", err)
		}
		g.httpClient = jwtConfig.Client(ctx)
		g.httpClient.Timeout = timeout
		g.apiKey = ""
	}

	slog.Info("[GoogleSpeech] Client initialized",
		slog.Bool("service_account", opts.CredentialsFile != ""),
		slog.Duration("timeout", timeout))

	return g, nil
}

func (g *GoogleClient) Transcribe(ctx context.Context, audio Audio, lang models.Language) (Result, error) {
	content, err := io.ReadAll(audio.Content)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(content) == 0 {
		return Result{}, errors.New("audio clip is empty")
	}

	input := recognizeRequest{
		Config: recognitionConfig{
			Encoding:                   audioEncoding,
			SampleRateHertz:            sampleRateHertz,
			LanguageCode:               lang.SpeechCode(),
			AlternativeLanguageCodes:   alternativeCodes(lang),
			EnableAutomaticPunctuation: true,
		},
		Audio: recognitionAudio{
			Content: base64.StdEncoding.EncodeToString(content),
		},
	}

	slog.Info("[GoogleSpeech] Requesting transcription",
		slog.String("language", lang.SpeechCode()),
		slog.Int("audio_bytes", len(content)))
	start := time.Now()

	var output recognizeResponse
	if err := g.postJSON(ctx, input, &output); err != nil {
		slog.Error("[GoogleSpeech] Transcription request failed",
			slog.Duration("elapsed", time.Since(start)))
		return Result{}, err
	}

	result, err := collectTranscript(output, lang)
	if err != nil {
		return Result{}, err
	}

	slog.Info("[GoogleSpeech] Transcription successful",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("transcript_length", len(result.Text)))

	return result, nil
}

// alternativeCodes lists the other supported languages so the service can
// override a wrong hint.
func alternativeCodes(primary models.Language) []string {
	codes := make([]string, 0, len(models.SupportedLanguages)-1)
	for _, l := range models.SupportedLanguages {
		if code := l.SpeechCode(); code != primary.SpeechCode() {
			codes = append(codes, code)
		}
	}
	return codes
}

// collectTranscript stitches the per-segment top alternatives into one
// transcript and keeps the first reported confidence and language.
func collectTranscript(output recognizeResponse, hint models.Language) (Result, error) {
	var sb strings.Builder
	result := Result{Language: hint, Provider: ProviderGoogle}

	for _, r := range output.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		top := r.Alternatives[0]
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(strings.TrimSpace(top.Transcript))

		if result.Confidence == 0 && top.Confidence > 0 {
			result.Confidence = top.Confidence
		}
		if detected := models.ParseLanguage(r.LanguageCode); detected.Supported() {
			result.Language = detected
		}
	}

	result.Text = strings.TrimSpace(sb.String())
	if result.Text == "" {
		return Result{}, errors.New("no speech recognized in audio")
	}
	return result, nil
}

func (g *GoogleClient) DoWithRetry(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := clients.INITIAL_BACKOFF

	for attempt := 0; attempt < clients.MAX_RETRIES; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, rewindErr := req.GetBody()
			if rewindErr != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", rewindErr)
			}
			req.Body = body
		}

		resp, err = g.httpClient.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if resp != nil {
			resp.Body.Close()
		}

		slog.Warn("[GoogleSpeech] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		time.Sleep(backoff)
		backoff *= 2
		if backoff > clients.MAX_BACKOFF {
			backoff = clients.MAX_BACKOFF
		}
	}

	return resp, err
}

func (g *GoogleClient) postJSON(ctx context.Context, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	endpoint := g.baseURL
	if g.apiKey != "" {
		endpoint += "?key=" + g.apiKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", clients.USER_AGENT)

	resp, err := g.DoWithRetry(req)
	if err != nil {
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[GoogleSpeech] Service returned an error",
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return fmt.Errorf("speech service returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[GoogleSpeech] Failed to unmarshal response",
			slog.String("error", err.Error()),
			getPreview(respBody))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
