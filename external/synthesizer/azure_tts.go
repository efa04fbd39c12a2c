package synthesizer

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/foxseedlab/speechrelay/internal/metrics"
	"github.com/foxseedlab/speechrelay/internal/synthesizer"
)

const (
	ttsRequestTimeout = 30 * time.Second
	ttsUserAgent      = "speechrelay"
)

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("azure tts returned status %d: %s", e.StatusCode, e.Body)
}

type AzureTTSConfig struct {
	Key          string
	Region       string
	OutputFormat string
	// Endpoint overrides the regional endpoint derived from Region.
	Endpoint string
}

type AzureSynthesizer struct {
	endpoint     string
	key          string
	outputFormat string
	client       *http.Client
}

func NewAzureSynthesizer(cfg AzureTTSConfig) *AzureSynthesizer {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", cfg.Region)
	}
	return &AzureSynthesizer{
		endpoint:     endpoint,
		key:          cfg.Key,
		outputFormat: cfg.OutputFormat,
		client:       &http.Client{Timeout: ttsRequestTimeout},
	}
}

func (s *AzureSynthesizer) Synthesize(ctx context.Context, text, voiceName string) ([]byte, error) {
	audio, err := s.synthesize(ctx, text, voiceName)
	metrics.VendorRequest("synthesizer", err)
	if err != nil {
		slog.Error("speech synthesis failed", "error", err, "voice", voiceName)
		return nil, err
	}
	slog.Info("speech synthesized", "voice", voiceName, "audio_bytes", len(audio))
	return audio, nil
}

func (s *AzureSynthesizer) synthesize(ctx context.Context, text, voiceName string) ([]byte, error) {
	ssml, err := buildSSML(text, voiceName)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(ssml))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", s.outputFormat)
	req.Header.Set("User-Agent", ttsUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call azure tts: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read azure tts response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("azure tts returned empty audio")
	}
	return body, nil
}

func buildSSML(text, voiceName string) (string, error) {
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil {
		return "", fmt.Errorf("escape ssml text: %w", err)
	}
	return fmt.Sprintf(
		"<speak version='1.0' xml:lang='%s'><voice name='%s'>%s</voice></speak>",
		synthesizer.LanguageTag(voiceName), voiceName, escaped.String(),
	), nil
}
