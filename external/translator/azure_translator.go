package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/foxseedlab/speechrelay/internal/metrics"
	"github.com/google/uuid"
)

const (
	translatorAPIVersion     = "3.0"
	translatorRequestTimeout = 20 * time.Second
)

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("azure translator returned status %d: %s", e.StatusCode, e.Body)
}

type AzureTranslatorConfig struct {
	Key      string
	Region   string
	Endpoint string
}

type AzureTranslator struct {
	endpoint string
	key      string
	region   string
	client   *http.Client
}

func NewAzureTranslator(cfg AzureTranslatorConfig) *AzureTranslator {
	return &AzureTranslator{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		key:      cfg.Key,
		region:   cfg.Region,
		client:   &http.Client{Timeout: translatorRequestTimeout},
	}
}

type translateRequestItem struct {
	Text string `json:"Text"`
}

type translateResponseItem struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

func (t *AzureTranslator) Translate(ctx context.Context, text, to, from string) (string, error) {
	translated, err := t.translate(ctx, text, to, from)
	metrics.VendorRequest("translator", err)
	if err != nil {
		slog.Error("translation failed", "error", err, "to", to, "from", from)
		return "", err
	}
	return translated, nil
}

func (t *AzureTranslator) translate(ctx context.Context, text, to, from string) (string, error) {
	q := url.Values{}
	q.Set("api-version", translatorAPIVersion)
	q.Set("to", to)
	if from != "" {
		q.Set("from", from)
	}
	body, err := json.Marshal([]translateRequestItem{{Text: text}})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/translate?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", t.key)
	if t.region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", t.region)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ClientTraceId", uuid.NewString())

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call azure translator: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read azure translator response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var items []translateResponseItem
	if err := json.Unmarshal(respBody, &items); err != nil {
		return "", fmt.Errorf("decode azure translator response: %w", err)
	}
	if len(items) == 0 || len(items[0].Translations) == 0 {
		return "", fmt.Errorf("azure translator returned no translations")
	}
	return items[0].Translations[0].Text, nil
}
