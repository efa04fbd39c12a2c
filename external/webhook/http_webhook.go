package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/foxseedlab/speechrelay/internal/metrics"
	"github.com/foxseedlab/speechrelay/internal/webhook"
)

const (
	webhookRequestTimeout = 10 * time.Second
	maxErrorBodyBytes     = 512

	headerSessionID     = "X-Speechrelay-Session-ID"
	headerSchemaVersion = "X-Speechrelay-Schema-Version"
)

// HTTPSender posts resolved transcripts as JSON to a single endpoint.
type HTTPSender struct {
	url    string
	client *http.Client
}

func NewHTTPSender(url string) webhook.Sender {
	return &HTTPSender{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: webhookRequestTimeout},
	}
}

func (s *HTTPSender) SendTranscript(ctx context.Context, payload webhook.TranscriptWebhookPayload) (err error) {
	if s.url == "" {
		return nil
	}
	defer func() {
		metrics.VendorRequest("webhook", err)
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal transcript payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerSessionID, payload.SessionID)
	req.Header.Set(headerSchemaVersion, strconv.Itoa(payload.SchemaVersion))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post transcript: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
