package webhook

import "context"

const TranscriptWebhookSchemaVersion = 1

type TranscriptWebhookPayload struct {
	SchemaVersion   int      `json:"schema_version"`
	SessionID       string   `json:"session_id"`
	Language        string   `json:"language"`
	Resolution      string   `json:"resolution"`
	Transcript      string   `json:"transcript"`
	Canceled        bool     `json:"canceled"`
	Reason          string   `json:"reason,omitempty"`
	ErrorCode       string   `json:"error_code,omitempty"`
	ErrorDetails    string   `json:"error_details,omitempty"`
	StartAt         string   `json:"start_at"`
	EndAt           string   `json:"end_at"`
	DurationSeconds float64  `json:"duration_seconds"`
	SegmentCount    int      `json:"segment_count"`
	Segments        []string `json:"segments"`
}

type Sender interface {
	SendTranscript(ctx context.Context, payload TranscriptWebhookPayload) error
}
