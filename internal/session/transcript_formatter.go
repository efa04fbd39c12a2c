package session

import (
	"time"

	"github.com/foxseedlab/speechrelay/internal/repository"
	"github.com/foxseedlab/speechrelay/internal/webhook"
)

func buildSaveTranscriptionInput(out Outcome) repository.SaveTranscriptionInput {
	return repository.SaveTranscriptionInput{
		SessionID:    out.SessionID,
		Language:     out.Language,
		Resolution:   string(out.Resolution),
		Transcript:   out.Transcript,
		Canceled:     out.Canceled,
		Reason:       out.Reason,
		ErrorCode:    out.ErrorCode,
		ErrorDetails: out.ErrorDetails,
		StartedAt:    out.StartedAt,
		EndedAt:      out.EndedAt,
		Segments:     out.Fragments,
	}
}

func buildTranscriptWebhookPayload(out Outcome) webhook.TranscriptWebhookPayload {
	duration := out.EndedAt.Sub(out.StartedAt).Seconds()
	if duration < 0 {
		duration = 0
	}
	segments := out.Fragments
	if segments == nil {
		segments = []string{}
	}
	return webhook.TranscriptWebhookPayload{
		SchemaVersion:   webhook.TranscriptWebhookSchemaVersion,
		SessionID:       out.SessionID,
		Language:        out.Language,
		Resolution:      string(out.Resolution),
		Transcript:      out.Transcript,
		Canceled:        out.Canceled,
		Reason:          out.Reason,
		ErrorCode:       out.ErrorCode,
		ErrorDetails:    out.ErrorDetails,
		StartAt:         out.StartedAt.UTC().Format(time.RFC3339),
		EndAt:           out.EndedAt.UTC().Format(time.RFC3339),
		DurationSeconds: duration,
		SegmentCount:    len(out.Fragments),
		Segments:        segments,
	}
}
