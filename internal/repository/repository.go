package repository

import (
	"context"
	"time"
)

type SaveTranscriptionInput struct {
	SessionID    string
	Language     string
	Resolution   string
	Transcript   string
	Canceled     bool
	Reason       string
	ErrorCode    string
	ErrorDetails string
	StartedAt    time.Time
	EndedAt      time.Time
	Segments     []string
}

type TranscriptionRepository interface {
	// SaveTranscription stores the session row and its segments atomically.
	SaveTranscription(ctx context.Context, input SaveTranscriptionInput) error
	GetTranscription(ctx context.Context, sessionID string) (*Transcription, error)
}

type TranscriptRepository interface {
	ListSegmentsBySessionID(ctx context.Context, sessionID string) ([]TranscriptSegment, error)
}

type Repository interface {
	TranscriptionRepository
	TranscriptRepository
}

// NoopRepository is used when history storage is disabled.
type NoopRepository struct{}

func (NoopRepository) SaveTranscription(context.Context, SaveTranscriptionInput) error {
	return nil
}

func (NoopRepository) GetTranscription(context.Context, string) (*Transcription, error) {
	return nil, ErrNotFound
}

func (NoopRepository) ListSegmentsBySessionID(context.Context, string) ([]TranscriptSegment, error) {
	return nil, ErrNotFound
}
