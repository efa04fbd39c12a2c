package repository

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("transcription not found")

type Transcription struct {
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
	SegmentCount int
	CreatedAt    time.Time
}

type TranscriptSegment struct {
	SessionID    string
	Content      string
	SegmentIndex int
	CreatedAt    time.Time
}
