package session

import (
	"errors"
	"time"
)

var (
	ErrAudioTooLong       = errors.New("audio exceeds maximum duration")
	ErrUnsupportedAudio   = errors.New("unsupported audio format")
	ErrEngineStartFailure = errors.New("failed to start recognition")
)

type Resolution string

const (
	ResolutionCompleted Resolution = "completed"
	ResolutionCanceled  Resolution = "canceled"
	ResolutionTimeout   Resolution = "timeout"
)

// Outcome is the result of a resolved session. Only the transcript and the
// cancellation metadata are part of the JSON body.
type Outcome struct {
	Transcript   string `json:"transcript"`
	Canceled     bool   `json:"canceled,omitempty"`
	Reason       string `json:"reason,omitempty"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorDetails string `json:"errorDetails,omitempty"`

	SessionID  string     `json:"-"`
	Language   string     `json:"-"`
	Resolution Resolution `json:"-"`
	Fragments  []string   `json:"-"`
	StartedAt  time.Time  `json:"-"`
	EndedAt    time.Time  `json:"-"`
}
