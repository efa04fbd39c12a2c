package api

import (
	"time"

	"github.com/foxseedlab/speechrelay/internal/session"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Step    string `json:"step,omitempty"`
}

type SpeakRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Voice    string `json:"voice"`
}

type SummarizeRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

type TranslateRequest struct {
	Text string `json:"text"`
	To   string `json:"to"`
	From string `json:"from"`
}

type TranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

type PipelineResponse struct {
	Transcription  session.Outcome `json:"transcription"`
	Summary        string          `json:"summary,omitempty"`
	TranslatedText string          `json:"translatedText"`
	Audio          string          `json:"audio,omitempty"`
}

type TranscriptionRecordResponse struct {
	SessionID    string    `json:"sessionId"`
	Language     string    `json:"language"`
	Resolution   string    `json:"resolution"`
	Transcript   string    `json:"transcript"`
	Canceled     bool      `json:"canceled"`
	Reason       string    `json:"reason,omitempty"`
	ErrorCode    string    `json:"errorCode,omitempty"`
	ErrorDetails string    `json:"errorDetails,omitempty"`
	StartedAt    time.Time `json:"startedAt"`
	EndedAt      time.Time `json:"endedAt"`
	Segments     []string  `json:"segments"`
}
