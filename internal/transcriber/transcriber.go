package transcriber

import "context"

type CancellationReason string

const (
	CancellationReasonError       CancellationReason = "Error"
	CancellationReasonEndOfStream CancellationReason = "EndOfStream"
)

// Cancellation describes why the engine aborted a session mid-stream.
type Cancellation struct {
	Reason       CancellationReason
	ErrorCode    string
	ErrorDetails string
}

// StreamWriter pushes audio into a running recognition session.
// CloseInput signals end of audio; Stop tears the session down. Both are idempotent.
type StreamWriter interface {
	Write(chunk []byte) error
	CloseInput() error
	Stop() error
}

// ResultReceiver callbacks may be invoked from a goroutine owned by the engine.
type ResultReceiver interface {
	OnRecognizing(text string)
	OnRecognized(text string)
	OnCanceled(c Cancellation)
	OnSessionStopped()
}

type Transcriber interface {
	StartStreaming(ctx context.Context, sessionID, language string, receiver ResultReceiver) (StreamWriter, error)
}
