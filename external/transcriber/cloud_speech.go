package transcriber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"cloud.google.com/go/auth/credentials"
	speech "cloud.google.com/go/speech/apiv2"
	speechpb "cloud.google.com/go/speech/apiv2/speechpb"
	"github.com/foxseedlab/speechrelay/internal/transcriber"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const speechAPIEndpointPort = 443

type CloudSpeechConfig struct {
	ProjectID       string
	CredentialsJSON string
	Language        string
	Location        string
	Model           string
}

type CloudSpeechTranscriber struct {
	projectID       string
	credentialsJSON string
	defaultLanguage string
	location        string
	model           string
}

func NewCloudSpeechTranscriber(cfg CloudSpeechConfig) transcriber.Transcriber {
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		location = "global"
	}
	return &CloudSpeechTranscriber{
		projectID:       cfg.ProjectID,
		credentialsJSON: cfg.CredentialsJSON,
		defaultLanguage: cfg.Language,
		location:        location,
		model:           strings.TrimSpace(cfg.Model),
	}
}

func (t *CloudSpeechTranscriber) StartStreaming(ctx context.Context, sessionID, language string, receiver transcriber.ResultReceiver) (transcriber.StreamWriter, error) {
	if language == "" {
		language = t.defaultLanguage
	}
	slog.Info("starting cloud speech streaming", "session_id", sessionID, "location", t.location, "language", language, "model", t.model)

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(t.credentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}

	opts := []option.ClientOption{
		option.WithAuthCredentials(creds),
	}
	if t.location != "global" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-speech.googleapis.com:%d", t.location, speechAPIEndpointPort)))
	}

	streamCtx, cancel := context.WithCancel(ctx)
	client, err := speech.NewClient(streamCtx, opts...)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create speech client: %w", err)
	}

	recognizer := fmt.Sprintf("projects/%s/locations/%s/recognizers/_", t.projectID, t.location)
	stream, err := client.StreamingRecognize(streamCtx)
	if err != nil {
		cancel()
		_ = client.Close()
		return nil, fmt.Errorf("open streaming recognize: %w", err)
	}
	if err := stream.Send(streamingConfigRequest(recognizer, t.model, language)); err != nil {
		_ = stream.CloseSend()
		cancel()
		_ = client.Close()
		return nil, fmt.Errorf("send streaming config: %w", err)
	}
	slog.Info("cloud speech stream initialized", "session_id", sessionID)

	return newStreamWriter(sessionID, stream, receiver, cancel, client.Close), nil
}

func streamingConfigRequest(recognizer, model, language string) *speechpb.StreamingRecognizeRequest {
	return &speechpb.StreamingRecognizeRequest{
		Recognizer: recognizer,
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Model:         model,
					LanguageCodes: []string{language},
					DecodingConfig: &speechpb.RecognitionConfig_AutoDecodingConfig{
						AutoDecodingConfig: &speechpb.AutoDetectDecodingConfig{},
					},
					Features: &speechpb.RecognitionFeatures{EnableAutomaticPunctuation: true},
				},
				StreamingFeatures: &speechpb.StreamingRecognitionFeatures{InterimResults: true},
			},
		},
	}
}

// streamWriter owns one StreamingRecognize call for the whole upload. A
// stream that breaks mid-file is not reopened: with auto decoding the new
// stream would receive audio without its container header.
type streamWriter struct {
	sessionID string
	receiver  transcriber.ResultReceiver
	cancel    context.CancelFunc
	closeFn   func() error

	mu          sync.Mutex
	inputClosed bool
	stopped     bool
	stream      speechpb.Speech_StreamingRecognizeClient
}

func newStreamWriter(sessionID string, stream speechpb.Speech_StreamingRecognizeClient, receiver transcriber.ResultReceiver, cancel context.CancelFunc, closeFn func() error) *streamWriter {
	w := &streamWriter{
		sessionID: sessionID,
		stream:    stream,
		receiver:  receiver,
		cancel:    cancel,
		closeFn:   closeFn,
	}
	go w.receiveLoop()
	return w
}

func (w *streamWriter) Write(chunk []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inputClosed || w.stopped {
		return io.ErrClosedPipe
	}
	return w.stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_Audio{
			Audio: chunk,
		},
	})
}

func (w *streamWriter) CloseInput() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inputClosed || w.stopped {
		return nil
	}
	w.inputClosed = true
	return w.stream.CloseSend()
}

// Stop cancels the stream context first so a Send blocked on flow control releases the lock.
func (w *streamWriter) Stop() error {
	w.cancel()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	if !w.inputClosed {
		w.inputClosed = true
		_ = w.stream.CloseSend()
	}
	return w.closeFn()
}

func (w *streamWriter) isStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

func (w *streamWriter) receiveLoop() {
	for {
		resp, err := w.stream.Recv()
		if err != nil {
			w.handleReceiveError(err)
			return
		}
		dispatchResults(resp, w.receiver)
	}
}

// handleReceiveError maps the end of the response stream onto the receiver.
// Only a clean io.EOF is a completion; every other error cancels the session.
func (w *streamWriter) handleReceiveError(err error) {
	if w.isStopped() {
		slog.Debug("transcriber receive loop stopped after session stop", "session_id", w.sessionID, "reason", err.Error())
		return
	}
	if errors.Is(err, io.EOF) {
		slog.Info("transcriber stream completed", "session_id", w.sessionID)
		w.receiver.OnSessionStopped()
		return
	}
	c := cancellationFromError(err)
	if c.Reason == transcriber.CancellationReasonEndOfStream {
		slog.Warn("engine ended stream at its duration limit", "error", err, "session_id", w.sessionID)
	} else {
		slog.Error("transcriber stream error", "error", err, "session_id", w.sessionID)
	}
	w.receiver.OnCanceled(c)
}

func dispatchResults(resp *speechpb.StreamingRecognizeResponse, receiver transcriber.ResultReceiver) {
	for _, result := range resp.GetResults() {
		if len(result.GetAlternatives()) == 0 {
			continue
		}
		text := result.GetAlternatives()[0].GetTranscript()
		if !result.GetIsFinal() {
			receiver.OnRecognizing(text)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		receiver.OnRecognized(text)
	}
}

func cancellationFromError(err error) transcriber.Cancellation {
	c := transcriber.Cancellation{
		Reason:       transcriber.CancellationReasonError,
		ErrorDetails: err.Error(),
	}
	st, ok := status.FromError(err)
	if !ok {
		return c
	}
	c.ErrorCode = st.Code().String()
	c.ErrorDetails = st.Message()
	if isStreamDurationLimit(st) {
		c.Reason = transcriber.CancellationReasonEndOfStream
	}
	return c
}

// isStreamDurationLimit reports the server closing a stream that ran past its
// maximum length.
func isStreamDurationLimit(st *status.Status) bool {
	return st.Code() == codes.Aborted &&
		strings.Contains(strings.ToLower(st.Message()), "max duration")
}
