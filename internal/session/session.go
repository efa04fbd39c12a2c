package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/foxseedlab/speechrelay/internal/audio"
	"github.com/foxseedlab/speechrelay/internal/transcriber"
)

type state int

const (
	stateStreaming state = iota
	stateResolved
)

// Session is one bounded streaming transcription. It resolves exactly once,
// through whichever of completion, cancellation or timeout fires first.
type Session struct {
	id         string
	language   string
	startedAt  time.Time
	source     audio.Source
	chunkBytes int

	mu           sync.Mutex
	state        state
	fragments    []string
	writer       transcriber.StreamWriter
	timer        *time.Timer
	cancelEngine context.CancelFunc
	outcome      Outcome

	done       chan struct{}
	onResolved func(*Session)
}

func newSession(id, language string, source audio.Source, chunkBytes int, cancelEngine context.CancelFunc) *Session {
	return &Session{
		id:           id,
		language:     language,
		startedAt:    time.Now(),
		source:       source,
		chunkBytes:   chunkBytes,
		state:        stateStreaming,
		cancelEngine: cancelEngine,
		done:         make(chan struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Language() string {
	return s.language
}

// Done is closed once the session has resolved and cleaned up.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Outcome returns the resolved outcome. It is the zero value until Done is closed.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Wait blocks until the session resolves or ctx is done. Giving up does not
// cancel the session.
func (s *Session) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-s.done:
		return s.Outcome(), nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

func (s *Session) resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateResolved
}

// attach hands the engine writer to the session, arms the deadline and starts
// pumping audio. If an engine callback already resolved the session, the
// writer is torn down instead.
func (s *Session) attach(writer transcriber.StreamWriter, timeout time.Duration) {
	s.mu.Lock()
	if s.state == stateResolved {
		s.mu.Unlock()
		slog.Warn("engine resolved session before start returned; stopping writer", "session_id", s.id)
		stopWriter(s.id, writer)
		return
	}
	s.writer = writer
	s.timer = time.AfterFunc(timeout, s.onTimeout)
	s.mu.Unlock()

	go s.pump(writer)
}

// failStart resolves a session whose engine never started. Only the source is
// released. It reports false if the session had already resolved.
func (s *Session) failStart() bool {
	s.mu.Lock()
	if s.state == stateResolved {
		s.mu.Unlock()
		return false
	}
	s.state = stateResolved
	s.mu.Unlock()

	s.releaseSource()
	close(s.done)
	return true
}

func (s *Session) pump(writer transcriber.StreamWriter) {
	buf := make([]byte, s.chunkBytes)
	var pushed int64
	for {
		if s.resolved() {
			return
		}
		n, err := s.source.Read(buf)
		if n > 0 {
			if werr := writer.Write(buf[:n]); werr != nil {
				if s.resolved() {
					return
				}
				slog.Error("failed to push audio chunk", "error", werr, "session_id", s.id, "pushed_bytes", pushed)
				s.resolveCanceled(transcriber.Cancellation{
					Reason:       transcriber.CancellationReasonError,
					ErrorDetails: werr.Error(),
				})
				return
			}
			pushed += int64(n)
		}
		if errors.Is(err, io.EOF) {
			slog.Debug("audio source drained; closing input", "session_id", s.id, "pushed_bytes", pushed)
			if cerr := writer.CloseInput(); cerr != nil && !s.resolved() {
				slog.Warn("failed to close audio input", "error", cerr, "session_id", s.id)
			}
			return
		}
		if err != nil {
			if s.resolved() {
				return
			}
			slog.Error("failed to read audio source", "error", err, "session_id", s.id)
			s.resolveCanceled(transcriber.Cancellation{
				Reason:       transcriber.CancellationReasonError,
				ErrorDetails: fmt.Sprintf("read audio: %v", err),
			})
			return
		}
	}
}

func (s *Session) appendFragment(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateStreaming {
		slog.Debug("dropping fragment after resolution", "session_id", s.id)
		return
	}
	s.fragments = append(s.fragments, text)
}

func (s *Session) onTimeout() {
	if s.resolve(ResolutionTimeout, nil) {
		slog.Warn("transcription session timed out", "session_id", s.id)
	}
}

func (s *Session) resolveCanceled(c transcriber.Cancellation) {
	if s.resolve(ResolutionCanceled, &c) {
		slog.Warn("transcription session canceled", "session_id", s.id, "reason", c.Reason, "error_code", c.ErrorCode, "error_details", c.ErrorDetails)
	}
}

// resolve performs the single Streaming to Resolved transition. Later calls
// return false without touching any state.
func (s *Session) resolve(r Resolution, c *transcriber.Cancellation) bool {
	s.mu.Lock()
	if s.state == stateResolved {
		s.mu.Unlock()
		return false
	}
	s.state = stateResolved

	fragments := append([]string(nil), s.fragments...)
	out := Outcome{
		Transcript: buildTranscript(r, fragments),
		SessionID:  s.id,
		Language:   s.language,
		Resolution: r,
		Fragments:  fragments,
		StartedAt:  s.startedAt,
		EndedAt:    time.Now(),
	}
	if c != nil {
		out.Canceled = true
		out.Reason = string(c.Reason)
		out.ErrorCode = c.ErrorCode
		out.ErrorDetails = c.ErrorDetails
	}
	s.outcome = out
	writer := s.writer
	timer := s.timer
	s.mu.Unlock()

	s.cleanup(writer, timer)
	close(s.done)
	if s.onResolved != nil {
		s.onResolved(s)
	}
	return true
}

func (s *Session) cleanup(writer transcriber.StreamWriter, timer *time.Timer) {
	if timer != nil {
		timer.Stop()
	}
	if writer != nil {
		stopWriter(s.id, writer)
	}
	if s.cancelEngine != nil {
		s.cancelEngine()
	}
	s.releaseSource()
}

func (s *Session) releaseSource() {
	if err := s.source.Release(); err != nil {
		slog.Warn("failed to release audio source", "error", err, "session_id", s.id)
	}
}

func stopWriter(sessionID string, writer transcriber.StreamWriter) {
	if err := writer.Stop(); err != nil {
		slog.Warn("failed to stop engine session", "error", err, "session_id", sessionID)
	}
	if err := writer.CloseInput(); err != nil {
		slog.Warn("failed to close engine input", "error", err, "session_id", sessionID)
	}
}

func buildTranscript(r Resolution, fragments []string) string {
	if len(fragments) == 0 {
		return noSpeechMessage(r)
	}
	return strings.Join(fragments, " ")
}

// sessionReceiver adapts engine callbacks onto the session.
type sessionReceiver struct {
	session *Session
}

func (r sessionReceiver) OnRecognizing(text string) {
	slog.Debug("recognizing", "session_id", r.session.id, "text", text)
}

func (r sessionReceiver) OnRecognized(text string) {
	slog.Debug("recognized fragment", "session_id", r.session.id, "text", text)
	r.session.appendFragment(text)
}

func (r sessionReceiver) OnCanceled(c transcriber.Cancellation) {
	r.session.resolveCanceled(c)
}

func (r sessionReceiver) OnSessionStopped() {
	if r.session.resolve(ResolutionCompleted, nil) {
		slog.Info("transcription session completed", "session_id", r.session.id)
	}
}
