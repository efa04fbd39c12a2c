package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/speechrelay/internal/audio"
	"github.com/foxseedlab/speechrelay/internal/config"
	"github.com/foxseedlab/speechrelay/internal/metrics"
	"github.com/foxseedlab/speechrelay/internal/repository"
	"github.com/foxseedlab/speechrelay/internal/transcriber"
	"github.com/foxseedlab/speechrelay/internal/webhook"
	"github.com/google/uuid"
)

const finalizeTimeout = 30 * time.Second

type Manager struct {
	defaultLanguage string
	maxDuration     time.Duration
	timeout         time.Duration
	chunkBytes      int

	prober      audio.Prober
	transcriber transcriber.Transcriber
	repo        repository.Repository
	webhook     webhook.Sender
	newID       func() string

	mu       sync.Mutex
	sessions map[string]*Session
	inflight sync.WaitGroup
}

func NewManager(cfg *config.Config, prober audio.Prober, stt transcriber.Transcriber, repo repository.Repository, wh webhook.Sender) *Manager {
	return &Manager{
		defaultLanguage: cfg.DefaultTranscribeLanguage,
		maxDuration:     cfg.MaxAudioDuration(),
		timeout:         cfg.TranscribeTimeout(),
		chunkBytes:      cfg.AudioChunkBytes,
		prober:          prober,
		transcriber:     stt,
		repo:            repo,
		webhook:         wh,
		newID:           uuid.NewString,
		sessions:        make(map[string]*Session),
	}
}

// Start validates the source and opens a recognition session. The source is
// owned by the manager from this call on, whether or not it succeeds.
func (m *Manager) Start(ctx context.Context, source audio.Source, language string) (*Session, error) {
	if language == "" {
		language = m.defaultLanguage
	}

	d, err := m.prober.Duration(source)
	if err != nil {
		m.reject(source, metrics.RejectionUnsupported)
		slog.Warn("rejecting audio with unknown duration", "error", err, "language", language)
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAudio, err)
	}
	if d > m.maxDuration {
		m.reject(source, metrics.RejectionTooLong)
		slog.Warn("rejecting audio longer than limit", "duration", d.String(), "max_duration", m.maxDuration.String(), "language", language)
		return nil, fmt.Errorf("%w: %s exceeds %s", ErrAudioTooLong, d, m.maxDuration)
	}

	engineCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := newSession(m.newID(), language, source, m.chunkBytes, cancel)
	s.onResolved = m.onSessionResolved
	m.track(s)
	slog.Info("starting transcription session", "session_id", s.id, "language", language, "duration", d.String())

	writer, err := m.transcriber.StartStreaming(engineCtx, s.id, language, sessionReceiver{session: s})
	if err != nil {
		cancel()
		if !s.failStart() {
			// An engine callback already resolved the session; its outcome is
			// saved and delivered, so the caller gets it too.
			slog.Warn("recognition start failed after session resolved", "error", err, "session_id", s.id)
			return s, nil
		}
		m.untrack(s)
		m.inflight.Done()
		metrics.SessionAborted()
		metrics.TranscriptionRejected(metrics.RejectionEngineStart)
		slog.Error("failed to start recognition", "error", err, "session_id", s.id)
		return nil, fmt.Errorf("%w: %w", ErrEngineStartFailure, err)
	}
	s.attach(writer, m.timeout)
	return s, nil
}

// Transcribe runs a session and blocks until it resolves or ctx is done.
func (m *Manager) Transcribe(ctx context.Context, source audio.Source, language string) (Outcome, error) {
	s, err := m.Start(ctx, source, language)
	if err != nil {
		return Outcome{}, err
	}
	return s.Wait(ctx)
}

func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Wait blocks until every started session has resolved and its history and
// webhook delivery has finished, or ctx is done.
func (m *Manager) Wait(ctx context.Context) error {
	idle := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(idle)
	}()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		slog.Warn("gave up waiting for transcription sessions", "active_sessions", m.ActiveSessions())
		return ctx.Err()
	}
}

func (m *Manager) reject(source audio.Source, reason string) {
	metrics.TranscriptionRejected(reason)
	if err := source.Release(); err != nil {
		slog.Warn("failed to release rejected audio source", "error", err)
	}
}

func (m *Manager) track(s *Session) {
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	m.inflight.Add(1)
	metrics.SessionStarted()
}

func (m *Manager) untrack(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.id)
	m.mu.Unlock()
}

func (m *Manager) onSessionResolved(s *Session) {
	out := s.Outcome()
	m.untrack(s)
	metrics.SessionResolved(string(out.Resolution), out.EndedAt.Sub(out.StartedAt))
	slog.Info("transcription session resolved",
		"session_id", out.SessionID,
		"resolution", out.Resolution,
		"fragments", len(out.Fragments),
		"canceled", out.Canceled)

	go m.finalizeSession(out)
}

func (m *Manager) finalizeSession(out Outcome) {
	defer m.inflight.Done()
	ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
	defer cancel()

	if err := m.repo.SaveTranscription(ctx, buildSaveTranscriptionInput(out)); err != nil {
		slog.Error("failed to save transcription", "error", err, "session_id", out.SessionID)
	}
	if err := m.webhook.SendTranscript(ctx, buildTranscriptWebhookPayload(out)); err != nil {
		slog.Error("failed to send webhook transcript", "error", err, "session_id", out.SessionID)
	}
}
