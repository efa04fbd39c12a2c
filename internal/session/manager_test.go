package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/foxseedlab/speechrelay/internal/audio"
	"github.com/foxseedlab/speechrelay/internal/config"
	"github.com/foxseedlab/speechrelay/internal/repository"
	"github.com/foxseedlab/speechrelay/internal/transcriber"
	"github.com/foxseedlab/speechrelay/internal/webhook"
)

type mockSource struct {
	mu       sync.Mutex
	reader   *bytes.Reader
	readErr  error
	releases int
}

func newMockSource(data []byte) *mockSource {
	return &mockSource{reader: bytes.NewReader(data)}
}

func (m *mockSource) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return 0, m.readErr
	}
	return m.reader.Read(p)
}

func (m *mockSource) Seek(offset int64, whence int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader.Seek(offset, whence)
}

func (m *mockSource) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releases++
	return nil
}

func (m *mockSource) releaseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releases
}

type mockProber struct {
	d   time.Duration
	err error
}

func (m *mockProber) Duration(_ audio.Source) (time.Duration, error) {
	return m.d, m.err
}

type mockStreamWriter struct {
	mu          sync.Mutex
	written     bytes.Buffer
	writeErr    error
	closeInputs int
	stops       int
}

func (m *mockStreamWriter) Write(chunk []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written.Write(chunk)
	return nil
}

func (m *mockStreamWriter) CloseInput() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeInputs++
	return nil
}

func (m *mockStreamWriter) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	return nil
}

func (m *mockStreamWriter) stopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

func (m *mockStreamWriter) closeInputCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeInputs
}

func (m *mockStreamWriter) writtenBytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.written.Bytes()...)
}

type mockTranscriber struct {
	mu        sync.Mutex
	startErr  error
	writer    *mockStreamWriter
	receiver  transcriber.ResultReceiver
	engineCtx context.Context
	language  string
	onStart   func(r transcriber.ResultReceiver)
}

func (m *mockTranscriber) StartStreaming(ctx context.Context, _, language string, receiver transcriber.ResultReceiver) (transcriber.StreamWriter, error) {
	m.mu.Lock()
	m.engineCtx = ctx
	m.language = language
	m.receiver = receiver
	onStart := m.onStart
	m.mu.Unlock()
	if onStart != nil {
		onStart(receiver)
	}
	if m.startErr != nil {
		return nil, m.startErr
	}
	return m.writer, nil
}

func (m *mockTranscriber) currentReceiver() transcriber.ResultReceiver {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receiver
}

type mockRepository struct {
	mu    sync.Mutex
	saved []repository.SaveTranscriptionInput
}

func (m *mockRepository) SaveTranscription(_ context.Context, input repository.SaveTranscriptionInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, input)
	return nil
}

func (m *mockRepository) GetTranscription(_ context.Context, _ string) (*repository.Transcription, error) {
	return nil, repository.ErrNotFound
}

func (m *mockRepository) ListSegmentsBySessionID(_ context.Context, _ string) ([]repository.TranscriptSegment, error) {
	return nil, nil
}

func (m *mockRepository) savedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

type mockWebhookSender struct {
	mu       sync.Mutex
	payloads []webhook.TranscriptWebhookPayload
	err      error
}

func (m *mockWebhookSender) SendTranscript(_ context.Context, payload webhook.TranscriptWebhookPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, payload)
	return m.err
}

func (m *mockWebhookSender) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payloads)
}

type testHarness struct {
	manager *Manager
	prober  *mockProber
	stt     *mockTranscriber
	writer  *mockStreamWriter
	repo    *mockRepository
	webhook *mockWebhookSender
}

func newTestHarness(timeout time.Duration) *testHarness {
	cfg := &config.Config{
		DefaultTranscribeLanguage: "en-US",
		MaxAudioDurationSec:       300,
		TranscribeTimeoutSec:      120,
		AudioChunkBytes:           4,
	}
	h := &testHarness{
		prober:  &mockProber{d: 10 * time.Second},
		writer:  &mockStreamWriter{},
		repo:    &mockRepository{},
		webhook: &mockWebhookSender{},
	}
	h.stt = &mockTranscriber{writer: h.writer}
	h.manager = NewManager(cfg, h.prober, h.stt, h.repo, h.webhook)
	h.manager.timeout = timeout
	ids := 0
	h.manager.newID = func() string {
		ids++
		return fmt.Sprintf("session-%d", ids)
	}
	return h
}

func waitDone(t *testing.T, s *Session) Outcome {
	t.Helper()
	select {
	case <-s.Done():
		return s.Outcome()
	case <-time.After(2 * time.Second):
		t.Fatal("session did not resolve")
		return Outcome{}
	}
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, message string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(message)
}

func TestStart_RejectsAudioOverMaxDuration(t *testing.T) {
	h := newTestHarness(time.Minute)
	h.prober.d = 301 * time.Second
	src := newMockSource([]byte("audio"))

	s, err := h.manager.Start(context.Background(), src, "en-US")
	if !errors.Is(err, ErrAudioTooLong) {
		t.Fatalf("expected ErrAudioTooLong, got %v", err)
	}
	if s != nil {
		t.Fatal("expected no session")
	}
	if h.stt.currentReceiver() != nil {
		t.Fatal("expected engine not to be started")
	}
	if src.releaseCount() != 1 {
		t.Fatalf("expected source released once, got %d", src.releaseCount())
	}
}

func TestStart_AcceptsAudioAtExactLimit(t *testing.T) {
	h := newTestHarness(time.Minute)
	h.prober.d = 300 * time.Second
	src := newMockSource([]byte("audio"))

	s, err := h.manager.Start(context.Background(), src, "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.stt.currentReceiver().OnSessionStopped()
	waitDone(t, s)
}

func TestStart_RejectsUnprobeableAudio(t *testing.T) {
	h := newTestHarness(time.Minute)
	h.prober.err = audio.ErrUnsupportedFormat
	src := newMockSource([]byte("mp3?"))

	_, err := h.manager.Start(context.Background(), src, "en-US")
	if !errors.Is(err, ErrUnsupportedAudio) || !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedAudio wrapping ErrUnsupportedFormat, got %v", err)
	}
	if src.releaseCount() != 1 {
		t.Fatalf("expected source released once, got %d", src.releaseCount())
	}
}

func TestStart_EngineStartFailure(t *testing.T) {
	h := newTestHarness(time.Minute)
	h.stt.startErr = errors.New("bad credentials")
	src := newMockSource([]byte("audio"))

	s, err := h.manager.Start(context.Background(), src, "en-US")
	if !errors.Is(err, ErrEngineStartFailure) {
		t.Fatalf("expected ErrEngineStartFailure, got %v", err)
	}
	if s != nil {
		t.Fatal("expected no session on start failure")
	}
	if src.releaseCount() != 1 {
		t.Fatalf("expected source released once, got %d", src.releaseCount())
	}
	if h.writer.stopCount() != 0 {
		t.Fatalf("expected no engine stop on start failure, got %d", h.writer.stopCount())
	}
	if h.manager.ActiveSessions() != 0 {
		t.Fatalf("expected no active sessions, got %d", h.manager.ActiveSessions())
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := h.manager.Wait(ctx); err != nil {
		t.Fatalf("expected manager idle, got %v", err)
	}
	if h.repo.savedCount() != 0 {
		t.Fatalf("expected nothing persisted, got %d", h.repo.savedCount())
	}
}

func TestSession_FragmentsJoinedInOrderOnCompletion(t *testing.T) {
	h := newTestHarness(time.Minute)
	src := newMockSource([]byte("0123456789"))

	s, err := h.manager.Start(context.Background(), src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.stt.language != "en-US" {
		t.Fatalf("expected default language, got %q", h.stt.language)
	}
	r := h.stt.currentReceiver()
	r.OnRecognizing("the qu")
	r.OnRecognized("the quick")
	r.OnRecognized("brown fox")
	r.OnRecognized("jumps")
	r.OnSessionStopped()

	out := waitDone(t, s)
	if out.Transcript != "the quick brown fox jumps" {
		t.Fatalf("unexpected transcript: %q", out.Transcript)
	}
	if out.Canceled || out.Resolution != ResolutionCompleted {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.SessionID != s.ID() || out.Language != "en-US" {
		t.Fatalf("unexpected identity: %+v", out)
	}
}

func TestSession_NoFragmentsUsesSentinelPerPath(t *testing.T) {
	cases := []struct {
		name    string
		trigger func(r transcriber.ResultReceiver)
		want    string
	}{
		{
			name:    "completion",
			trigger: func(r transcriber.ResultReceiver) { r.OnSessionStopped() },
			want:    "No speech recognized.",
		},
		{
			name: "cancellation",
			trigger: func(r transcriber.ResultReceiver) {
				r.OnCanceled(transcriber.Cancellation{Reason: transcriber.CancellationReasonEndOfStream})
			},
			want: "No speech recognized (canceled).",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHarness(time.Minute)
			s, err := h.manager.Start(context.Background(), newMockSource(nil), "en-US")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.trigger(h.stt.currentReceiver())
			if out := waitDone(t, s); out.Transcript != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, out.Transcript)
			}
		})
	}
}

func TestSession_TimeoutWithoutFragments(t *testing.T) {
	h := newTestHarness(50 * time.Millisecond)
	src := newMockSource([]byte("audio"))

	s, err := h.manager.Start(context.Background(), src, "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := waitDone(t, s)
	if out.Transcript != "No speech recognized (timeout)." {
		t.Fatalf("unexpected transcript: %q", out.Transcript)
	}
	if out.Canceled || out.Reason != "" {
		t.Fatalf("expected canceled to be absent on timeout, got %+v", out)
	}
	if out.Resolution != ResolutionTimeout {
		t.Fatalf("expected timeout resolution, got %s", out.Resolution)
	}
	if h.writer.stopCount() != 1 || src.releaseCount() != 1 {
		t.Fatalf("expected single cleanup, stops=%d releases=%d", h.writer.stopCount(), src.releaseCount())
	}
}

func TestSession_TimeoutKeepsPartialTranscript(t *testing.T) {
	h := newTestHarness(50 * time.Millisecond)
	s, err := h.manager.Start(context.Background(), newMockSource([]byte("audio")), "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.stt.currentReceiver().OnRecognized("partial words")

	if out := waitDone(t, s); out.Transcript != "partial words" {
		t.Fatalf("unexpected transcript: %q", out.Transcript)
	}
}

func TestSession_CancellationCarriesMetadata(t *testing.T) {
	h := newTestHarness(time.Minute)
	s, err := h.manager.Start(context.Background(), newMockSource([]byte("audio")), "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := h.stt.currentReceiver()
	r.OnRecognized("hello")
	r.OnRecognized("world")
	r.OnCanceled(transcriber.Cancellation{
		Reason:       transcriber.CancellationReasonError,
		ErrorDetails: "network drop",
	})

	out := waitDone(t, s)
	if out.Transcript != "hello world" || !out.Canceled || out.Reason != "Error" || out.ErrorDetails != "network drop" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.ErrorCode != "" {
		t.Fatalf("expected no error code, got %q", out.ErrorCode)
	}
}

func TestSession_OnlyFirstTriggerWins(t *testing.T) {
	h := newTestHarness(200 * time.Millisecond)
	src := newMockSource([]byte("audio"))
	s, err := h.manager.Start(context.Background(), src, "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := h.stt.currentReceiver()
	r.OnRecognized("first")
	r.OnSessionStopped()
	r.OnCanceled(transcriber.Cancellation{Reason: transcriber.CancellationReasonError, ErrorDetails: "late"})
	r.OnRecognized("dropped")

	out := waitDone(t, s)
	// let the deadline pass as well
	time.Sleep(300 * time.Millisecond)

	if out.Resolution != ResolutionCompleted || out.Canceled || out.Transcript != "first" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if got := s.Outcome(); got.Transcript != "first" || got.Resolution != ResolutionCompleted {
		t.Fatalf("outcome changed after resolution: %+v", got)
	}
	if h.writer.stopCount() != 1 {
		t.Fatalf("expected one engine stop, got %d", h.writer.stopCount())
	}
	if src.releaseCount() != 1 {
		t.Fatalf("expected source released once, got %d", src.releaseCount())
	}
	waitUntil(t, time.Second, func() bool { return h.repo.savedCount() == 1 }, "expected one saved transcription")
	if h.webhook.sentCount() != 1 {
		t.Fatalf("expected one webhook, got %d", h.webhook.sentCount())
	}
}

func TestSession_ConcurrentTriggersResolveOnce(t *testing.T) {
	h := newTestHarness(time.Millisecond)
	src := newMockSource([]byte("audio"))
	s, err := h.manager.Start(context.Background(), src, "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := h.stt.currentReceiver()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.OnSessionStopped()
		}()
		go func() {
			defer wg.Done()
			r.OnCanceled(transcriber.Cancellation{Reason: transcriber.CancellationReasonError})
		}()
	}
	wg.Wait()
	waitDone(t, s)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := h.manager.Wait(ctx); err != nil {
		t.Fatalf("unexpected wait error: %v", err)
	}
	if h.writer.stopCount() != 1 || src.releaseCount() != 1 {
		t.Fatalf("expected single cleanup, stops=%d releases=%d", h.writer.stopCount(), src.releaseCount())
	}
	if h.repo.savedCount() != 1 || h.webhook.sentCount() != 1 {
		t.Fatalf("expected single finalization, saved=%d sent=%d", h.repo.savedCount(), h.webhook.sentCount())
	}
}

func TestSession_PumpsAllAudioAndClosesInputWithoutResolving(t *testing.T) {
	h := newTestHarness(time.Minute)
	payload := []byte("0123456789abcdef")
	s, err := h.manager.Start(context.Background(), newMockSource(payload), "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitUntil(t, time.Second, func() bool { return h.writer.closeInputCount() == 1 }, "expected input closed after source drained")
	if got := h.writer.writtenBytes(); !bytes.Equal(got, payload) {
		t.Fatalf("unexpected pushed bytes: %q", got)
	}
	select {
	case <-s.Done():
		t.Fatal("end of audio must not resolve the session")
	default:
	}
	h.stt.currentReceiver().OnSessionStopped()
	waitDone(t, s)
}

func TestSession_PushFailureResolvesAsCancellation(t *testing.T) {
	h := newTestHarness(time.Minute)
	h.writer.writeErr = errors.New("stream broken")
	src := newMockSource([]byte("audio"))

	s, err := h.manager.Start(context.Background(), src, "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := waitDone(t, s)
	if !out.Canceled || out.Reason != string(transcriber.CancellationReasonError) || out.ErrorDetails != "stream broken" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Transcript != "No speech recognized (canceled)." {
		t.Fatalf("unexpected transcript: %q", out.Transcript)
	}
	if src.releaseCount() != 1 {
		t.Fatalf("expected source released once, got %d", src.releaseCount())
	}
}

func TestSession_CleanupCancelsEngineContext(t *testing.T) {
	h := newTestHarness(time.Minute)
	s, err := h.manager.Start(context.Background(), newMockSource(nil), "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.stt.mu.Lock()
	engineCtx := h.stt.engineCtx
	h.stt.mu.Unlock()
	if engineCtx.Err() != nil {
		t.Fatal("engine context canceled before resolution")
	}
	h.stt.currentReceiver().OnSessionStopped()
	waitDone(t, s)
	if engineCtx.Err() == nil {
		t.Fatal("expected engine context canceled after resolution")
	}
}

func TestTranscribe_CallerGivingUpDoesNotCancelSession(t *testing.T) {
	h := newTestHarness(time.Minute)
	src := newMockSource([]byte("audio"))
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := h.manager.Transcribe(ctx, src, "en-US")
		errCh <- err
	}()
	waitUntil(t, time.Second, func() bool { return h.stt.currentReceiver() != nil }, "expected engine started")
	waitUntil(t, time.Second, func() bool { return h.manager.ActiveSessions() == 1 }, "expected one active session")
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Transcribe did not return after caller gave up")
	}
	if src.releaseCount() != 0 {
		t.Fatal("source released before the session resolved")
	}
	if h.manager.ActiveSessions() != 1 {
		t.Fatalf("expected session still active, got %d", h.manager.ActiveSessions())
	}

	h.stt.currentReceiver().OnSessionStopped()
	waitUntil(t, time.Second, func() bool { return src.releaseCount() == 1 }, "expected source released after resolution")
	waitUntil(t, time.Second, func() bool { return h.manager.ActiveSessions() == 0 }, "expected no active sessions")
}

func TestSession_ResolvedBeforeStartReturns(t *testing.T) {
	h := newTestHarness(time.Minute)
	h.stt.onStart = func(r transcriber.ResultReceiver) {
		r.OnCanceled(transcriber.Cancellation{Reason: transcriber.CancellationReasonError, ErrorCode: "Unauthenticated"})
	}
	src := newMockSource([]byte("audio"))

	s, err := h.manager.Start(context.Background(), src, "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := waitDone(t, s)
	if !out.Canceled || out.ErrorCode != "Unauthenticated" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if h.writer.stopCount() != 1 {
		t.Fatalf("expected late writer stopped once, got %d", h.writer.stopCount())
	}
	if src.releaseCount() != 1 {
		t.Fatalf("expected source released once, got %d", src.releaseCount())
	}
	if got := h.writer.writtenBytes(); len(got) != 0 {
		t.Fatalf("expected no audio pushed, got %q", got)
	}
}

func TestStart_EngineErrorAfterResolutionReturnsResolvedSession(t *testing.T) {
	h := newTestHarness(time.Minute)
	h.stt.onStart = func(r transcriber.ResultReceiver) {
		r.OnRecognized("hello")
		r.OnSessionStopped()
	}
	h.stt.startErr = errors.New("boom")
	src := newMockSource([]byte("audio"))

	s, err := h.manager.Start(context.Background(), src, "en-US")
	if err != nil {
		t.Fatalf("expected resolved session instead of error, got %v", err)
	}
	out := waitDone(t, s)
	if out.Resolution != ResolutionCompleted || out.Transcript != "hello" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if err := h.manager.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected wait error: %v", err)
	}
	if h.repo.savedCount() != 1 || h.webhook.sentCount() != 1 {
		t.Fatalf("expected one save and one webhook, got %d and %d", h.repo.savedCount(), h.webhook.sentCount())
	}
	if src.releaseCount() != 1 {
		t.Fatalf("expected source released once, got %d", src.releaseCount())
	}
}

func TestManager_WaitTimesOutWhileSessionStreaming(t *testing.T) {
	h := newTestHarness(time.Minute)
	s, err := h.manager.Start(context.Background(), newMockSource(nil), "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := h.manager.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	h.stt.currentReceiver().OnSessionStopped()
	waitDone(t, s)
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	if err := h.manager.Wait(ctx2); err != nil {
		t.Fatalf("unexpected wait error: %v", err)
	}
	if h.repo.savedCount() != 1 {
		t.Fatalf("expected history saved before Wait returned, got %d", h.repo.savedCount())
	}
}

func TestManager_WebhookFailureIsNotFatal(t *testing.T) {
	h := newTestHarness(time.Minute)
	h.webhook.err = errors.New("webhook down")
	s, err := h.manager.Start(context.Background(), newMockSource(nil), "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.stt.currentReceiver().OnRecognized("kept")
	h.stt.currentReceiver().OnSessionStopped()
	if out := waitDone(t, s); out.Transcript != "kept" {
		t.Fatalf("unexpected transcript: %q", out.Transcript)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := h.manager.Wait(ctx); err != nil {
		t.Fatalf("unexpected wait error: %v", err)
	}
	h.repo.mu.Lock()
	defer h.repo.mu.Unlock()
	if len(h.repo.saved) != 1 || h.repo.saved[0].Segments[0] != "kept" || h.repo.saved[0].Resolution != "completed" {
		t.Fatalf("unexpected saved history: %+v", h.repo.saved)
	}
}

func TestSession_SourceReadFailureResolvesAsCancellation(t *testing.T) {
	h := newTestHarness(time.Minute)
	src := newMockSource([]byte("audio"))
	src.readErr = errors.New("disk gone")

	s, err := h.manager.Start(context.Background(), src, "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := waitDone(t, s)
	if !out.Canceled || out.ErrorDetails != "read audio: disk gone" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}
