package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/foxseedlab/speechrelay/internal/audio"
	"github.com/foxseedlab/speechrelay/internal/pipeline"
	"github.com/foxseedlab/speechrelay/internal/repository"
	"github.com/foxseedlab/speechrelay/internal/session"
	"github.com/foxseedlab/speechrelay/internal/summarizer"
	"github.com/foxseedlab/speechrelay/internal/synthesizer"
	"github.com/foxseedlab/speechrelay/internal/translator"
	"github.com/labstack/echo/v4"
)

const (
	defaultSpeakLanguage = "en"
	defaultSummaryLang   = "en"
	uploadPattern        = "upload-*"
	sessionIDHeader      = "X-Session-ID"
)

type PipelineRunner interface {
	Run(ctx context.Context, source audio.Source, req pipeline.Request) (pipeline.Result, error)
}

type Deps struct {
	Transcriber            pipeline.Transcriber
	Summarizer             summarizer.Summarizer
	Translator             translator.Translator
	Synthesizer            synthesizer.Synthesizer
	Voices                 synthesizer.VoiceCatalog
	Pipeline               PipelineRunner
	History                repository.Repository
	UploadDir              string
	DefaultTranslateTarget string
}

type Handler struct {
	deps Deps
}

func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps}
}

func (h *Handler) Transcribe(c echo.Context) error {
	src, ok, err := h.saveUpload(c)
	if err != nil {
		return respondUploadError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Audio file not provided"})
	}

	ctx := c.Request().Context()
	outcome, err := h.deps.Transcriber.Transcribe(ctx, src, c.QueryParam("lang"))
	if err != nil {
		return respondTranscriptionError(c, err)
	}
	c.Response().Header().Set(sessionIDHeader, outcome.SessionID)
	return c.JSON(http.StatusOK, outcome)
}

func (h *Handler) Speak(c echo.Context) error {
	var req SpeakRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing 'text' in request body"})
	}
	language := req.Language
	if language == "" {
		language = defaultSpeakLanguage
	}
	voiceType := req.Voice
	if voiceType == "" {
		voiceType = synthesizer.VoiceFemale
	}
	voice := h.deps.Voices.Select(language, voiceType)

	speech, err := h.deps.Synthesizer.Synthesize(c.Request().Context(), req.Text, voice)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Text-to-speech failed", Details: err.Error()})
	}
	return c.Blob(http.StatusOK, synthesizer.AudioContentType, speech)
}

func (h *Handler) Summarize(c echo.Context) error {
	var req SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing 'text'"})
	}
	lang := req.Lang
	if lang == "" {
		lang = defaultSummaryLang
	}
	summary, err := h.deps.Summarizer.Summarize(c.Request().Context(), req.Text, lang)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Summarization failed", Details: err.Error()})
	}
	return c.JSON(http.StatusOK, SummarizeResponse{Summary: summary})
}

func (h *Handler) Translate(c echo.Context) error {
	var req TranslateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing 'text' in request body"})
	}
	to := req.To
	if to == "" {
		to = h.deps.DefaultTranslateTarget
	}
	translated, err := h.deps.Translator.Translate(c.Request().Context(), req.Text, to, req.From)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to translate text"})
	}
	return c.JSON(http.StatusOK, TranslateResponse{TranslatedText: translated})
}

func (h *Handler) Pipeline(c echo.Context) error {
	summarize, err := formBool(c, "summarize", true)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid 'summarize' value"})
	}
	speak, err := formBool(c, "speak", true)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid 'speak' value"})
	}
	src, ok, err := h.saveUpload(c)
	if err != nil {
		return respondUploadError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Audio file not provided"})
	}

	res, err := h.deps.Pipeline.Run(c.Request().Context(), src, pipeline.Request{
		Language:  c.FormValue("lang"),
		To:        c.FormValue("to"),
		Voice:     c.FormValue("voice"),
		Summarize: summarize,
		Speak:     speak,
	})
	if err != nil {
		var stepErr *pipeline.StepError
		if errors.As(err, &stepErr) {
			slog.Error("pipeline step failed", "error", stepErr.Err, "step", stepErr.Step, "session_id", res.Transcription.SessionID)
			return c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   "Pipeline step failed",
				Details: stepErr.Err.Error(),
				Step:    string(stepErr.Step),
			})
		}
		return respondTranscriptionError(c, err)
	}

	c.Response().Header().Set(sessionIDHeader, res.Transcription.SessionID)
	resp := PipelineResponse{
		Transcription:  res.Transcription,
		Summary:        res.Summary,
		TranslatedText: res.TranslatedText,
	}
	if len(res.Audio) > 0 {
		resp.Audio = base64.StdEncoding.EncodeToString(res.Audio)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetTranscription(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	t, err := h.deps.History.GetTranscription(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transcription not found"})
		}
		slog.Error("failed to load transcription", "error", err, "session_id", id)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load transcription"})
	}
	segments, err := h.deps.History.ListSegmentsBySessionID(ctx, id)
	if err != nil {
		slog.Error("failed to load transcript segments", "error", err, "session_id", id)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load transcription"})
	}
	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		texts = append(texts, seg.Content)
	}
	return c.JSON(http.StatusOK, TranscriptionRecordResponse{
		SessionID:    t.SessionID,
		Language:     t.Language,
		Resolution:   t.Resolution,
		Transcript:   t.Transcript,
		Canceled:     t.Canceled,
		Reason:       t.Reason,
		ErrorCode:    t.ErrorCode,
		ErrorDetails: t.ErrorDetails,
		StartedAt:    t.StartedAt,
		EndedAt:      t.EndedAt,
		Segments:     texts,
	})
}

var errInvalidUpload = errors.New("invalid multipart upload")

// saveUpload copies the "audio" form file into the upload dir. ok is false when
// the request carries no such file.
func (h *Handler) saveUpload(c echo.Context) (src *audio.FileSource, ok bool, err error) {
	fh, err := c.FormFile("audio")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", errInvalidUpload, err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, false, err
	}
	defer func() {
		_ = f.Close()
	}()
	src, err = audio.CreateFileSource(h.deps.UploadDir, uploadPattern, f)
	if err != nil {
		return nil, false, err
	}
	slog.Debug("stored uploaded audio", "filename", fh.Filename, "size", fh.Size, "path", src.Path())
	return src, true, nil
}

func respondUploadError(c echo.Context, err error) error {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, echo.ErrStatusRequestEntityTooLarge), errors.As(err, &maxBytes):
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Upload too large"})
	case errors.Is(err, errInvalidUpload):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid multipart body", Details: err.Error()})
	default:
		slog.Error("failed to store uploaded audio", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to transcribe audio"})
	}
}

func respondTranscriptionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		slog.Info("client went away before transcription finished")
		return nil
	case errors.Is(err, session.ErrAudioTooLong):
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Audio too long", Details: err.Error()})
	case errors.Is(err, session.ErrUnsupportedAudio):
		return c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{Error: "Unsupported audio format", Details: err.Error()})
	case errors.Is(err, session.ErrEngineStartFailure):
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start recognition", Details: err.Error()})
	default:
		slog.Error("transcription failed", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to transcribe audio"})
	}
}

func formBool(c echo.Context, name string, def bool) (bool, error) {
	v := strings.TrimSpace(c.FormValue(name))
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}
