package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foxseedlab/speechrelay/internal/audio"
	"github.com/foxseedlab/speechrelay/internal/session"
	"github.com/foxseedlab/speechrelay/internal/summarizer"
	"github.com/foxseedlab/speechrelay/internal/synthesizer"
	"github.com/foxseedlab/speechrelay/internal/translator"
)

type Step string

const (
	StepSummarize Step = "summarize"
	StepTranslate Step = "translate"
	StepSpeak     Step = "speak"
)

// StepError reports which step after transcription failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("pipeline step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type Request struct {
	Language  string
	To        string
	Voice     string
	Summarize bool
	Speak     bool
}

type Result struct {
	Transcription  session.Outcome
	Summary        string
	TranslatedText string
	Audio          []byte
}

type Transcriber interface {
	Transcribe(ctx context.Context, source audio.Source, language string) (session.Outcome, error)
}

type Pipeline struct {
	transcriber   Transcriber
	summarizer    summarizer.Summarizer
	translator    translator.Translator
	synthesizer   synthesizer.Synthesizer
	voices        synthesizer.VoiceCatalog
	defaultTarget string
}

func New(t Transcriber, sum summarizer.Summarizer, tr translator.Translator, syn synthesizer.Synthesizer, voices synthesizer.VoiceCatalog, defaultTarget string) *Pipeline {
	return &Pipeline{
		transcriber:   t,
		summarizer:    sum,
		translator:    tr,
		synthesizer:   syn,
		voices:        voices,
		defaultTarget: defaultTarget,
	}
}

// Run chains transcribe, summarize, translate and speak. Transcription errors
// are returned unchanged; later failures are wrapped in *StepError.
func (p *Pipeline) Run(ctx context.Context, source audio.Source, req Request) (Result, error) {
	to := req.To
	if to == "" {
		to = p.defaultTarget
	}

	outcome, err := p.transcriber.Transcribe(ctx, source, req.Language)
	if err != nil {
		return Result{}, err
	}
	res := Result{Transcription: outcome}
	slog.Info("pipeline transcription finished", "session_id", outcome.SessionID, "resolution", outcome.Resolution)

	text := outcome.Transcript
	if req.Summarize {
		summary, err := p.summarizer.Summarize(ctx, text, languagePrefix(outcome.Language))
		if err != nil {
			return res, &StepError{Step: StepSummarize, Err: err}
		}
		res.Summary = summary
		text = summary
	}

	translated, err := p.translator.Translate(ctx, text, to, "")
	if err != nil {
		return res, &StepError{Step: StepTranslate, Err: err}
	}
	res.TranslatedText = translated

	if req.Speak {
		voice := p.voices.Select(to, req.Voice)
		speech, err := p.synthesizer.Synthesize(ctx, translated, voice)
		if err != nil {
			return res, &StepError{Step: StepSpeak, Err: err}
		}
		res.Audio = speech
	}
	return res, nil
}

// languagePrefix turns "en-US" into "en".
func languagePrefix(tag string) string {
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		return strings.ToLower(tag[:i])
	}
	return strings.ToLower(tag)
}
