package summarizer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/speechrelay/internal/config"
	"github.com/foxseedlab/speechrelay/internal/metrics"
	"github.com/foxseedlab/speechrelay/internal/summarizer"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (summarizer.Summarizer, error) {
		c := do.MustInvoke[*config.Config](i)
		s, err := newSummarizer(c)
		if err != nil {
			return nil, err
		}
		slog.Info("summarizer configured", "provider", c.SummarizerProvider)
		return &instrumented{next: s, provider: c.SummarizerProvider}, nil
	})
}

func newSummarizer(c *config.Config) (summarizer.Summarizer, error) {
	switch c.SummarizerProvider {
	case config.SummarizerProviderGemini:
		return NewGeminiSummarizer(context.Background(), GeminiConfig{
			APIKey:  c.GeminiAPIKey,
			Model:   c.GeminiModel,
			BaseURL: c.GeminiBaseURL,
		})
	case config.SummarizerProviderOpenAI:
		return NewOpenAISummarizer(OpenAIConfig{
			APIKey:  c.OpenAIAPIKey,
			BaseURL: c.OpenAIEndpoint,
			Model:   c.OpenAIModel,
		})
	case config.SummarizerProviderAzureOpenAI:
		return NewOpenAISummarizer(OpenAIConfig{
			APIKey:     c.OpenAIAPIKey,
			BaseURL:    c.OpenAIEndpoint,
			Model:      c.OpenAIModel,
			Azure:      true,
			APIVersion: c.OpenAIAPIVersion,
			Deployment: c.OpenAIDeployment,
		})
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", c.SummarizerProvider)
	}
}

// instrumented records vendor metrics and logs around any provider.
type instrumented struct {
	next     summarizer.Summarizer
	provider string
}

func (s *instrumented) Summarize(ctx context.Context, text, lang string) (string, error) {
	summary, err := s.next.Summarize(ctx, text, lang)
	metrics.VendorRequest("summarizer", err)
	if err != nil {
		slog.Error("summarization failed", "error", err, "provider", s.provider, "lang", lang)
		return "", err
	}
	slog.Info("summarized text", "provider", s.provider, "lang", lang, "input_chars", len(text), "summary_chars", len(summary))
	return summary, nil
}
