package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foxseedlab/speechrelay/internal/summarizer"
	"google.golang.org/genai"
)

type GeminiSummarizer struct {
	client *genai.Client
	model  string
}

type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API endpoint when set.
	BaseURL string
}

func NewGeminiSummarizer(ctx context.Context, cfg GeminiConfig) (*GeminiSummarizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing Gemini API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiSummarizer{client: client, model: cfg.Model}, nil
}

func (g *GeminiSummarizer) Summarize(ctx context.Context, text, lang string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(summarizer.SystemPrompt(lang), genai.RoleUser),
		Temperature:       genai.Ptr[float32](summarizer.Temperature),
		MaxOutputTokens:   summarizer.MaxTokens,
	}
	contents := []*genai.Content{genai.NewContentFromText(summarizer.UserPrompt(text), genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", errors.New("gemini returned empty summary")
	}
	return strings.TrimSpace(b.String()), nil
}
