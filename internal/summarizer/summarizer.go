package summarizer

import (
	"context"
	"fmt"
)

const (
	Temperature = 0.7
	MaxTokens   = 500
)

type Summarizer interface {
	Summarize(ctx context.Context, text, lang string) (string, error)
}

func SystemPrompt(lang string) string {
	return fmt.Sprintf("You are a summarizer bot. Summarize the given text in the same language it is written (language: %s).", lang)
}

func UserPrompt(text string) string {
	return "Summarize this:\n" + text
}
