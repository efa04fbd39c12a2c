package translator

import "context"

type Translator interface {
	// Translate converts text into the to language. An empty from lets the
	// service detect the source language.
	Translate(ctx context.Context, text, to, from string) (string, error)
}
