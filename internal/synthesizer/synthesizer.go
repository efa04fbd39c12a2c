package synthesizer

import "context"

const AudioContentType = "audio/mpeg"

type Synthesizer interface {
	// Synthesize renders text with the named vendor voice and returns MP3 bytes.
	Synthesize(ctx context.Context, text, voiceName string) ([]byte, error)
}
