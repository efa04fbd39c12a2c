//go:build opus

package audio

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/foxseedlab/speechrelay/internal/audio"
	"github.com/hraban/opus"
)

const (
	opusSampleRate      = 48000
	maxOpusFrameSamples = 5760
	maxOpusChannels     = 2
)

type OggOpusProber struct{}

func NewOggOpusProber() audio.Prober {
	return &OggOpusProber{}
}

// Duration decodes the whole stream; Ogg pages carry no reliable total length up front.
func (p *OggOpusProber) Duration(src audio.Source) (time.Duration, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind ogg source: %w", err)
	}
	stream, err := opus.NewStream(src)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", audio.ErrUnsupportedFormat, err)
	}
	defer func() {
		_ = stream.Close()
	}()

	pcm := make([]int16, maxOpusFrameSamples*maxOpusChannels)
	var samples int64
	for {
		n, err := stream.Read(pcm)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("decode ogg opus: %w", err)
		}
		samples += int64(n)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind ogg source: %w", err)
	}
	return time.Duration(samples) * time.Second / opusSampleRate, nil
}
